package main

import (
	"context"
	"log"

	"github.com/littledragon/assistant/internal/assistant/app"
)

func main() {
	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
