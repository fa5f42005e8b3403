package memory

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/qdrant/go-client/qdrant"

	"github.com/littledragon/assistant/internal/assistant/domain"
)

// DefaultRecallLimit bounds how many past turns a search returns.
const DefaultRecallLimit = 10

// Recall stores conversation turns as vectors and retrieves the most similar
// ones for a query, scoped to a single user.
type Recall struct {
	client     *qdrant.Client
	embedder   Embedder
	collection string
}

// Config connects the recall store to a Qdrant instance.
type Config struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// NewRecall connects to Qdrant and ensures the collection exists.
func NewRecall(ctx context.Context, cfg Config, embedder Embedder) (*Recall, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("memory: qdrant connect: %w", err)
	}

	r := &Recall{client: client, embedder: embedder, collection: cfg.Collection}
	if err := r.ensureCollection(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return r, nil
}

func (r *Recall) ensureCollection(ctx context.Context) error {
	exists, err := r.client.CollectionExists(ctx, r.collection)
	if err != nil {
		return fmt.Errorf("memory: check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = r.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: r.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     EmbeddingDimensions,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("memory: create collection %s: %w", r.collection, err)
	}
	return nil
}

// Remember embeds a message and stores it under the user's scope.
func (r *Recall) Remember(ctx context.Context, userID string, msg domain.Message) error {
	vec, err := r.embedder.Embed(ctx, msg.Content)
	if err != nil {
		return err
	}

	_, err = r.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: r.collection,
		Points: []*qdrant.PointStruct{{
			Id:      qdrant.NewIDNum(rand.Uint64()),
			Vectors: qdrant.NewVectors(vec...),
			Payload: qdrant.NewValueMap(map[string]any{
				"user_id":    userID,
				"role":       string(msg.Role),
				"content":    msg.Content,
				"created_at": time.Now().UTC().Format(time.RFC3339),
			}),
		}},
	})
	if err != nil {
		return fmt.Errorf("memory: upsert: %w", err)
	}
	return nil
}

// Search returns up to limit past messages most similar to the query,
// restricted to the user's own history.
func (r *Recall) Search(ctx context.Context, userID, query string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = DefaultRecallLimit
	}

	vec, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	points, err := r.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: r.collection,
		Query:          qdrant.NewQuery(vec...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		Filter: &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("user_id", userID),
			},
		},
		WithPayload: qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("memory: query: %w", err)
	}

	out := make([]domain.Message, 0, len(points))
	for _, p := range points {
		payload := p.GetPayload()
		content := payload["content"].GetStringValue()
		if content == "" {
			continue
		}
		role := domain.Role(payload["role"].GetStringValue())
		if role == "" {
			role = domain.RoleUser
		}
		out = append(out, domain.Message{Role: role, Content: content})
	}
	return out, nil
}

func (r *Recall) Close() error {
	return r.client.Close()
}
