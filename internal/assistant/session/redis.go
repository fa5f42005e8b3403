package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/littledragon/assistant/internal/assistant/domain"
)

const redisKeyPrefix = "chat:session:"

// RedisStore keeps sessions in Redis so history survives restarts and can be
// shared between instances. Each session is one JSON value with a sliding
// TTL that refreshes on every append.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type redisSession struct {
	UserID   string           `json:"user_id"`
	Messages []domain.Message `json:"messages"`
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, addr, password string, db int, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session: redis ping: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Create(ctx context.Context, userID string) (string, error) {
	id := NewSessionID()
	if err := s.save(ctx, id, &redisSession{UserID: userID}); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) CreateWithID(ctx context.Context, userID, sessionID string) error {
	data, err := json.Marshal(&redisSession{UserID: userID})
	if err != nil {
		return err
	}
	// SetNX keeps an existing session (and its owner) intact.
	if err := s.client.SetNX(ctx, redisKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis setnx: %w", err)
	}
	return nil
}

func (s *RedisStore) Owner(ctx context.Context, sessionID string) (string, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return "", err
	}
	return sess.UserID, nil
}

func (s *RedisStore) Messages(ctx context.Context, sessionID string) ([]domain.Message, error) {
	sess, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Messages, nil
}

// Append loads, extends and rewrites the session under an optimistic WATCH
// transaction so two concurrent appends cannot drop each other's messages.
func (s *RedisStore) Append(ctx context.Context, sessionID string, msgs ...domain.Message) error {
	key := redisKeyPrefix + sessionID

	err := s.client.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("session: redis get: %w", err)
		}

		var sess redisSession
		if err := json.Unmarshal(raw, &sess); err != nil {
			return fmt.Errorf("session: decode %s: %w", sessionID, err)
		}
		sess.Messages = append(sess.Messages, msgs...)

		data, err := json.Marshal(&sess)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttl)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		// Lost the race, retry once on the fresh value.
		return s.Append(ctx, sessionID, msgs...)
	}
	return err
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) load(ctx context.Context, sessionID string) (*redisSession, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var sess redisSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", sessionID, err)
	}
	return &sess, nil
}

func (s *RedisStore) save(ctx context.Context, sessionID string, sess *redisSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, redisKeyPrefix+sessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}
