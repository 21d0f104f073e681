package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"relancer/internal/models"

	"github.com/redis/go-redis/v9"
)

const defaultSequenceKey = "relancer:sequence:default"

// CacheService caches the default reminder sequence, which is read once
// per dispatched reminder. A cache miss or Redis outage is never fatal;
// callers fall back to the database.
type CacheService interface {
	GetDefaultSequence(ctx context.Context) (*models.ReminderSequence, error)
	SetDefaultSequence(ctx context.Context, sequence *models.ReminderSequence, ttl time.Duration) error
	InvalidateDefaultSequence(ctx context.Context) error
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", err, addr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) GetDefaultSequence(ctx context.Context) (*models.ReminderSequence, error) {
	data, err := r.client.Get(ctx, defaultSequenceKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached sequence: %w", err)
	}

	sequence := &models.ReminderSequence{}
	if err := json.Unmarshal(data, sequence); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached sequence: %w", err)
	}
	return sequence, nil
}

func (r *redisCacheService) SetDefaultSequence(ctx context.Context, sequence *models.ReminderSequence, ttl time.Duration) error {
	data, err := json.Marshal(sequence)
	if err != nil {
		return fmt.Errorf("failed to marshal sequence: %w", err)
	}
	return r.client.Set(ctx, defaultSequenceKey, data, ttl).Err()
}

func (r *redisCacheService) InvalidateDefaultSequence(ctx context.Context) error {
	return r.client.Del(ctx, defaultSequenceKey).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
