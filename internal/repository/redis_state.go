package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"LRRBrain/internal/domain/models"
	domrepo "LRRBrain/internal/domain/repository"
	"LRRBrain/pkg/cache"
)

// RedisStateStore persists the daily risk state in Redis so a restart inside
// a trading day resumes with the same entry budget and halt flag.
type RedisStateStore struct {
	cache cache.Service
	ttl   time.Duration
}

// StateStoreOption configures the store.
type StateStoreOption func(*RedisStateStore)

func WithStateTTL(ttl time.Duration) StateStoreOption {
	return func(s *RedisStateStore) { s.ttl = ttl }
}

// NewRedisStateStore creates the state store. Snapshots expire after two
// days; stale state from an earlier date is also ignored on restore.
func NewRedisStateStore(c cache.Service, opts ...StateStoreOption) domrepo.StateStore {
	s := &RedisStateStore{
		cache: c,
		ttl:   48 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func dayKey(date string) string {
	return cache.GenerateKey("day_state", date)
}

// LoadDay returns the persisted snapshot for the date, nil when none exists.
func (s *RedisStateStore) LoadDay(ctx context.Context, date string) (*models.DaySnapshot, error) {
	var snap models.DaySnapshot
	err := s.cache.Get(ctx, dayKey(date), &snap)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load day state: %w", err)
	}
	return &snap, nil
}

func (s *RedisStateStore) SaveDay(ctx context.Context, snap *models.DaySnapshot) error {
	if err := s.cache.Set(ctx, dayKey(snap.Date), snap, s.ttl); err != nil {
		return fmt.Errorf("save day state: %w", err)
	}
	return nil
}

func (s *RedisStateStore) Close() error { return nil }
