package service

import (
	"context"
	"encoding/json"

	"komunitas-be/internal/domain"
	"komunitas-be/internal/repository"
	"komunitas-be/pkg/logger"
	"komunitas-be/pkg/redis"
)

// LookupService serves the two admin-managed reference lists (activity status
// and activity type) with a cache-aside layer in front of the upstream API.
// The redis client may be nil; the service then always goes upstream.
type LookupService struct {
	api   repository.ActivityAPI
	redis *redis.Client
	log   *logger.Logger
}

// NewLookupService creates a lookup service.
func NewLookupService(api repository.ActivityAPI, redisClient *redis.Client, log *logger.Logger) *LookupService {
	return &LookupService{api: api, redis: redisClient, log: log}
}

// StatusTable returns the status lookup classified into coarse categories.
// The table is rebuilt from the rows on every call so a renamed or reordered
// lookup row takes effect as soon as the cache expires.
func (s *LookupService) StatusTable(ctx context.Context) (*domain.StatusTable, error) {
	rows, err := s.rows(ctx, redis.KeyLookupStatus, s.api.ListStatuses)
	if err != nil {
		return nil, err
	}
	return domain.BuildStatusTable(rows), nil
}

// TypeRows returns the activity-type lookup rows.
func (s *LookupService) TypeRows(ctx context.Context) ([]domain.LookupRow, error) {
	return s.rows(ctx, redis.KeyLookupJenis, s.api.ListTypes)
}

// Invalidate drops both cached lookup lists.
func (s *LookupService) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	err := s.redis.Delete(ctx,
		s.redis.KeyBuilder.KeyLookupStatus(),
		s.redis.KeyBuilder.KeyLookupJenis())
	if err != nil {
		s.log.WithError(err).Warn("Failed to invalidate lookup cache")
	}
}

func (s *LookupService) rows(ctx context.Context, key string, fetch func(context.Context) ([]domain.LookupRow, error)) ([]domain.LookupRow, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.BuildKey(key))
		switch {
		case err == nil && cached != "":
			var rows []domain.LookupRow
			if jsonErr := json.Unmarshal([]byte(cached), &rows); jsonErr == nil {
				return rows, nil
			}
			s.log.WithField("key", key).Warn("Lookup cache corrupted, falling back to upstream")
		case err != nil && !redis.IsNil(err):
			// A miss is normal; anything else means the cache is unhealthy.
			s.log.WithError(err).WithField("key", key).Warn("Lookup cache read failed")
		}
	}

	rows, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		if encoded, jsonErr := json.Marshal(rows); jsonErr == nil {
			_ = s.redis.Set(ctx, s.redis.KeyBuilder.BuildKey(key), encoded, redis.TTLLookup)
		}
	}

	return rows, nil
}
