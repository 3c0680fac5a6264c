package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"

	"komunitas-be/internal/domain"
	"komunitas-be/internal/repository"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
	"komunitas-be/pkg/redis"
)

// ActivityService orchestrates the read path: fetch wire records, convert to
// display projections, derive filtered/paged views. Every fetch cycle
// produces a fresh collection; nothing is mutated in place.
type ActivityService struct {
	api     repository.ActivityAPI
	lookups *LookupService
	redis   *redis.Client
	log     *logger.Logger
}

// NewActivityService creates an activity service.
func NewActivityService(api repository.ActivityAPI, lookups *LookupService, redisClient *redis.Client, log *logger.Logger) *ActivityService {
	return &ActivityService{api: api, lookups: lookups, redis: redisClient, log: log}
}

// ListDisplay returns the full converted collection, newest date first. The
// converted collection is cached briefly; the cache holds the display
// projection, never a separately cached status category.
func (s *ActivityService) ListDisplay(ctx context.Context) ([]domain.DisplayActivity, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyKegiatanAll())
		if err == nil && cached != "" {
			var collection []domain.DisplayActivity
			if jsonErr := json.Unmarshal([]byte(cached), &collection); jsonErr == nil {
				return collection, nil
			}
			s.log.Warn("Kegiatan cache corrupted, falling back to upstream")
		}
	}

	records, err := s.api.ListActivities(ctx)
	if err != nil {
		return nil, err
	}

	statuses, err := s.lookups.StatusTable(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.lookups.TypeRows(ctx)
	if err != nil {
		return nil, err
	}

	collection := make([]domain.DisplayActivity, 0, len(records))
	for _, rec := range records {
		collection = append(collection, domain.ToDisplay(rec, statuses, types))
	}

	// Newest first; the view pipeline itself never sorts.
	sort.SliceStable(collection, func(i, j int) bool {
		return collection[i].Date > collection[j].Date
	})

	if s.redis != nil {
		if encoded, jsonErr := json.Marshal(collection); jsonErr == nil {
			_ = s.redis.Set(ctx, s.redis.KeyBuilder.KeyKegiatanAll(), encoded, redis.TTLKegiatan)
		}
	}

	return collection, nil
}

// ViewPage derives one page of the collection for the given query. The page
// number is clamped into range first, so a filter change that shrinks the
// match set cannot leave the caller on a silently empty page.
func (s *ActivityService) ViewPage(ctx context.Context, q domain.ViewQuery) (domain.ViewResult, error) {
	collection, err := s.ListDisplay(ctx)
	if err != nil {
		return domain.ViewResult{}, err
	}

	probe := domain.View(collection, q)
	q.Page = domain.ClampPage(q.Page, probe.TotalPages)
	return domain.View(collection, q), nil
}

// GetDisplay fetches one activity by id fresh from the upstream API and
// converts it. Stale projections held by an open detail view are refreshed
// through this path, not patched in place.
func (s *ActivityService) GetDisplay(ctx context.Context, id int) (*domain.DisplayActivity, error) {
	rec, err := s.api.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	statuses, err := s.lookups.StatusTable(ctx)
	if err != nil {
		return nil, err
	}
	types, err := s.lookups.TypeRows(ctx)
	if err != nil {
		return nil, err
	}

	display := domain.ToDisplay(*rec, statuses, types)
	return &display, nil
}

// GetRecord fetches the raw wire record; the editor needs photo ids that the
// display projection flattens away.
func (s *ActivityService) GetRecord(ctx context.Context, id int) (*domain.ActivityRecord, error) {
	return s.api.GetActivity(ctx, id)
}

// Delete removes an activity upstream and invalidates the cached collection.
// The confirmation gate lives in the handler; by the time this runs the user
// has already confirmed.
func (s *ActivityService) Delete(ctx context.Context, id int) error {
	if err := s.api.DeleteActivity(ctx, id); err != nil {
		return err
	}
	s.InvalidateCollection(ctx)
	return nil
}

// InvalidateCollection drops the cached converted collection so the next
// list fetch rebuilds it from the upstream API.
func (s *ActivityService) InvalidateCollection(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Delete(ctx, s.redis.KeyBuilder.KeyKegiatanAll()); err != nil {
		s.log.WithError(err).Warn("Failed to invalidate kegiatan cache")
	}
}

// ParseActivityID parses a path id, rejecting non-numeric input before it
// reaches the upstream API.
func ParseActivityID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, errors.NewValidationError("id kegiatan tidak valid", map[string]interface{}{
			"id": raw,
		})
	}
	return id, nil
}
