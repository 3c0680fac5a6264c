package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"komunitas-be/internal/domain"
	"komunitas-be/internal/repository"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
	"komunitas-be/pkg/redis"
)

// SubmitResult reports the outcome of a completed submission.
type SubmitResult struct {
	ActivityID     int      `json:"activity_id"`
	Created        bool     `json:"created"`
	UploadedPhotos int      `json:"uploaded_photos"`
	Warnings       []string `json:"warnings,omitempty"`
}

// EditorService owns the open editor drafts. Access is serialized through one
// mutex: the editor models a single admin's modal, not a contended resource.
// Drafts are mirrored to redis (when configured) so an in-progress draft,
// including a partially completed submission, survives a process restart.
type EditorService struct {
	mu     sync.Mutex
	drafts map[string]*Draft

	api        repository.ActivityAPI
	lookups    *LookupService
	activities *ActivityService
	redis      *redis.Client
	log        *logger.Logger

	now   func() time.Time
	newID func() string
}

// NewEditorService creates an editor service.
func NewEditorService(api repository.ActivityAPI, lookups *LookupService, activities *ActivityService, redisClient *redis.Client, log *logger.Logger) *EditorService {
	return &EditorService{
		drafts:     make(map[string]*Draft),
		api:        api,
		lookups:    lookups,
		activities: activities,
		redis:      redisClient,
		log:        log,
		now:        time.Now,
		newID:      uuid.NewString,
	}
}

// OpenCreate opens an empty create draft. Lookup fetches are best-effort
// here: if they have not resolved yet the selections start empty and are
// filled in by the first GetDraft after the lookups become available.
func (s *EditorService) OpenCreate(ctx context.Context) (*Draft, error) {
	statuses, err := s.lookups.StatusTable(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Opening create draft before status lookup resolved")
		statuses = domain.BuildStatusTable(nil)
	}
	types, err := s.lookups.TypeRows(ctx)
	if err != nil {
		s.log.WithError(err).Warn("Opening create draft before type lookup resolved")
		types = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := NewCreateDraft(s.newID(), s.now(), statuses, types)
	s.drafts[draft.ID] = draft
	s.saveDraft(ctx, draft)
	return draft, nil
}

// OpenExisting opens an edit or view draft over an activity, fetching the
// record fresh so a stale list projection never seeds the form.
func (s *EditorService) OpenExisting(ctx context.Context, activityID int, mode EditorMode) (*Draft, error) {
	if mode != ModeEdit && mode != ModeView {
		return nil, errors.NewValidationError("mode editor tidak dikenal", map[string]interface{}{
			"mode": string(mode),
		})
	}

	rec, err := s.api.GetActivity(ctx, activityID)
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

	s.mu.Lock()
	defer s.mu.Unlock()

	draft := NewEditDraft(s.newID(), mode, display, rec, s.now())
	s.drafts[draft.ID] = draft
	s.saveDraft(ctx, draft)
	return draft, nil
}

// GetDraft returns a draft by id. Create drafts opened before the lookups
// resolved get their default selections re-applied here once the lookups are
// available.
func (s *EditorService) GetDraft(ctx context.Context, draftID string) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.getLocked(ctx, draftID)
	if err != nil {
		return nil, err
	}

	if draft.Mode == ModeCreate && (draft.StatusCategory == "" || draft.RawJenisID == 0) {
		statuses, sErr := s.lookups.StatusTable(ctx)
		types, tErr := s.lookups.TypeRows(ctx)
		if sErr == nil && tErr == nil {
			draft.ApplyLookupDefaults(statuses, types)
			s.saveDraft(ctx, draft)
		}
	}

	return draft, nil
}

// UpdateFields applies form-field changes to a draft.
func (s *EditorService) UpdateFields(ctx context.Context, draftID string, apply func(*Draft) error) (*Draft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.getLocked(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if !draft.Editable() {
		return nil, errors.NewValidationError("draf tidak dapat diubah", nil)
	}
	if err := apply(draft); err != nil {
		return nil, err
	}
	s.saveDraft(ctx, draft)
	return draft, nil
}

// StagePhoto appends a selected file to the draft's preview.
func (s *EditorService) StagePhoto(ctx context.Context, draftID, fileName string, content []byte) (*Draft, error) {
	return s.UpdateFields(ctx, draftID, func(d *Draft) error {
		return d.StagePhoto(fileName, content)
	})
}

// RemovePhoto removes one preview entry by combined index.
func (s *EditorService) RemovePhoto(ctx context.Context, draftID string, index int) (*Draft, error) {
	return s.UpdateFields(ctx, draftID, func(d *Draft) error {
		return d.RemovePhoto(index)
	})
}

// SetLocation records the picked map coordinate.
func (s *EditorService) SetLocation(ctx context.Context, draftID string, lat, lng float64) (*Draft, error) {
	return s.UpdateFields(ctx, draftID, func(d *Draft) error {
		return d.SetLocation(lat, lng)
	})
}

// Submit runs the submission saga: validate, write the main record, then
// upload staged files one at a time. The coordinate precondition is checked
// before any network call. On a mid-saga failure the completed steps stay
// recorded on the draft and the already-written record is not rolled back; a
// later Submit on the same draft resumes from the first incomplete step.
func (s *EditorService) Submit(ctx context.Context, draftID string) (*SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	draft, err := s.getLocked(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	statuses, err := s.lookups.StatusTable(ctx)
	if err != nil {
		// Status resolution falls back to the raw id the draft carries.
		s.log.WithError(err).Warn("Submitting without a fresh status lookup")
		statuses = domain.BuildStatusTable(nil)
	}

	created := draft.ActivityID == 0
	draft.planSteps()

	result := &SubmitResult{Created: created}

	if !draft.Steps[0].Done {
		payload := draft.BuildPayload(statuses)
		var rec *domain.ActivityRecord
		if created {
			rec, err = s.api.CreateActivity(ctx, payload)
		} else {
			rec, err = s.api.UpdateActivity(ctx, draft.ActivityID, payload)
		}
		if err != nil {
			s.saveDraft(ctx, draft)
			return nil, err
		}
		draft.ActivityID = rec.ID
		draft.Steps[0].Done = true
		s.saveDraft(ctx, draft)
	}
	result.ActivityID = draft.ActivityID

	// Serial uploads: one photo at a time, aborting on the first failure.
	// planSteps guarantees Steps[i] pairs with Staged[i-1].
	for i := 1; i < len(draft.Steps); i++ {
		step := &draft.Steps[i]
		if step.Done {
			continue
		}
		staged := draft.Staged[i-1]
		if _, err := s.api.UploadPhoto(ctx, draft.ActivityID, staged.FileName, staged.Content); err != nil {
			s.saveDraft(ctx, draft)
			s.log.WithError(err).WithFields(map[string]interface{}{
				"draft_id":    draft.ID,
				"activity_id": draft.ActivityID,
				"file_name":   staged.FileName,
			}).Error("Photo upload failed mid-submission")
			return nil, err
		}
		step.Done = true
		result.UploadedPhotos++
		s.saveDraft(ctx, draft)
	}

	if len(draft.DetachedPhotos) > 0 {
		names := make([]string, 0, len(draft.DetachedPhotos))
		for _, p := range draft.DetachedPhotos {
			names = append(names, p.FileName)
		}
		// Known gap carried over from the legacy editor: detaching a
		// persisted photo hides it from the form but never deletes it
		// upstream.
		result.Warnings = append(result.Warnings,
			"foto berikut dihapus dari tampilan tetapi masih tersimpan di server: "+strings.Join(names, ", "))
	}

	s.closeLocked(ctx, draft.ID)
	s.activities.InvalidateCollection(ctx)
	return result, nil
}

// Close discards a draft without submitting.
func (s *EditorService) Close(ctx context.Context, draftID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closeLocked(ctx, draftID)
}

func (s *EditorService) closeLocked(ctx context.Context, draftID string) {
	delete(s.drafts, draftID)
	if s.redis != nil {
		_ = s.redis.Delete(ctx, s.redis.KeyBuilder.KeyDraft(draftID))
	}
}

func (s *EditorService) getLocked(ctx context.Context, draftID string) (*Draft, error) {
	if draft, ok := s.drafts[draftID]; ok {
		return draft, nil
	}

	if s.redis != nil {
		cached, err := s.redis.Get(ctx, s.redis.KeyBuilder.KeyDraft(draftID))
		if err == nil && cached != "" {
			var draft Draft
			if jsonErr := json.Unmarshal([]byte(cached), &draft); jsonErr == nil {
				s.drafts[draft.ID] = &draft
				return &draft, nil
			}
			s.log.WithField("draft_id", draftID).Warn("Draft cache corrupted")
		}
	}

	return nil, errors.NewNotFoundError("draf tidak ditemukan")
}

func (s *EditorService) saveDraft(ctx context.Context, draft *Draft) {
	if s.redis == nil {
		return
	}
	encoded, err := json.Marshal(draft)
	if err != nil {
		s.log.WithError(err).Warn("Failed to encode draft for persistence")
		return
	}
	if err := s.redis.Set(ctx, s.redis.KeyBuilder.KeyDraft(draft.ID), encoded, redis.TTLDraft); err != nil {
		s.log.WithError(err).WithField("draft_id", draft.ID).Warn("Failed to persist draft")
	}
}
