package service

import (
	"strconv"
	"time"

	"komunitas-be/internal/domain"
	"komunitas-be/internal/repository"
	"komunitas-be/pkg/errors"
)

// EditorMode is the state of an editor draft. A draft moves
// closed → create/edit/view → closed; view drafts never submit.
type EditorMode string

const (
	ModeClosed EditorMode = "closed"
	ModeCreate EditorMode = "create"
	ModeEdit   EditorMode = "edit"
	ModeView   EditorMode = "view"
)

// StagedPhoto is a locally-selected file not yet persisted upstream. Key is
// unique within the draft and ties the photo to its saga step, so removing a
// staged file can never shift another file's completion state.
type StagedPhoto struct {
	Key      string `json:"key"`
	FileName string `json:"file_name"`
	Content  []byte `json:"content"`
}

// SubmitStep records one step of a submission saga. Upload steps carry the
// key of the staged photo they belong to; a retry resumes from the first step
// that is not done instead of redoing completed ones.
type SubmitStep struct {
	Name string `json:"name"`
	Key  string `json:"key,omitempty"`
	Done bool   `json:"done"`
}

// Draft holds the full state of one open editor. Drafts are owned by the
// EditorService, which serializes access per draft.
type Draft struct {
	ID   string     `json:"id"`
	Mode EditorMode `json:"mode"`

	// ActivityID is zero in create mode until the record step has run.
	ActivityID int `json:"activity_id"`

	Nama          string `json:"nama"`
	Deskripsi     string `json:"deskripsi"`
	Tanggal       string `json:"tanggal"`
	JumlahPeserta int    `json:"jumlah_peserta"`

	StatusCategory domain.StatusCategory `json:"status_category"`
	// RawStatusID and RawJenisID carry the numeric ids the activity was
	// loaded with, used as fallback when the lookup table cannot resolve a
	// category back to an id.
	RawStatusID int `json:"raw_status_id"`
	RawJenisID  int `json:"raw_jenis_id"`

	HasCoords bool    `json:"has_coords"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`

	// RemotePhotos are already persisted upstream. DetachedPhotos were
	// removed from the preview but are intentionally never deleted upstream;
	// see the submit result's warning.
	RemotePhotos   []domain.Photo `json:"remote_photos"`
	DetachedPhotos []domain.Photo `json:"detached_photos"`
	Staged         []StagedPhoto  `json:"staged"`

	Steps []SubmitStep `json:"steps"`

	// StagedSeq issues the per-draft keys for staged photos.
	StagedSeq int `json:"staged_seq"`

	CreatedAt time.Time `json:"created_at"`
}

// NewCreateDraft opens an empty create draft: today's date, empty staged
// list, and type/status defaulted to the first rows of each lookup when those
// lookups have loaded. If they have not, the defaults are applied later by
// ApplyLookupDefaults once the lookups resolve.
func NewCreateDraft(id string, now time.Time, statuses *domain.StatusTable, types []domain.LookupRow) *Draft {
	d := &Draft{
		ID:        id,
		Mode:      ModeCreate,
		Tanggal:   now.Format("2006-01-02"),
		CreatedAt: now,
	}
	d.ApplyLookupDefaults(statuses, types)
	return d
}

// ApplyLookupDefaults fills the type/status selections from the first lookup
// rows. Only create-mode drafts whose selections are still empty are touched,
// so a late-arriving lookup fetch populates the form exactly once and an
// explicit user choice is never overwritten.
func (d *Draft) ApplyLookupDefaults(statuses *domain.StatusTable, types []domain.LookupRow) {
	if d.Mode != ModeCreate {
		return
	}
	if d.StatusCategory == "" && !statuses.Empty() {
		first := statuses.Rows()[0]
		d.StatusCategory = statuses.Category(first.ID)
		d.RawStatusID = first.ID
	}
	if d.RawJenisID == 0 && len(types) > 0 {
		d.RawJenisID = types[0].ID
	}
}

// NewEditDraft opens a draft over an existing activity. The form is populated
// from the display projection; the staged list is reset to the activity's
// persisted photos; coordinates come from the projection or, for legacy
// records without a structured location, from parsing the "lat, lng" label.
func NewEditDraft(id string, mode EditorMode, display domain.DisplayActivity, rec *domain.ActivityRecord, now time.Time) *Draft {
	d := &Draft{
		ID:             id,
		Mode:           mode,
		ActivityID:     rec.ID,
		Nama:           display.Title,
		Deskripsi:      display.Description,
		Tanggal:        display.Date,
		JumlahPeserta:  display.ParticipantCount,
		StatusCategory: display.StatusCategory,
		RawStatusID:    rec.StatusKegiatanID,
		RawJenisID:     rec.JenisKegiatanID,
		RemotePhotos:   append([]domain.Photo(nil), rec.Photos...),
		CreatedAt:      now,
	}

	if len(display.Coordinates) == 2 {
		d.HasCoords = true
		d.Lat = display.Coordinates[0]
		d.Lng = display.Coordinates[1]
	} else if lat, lng, ok := domain.ParseLatLng(display.LocationLabel); ok {
		d.HasCoords = true
		d.Lat = lat
		d.Lng = lng
	}

	return d
}

// Editable reports whether the draft accepts mutations. View drafts are
// read-only; a closed draft no longer exists.
func (d *Draft) Editable() bool {
	return d.Mode == ModeCreate || d.Mode == ModeEdit
}

// Gallery returns the combined preview list: persisted photo paths first, in
// upload order, then staged local files by name.
func (d *Draft) Gallery() []string {
	gallery := make([]string, 0, len(d.RemotePhotos)+len(d.Staged))
	for _, p := range d.RemotePhotos {
		gallery = append(gallery, p.Path)
	}
	for _, s := range d.Staged {
		gallery = append(gallery, s.FileName)
	}
	return gallery
}

// StagePhoto appends a newly selected file to the preview. Staged files never
// replace existing ones.
func (d *Draft) StagePhoto(fileName string, content []byte) error {
	if !d.Editable() {
		return errors.NewValidationError("draf tidak dapat diubah", nil)
	}
	d.StagedSeq++
	d.Staged = append(d.Staged, StagedPhoto{
		Key:      strconv.Itoa(d.StagedSeq),
		FileName: fileName,
		Content:  content,
	})
	return nil
}

// RemovePhoto removes one entry from the combined preview by index. Indexes
// below len(RemotePhotos) address persisted photos, which are detached from
// the preview but never deleted upstream; higher indexes address staged
// files, which are simply dropped before upload.
func (d *Draft) RemovePhoto(index int) error {
	if !d.Editable() {
		return errors.NewValidationError("draf tidak dapat diubah", nil)
	}
	if index < 0 || index >= len(d.RemotePhotos)+len(d.Staged) {
		return errors.NewValidationError("indeks foto di luar jangkauan", map[string]interface{}{
			"index": index,
		})
	}

	if index < len(d.RemotePhotos) {
		d.DetachedPhotos = append(d.DetachedPhotos, d.RemotePhotos[index])
		d.RemotePhotos = append(d.RemotePhotos[:index], d.RemotePhotos[index+1:]...)
		return nil
	}

	local := index - len(d.RemotePhotos)
	d.Staged = append(d.Staged[:local], d.Staged[local+1:]...)
	return nil
}

// SetLocation records the selected map coordinate in display order.
func (d *Draft) SetLocation(lat, lng float64) error {
	if !d.Editable() {
		return errors.NewValidationError("draf tidak dapat diubah", nil)
	}
	d.HasCoords = true
	d.Lat = lat
	d.Lng = lng
	return nil
}

// Validate checks the submission precondition. A map coordinate is the one
// hard requirement; every other field may be empty.
func (d *Draft) Validate() error {
	if !d.Editable() {
		return errors.NewValidationError("draf tidak dapat dikirim", nil)
	}
	if !d.HasCoords {
		return errors.NewValidationError("silakan pilih lokasi pada peta terlebih dahulu", nil)
	}
	return nil
}

// BuildPayload assembles the upstream create/update body. Category-to-id
// resolution goes through the status table; when the table has no row for the
// category the raw numeric id the activity was loaded with is used instead.
// The axis swap to wire order happens inside NewGeoPoint.
func (d *Draft) BuildPayload(statuses *domain.StatusTable) *repository.ActivityPayload {
	statusID := d.RawStatusID
	if id, ok := statuses.IDFor(d.StatusCategory); ok {
		statusID = id
	}

	return &repository.ActivityPayload{
		Nama:           d.Nama,
		Deskripsi:      d.Deskripsi,
		Tanggal:        d.Tanggal,
		JumlahPeserta:  d.JumlahPeserta,
		Lokasi:         domain.NewGeoPoint(d.Lat, d.Lng),
		JenisKegiatan:  d.RawJenisID,
		StatusKegiatan: statusID,
	}
}

// planSteps lays out the submission saga: the record write, then one upload
// per staged file, paired by the photo's key. The plan is rebuilt from the
// current staged list on every attempt, carrying over completion state by
// key, so staging or removing files between attempts can never misattribute
// a finished upload to a different file. After planning, Steps[i+1] always
// belongs to Staged[i].
func (d *Draft) planSteps() {
	done := make(map[string]bool, len(d.Steps))
	recordDone := false
	for _, step := range d.Steps {
		if step.Name == "record" {
			recordDone = step.Done
			continue
		}
		done[step.Key] = step.Done
	}

	steps := make([]SubmitStep, 0, len(d.Staged)+1)
	steps = append(steps, SubmitStep{Name: "record", Done: recordDone})
	for _, p := range d.Staged {
		steps = append(steps, SubmitStep{
			Name: "upload:" + p.FileName,
			Key:  p.Key,
			Done: done[p.Key],
		})
	}
	d.Steps = steps
}
