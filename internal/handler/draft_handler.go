package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"komunitas-be/internal/domain"
	"komunitas-be/internal/service"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
)

// maxPhotoBytes bounds one staged upload; the legacy backend rejects bigger
// files anyway.
const maxPhotoBytes = 10 << 20

// DraftHandler exposes the editor state machine to the admin dashboard.
type DraftHandler struct {
	editor   *service.EditorService
	validate *validator.Validate
	log      *logger.Logger
}

// NewDraftHandler creates a draft handler.
func NewDraftHandler(editor *service.EditorService, log *logger.Logger) *DraftHandler {
	return &DraftHandler{
		editor:   editor,
		validate: validator.New(),
		log:      log,
	}
}

// draftView is the client-facing projection of a draft. Staged file contents
// stay server-side; the gallery lists persisted paths and staged file names
// in preview order.
type draftView struct {
	ID             string                `json:"id"`
	Mode           service.EditorMode    `json:"mode"`
	ActivityID     int                   `json:"activity_id,omitempty"`
	Nama           string                `json:"nama"`
	Deskripsi      string                `json:"deskripsi"`
	Tanggal        string                `json:"tanggal"`
	JumlahPeserta  int                   `json:"jumlah_peserta"`
	StatusCategory domain.StatusCategory `json:"status_category"`
	JenisID        int                   `json:"jenis_id"`
	HasCoords      bool                  `json:"has_coords"`
	Lat            float64               `json:"lat,omitempty"`
	Lng            float64               `json:"lng,omitempty"`
	Gallery        []string              `json:"gallery"`
	Steps          []service.SubmitStep  `json:"steps,omitempty"`
}

func toDraftView(d *service.Draft) draftView {
	return draftView{
		ID:             d.ID,
		Mode:           d.Mode,
		ActivityID:     d.ActivityID,
		Nama:           d.Nama,
		Deskripsi:      d.Deskripsi,
		Tanggal:        d.Tanggal,
		JumlahPeserta:  d.JumlahPeserta,
		StatusCategory: d.StatusCategory,
		JenisID:        d.RawJenisID,
		HasCoords:      d.HasCoords,
		Lat:            d.Lat,
		Lng:            d.Lng,
		Gallery:        d.Gallery(),
		Steps:          d.Steps,
	}
}

type openDraftRequest struct {
	Mode       string `json:"mode" validate:"required,oneof=create edit view"`
	ActivityID int    `json:"activity_id" validate:"required_unless=Mode create"`
}

// Open handles POST /api/admin/drafts.
func (h *DraftHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req openDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.NewValidationError("badan permintaan tidak valid", nil), h.log)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, errors.NewValidationError("mode editor atau id kegiatan tidak valid", nil), h.log)
		return
	}

	var draft *service.Draft
	var err error
	if req.Mode == string(service.ModeCreate) {
		draft, err = h.editor.OpenCreate(r.Context())
	} else {
		draft, err = h.editor.OpenExisting(r.Context(), req.ActivityID, service.EditorMode(req.Mode))
	}
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	writeData(w, http.StatusCreated, toDraftView(draft), h.log)
}

// Get handles GET /api/admin/drafts/{draftId}.
func (h *DraftHandler) Get(w http.ResponseWriter, r *http.Request) {
	draft, err := h.editor.GetDraft(r.Context(), chi.URLParam(r, "draftId"))
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}
	writeData(w, http.StatusOK, toDraftView(draft), h.log)
}

type updateDraftRequest struct {
	Nama           *string `json:"nama"`
	Deskripsi      *string `json:"deskripsi"`
	Tanggal        *string `json:"tanggal"`
	JumlahPeserta  *int    `json:"jumlah_peserta" validate:"omitempty,gte=0"`
	StatusCategory *string `json:"status_category" validate:"omitempty,oneof=upcoming ongoing completed"`
	JenisID        *int    `json:"jenis_id" validate:"omitempty,gt=0"`
}

// Update handles PUT /api/admin/drafts/{draftId}; only the fields present in
// the body change.
func (h *DraftHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.NewValidationError("badan permintaan tidak valid", nil), h.log)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, errors.NewValidationError("isian formulir tidak valid", nil), h.log)
		return
	}

	draft, err := h.editor.UpdateFields(r.Context(), chi.URLParam(r, "draftId"), func(d *service.Draft) error {
		if req.Nama != nil {
			d.Nama = *req.Nama
		}
		if req.Deskripsi != nil {
			d.Deskripsi = *req.Deskripsi
		}
		if req.Tanggal != nil {
			d.Tanggal = *req.Tanggal
		}
		if req.JumlahPeserta != nil {
			d.JumlahPeserta = *req.JumlahPeserta
		}
		if req.StatusCategory != nil {
			d.StatusCategory = domain.StatusCategory(*req.StatusCategory)
		}
		if req.JenisID != nil {
			d.RawJenisID = *req.JenisID
		}
		return nil
	})
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	writeData(w, http.StatusOK, toDraftView(draft), h.log)
}

// StagePhoto handles POST /api/admin/drafts/{draftId}/photos (multipart,
// field "file").
func (h *DraftHandler) StagePhoto(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		writeError(w, r, errors.NewValidationError("unggahan multipart tidak valid", nil), h.log)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, errors.NewValidationError("berkas foto wajib diisi", nil), h.log)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxPhotoBytes))
	if err != nil {
		writeError(w, r, errors.NewInternalError("gagal membaca berkas", err), h.log)
		return
	}

	draft, err := h.editor.StagePhoto(r.Context(), chi.URLParam(r, "draftId"), header.Filename, content)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	writeData(w, http.StatusOK, toDraftView(draft), h.log)
}

// RemovePhoto handles DELETE /api/admin/drafts/{draftId}/photos/{index}.
func (h *DraftHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, errors.NewValidationError("indeks foto tidak valid", nil), h.log)
		return
	}

	draft, remErr := h.editor.RemovePhoto(r.Context(), chi.URLParam(r, "draftId"), index)
	if remErr != nil {
		writeError(w, r, remErr, h.log)
		return
	}

	writeData(w, http.StatusOK, toDraftView(draft), h.log)
}

type setLocationRequest struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lng float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// SetLocation handles PUT /api/admin/drafts/{draftId}/location.
func (h *DraftHandler) SetLocation(w http.ResponseWriter, r *http.Request) {
	var req setLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, errors.NewValidationError("badan permintaan tidak valid", nil), h.log)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, r, errors.NewValidationError("koordinat di luar jangkauan", nil), h.log)
		return
	}

	draft, err := h.editor.SetLocation(r.Context(), chi.URLParam(r, "draftId"), req.Lat, req.Lng)
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	writeData(w, http.StatusOK, toDraftView(draft), h.log)
}

// Submit handles POST /api/admin/drafts/{draftId}/submit.
func (h *DraftHandler) Submit(w http.ResponseWriter, r *http.Request) {
	result, err := h.editor.Submit(r.Context(), chi.URLParam(r, "draftId"))
	if err != nil {
		writeError(w, r, err, h.log)
		return
	}

	h.log.WithFields(map[string]interface{}{
		"activity_id": result.ActivityID,
		"created":     result.Created,
		"photos":      result.UploadedPhotos,
	}).Info("Draft submitted")
	writeData(w, http.StatusOK, result, h.log)
}

// Close handles DELETE /api/admin/drafts/{draftId}.
func (h *DraftHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.editor.Close(r.Context(), chi.URLParam(r, "draftId"))
	writeJSON(w, http.StatusOK, Response{Success: true, Message: "draf ditutup"}, h.log)
}
