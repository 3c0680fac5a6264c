package repository

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"komunitas-be/internal/config"
	"komunitas-be/internal/domain"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
)

// kegiatanAPI talks to the legacy community REST API over HTTP.
type kegiatanAPI struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        *logger.Logger
}

// NewKegiatanAPI creates the facade over the remote kegiatan API.
func NewKegiatanAPI(cfg *config.Config, log *logger.Logger) ActivityAPI {
	return &kegiatanAPI{
		baseURL: cfg.KegiatanAPIURL,
		token:   cfg.KegiatanAPIToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

// listEnvelope is the paginated response shape some deployments of the
// backend return instead of a bare array.
type listEnvelope struct {
	Results json.RawMessage `json:"results"`
}

// decodeList handles the backend's dual-shape list contract: the body is
// either a bare JSON array or `{"results": [...]}`. Anything else degrades to
// an empty list with a logged warning rather than an error, so list pages
// render "no items" instead of failing.
func decodeList[T any](body []byte, endpoint string, log *logger.Logger) []T {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Results != nil {
		var items []T
		if err := json.Unmarshal(envelope.Results, &items); err == nil {
			return items
		}
	}

	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		return items
	}

	log.WithField("endpoint", endpoint).Warn("Unexpected list response shape, treating as empty")
	return []T{}
}

func (a *kegiatanAPI) ListActivities(ctx context.Context) ([]domain.ActivityRecord, error) {
	body, err := a.doRequest(ctx, http.MethodGet, "/api/kegiatan/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.ActivityRecord](body, "/api/kegiatan/", a.log), nil
}

func (a *kegiatanAPI) GetActivity(ctx context.Context, id int) (*domain.ActivityRecord, error) {
	body, err := a.doRequest(ctx, http.MethodGet, fmt.Sprintf("/api/kegiatan/%d/", id), nil)
	if err != nil {
		return nil, err
	}

	var rec domain.ActivityRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, errors.NewDecodeError("respons kegiatan tidak valid", err)
	}
	return &rec, nil
}

func (a *kegiatanAPI) CreateActivity(ctx context.Context, payload *ActivityPayload) (*domain.ActivityRecord, error) {
	body, err := a.doRequest(ctx, http.MethodPost, "/api/kegiatan/", payload)
	if err != nil {
		return nil, err
	}

	var rec domain.ActivityRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, errors.NewDecodeError("respons pembuatan kegiatan tidak valid", err)
	}
	return &rec, nil
}

func (a *kegiatanAPI) UpdateActivity(ctx context.Context, id int, payload *ActivityPayload) (*domain.ActivityRecord, error) {
	body, err := a.doRequest(ctx, http.MethodPatch, fmt.Sprintf("/api/kegiatan/%d/", id), payload)
	if err != nil {
		return nil, err
	}

	var rec domain.ActivityRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		return nil, errors.NewDecodeError("respons pembaruan kegiatan tidak valid", err)
	}
	return &rec, nil
}

func (a *kegiatanAPI) DeleteActivity(ctx context.Context, id int) error {
	_, err := a.doRequest(ctx, http.MethodDelete, fmt.Sprintf("/api/kegiatan/%d/", id), nil)
	return err
}

func (a *kegiatanAPI) UploadPhoto(ctx context.Context, activityID int, fileName string, content []byte) (*domain.Photo, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	if err := writer.WriteField("kegiatan", fmt.Sprintf("%d", activityID)); err != nil {
		return nil, errors.NewInternalError("gagal menyiapkan unggahan foto", err)
	}
	if err := writer.WriteField("file_name", fileName); err != nil {
		return nil, errors.NewInternalError("gagal menyiapkan unggahan foto", err)
	}
	part, err := writer.CreateFormFile("file_path", fileName)
	if err != nil {
		return nil, errors.NewInternalError("gagal menyiapkan unggahan foto", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, errors.NewInternalError("gagal menyiapkan unggahan foto", err)
	}
	if err := writer.Close(); err != nil {
		return nil, errors.NewInternalError("gagal menyiapkan unggahan foto", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/api/foto-kegiatan/", &buf)
	if err != nil {
		return nil, errors.NewInternalError("gagal membuat permintaan", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	a.setAuth(req)

	body, err := a.send(req)
	if err != nil {
		return nil, err
	}

	var photo domain.Photo
	if err := json.Unmarshal(body, &photo); err != nil {
		return nil, errors.NewDecodeError("respons unggahan foto tidak valid", err)
	}
	return &photo, nil
}

func (a *kegiatanAPI) ListStatuses(ctx context.Context) ([]domain.LookupRow, error) {
	body, err := a.doRequest(ctx, http.MethodGet, "/api/status-kegiatan/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.LookupRow](body, "/api/status-kegiatan/", a.log), nil
}

func (a *kegiatanAPI) ListTypes(ctx context.Context) ([]domain.LookupRow, error) {
	body, err := a.doRequest(ctx, http.MethodGet, "/api/jenis-kegiatan/", nil)
	if err != nil {
		return nil, err
	}
	return decodeList[domain.LookupRow](body, "/api/jenis-kegiatan/", a.log), nil
}

func (a *kegiatanAPI) Health(ctx context.Context) error {
	_, err := a.doRequest(ctx, http.MethodGet, "/api/status-kegiatan/", nil)
	return err
}

// doRequest issues one JSON request against the upstream API and returns the
// raw response body.
func (a *kegiatanAPI) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.NewInternalError("gagal menyusun permintaan", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reqBody)
	if err != nil {
		return nil, errors.NewInternalError("gagal membuat permintaan", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	a.setAuth(req)

	return a.send(req)
}

func (a *kegiatanAPI) send(req *http.Request) ([]byte, error) {
	resp, err := a.httpClient.Do(req)
	if err != nil {
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			return nil, errors.NewUnreachableError("server tidak dapat dihubungi", err)
		}
		return nil, errors.NewInternalError("permintaan ke server gagal", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewUnreachableError("gagal membaca respons server", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NewNotFoundError("data tidak ditemukan")
	case resp.StatusCode == http.StatusConflict:
		return nil, errors.NewConflictError("data bentrok dengan yang sudah ada", nil)
	case resp.StatusCode >= 400:
		a.log.WithFields(map[string]interface{}{
			"status_code": resp.StatusCode,
			"path":        req.URL.Path,
			"body":        string(body),
		}).Error("Upstream API returned error status")
		return nil, errors.NewUnreachableError(
			fmt.Sprintf("server mengembalikan status %d", resp.StatusCode), nil)
	}

	return body, nil
}

func (a *kegiatanAPI) setAuth(req *http.Request) {
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
}
