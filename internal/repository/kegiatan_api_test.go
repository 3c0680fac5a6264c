package repository

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"komunitas-be/internal/config"
	"komunitas-be/internal/domain"
	"komunitas-be/pkg/errors"
	"komunitas-be/pkg/logger"
)

func testAPI(t *testing.T, handler http.Handler) (ActivityAPI, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log, err := logger.New("error", "test")
	require.NoError(t, err)

	api := NewKegiatanAPI(&config.Config{KegiatanAPIURL: server.URL}, log)
	return api, server
}

func TestListActivities_DualShape(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantCount int
	}{
		{
			name:      "bare array",
			body:      `[{"id":1,"nama":"Kerja Bakti"},{"id":2,"nama":"Bagi Takjil"}]`,
			wantCount: 2,
		},
		{
			name:      "results envelope",
			body:      `{"results":[{"id":1,"nama":"Kerja Bakti"}],"count":1}`,
			wantCount: 1,
		},
		{
			name:      "empty array",
			body:      `[]`,
			wantCount: 0,
		},
		{
			name:      "empty envelope",
			body:      `{"results":[]}`,
			wantCount: 0,
		},
		{
			name:      "unknown object shape degrades to empty",
			body:      `{"data":{"weird":true}}`,
			wantCount: 0,
		},
		{
			name:      "scalar degrades to empty",
			body:      `42`,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api, _ := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))

			records, err := api.ListActivities(context.Background())
			require.NoError(t, err, "list decoding never fails, it degrades")
			assert.Len(t, records, tt.wantCount)
		})
	}
}

func TestCreateActivity_WireContract(t *testing.T) {
	var captured map[string]interface{}

	api, _ := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/kegiatan/", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"nama":"Bagi Takjil"}`))
	}))

	payload := &ActivityPayload{
		Nama:           "Bagi Takjil",
		Deskripsi:      "pembagian takjil",
		Tanggal:        "2024-03-15",
		JumlahPeserta:  25,
		Lokasi:         domain.NewGeoPoint(-6.2, 106.8),
		JenisKegiatan:  1,
		StatusKegiatan: 1,
	}

	rec, err := api.CreateActivity(context.Background(), payload)
	require.NoError(t, err)
	assert.Equal(t, 42, rec.ID)

	// Indonesian field names are part of the wire contract.
	assert.Equal(t, "Bagi Takjil", captured["nama"])
	assert.Equal(t, "2024-03-15", captured["tanggal"])
	assert.Equal(t, float64(25), captured["jumlah_peserta"])
	assert.Contains(t, captured, "deskripsi")
	assert.Contains(t, captured, "jenis_kegiatan")
	assert.Contains(t, captured, "status_kegiatan")

	// GeoJSON order on the wire: [longitude, latitude].
	lokasi := captured["lokasi"].(map[string]interface{})
	assert.Equal(t, "Point", lokasi["type"])
	coords := lokasi["coordinates"].([]interface{})
	require.Len(t, coords, 2)
	assert.Equal(t, 106.8, coords[0])
	assert.Equal(t, -6.2, coords[1])
}

func TestUploadPhoto_MultipartContract(t *testing.T) {
	api, _ := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/foto-kegiatan/", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "42", r.FormValue("kegiatan"))
		assert.Equal(t, "dokumentasi.jpg", r.FormValue("file_name"))

		file, header, err := r.FormFile("file_path")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "dokumentasi.jpg", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":7,"path":"/media/dokumentasi.jpg","file_name":"dokumentasi.jpg"}`))
	}))

	photo, err := api.UploadPhoto(context.Background(), 42, "dokumentasi.jpg", []byte("jpegbytes"))
	require.NoError(t, err)
	assert.Equal(t, 7, photo.ID)
	assert.Equal(t, "/media/dokumentasi.jpg", photo.Path)
}

func TestGetActivity_NotFound(t *testing.T) {
	api, _ := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := api.GetActivity(context.Background(), 999)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
}

func TestCreateActivity_Conflict(t *testing.T) {
	api, _ := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	}))

	_, err := api.CreateActivity(context.Background(), &ActivityPayload{Nama: "duplikat"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConflict))
}

func TestSend_ConnectionRefused(t *testing.T) {
	log, err := logger.New("error", "test")
	require.NoError(t, err)

	// Closed port: the request fails at the transport, not with a status.
	api := NewKegiatanAPI(&config.Config{KegiatanAPIURL: "http://127.0.0.1:1"}, log)

	_, err = api.ListActivities(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeUnreachable),
		"connectivity failures surface as the distinct unreachable type")
}

func TestUpdateActivity_UsesPatch(t *testing.T) {
	api, _ := testAPI(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/kegiatan/42/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":42,"nama":"updated"}`))
	}))

	rec, err := api.UpdateActivity(context.Background(), 42, &ActivityPayload{Nama: "updated"})
	require.NoError(t, err)
	assert.Equal(t, "updated", rec.Nama)
}
