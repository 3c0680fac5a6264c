package repository

import (
	"context"

	"komunitas-be/internal/domain"
)

// ActivityPayload is the create/update body sent to the legacy API. The
// Indonesian field names are part of the upstream wire contract and must not
// be translated.
type ActivityPayload struct {
	Nama           string           `json:"nama"`
	Deskripsi      string           `json:"deskripsi"`
	Tanggal        string           `json:"tanggal"`
	JumlahPeserta  int              `json:"jumlah_peserta"`
	Lokasi         *domain.GeoPoint `json:"lokasi"`
	JenisKegiatan  int              `json:"jenis_kegiatan"`
	StatusKegiatan int              `json:"status_kegiatan"`
}

// ActivityAPI is the facade over the remote kegiatan REST API. All methods
// honor the passed context; none retries on failure.
type ActivityAPI interface {
	ListActivities(ctx context.Context) ([]domain.ActivityRecord, error)
	GetActivity(ctx context.Context, id int) (*domain.ActivityRecord, error)
	CreateActivity(ctx context.Context, payload *ActivityPayload) (*domain.ActivityRecord, error)
	UpdateActivity(ctx context.Context, id int, payload *ActivityPayload) (*domain.ActivityRecord, error)
	DeleteActivity(ctx context.Context, id int) error

	// UploadPhoto attaches one photo to an activity via the multipart
	// endpoint. Uploads within one submission are issued sequentially.
	UploadPhoto(ctx context.Context, activityID int, fileName string, content []byte) (*domain.Photo, error)

	ListStatuses(ctx context.Context) ([]domain.LookupRow, error)
	ListTypes(ctx context.Context) ([]domain.LookupRow, error)

	Health(ctx context.Context) error
}
