package domain

// GeoPoint is the GeoJSON-style point used by the legacy API for activity
// locations. Coordinates are [longitude, latitude] on the wire, the reverse
// of every display-facing layer, which uses [latitude, longitude].
type GeoPoint struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// NewGeoPoint builds a wire point from display-order coordinates.
// This is one of exactly two places where the axis order is swapped;
// the other is ToDisplay.
func NewGeoPoint(lat, lng float64) *GeoPoint {
	return &GeoPoint{
		Type:        "Point",
		Coordinates: []float64{lng, lat},
	}
}

// LatLng returns the point in display order. ok is false when the wire
// payload did not carry a well-formed two-element coordinate array.
func (p *GeoPoint) LatLng() (lat, lng float64, ok bool) {
	if p == nil || len(p.Coordinates) != 2 {
		return 0, 0, false
	}
	return p.Coordinates[1], p.Coordinates[0], true
}

// Photo is one attachment row of an activity. Insertion order on the wire is
// upload order.
type Photo struct {
	ID       int    `json:"id"`
	Path     string `json:"path"`
	FileName string `json:"file_name"`
}

// ActivityRecord is the wire shape of a kegiatan as owned by the legacy API.
// Field names on the wire are Indonesian and are part of the upstream
// contract.
type ActivityRecord struct {
	ID               int       `json:"id"`
	Nama             string    `json:"nama"`
	Deskripsi        string    `json:"deskripsi"`
	Tanggal          string    `json:"tanggal"`
	JumlahPeserta    int       `json:"jumlah_peserta"`
	Lokasi           *GeoPoint `json:"lokasi"`
	JenisKegiatanID  int       `json:"jenis_kegiatan"`
	StatusKegiatanID int       `json:"status_kegiatan"`
	Photos           []Photo   `json:"photos"`
	CreatedAt        string    `json:"created_at"`
	UpdatedAt        string    `json:"updated_at"`
}

// DisplayActivity is the UI-ready projection of an ActivityRecord. Instances
// are rebuilt from the wire shape on every fetch cycle and never mutated in
// place; a stale instance held by an open detail view must be re-fetched by
// id, not patched.
type DisplayActivity struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Date             string         `json:"date"`
	ParticipantCount int            `json:"participant_count"`
	LocationLabel    string         `json:"location_label"`
	Coordinates      []float64      `json:"coordinates,omitempty"` // [lat, lng]
	StatusCategory   StatusCategory `json:"status_category"`
	TypeName         string         `json:"type_name,omitempty"`
	Images           []string       `json:"images"`
	Image            string         `json:"image"` // Images[0], kept for single-image consumers
}
