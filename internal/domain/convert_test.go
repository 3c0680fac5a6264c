package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStatusTable() *StatusTable {
	return BuildStatusTable([]LookupRow{
		{ID: 1, Nama: "Akan Datang"},
		{ID: 2, Nama: "Sedang Berlangsung"},
		{ID: 3, Nama: "Selesai"},
	})
}

func testTypeRows() []LookupRow {
	return []LookupRow{
		{ID: 10, Nama: "Sosial"},
		{ID: 11, Nama: "Keagamaan"},
	}
}

func TestToDisplay_CoordinateRoundTrip(t *testing.T) {
	pairs := [][2]float64{
		{-6.2, 106.8},
		{0, 0},
		{51.5074, -0.1278},
		{-33.8688, 151.2093},
	}

	for _, pair := range pairs {
		lat, lng := pair[0], pair[1]

		wire := NewGeoPoint(lat, lng)
		require.Equal(t, []float64{lng, lat}, wire.Coordinates, "wire order must be [lng, lat]")

		rec := ActivityRecord{ID: 1, Nama: "x", Lokasi: wire}
		display := ToDisplay(rec, testStatusTable(), nil)
		require.Equal(t, []float64{lat, lng}, display.Coordinates, "display order must be [lat, lng]")

		back := NewGeoPoint(display.Coordinates[0], display.Coordinates[1])
		assert.Equal(t, wire.Coordinates, back.Coordinates, "round trip must restore the wire pair exactly")
	}
}

func TestToDisplay_Idempotent(t *testing.T) {
	rec := ActivityRecord{
		ID:               7,
		Nama:             "Kerja Bakti",
		Deskripsi:        "Bersih-bersih lingkungan",
		Tanggal:          "2024-06-01",
		JumlahPeserta:    30,
		Lokasi:           NewGeoPoint(-6.2, 106.8),
		JenisKegiatanID:  10,
		StatusKegiatanID: 2,
		Photos: []Photo{
			{ID: 1, Path: "/media/a.jpg", FileName: "a.jpg"},
			{ID: 2, Path: "/media/b.jpg", FileName: "b.jpg"},
		},
	}

	first := ToDisplay(rec, testStatusTable(), testTypeRows())
	second := ToDisplay(rec, testStatusTable(), testTypeRows())
	assert.Equal(t, first, second)
}

func TestToDisplay_StatusCategories(t *testing.T) {
	tests := []struct {
		name     string
		statusID int
		want     StatusCategory
	}{
		{name: "upcoming row", statusID: 1, want: StatusUpcoming},
		{name: "ongoing row", statusID: 2, want: StatusOngoing},
		{name: "completed row", statusID: 3, want: StatusCompleted},
		{name: "unknown id falls back to upcoming", statusID: 99, want: StatusUpcoming},
		{name: "zero id falls back to upcoming", statusID: 0, want: StatusUpcoming},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ActivityRecord{ID: 1, Nama: "x", StatusKegiatanID: tt.statusID}
			display := ToDisplay(rec, testStatusTable(), nil)
			assert.Equal(t, tt.want, display.StatusCategory)
		})
	}
}

func TestToDisplay_PhotoOrderPreserved(t *testing.T) {
	rec := ActivityRecord{
		ID:   1,
		Nama: "x",
		Photos: []Photo{
			{ID: 3, Path: "/media/A.jpg", FileName: "A.jpg"},
			{ID: 1, Path: "/media/B.jpg", FileName: "B.jpg"},
			{ID: 2, Path: "/media/C.jpg", FileName: "C.jpg"},
		},
	}

	display := ToDisplay(rec, testStatusTable(), nil)
	assert.Equal(t, []string{"/media/A.jpg", "/media/B.jpg", "/media/C.jpg"}, display.Images)
	assert.Equal(t, "/media/A.jpg", display.Image, "primary image is positional")
}

func TestToDisplay_NoLocation(t *testing.T) {
	tests := []struct {
		name   string
		lokasi *GeoPoint
	}{
		{name: "nil location", lokasi: nil},
		{name: "empty coordinates", lokasi: &GeoPoint{Type: "Point"}},
		{name: "one element", lokasi: &GeoPoint{Type: "Point", Coordinates: []float64{106.8}}},
		{name: "three elements", lokasi: &GeoPoint{Type: "Point", Coordinates: []float64{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ActivityRecord{ID: 1, Nama: "x", Lokasi: tt.lokasi}
			display := ToDisplay(rec, testStatusTable(), nil)
			assert.Nil(t, display.Coordinates)
			assert.Empty(t, display.LocationLabel)
		})
	}
}

func TestToDisplay_EmptyPhotos(t *testing.T) {
	display := ToDisplay(ActivityRecord{ID: 1, Nama: "x"}, testStatusTable(), nil)
	assert.Equal(t, []string{}, display.Images)
	assert.Empty(t, display.Image)
}

func TestToDisplay_TypeName(t *testing.T) {
	rec := ActivityRecord{ID: 1, Nama: "x", JenisKegiatanID: 11}
	display := ToDisplay(rec, testStatusTable(), testTypeRows())
	assert.Equal(t, "Keagamaan", display.TypeName)

	rec.JenisKegiatanID = 42
	display = ToDisplay(rec, testStatusTable(), testTypeRows())
	assert.Empty(t, display.TypeName)
}

func TestParseLatLng(t *testing.T) {
	tests := []struct {
		name    string
		label   string
		wantLat float64
		wantLng float64
		wantOK  bool
	}{
		{name: "plain pair", label: "-6.2, 106.8", wantLat: -6.2, wantLng: 106.8, wantOK: true},
		{name: "no spaces", label: "-6.2,106.8", wantLat: -6.2, wantLng: 106.8, wantOK: true},
		{name: "integers", label: "7, -12", wantLat: 7, wantLng: -12, wantOK: true},
		{name: "padded", label: "  -6.2 , 106.8  ", wantLat: -6.2, wantLng: 106.8, wantOK: true},
		{name: "address", label: "Jalan Sudirman No. 1, Jakarta", wantOK: false},
		{name: "empty", label: "", wantOK: false},
		{name: "single number", label: "106.8", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lat, lng, ok := ParseLatLng(tt.label)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantLat, lat)
				assert.Equal(t, tt.wantLng, lng)
			}
		})
	}
}

func TestFormatLatLng_ParsesBack(t *testing.T) {
	label := FormatLatLng(-6.2, 106.8)
	lat, lng, ok := ParseLatLng(label)
	require.True(t, ok)
	assert.Equal(t, -6.2, lat)
	assert.Equal(t, 106.8, lng)
}
