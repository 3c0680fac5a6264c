package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ToDisplay converts one wire record into its UI-ready projection. Pure and
// deterministic: the same record and lookup tables always yield a deep-equal
// result, with no side effects.
//
// The coordinate axis swap from wire [lng, lat] to display [lat, lng] happens
// here and only here on the read path.
func ToDisplay(rec ActivityRecord, statuses *StatusTable, types []LookupRow) DisplayActivity {
	d := DisplayActivity{
		ID:               strconv.Itoa(rec.ID),
		Title:            rec.Nama,
		Description:      rec.Deskripsi,
		Date:             rec.Tanggal,
		ParticipantCount: rec.JumlahPeserta,
		StatusCategory:   statuses.Category(rec.StatusKegiatanID),
		TypeName:         TypeName(types, rec.JenisKegiatanID),
		Images:           []string{},
	}

	if lat, lng, ok := rec.Lokasi.LatLng(); ok {
		d.Coordinates = []float64{lat, lng}
		d.LocationLabel = FormatLatLng(lat, lng)
	}

	for _, p := range rec.Photos {
		d.Images = append(d.Images, p.Path)
	}
	if len(d.Images) > 0 {
		d.Image = d.Images[0]
	}

	return d
}

// FormatLatLng renders the "lat, lng" fallback label used when no
// reverse-geocoded address is available.
func FormatLatLng(lat, lng float64) string {
	return fmt.Sprintf("%s, %s",
		strconv.FormatFloat(lat, 'f', -1, 64),
		strconv.FormatFloat(lng, 'f', -1, 64))
}

var latLngPattern = regexp.MustCompile(`^\s*(-?\d+(?:\.\d+)?)\s*,\s*(-?\d+(?:\.\d+)?)\s*$`)

// ParseLatLng recovers coordinates from a "lat, lng" label. Legacy records
// lacking a structured location sometimes carry only this label; the editor
// uses it as a last-resort coordinate source.
func ParseLatLng(label string) (lat, lng float64, ok bool) {
	m := latLngPattern.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return 0, 0, false
	}
	lat, errLat := strconv.ParseFloat(m[1], 64)
	lng, errLng := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLng != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
