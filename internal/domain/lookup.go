package domain

import "strings"

// StatusCategory is the coarse, UI-meaningful classification of an activity.
// The legacy lookup table rows are admin-editable, so numeric ids are not
// assumed stable across environments; components work in terms of these
// categories and resolve ids through a StatusTable.
type StatusCategory string

const (
	StatusUpcoming  StatusCategory = "upcoming"
	StatusOngoing   StatusCategory = "ongoing"
	StatusCompleted StatusCategory = "completed"

	// StatusAll is only valid as a view-query filter, never on a record.
	StatusAll StatusCategory = "all"
)

// ValidFilter reports whether c can be used as a view-query status filter.
func (c StatusCategory) ValidFilter() bool {
	switch c {
	case StatusAll, StatusUpcoming, StatusOngoing, StatusCompleted:
		return true
	}
	return false
}

// LookupRow is one row of an admin-managed reference list (activity type or
// activity status).
type LookupRow struct {
	ID   int    `json:"id"`
	Nama string `json:"nama"`
}

// StatusTable maps status-lookup ids to coarse categories and back. It is
// built once per fetch of the lookup table; the localized-name matching
// happens only here, at the decode boundary, so that everything downstream
// classifies by plain id equality.
type StatusTable struct {
	rows   []LookupRow
	byID   map[int]StatusCategory
	idsFor map[StatusCategory]int
}

// BuildStatusTable classifies each lookup row by its localized name:
// a name containing "selesai" is completed, one containing "berlangsung" is
// ongoing, anything else is upcoming. Renamed rows that no longer contain
// either substring silently fall back to upcoming.
func BuildStatusTable(rows []LookupRow) *StatusTable {
	t := &StatusTable{
		rows:   rows,
		byID:   make(map[int]StatusCategory, len(rows)),
		idsFor: make(map[StatusCategory]int, 3),
	}
	for _, row := range rows {
		cat := classifyStatusName(row.Nama)
		t.byID[row.ID] = cat
		if _, seen := t.idsFor[cat]; !seen {
			t.idsFor[cat] = row.ID
		}
	}
	return t
}

func classifyStatusName(name string) StatusCategory {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "selesai"):
		return StatusCompleted
	case strings.Contains(lower, "berlangsung"):
		return StatusOngoing
	default:
		return StatusUpcoming
	}
}

// Category resolves a status id to its coarse category. Ids with no matching
// row default to upcoming; classification never fails.
func (t *StatusTable) Category(id int) StatusCategory {
	if t == nil {
		return StatusUpcoming
	}
	if cat, ok := t.byID[id]; ok {
		return cat
	}
	return StatusUpcoming
}

// IDFor resolves a category back to a lookup id, picking the first row that
// classified into the category. ok is false when the table has no such row.
func (t *StatusTable) IDFor(cat StatusCategory) (int, bool) {
	if t == nil {
		return 0, false
	}
	id, ok := t.idsFor[cat]
	return id, ok
}

// Rows returns the underlying lookup rows in their original order.
func (t *StatusTable) Rows() []LookupRow {
	if t == nil {
		return nil
	}
	return t.rows
}

// Empty reports whether the table carries no rows, which is the state before
// the asynchronous lookup fetch has resolved.
func (t *StatusTable) Empty() bool {
	return t == nil || len(t.rows) == 0
}

// TypeName returns the display name for an activity-type id, or "" when the
// id has no row.
func TypeName(rows []LookupRow, id int) string {
	for _, row := range rows {
		if row.ID == id {
			return row.Nama
		}
	}
	return ""
}
