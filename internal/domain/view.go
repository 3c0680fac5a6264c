package domain

import "strings"

// DefaultPageSize matches the card grid of the public activities page.
const DefaultPageSize = 6

// ViewQuery is the current filter/search/pagination state of an activity
// listing.
type ViewQuery struct {
	Text     string         `json:"text"`
	Status   StatusCategory `json:"status"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ViewResult is one page of the derived view.
type ViewResult struct {
	Items      []DisplayActivity `json:"items"`
	TotalItems int               `json:"total_items"`
	TotalPages int               `json:"total_pages"`
	Page       int               `json:"page"`
}

// View derives a filtered, paged slice of the collection. Ordering of the
// result is the insertion order of the source collection; callers that want
// a specific order (newest first, say) sort the source beforehand.
//
// View never fails: an out-of-range page yields an empty Items slice, not an
// error. It also does not clamp the page number; that is the caller's job,
// via ClampPage, after a filter change shrinks the match set.
func View(collection []DisplayActivity, q ViewQuery) ViewResult {
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Status == "" {
		q.Status = StatusAll
	}

	filtered := make([]DisplayActivity, 0, len(collection))
	for _, item := range collection {
		if matches(item, q) {
			filtered = append(filtered, item)
		}
	}

	totalPages := (len(filtered) + q.PageSize - 1) / q.PageSize
	if totalPages < 1 {
		totalPages = 1
	}

	start := (q.Page - 1) * q.PageSize
	end := start + q.PageSize
	items := []DisplayActivity{}
	if start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		items = filtered[start:end]
	}

	return ViewResult{
		Items:      items,
		TotalItems: len(filtered),
		TotalPages: totalPages,
		Page:       q.Page,
	}
}

func matches(item DisplayActivity, q ViewQuery) bool {
	if q.Status != StatusAll && item.StatusCategory != q.Status {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(q.Text))
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(item.Title), text) ||
		strings.Contains(strings.ToLower(item.Description), text) ||
		strings.Contains(strings.ToLower(item.LocationLabel), text)
}

// ClampPage pulls a page number back into [1, totalPages]. Callers apply it
// after re-filtering so the user is never left staring at a silently empty
// page.
func ClampPage(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}
