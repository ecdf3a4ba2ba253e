package history

import (
	"sort"
	"strings"
)

// SortKey names a sortable record field.
type SortKey string

const (
	SortByStartedAt SortKey = "started_at"
	SortByTool      SortKey = "tool"
	SortByDuration  SortKey = "duration"
	SortByStatus    SortKey = "status"
)

// Query describes one dashboard view over the history: filter first, then
// sort, then paginate.
type Query struct {
	// Filters. Zero values match everything.
	ServerID string
	// ToolContains matches case-insensitively against the tool name.
	ToolContains string
	Status       string

	SortBy     SortKey
	Descending bool

	// Page is zero-based. PageSize <= 0 disables pagination.
	Page     int
	PageSize int
}

// Apply runs the query over the given records and returns the requested page
// plus the total number of matches before pagination. The page index is
// clamped into range, so asking for a page past the end yields the last page
// rather than nothing.
func (q Query) Apply(records []Record) ([]Record, int) {
	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if q.matches(r) {
			matched = append(matched, r)
		}
	}
	total := len(matched)

	q.sortRecords(matched)

	if q.PageSize <= 0 || total == 0 {
		return matched, total
	}

	lastPage := (total - 1) / q.PageSize
	page := q.Page
	if page < 0 {
		page = 0
	}
	if page > lastPage {
		page = lastPage
	}

	start := page * q.PageSize
	end := start + q.PageSize
	if end > total {
		end = total
	}
	return matched[start:end], total
}

func (q Query) matches(r Record) bool {
	if q.ServerID != "" && r.ServerID != q.ServerID {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	if q.ToolContains != "" &&
		!strings.Contains(strings.ToLower(r.ToolName), strings.ToLower(q.ToolContains)) {
		return false
	}
	return true
}

func (q Query) sortRecords(records []Record) {
	less := func(a, b Record) bool {
		switch q.SortBy {
		case SortByTool:
			return a.ToolName < b.ToolName
		case SortByDuration:
			return a.Duration() < b.Duration()
		case SortByStatus:
			return a.Status < b.Status
		default:
			return a.StartedAt.Before(b.StartedAt)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if q.Descending {
			return less(records[j], records[i])
		}
		return less(records[i], records[j])
	})
}

// Pages returns how many pages the query would produce for total matches.
func (q Query) Pages(total int) int {
	if q.PageSize <= 0 || total == 0 {
		return 1
	}
	return (total + q.PageSize - 1) / q.PageSize
}
