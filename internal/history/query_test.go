package history

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	return []Record{
		testRecord("e1", "srv-1", "get_pods", "success", base, 3*time.Second),
		testRecord("e2", "srv-2", "get_logs", "error", base.Add(time.Minute), time.Second),
		testRecord("e3", "srv-1", "scale_deployment", "success", base.Add(2*time.Minute), 2*time.Second),
		testRecord("e4", "srv-1", "get_events", "error", base.Add(3*time.Minute), 4*time.Second),
	}
}

func ids(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func TestQueryFilterByServer(t *testing.T) {
	page, total := Query{ServerID: "srv-1"}.Apply(sampleRecords())
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"e1", "e3", "e4"}, ids(page))
}

func TestQueryFilterByStatus(t *testing.T) {
	page, total := Query{Status: "error"}.Apply(sampleRecords())
	assert.Equal(t, 2, total)
	assert.Equal(t, []string{"e2", "e4"}, ids(page))
}

func TestQueryFilterByToolSubstring(t *testing.T) {
	page, total := Query{ToolContains: "GET"}.Apply(sampleRecords())
	assert.Equal(t, 3, total)
	assert.Equal(t, []string{"e1", "e2", "e4"}, ids(page))
}

func TestQueryCombinedFilters(t *testing.T) {
	page, total := Query{ServerID: "srv-1", Status: "error"}.Apply(sampleRecords())
	assert.Equal(t, 1, total)
	assert.Equal(t, []string{"e4"}, ids(page))
}

func TestQuerySorting(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "default started_at ascending", query: Query{}, want: []string{"e1", "e2", "e3", "e4"}},
		{name: "started_at descending", query: Query{SortBy: SortByStartedAt, Descending: true}, want: []string{"e4", "e3", "e2", "e1"}},
		{name: "by tool", query: Query{SortBy: SortByTool}, want: []string{"e4", "e2", "e1", "e3"}},
		{name: "by duration descending", query: Query{SortBy: SortByDuration, Descending: true}, want: []string{"e4", "e1", "e3", "e2"}},
		{name: "by status", query: Query{SortBy: SortByStatus}, want: []string{"e2", "e4", "e1", "e3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, _ := tt.query.Apply(sampleRecords())
			assert.Equal(t, tt.want, ids(page))
		})
	}
}

func TestQueryPagination(t *testing.T) {
	q := Query{PageSize: 3}

	page, total := q.Apply(sampleRecords())
	assert.Equal(t, 4, total)
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(page))
	assert.Equal(t, 2, q.Pages(total))

	q.Page = 1
	page, _ = q.Apply(sampleRecords())
	assert.Equal(t, []string{"e4"}, ids(page))
}

func TestQueryPageClampedIntoRange(t *testing.T) {
	page, _ := Query{PageSize: 3, Page: 99}.Apply(sampleRecords())
	assert.Equal(t, []string{"e4"}, ids(page))

	page, _ = Query{PageSize: 3, Page: -1}.Apply(sampleRecords())
	assert.Equal(t, []string{"e1", "e2", "e3"}, ids(page))
}

func TestQueryFilterBeforePagination(t *testing.T) {
	// Pagination must apply to the filtered set, not the raw records.
	page, total := Query{ServerID: "srv-1", PageSize: 2, Page: 1}.Apply(sampleRecords())
	require.Equal(t, 3, total)
	assert.Equal(t, []string{"e4"}, ids(page))
}

func TestQueryEmptyInput(t *testing.T) {
	page, total := Query{PageSize: 10}.Apply(nil)
	assert.Empty(t, page)
	assert.Zero(t, total)
	assert.Equal(t, 1, Query{PageSize: 10}.Pages(0))
}
