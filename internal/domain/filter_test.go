package domain

import (
	"fmt"
	"reflect"
	"testing"
	"time"
)

func mkRecord(id, title, category string, tags ...string) ShowcaseRecord {
	return ShowcaseRecord{
		ID:       id,
		Title:    title,
		Category: category,
		Tags:     tags,
	}
}

func ids(records []ShowcaseRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestApplyPrimaryCategoryWebsites(t *testing.T) {
	records := []ShowcaseRecord{
		mkRecord("1", "App", CategoryMobile),
		mkRecord("2", "Site", "SaaS"),
		mkRecord("3", "Bare", ""), // uncategorized counts as Websites
	}

	page := Apply(records, FilterState{PrimaryCategory: PrimaryWebsites}, 1, 50)

	want := []string{"2", "3"}
	if !reflect.DeepEqual(ids(page.Records), want) {
		t.Errorf("Apply() Websites = %v, want %v", ids(page.Records), want)
	}
}

func TestApplyPrimaryCategoryMobiles(t *testing.T) {
	records := []ShowcaseRecord{
		mkRecord("1", "App", CategoryMobile),
		mkRecord("2", "Site", "SaaS"),
	}

	page := Apply(records, FilterState{PrimaryCategory: PrimaryMobiles}, 1, 50)

	if got := ids(page.Records); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Apply() Mobiles = %v, want [1]", got)
	}
}

func TestApplyExactPrimaryCategory(t *testing.T) {
	records := []ShowcaseRecord{
		mkRecord("1", "A", "Portfolio"),
		mkRecord("2", "B", "SaaS"),
	}

	page := Apply(records, FilterState{PrimaryCategory: "Portfolio"}, 1, 50)

	if got := ids(page.Records); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Apply() Portfolio = %v, want [1]", got)
	}
}

// Multi-select must override the primary toggle entirely: a Mobile record
// does not match even when the primary toggle says Mobiles.
func TestApplyMultiSelectOverridesPrimary(t *testing.T) {
	records := []ShowcaseRecord{
		mkRecord("1", "App", CategoryMobile),
		mkRecord("2", "Site", "SaaS"),
	}

	state := FilterState{
		PrimaryCategory: PrimaryMobiles,
		Categories:      []string{"SaaS"},
	}
	page := Apply(records, state, 1, 50)

	if got := ids(page.Records); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("Apply() multi-select override = %v, want [2]", got)
	}
}

func TestApplyQueryCaseInsensitive(t *testing.T) {
	records := []ShowcaseRecord{
		mkRecord("1", "Fintech Dashboard", "SaaS"),
		mkRecord("2", "Travel Blog", "Blog"),
	}

	tests := []struct {
		query string
		want  []string
	}{
		{"fin", []string{"1"}},
		{"FINTECH", []string{"1"}},
		{"blog", []string{"2"}},
		{"", []string{"1", "2"}},
		{"nomatch", nil},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			page := Apply(records, FilterState{Query: tt.query}, 1, 50)
			got := ids(page.Records)
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Apply() query %q = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestApplyQueryMatchesTagsAndDescription(t *testing.T) {
	records := []ShowcaseRecord{
		{ID: "1", Title: "Plain", Description: "dark mode landing", Tags: []string{"Minimal"}},
		{ID: "2", Title: "Other", Tags: []string{"Brutalist"}},
	}

	if page := Apply(records, FilterState{Query: "landing"}, 1, 10); len(page.Records) != 1 || page.Records[0].ID != "1" {
		t.Errorf("Apply() description query = %v, want [1]", ids(page.Records))
	}
	if page := Apply(records, FilterState{Query: "brutal"}, 1, 10); len(page.Records) != 1 || page.Records[0].ID != "2" {
		t.Errorf("Apply() tag query = %v, want [2]", ids(page.Records))
	}
}

func TestApplyTagSelection(t *testing.T) {
	records := []ShowcaseRecord{
		mkRecord("1", "A", "SaaS", "Dark Mode", "Minimal"),
		mkRecord("2", "B", "SaaS", "Colorful"),
	}

	// Selected tag is a case-insensitive substring of a record tag.
	page := Apply(records, FilterState{Tags: []string{"dark"}}, 1, 50)
	if got := ids(page.Records); !reflect.DeepEqual(got, []string{"1"}) {
		t.Errorf("Apply() tag selection = %v, want [1]", got)
	}

	// Any selected tag matching is enough.
	page = Apply(records, FilterState{Tags: []string{"colorful", "nothing"}}, 1, 50)
	if got := ids(page.Records); !reflect.DeepEqual(got, []string{"2"}) {
		t.Errorf("Apply() multi tag selection = %v, want [2]", got)
	}
}

func TestApplyIdempotent(t *testing.T) {
	records := []ShowcaseRecord{
		mkRecord("1", "Alpha", "SaaS", "dark"),
		mkRecord("2", "Beta", CategoryMobile),
		mkRecord("3", "Gamma", "Blog"),
	}
	state := FilterState{PrimaryCategory: PrimaryWebsites, Query: "a", Sort: SortTitleAsc}

	first := Apply(records, state, 1, 2)
	second := Apply(records, state, 1, 2)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Apply() not idempotent: first %+v, second %+v", first, second)
	}
}

func TestApplySortKeyNeverChangesTotalCount(t *testing.T) {
	now := time.Now()
	var records []ShowcaseRecord
	for i := 0; i < 17; i++ {
		rec := mkRecord(fmt.Sprintf("%d", i), fmt.Sprintf("title-%d", i), "SaaS")
		rec.CreatedAt = now.Add(time.Duration(i) * time.Minute)
		rec.ViewCount = int64(i % 5)
		records = append(records, rec)
	}

	keys := []SortKey{SortNewest, SortOldest, SortMostViewed, SortTitleAsc, SortTitleDesc}
	base := Apply(records, FilterState{Sort: SortNewest}, 1, 5)

	for _, key := range keys {
		page := Apply(records, FilterState{Sort: key}, 1, 5)
		if page.TotalCount != base.TotalCount {
			t.Errorf("Apply() sort %s TotalCount = %d, want %d", key, page.TotalCount, base.TotalCount)
		}
	}
}

// Two records with identical timestamps must keep their input order under
// newest: the sort has to be stable.
func TestApplySortStability(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []ShowcaseRecord{
		{ID: "first", CreatedAt: ts},
		{ID: "second", CreatedAt: ts},
		{ID: "third", CreatedAt: ts.Add(-time.Hour)},
	}

	page := Apply(records, FilterState{Sort: SortNewest}, 1, 10)

	want := []string{"first", "second", "third"}
	if !reflect.DeepEqual(ids(page.Records), want) {
		t.Errorf("Apply() stable sort = %v, want %v", ids(page.Records), want)
	}
}

func TestApplySortOrders(t *testing.T) {
	t1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)
	records := []ShowcaseRecord{
		{ID: "a", Title: "Zebra", CreatedAt: t1, ViewCount: 10},
		{ID: "b", Title: "Apple", CreatedAt: t2, ViewCount: 3},
	}

	tests := []struct {
		key  SortKey
		want []string
	}{
		{SortNewest, []string{"b", "a"}},
		{SortOldest, []string{"a", "b"}},
		{SortMostViewed, []string{"a", "b"}},
		{SortTitleAsc, []string{"b", "a"}},
		{SortTitleDesc, []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			page := Apply(records, FilterState{Sort: tt.key}, 1, 10)
			if !reflect.DeepEqual(ids(page.Records), tt.want) {
				t.Errorf("Apply() sort %s = %v, want %v", tt.key, ids(page.Records), tt.want)
			}
		})
	}
}

func TestApplyPagination(t *testing.T) {
	var records []ShowcaseRecord
	for i := 0; i < 125; i++ {
		records = append(records, mkRecord(fmt.Sprintf("%d", i), "t", "SaaS"))
	}

	page := Apply(records, FilterState{}, 3, 50)

	if page.TotalCount != 125 {
		t.Errorf("Apply() TotalCount = %d, want 125", page.TotalCount)
	}
	if page.TotalPages != 3 {
		t.Errorf("Apply() TotalPages = %d, want 3", page.TotalPages)
	}
	if len(page.Records) != 25 {
		t.Errorf("Apply() page 3 size = %d, want 25", len(page.Records))
	}
}

func TestApplyPaginationEdges(t *testing.T) {
	records := []ShowcaseRecord{mkRecord("1", "t", "SaaS")}

	// Empty result: zero pages.
	empty := Apply(records, FilterState{Query: "nomatch"}, 1, 50)
	if empty.TotalPages != 0 || empty.TotalCount != 0 {
		t.Errorf("Apply() empty result = %d pages / %d total, want 0/0", empty.TotalPages, empty.TotalCount)
	}

	// Past-the-end page: counts intact, no records.
	over := Apply(records, FilterState{}, 9, 50)
	if over.TotalCount != 1 || len(over.Records) != 0 {
		t.Errorf("Apply() out-of-range page = %d records (total %d), want 0 (total 1)", len(over.Records), over.TotalCount)
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	records := []ShowcaseRecord{
		{ID: "b", Title: "B"},
		{ID: "a", Title: "A"},
	}

	Apply(records, FilterState{Sort: SortTitleAsc}, 1, 10)

	if records[0].ID != "b" || records[1].ID != "a" {
		t.Errorf("Apply() mutated input order: %v", ids(records))
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
	}{
		{"newest", SortNewest},
		{"oldest", SortOldest},
		{"most_viewed", SortMostViewed},
		{"title_asc", SortTitleAsc},
		{"title_desc", SortTitleDesc},
		{"", SortNewest},
		{"garbage", SortNewest},
	}

	for _, tt := range tests {
		if got := ParseSortKey(tt.in); got != tt.want {
			t.Errorf("ParseSortKey(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
