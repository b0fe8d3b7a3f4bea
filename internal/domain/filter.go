package domain

import (
	"sort"
	"strings"
)

// SortKey selects the ordering applied after filtering.
type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortOldest     SortKey = "oldest"
	SortMostViewed SortKey = "most_viewed"
	SortTitleAsc   SortKey = "title_asc"
	SortTitleDesc  SortKey = "title_desc"
)

// ParseSortKey maps a raw string onto a SortKey, falling back to newest.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortOldest, SortMostViewed, SortTitleAsc, SortTitleDesc:
		return SortKey(s)
	default:
		return SortNewest
	}
}

const (
	// PrimaryWebsites matches everything that is not the Mobile category,
	// uncategorized records included.
	PrimaryWebsites = "Websites"

	// PrimaryMobiles matches exactly the Mobile category.
	PrimaryMobiles = "Mobiles"

	// CategoryMobile is the gallery's category name for mobile designs.
	CategoryMobile = "Mobile"
)

// FilterState is one facet selection over the cached record set.
// Pure value object: no identity beyond its fields.
//
// Usage contract: whenever any facet changes, the caller must reset its
// page back to 1. Apply does not (and cannot) enforce that.
type FilterState struct {
	// PrimaryCategory is the primary toggle ("Websites" by default).
	// Ignored entirely while Categories is non-empty.
	PrimaryCategory string

	// Categories is the multi-select override. Empty means no override.
	Categories []string

	// Tags narrows to records where at least one selected tag is a
	// case-insensitive substring of at least one record tag.
	// Empty means no tag filter.
	Tags []string

	// Query is the free-text filter, matched case-insensitively against
	// title, description, category and tag names. Empty means no filter.
	Query string

	// Sort is the ordering key.
	Sort SortKey
}

// DefaultFilterState returns the facet selection a fresh session starts with.
func DefaultFilterState() FilterState {
	return FilterState{PrimaryCategory: PrimaryWebsites, Sort: SortNewest}
}

// Page is one ordered, paged view over a filtered record set.
type Page struct {
	Records    []ShowcaseRecord
	TotalCount int
	TotalPages int
}

// Apply filters, sorts and paginates records. Pure and deterministic:
// it never mutates its input, and applying it twice to the same inputs
// yields identical output.
//
// page is 1-indexed. TotalPages is ceil(TotalCount/pageSize) and 0 for an
// empty result; an out-of-range page yields an empty Records slice with
// the counts still populated.
func Apply(records []ShowcaseRecord, state FilterState, page, pageSize int) Page {
	filtered := make([]ShowcaseRecord, 0, len(records))
	for _, rec := range records {
		if matchesCategory(rec, state) && matchesQuery(rec, state.Query) && matchesTags(rec, state.Tags) {
			filtered = append(filtered, rec)
		}
	}

	sortRecords(filtered, state.Sort)

	if pageSize < 1 {
		pageSize = 1
	}
	if page < 1 {
		page = 1
	}

	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize

	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}

	return Page{
		Records:    filtered[start:end],
		TotalCount: total,
		TotalPages: totalPages,
	}
}

// matchesCategory resolves the category facet.
// A non-empty multi-select overrides the primary toggle entirely.
func matchesCategory(rec ShowcaseRecord, state FilterState) bool {
	if len(state.Categories) > 0 {
		for _, c := range state.Categories {
			if rec.Category == c {
				return true
			}
		}
		return false
	}

	switch state.PrimaryCategory {
	case PrimaryWebsites, "":
		// Uncategorized records count as websites.
		return rec.Category != CategoryMobile
	case PrimaryMobiles:
		return rec.Category == CategoryMobile
	default:
		return rec.Category == state.PrimaryCategory
	}
}

// matchesQuery checks the free-text facet against title, description,
// category and tag names.
func matchesQuery(rec ShowcaseRecord, query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(rec.Title), q) ||
		strings.Contains(strings.ToLower(rec.Description), q) ||
		strings.Contains(strings.ToLower(rec.Category), q) {
		return true
	}
	for _, tag := range rec.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// matchesTags checks the tag facet: at least one selected tag must be a
// case-insensitive substring of at least one record tag.
func matchesTags(rec ShowcaseRecord, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		w := strings.ToLower(want)
		for _, tag := range rec.Tags {
			if strings.Contains(strings.ToLower(tag), w) {
				return true
			}
		}
	}
	return false
}

// sortRecords orders records in place. The sort must be stable: ties keep
// their original relative order, which page consumers rely on.
func sortRecords(records []ShowcaseRecord, key SortKey) {
	switch key {
	case SortOldest:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.Before(records[j].CreatedAt)
		})
	case SortMostViewed:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ViewCount > records[j].ViewCount
		})
	case SortTitleAsc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Title < records[j].Title
		})
	case SortTitleDesc:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].Title > records[j].Title
		})
	default: // SortNewest
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		})
	}
}
