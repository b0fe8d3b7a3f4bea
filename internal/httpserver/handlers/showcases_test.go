package handlers

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

func TestParseFilterState(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want domain.FilterState
	}{
		{
			name: "defaults",
			url:  "/showcases",
			want: domain.FilterState{PrimaryCategory: domain.PrimaryWebsites, Sort: domain.SortNewest},
		},
		{
			name: "primary toggle",
			url:  "/showcases?primary=Mobiles",
			want: domain.FilterState{PrimaryCategory: domain.PrimaryMobiles, Sort: domain.SortNewest},
		},
		{
			name: "comma separated categories",
			url:  "/showcases?categories=Websites,Mobile",
			want: domain.FilterState{
				PrimaryCategory: domain.PrimaryWebsites,
				Categories:      []string{"Websites", "Mobile"},
				Sort:            domain.SortNewest,
			},
		},
		{
			name: "repeated tag params",
			url:  "/showcases?tags=SaaS&tags=Health",
			want: domain.FilterState{
				PrimaryCategory: domain.PrimaryWebsites,
				Tags:            []string{"SaaS", "Health"},
				Sort:            domain.SortNewest,
			},
		},
		{
			name: "query and sort",
			url:  "/showcases?q=fintech&sort=most_viewed",
			want: domain.FilterState{
				PrimaryCategory: domain.PrimaryWebsites,
				Query:           "fintech",
				Sort:            domain.SortMostViewed,
			},
		},
		{
			name: "unknown sort falls back to newest",
			url:  "/showcases?sort=sideways",
			want: domain.FilterState{PrimaryCategory: domain.PrimaryWebsites, Sort: domain.SortNewest},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFilterState(httptest.NewRequest("GET", tt.url, nil))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("parseFilterState() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		wantPage    int
		wantPerPage int
	}{
		{name: "defaults", url: "/showcases", wantPage: 1, wantPerPage: 24},
		{name: "explicit", url: "/showcases?page=3&per_page=12", wantPage: 3, wantPerPage: 12},
		{name: "zero page clamped", url: "/showcases?page=0", wantPage: 1, wantPerPage: 24},
		{name: "negative page clamped", url: "/showcases?page=-2", wantPage: 1, wantPerPage: 24},
		{name: "oversized per_page ignored", url: "/showcases?per_page=5000", wantPage: 1, wantPerPage: 24},
		{name: "garbage ignored", url: "/showcases?page=abc&per_page=xyz", wantPage: 1, wantPerPage: 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, perPage := parsePagination(httptest.NewRequest("GET", tt.url, nil), 24)
			if page != tt.wantPage || perPage != tt.wantPerPage {
				t.Errorf("parsePagination() = (%d, %d), want (%d, %d)",
					page, perPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}
