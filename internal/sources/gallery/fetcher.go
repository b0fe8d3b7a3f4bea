package gallery

import (
	"context"
	"fmt"

	"github.com/vitrinelabs/vitrine/internal/domain"
)

// MaxPages bounds the fetch loop. The gallery's paginator has no such
// cap, so a server stuck reporting last_page > current_page forever would
// otherwise spin; past this bound the whole run fails closed.
const MaxPages = 1000

// Fetcher walks the paginated listing endpoint page by page and returns
// the full normalized record set.
//
// Pages are requested strictly in order from 1 and concatenated as they
// arrive; the loop is sequential on purpose so out-of-order completion
// can never corrupt accumulation order. Any single-page failure fails the
// whole run and discards partial results.
type Fetcher struct {
	client   *Client
	mapper   *Mapper
	pageSize int
}

// NewFetcher creates a fetcher using the given page size per request.
func NewFetcher(client *Client, pageSize int) *Fetcher {
	if pageSize < 1 {
		pageSize = 50
	}
	return &Fetcher{
		client:   client,
		mapper:   NewMapper(),
		pageSize: pageSize,
	}
}

// FetchAll retrieves every listing page until exhaustion.
func (f *Fetcher) FetchAll(ctx context.Context) ([]domain.ShowcaseRecord, error) {
	var records []domain.ShowcaseRecord

	page := 1
	for iterations := 0; ; iterations++ {
		if iterations >= MaxPages {
			return nil, fmt.Errorf("listing fetch exceeded %d pages, refusing to continue", MaxPages)
		}

		env, err := f.client.ListPage(ctx, page, f.pageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch listing page %d: %w", page, err)
		}

		records = append(records, f.mapper.MapShowcases(env.Data)...)

		// Done when the server says this is the last page, and also when
		// it misbehaves and stops advancing current_page.
		if env.CurrentPage >= env.LastPage || env.CurrentPage < page {
			return records, nil
		}
		page = env.CurrentPage + 1
	}
}
