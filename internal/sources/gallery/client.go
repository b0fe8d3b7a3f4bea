package gallery

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vitrinelabs/vitrine/internal/domain"
	"github.com/vitrinelabs/vitrine/internal/utils"
)

const defaultRequestTimeout = 15 * time.Second

// Client talks to the remote gallery API.
//
// The bearer token is attached transparently to every request; the rest of
// the codebase never sees it. All failures come back as the domain error
// taxonomy: TransportError for network/HTTP trouble, ErrNotFound when the
// gallery reports a missing entity.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a gallery client for the given base URL.
// An empty token disables the Authorization header (public endpoints only).
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// ListPage fetches one page of the showcase listing.
func (c *Client) ListPage(ctx context.Context, page, perPage int) (*PageEnvelope, error) {
	q := url.Values{}
	q.Set("page", fmt.Sprintf("%d", page))
	q.Set("per_page", fmt.Sprintf("%d", perPage))

	var env PageEnvelope
	if err := c.getJSON(ctx, "/showcases", q, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// GetShowcase fetches a single record together with its similar records.
func (c *Client) GetShowcase(ctx context.Context, id string) (*DetailEnvelope, error) {
	var env DetailEnvelope
	if err := c.getJSON(ctx, "/showcases/"+url.PathEscape(id), nil, &env); err != nil {
		return nil, err
	}
	return &env, nil
}

// ListCollections fetches the authenticated user's collections.
func (c *Client) ListCollections(ctx context.Context) ([]CollectionDoc, error) {
	var env CollectionsEnvelope
	if err := c.getJSON(ctx, "/collections", nil, &env); err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateCollection creates a named empty collection and returns the
// server-assigned entity.
func (c *Client) CreateCollection(ctx context.Context, name string) (*CollectionDoc, error) {
	var env CollectionEnvelope
	if err := c.sendJSON(ctx, http.MethodPost, "/collections", collectionNameRequest{Name: name}, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// RenameCollection renames a collection and returns the full updated entity.
func (c *Client) RenameCollection(ctx context.Context, id, name string) (*CollectionDoc, error) {
	var env CollectionEnvelope
	if err := c.sendJSON(ctx, http.MethodPut, "/collections/"+url.PathEscape(id), collectionNameRequest{Name: name}, &env); err != nil {
		return nil, err
	}
	return &env.Data, nil
}

// DeleteCollection removes a collection entirely.
func (c *Client) DeleteCollection(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, "/collections/"+url.PathEscape(id), nil, nil)
}

// AddCollectionShowcase attaches a showcase to a collection.
func (c *Client) AddCollectionShowcase(ctx context.Context, collectionID, showcaseID string) error {
	body := addShowcaseRequest{ShowcaseID: showcaseID}
	return c.sendJSON(ctx, http.MethodPost, "/collections/"+url.PathEscape(collectionID)+"/showcases", body, nil)
}

// RemoveCollectionShowcase detaches a showcase from a collection.
func (c *Client) RemoveCollectionShowcase(ctx context.Context, collectionID, showcaseID string) error {
	path := "/collections/" + url.PathEscape(collectionID) + "/showcases/" + url.PathEscape(showcaseID)
	return c.sendJSON(ctx, http.MethodDelete, path, nil, nil)
}

// getJSON performs a GET and decodes the response into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

// sendJSON performs a request with an optional JSON body, decoding the
// response into out when out is non-nil.
func (c *Client) sendJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(req, out)
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build gallery request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return domain.NewTransportError(0, err)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return domain.NewTransportError(resp.StatusCode,
			fmt.Errorf("%s %s returned %s", req.Method, req.URL.Path, resp.Status))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewTransportError(resp.StatusCode,
			fmt.Errorf("failed to decode gallery response: %w", err))
	}
	return nil
}
