// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package crossref is a thin client for the Crossref REST API works
// search. It returns raw metadata records; scoring and caching live with
// the caller.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/plagiarism-engine/internal/httputil"
)

// crossrefBase is the Crossref API root. Declared as a var so tests can
// substitute an httptest server.
var crossrefBase = "https://api.crossref.org"

// selectFields limits the works payload to what record building reads.
const selectFields = "DOI,title,author,issued,abstract,URL,publisher,score"

const defaultRows = 10

// StatusError reports a non-200 response from Crossref.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("crossref returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("crossref returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Client queries the Crossref works endpoint.
type Client struct {
	HTTP *http.Client
	// BaseURL overrides crossrefBase when set.
	BaseURL string
	// Mailto is sent for polite pool access.
	Mailto    string
	UserAgent string
	Rows      int
	// MaxRetries bounds retries on HTTP 429. Zero uses the httputil default.
	MaxRetries int
}

// SearchWorks runs a bibliographic search for the given keywords and
// returns the raw work items in Crossref's relevance order.
func (c *Client) SearchWorks(ctx context.Context, keywords []string) ([]Work, error) {
	query := strings.Join(keywords, " ")
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("empty crossref query")
	}

	rows := c.Rows
	if rows <= 0 {
		rows = defaultRows
	}
	params := url.Values{
		"query.bibliographic": {query},
		"rows":                {strconv.Itoa(rows)},
		"select":              {selectFields},
	}
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}

	base := c.BaseURL
	if base == "" {
		base = crossrefBase
	}
	reqURL := strings.TrimRight(base, "/") + "/works?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	req.Header.Set("Accept", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := httputil.DoWithRetry(ctx, client, req, c.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("crossref request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var wr worksResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, fmt.Errorf("parsing crossref response: %w", err)
	}
	return wr.Message.Items, nil
}

type worksResponse struct {
	Status  string `json:"status"`
	Message struct {
		TotalResults int    `json:"total-results"`
		Items        []Work `json:"items"`
	} `json:"message"`
}
