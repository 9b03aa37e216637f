// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagiarism-engine/internal/httputil"
)

const worksFixture = `{
  "status": "ok",
  "message": {
    "total-results": 2,
    "items": [
      {
        "DOI": "10.1000/mito.1",
        "title": ["Mitochondria and Cellular Energy"],
        "author": [{"given": "Ada", "family": "Lovelace"}, {"name": "Cell Biology Consortium"}],
        "issued": {"date-parts": [[2019, 4, 2]]},
        "abstract": "<jats:p>The mitochondria is the powerhouse of the cell.</jats:p>",
        "URL": "https://doi.org/10.1000/mito.1",
        "publisher": "Example Press",
        "score": 42.5
      },
      {
        "DOI": "10.1000/mito.2",
        "title": "Bare Title",
        "issued": {"date-parts": [[null]]},
        "score": null
      }
    ]
  }
}`

func init() {
	httputil.RetryBaseDelay = time.Millisecond
	httputil.MaxRetryDelay = 5 * time.Millisecond
}

func TestSearchWorks(t *testing.T) {
	var got *http.Request
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(worksFixture))
	}))
	defer ts.Close()

	old := crossrefBase
	crossrefBase = ts.URL
	defer func() { crossrefBase = old }()

	c := &Client{HTTP: ts.Client(), Mailto: "lab@example.edu", UserAgent: "plagiarism-engine/test", Rows: 5}
	works, err := c.SearchWorks(context.Background(), []string{"mitochondria", "powerhouse"})
	require.NoError(t, err)
	require.Len(t, works, 2)

	require.NotNil(t, got)
	assert.Equal(t, "/works", got.URL.Path)
	q := got.URL.Query()
	assert.Equal(t, "mitochondria powerhouse", q.Get("query.bibliographic"))
	assert.Equal(t, "5", q.Get("rows"))
	assert.Equal(t, "lab@example.edu", q.Get("mailto"))
	assert.Equal(t, selectFields, q.Get("select"))
	assert.Equal(t, "plagiarism-engine/test", got.Header.Get("User-Agent"))

	w := works[0]
	assert.Equal(t, "10.1000/mito.1", w.DOI)
	assert.Equal(t, "Mitochondria and Cellular Energy", w.Title.First())
	assert.Equal(t, 2019, w.Issued.Year())
	require.Len(t, w.Author, 2)
	assert.Equal(t, "Ada Lovelace", w.Author[0].DisplayName())
	assert.Equal(t, "Cell Biology Consortium", w.Author[1].DisplayName())
	score, ok := w.RelevanceScore()
	assert.True(t, ok)
	assert.Equal(t, 42.5, score)

	w = works[1]
	assert.Equal(t, "Bare Title", w.Title.First())
	assert.Equal(t, 0, w.Issued.Year())
	_, ok = w.RelevanceScore()
	assert.False(t, ok)
}

func TestSearchWorksBaseURLOverride(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/works", r.URL.Path)
		assert.Empty(t, r.URL.Query().Get("mailto"))
		assert.Equal(t, "10", r.URL.Query().Get("rows"))
		w.Write([]byte(`{"message":{"items":[]}}`))
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), BaseURL: ts.URL + "/"}
	works, err := c.SearchWorks(context.Background(), []string{"entropy"})
	require.NoError(t, err)
	assert.Empty(t, works)
}

func TestSearchWorksStatusError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), BaseURL: ts.URL}
	_, err := c.SearchWorks(context.Background(), []string{"entropy"})
	require.Error(t, err)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Contains(t, se.Error(), "upstream down")
}

func TestSearchWorksRetriesRateLimit(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"message":{"items":[{"DOI":"10.1/x"}]}}`))
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), BaseURL: ts.URL, MaxRetries: 2}
	works, err := c.SearchWorks(context.Background(), []string{"entropy"})
	require.NoError(t, err)
	require.Len(t, works, 1)
	assert.Equal(t, 2, calls)
}

func TestSearchWorksEmptyQuery(t *testing.T) {
	c := &Client{}
	_, err := c.SearchWorks(context.Background(), nil)
	assert.Error(t, err)
}

func TestSearchWorksMalformedBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer ts.Close()

	c := &Client{HTTP: ts.Client(), BaseURL: ts.URL}
	_, err := c.SearchWorks(context.Background(), []string{"entropy"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing crossref response")
}

func TestTitlesUnmarshal(t *testing.T) {
	var w Work
	require.NoError(t, json.Unmarshal([]byte(`{"title":["A","B"]}`), &w))
	assert.Equal(t, "A", w.Title.First())

	require.NoError(t, json.Unmarshal([]byte(`{"title":"Solo"}`), &w))
	assert.Equal(t, "Solo", w.Title.First())

	w = Work{}
	require.NoError(t, json.Unmarshal([]byte(`{"title":[]}`), &w))
	assert.Equal(t, "", w.Title.First())
}

func TestRelevanceScoreNonNumeric(t *testing.T) {
	var w Work
	require.NoError(t, json.Unmarshal([]byte(`{"score":"high"}`), &w))
	_, ok := w.RelevanceScore()
	assert.False(t, ok)
}
