// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/plagiarism-engine/internal/analysis"
	"github.com/pdiddy/plagiarism-engine/internal/crossref"
	"github.com/pdiddy/plagiarism-engine/internal/external"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

type fakeDB struct {
	docs []types.ReferenceDocument
	err  error
}

func (f fakeDB) Documents(context.Context) ([]types.ReferenceDocument, error) { return f.docs, nil }
func (f fakeDB) Ping(context.Context) error                                    { return f.err }

type fakeExternal struct {
	res external.Result
	err error
}

func (f fakeExternal) Analyze(context.Context, string) (external.Result, error) { return f.res, f.err }

func docs() []types.ReferenceDocument {
	return []types.ReferenceDocument{{
		ID: "bio-1", Title: "Mitochondria", Category: "Biology",
		Content: "The mitochondria is the powerhouse of the cell. It produces energy through cellular respiration.",
	}}
}

func newTestServer(t *testing.T, db fakeDB, ext fakeExternal) *httptest.Server {
	t.Helper()
	svc := analysis.NewService(db, ext)
	srv := New(svc, db, types.ServerConfig{CORSOrigins: []string{"https://app.example.edu"}}, "0.1.0", nil)
	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body string) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp, out
}

func TestRootAndHealth(t *testing.T) {
	ts := newTestServer(t, fakeDB{}, fakeExternal{})

	resp, err := http.Get(ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	var root map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&root))
	assert.Equal(t, "Welcome to "+AppName, root["message"])
	assert.Equal(t, "0.1.0", root["version"])

	resp2, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp2.Body.Close()
	var health healthResponse
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&health))
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.DatabaseConnected)
}

func TestHealthDegraded(t *testing.T) {
	ts := newTestServer(t, fakeDB{err: errors.New("disk I/O error")}, fakeExternal{})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	var health healthResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	assert.Equal(t, "degraded", health.Status)
	assert.False(t, health.DatabaseConnected)
}

func TestAnalyze(t *testing.T) {
	ts := newTestServer(t, fakeDB{docs: docs()}, fakeExternal{})

	body := `{"student_id":"STU-2026-001","text":"The mltochondria is the powerhose of the cell. It produces energy through cellular respiration."}`
	resp, out := postJSON(t, ts.URL+"/api/analyze", body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "STU-2026-001", out["student_id"])
	assert.Equal(t, "High Probability of Plagiarism", out["decision"])
	assert.Equal(t, "red", out["decision_color"])
	assert.GreaterOrEqual(t, out["highest_score"].(float64), 0.95)
	matches := out["top_matches"].([]any)
	require.Len(t, matches, 1)
	assert.Equal(t, "bio-1", matches[0].(map[string]any)["document_id"])
}

func TestAnalyzeBadRequests(t *testing.T) {
	ts := newTestServer(t, fakeDB{docs: docs()}, fakeExternal{})

	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{"invalid json", `{"student_id":`, "Invalid JSON body"},
		{"missing student", `{"text":"long enough text here"}`, "student_id"},
		{"short text", `{"student_id":"s","text":"short"}`, "at least 10 characters"},
		{"too few words", `{"student_id":"s","text":"the cell is of it and"}`, "at least 5 meaningful words"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, out := postJSON(t, ts.URL+"/api/analyze", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, out["detail"], tt.detail)
		})
	}
}

func TestAnalyzeExternal(t *testing.T) {
	score := 1.0
	ext := fakeExternal{res: external.Result{
		Keywords: []string{"mitochondria"},
		Records:  []types.ExternalRecord{{Source: external.SourceCrossref, DOI: "10.1/a", Score: &score, Authors: []string{}}},
	}}
	ts := newTestServer(t, fakeDB{docs: docs()}, ext)

	resp, out := postJSON(t, ts.URL+"/api/analyze/external", `{"student_id":"s","text":"mitochondria everywhere"}`)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), out["result_count"])
	assert.Equal(t, []any{"mitochondria"}, out["query_keywords"])
}

func TestAnalyzeExternalUnavailable(t *testing.T) {
	ext := fakeExternal{err: &crossref.StatusError{StatusCode: http.StatusBadGateway}}
	ts := newTestServer(t, fakeDB{docs: docs()}, ext)

	resp, out := postJSON(t, ts.URL+"/api/analyze/external", `{"student_id":"s","text":"mitochondria everywhere"}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "External service unavailable", out["detail"])
}

func TestCORS(t *testing.T) {
	ts := newTestServer(t, fakeDB{}, fakeExternal{})

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/analyze", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://app.example.edu")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "https://app.example.edu", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, ts.URL+"/", bytes.NewReader(nil))
	require.NoError(t, err)
	req.Header.Set("Origin", "https://evil.example.com")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}
