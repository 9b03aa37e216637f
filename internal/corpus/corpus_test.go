// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(types.CorpusConfig{DataDir: filepath.Join(t.TempDir(), "data")}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// fixedClock returns successive instants one second apart.
func fixedClock() func() time.Time {
	t := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	s := testStore(t)
	_, err := os.Stat(s.Path())
	require.NoError(t, err)
	require.NoError(t, s.Ping(context.Background()))

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAddGetDelete(t *testing.T) {
	s := testStore(t)
	s.now = fixedClock()
	ctx := context.Background()

	stored, err := s.Add(ctx, types.ReferenceDocument{
		Title:    "Entropy",
		Content:  "Entropy of an isolated system never decreases.",
		Category: "Physics",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)
	assert.False(t, stored.CreatedAt.IsZero())

	got, err := s.Get(ctx, stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.Title, got.Title)
	assert.Equal(t, stored.Content, got.Content)
	assert.Empty(t, got.Source)
	assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))

	require.NoError(t, s.Delete(ctx, stored.ID))
	_, err = s.Get(ctx, stored.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, stored.ID), ErrNotFound)
}

func TestAddValidates(t *testing.T) {
	s := testStore(t)
	_, err := s.Add(context.Background(), types.ReferenceDocument{Title: "only a title"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDocument))
	assert.Contains(t, err.Error(), "content, category")
}

func TestDocumentsInsertionOrder(t *testing.T) {
	s := testStore(t)
	s.now = fixedClock()
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		_, err := s.Add(ctx, types.ReferenceDocument{Title: title, Content: title + " body", Category: "Test"})
		require.NoError(t, err)
	}
	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	assert.Equal(t, "first", docs[0].Title)
	assert.Equal(t, "second", docs[1].Title)
	assert.Equal(t, "third", docs[2].Title)
}

func TestGenerationBumpsOnMutation(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()
	g0 := s.Generation()

	d, err := s.Add(ctx, types.ReferenceDocument{Title: "t", Content: "c", Category: "x"})
	require.NoError(t, err)
	g1 := s.Generation()
	assert.Greater(t, g1, g0)

	require.NoError(t, s.Delete(ctx, d.ID))
	assert.Greater(t, s.Generation(), g1)
}

func TestSeed(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var out bytes.Buffer
	n, err := s.Seed(ctx, &out)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Contains(t, out.String(), "seeded 10")

	docs, err := s.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 10)
	assert.Equal(t, "Mitochondria - The Powerhouse of the Cell", docs[0].Title)
	assert.Equal(t, "Wikipedia", docs[0].Source)

	categories := map[string]bool{}
	for _, d := range docs {
		categories[d.Category] = true
	}
	for _, c := range []string{"Biology", "Computer Science", "Physics", "Engineering", "Thesis Abstract"} {
		assert.True(t, categories[c], "missing category %s", c)
	}

	out.Reset()
	n, err = s.Seed(ctx, &out)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, out.String(), "already contains 10")
}

func TestSampleDocumentsAreValid(t *testing.T) {
	docs, err := SampleDocuments()
	require.NoError(t, err)
	for _, d := range docs {
		assert.NoError(t, validate(d), d.Title)
		assert.False(t, strings.Contains(d.Content, "\n"), "folded content for %s", d.Title)
	}
}

func TestImportExportRoundTrip(t *testing.T) {
	src := testStore(t)
	ctx := context.Background()
	_, err := src.Seed(ctx, &bytes.Buffer{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, src.ExportYAML(ctx, &buf))

	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	dst := testStore(t)
	n, err := dst.Import(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	want, err := src.Documents(ctx)
	require.NoError(t, err)
	got, err := dst.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].Content, got[i].Content)
	}
}

func TestImportRejectsInvalidBatch(t *testing.T) {
	s := testStore(t)
	docs := []types.ReferenceDocument{
		{Title: "ok", Content: "fine", Category: "x"},
		{Title: "no content", Category: "x"},
	}
	data, err := yaml.Marshal(docs)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = s.Import(context.Background(), path)
	require.ErrorIs(t, err, ErrInvalidDocument)
	assert.Contains(t, err.Error(), "document 2")

	n, err := s.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, n, "batch is all or nothing")
}

func TestExportJSON(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	var empty bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &empty))
	assert.Equal(t, "[]\n", empty.String())

	_, err := s.Add(ctx, types.ReferenceDocument{Title: "t", Content: "c", Category: "x", Source: "Lab"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.ExportJSON(ctx, &buf))
	var docs []types.ReferenceDocument
	require.NoError(t, json.Unmarshal(buf.Bytes(), &docs))
	require.Len(t, docs, 1)
	assert.Equal(t, "Lab", docs[0].Source)
}
