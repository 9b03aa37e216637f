// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package corpus

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

//go:embed seed.yaml
var seedYAML []byte

// SampleDocuments returns the bundled sample corpus.
func SampleDocuments() ([]types.ReferenceDocument, error) {
	return decodeDocuments(seedYAML)
}

// Seed inserts the sample corpus when the store is empty and returns the
// number of documents written. A non-empty store is left alone.
func (s *Store) Seed(ctx context.Context, w io.Writer) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		fmt.Fprintf(w, "corpus already contains %d documents, skipping seed\n", n)
		return 0, nil
	}

	docs, err := SampleDocuments()
	if err != nil {
		return 0, fmt.Errorf("loading sample corpus: %w", err)
	}
	inserted, err := s.insertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("seeding corpus: %w", err)
	}
	fmt.Fprintf(w, "seeded %d sample documents\n", inserted)
	return inserted, nil
}

// Import reads a YAML or JSON list of documents from path and stores them in one
// transaction. Missing ids and timestamps are assigned.
func (s *Store) Import(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	docs, err := decodeDocuments(data)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", path, err)
	}
	return s.insertMany(ctx, docs)
}

func decodeDocuments(data []byte) ([]types.ReferenceDocument, error) {
	var docs []types.ReferenceDocument
	if err := yaml.Unmarshal(data, &docs); err != nil {
		return nil, err
	}
	return docs, nil
}
