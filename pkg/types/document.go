// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the plagiarism-engine
// pipeline: the reference corpus, local match results, external
// bibliographic records, and configuration.
package types

import "time"

// ReferenceDocument is an entry in the local reference repository that
// submissions are compared against. Documents are immutable once stored.
type ReferenceDocument struct {
	// ID is an opaque identifier assigned by the corpus store.
	ID string `json:"id" yaml:"id"`

	// Title is the document title (e.g. "Cell Division and Mitosis").
	Title string `json:"title" yaml:"title"`

	// Content is the full free-text body.
	Content string `json:"content" yaml:"content"`

	// Category is the subject label (e.g. "Biology", "Thesis Abstract").
	Category string `json:"category" yaml:"category"`

	// Source is the optional origin label (e.g. "Wikipedia").
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// CreatedAt is when the document was added to the repository.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// MatchResult is one ranked comparison between a submission and a
// reference document.
type MatchResult struct {
	DocumentID string `json:"document_id" yaml:"document_id"`
	Title      string `json:"title" yaml:"title"`
	Category   string `json:"category" yaml:"category"`
	Source     string `json:"source,omitempty" yaml:"source,omitempty"`

	// Score is the cosine similarity in [0,1].
	Score float64 `json:"score" yaml:"score"`
}
