// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExternalRecord is a bibliographic record from the external database,
// merged with a locally computed overlap score.
type ExternalRecord struct {
	// Source names the external database (e.g. "Crossref").
	Source string `json:"source" yaml:"source"`

	// DOI is the bare DOI, if the record has one.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	Title   string   `json:"title,omitempty" yaml:"title,omitempty"`
	Authors []string `json:"authors" yaml:"authors"`

	// Year is the publication year. Zero means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// AbstractSnippet is the tag-stripped, truncated abstract.
	AbstractSnippet string `json:"abstract_snippet,omitempty" yaml:"abstract_snippet,omitempty"`

	// Score is the external relevance score, rescaled against the
	// highest score of the batch it arrived in. Nil when the source gave none.
	Score *float64 `json:"score,omitempty" yaml:"score,omitempty"`

	// PlagiarismScore is the n-gram Jaccard overlap between the submission
	// and AbstractSnippet. Nil when either side had no usable text.
	PlagiarismScore *float64 `json:"plagiarism_score,omitempty" yaml:"plagiarism_score,omitempty"`

	URL       string `json:"url,omitempty" yaml:"url,omitempty"`
	Publisher string `json:"publisher,omitempty" yaml:"publisher,omitempty"`
}
