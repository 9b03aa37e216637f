// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package external checks a submission against an external bibliographic
// database: it derives a keyword query, fetches matching works through a
// result cache, and scores each abstract for n-gram overlap with the
// submission.
package external

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pdiddy/plagiarism-engine/internal/crossref"
	"github.com/pdiddy/plagiarism-engine/internal/textnorm"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

const (
	DefaultMaxKeywords = 10
	DefaultMinTokenLen = textnorm.MinTokenLength
	DefaultSnippetLen  = 400

	// SourceCrossref labels records built from Crossref works.
	SourceCrossref = "Crossref"
)

// WorkSearcher returns raw works for a keyword query. *crossref.Client
// satisfies it.
type WorkSearcher interface {
	SearchWorks(ctx context.Context, keywords []string) ([]crossref.Work, error)
}

// Result is the outcome of one external analysis.
type Result struct {
	Keywords  []string
	Records   []types.ExternalRecord
	Latency   time.Duration
	FromCache bool
}

// Analyzer runs external analyses. It is safe for concurrent use.
type Analyzer struct {
	searcher    WorkSearcher
	cache       *ResultCache
	normalizer  *textnorm.Normalizer
	maxKeywords int
	minTokenLen int
	snippetLen  int
	log         *slog.Logger
	now         func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCache shares c between analyzers.
func WithCache(c *ResultCache) Option {
	return func(a *Analyzer) {
		if c != nil {
			a.cache = c
		}
	}
}

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *textnorm.Normalizer) Option {
	return func(a *Analyzer) {
		if n != nil {
			a.normalizer = n
		}
	}
}

// WithKeywordLimits bounds keyword extraction. Non-positive values keep
// the defaults.
func WithKeywordLimits(maxKeywords, minTokenLen int) Option {
	return func(a *Analyzer) {
		if maxKeywords > 0 {
			a.maxKeywords = maxKeywords
		}
		if minTokenLen > 0 {
			a.minTokenLen = minTokenLen
		}
	}
}

// WithSnippetLen sets the abstract snippet length.
func WithSnippetLen(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.snippetLen = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// NewAnalyzer returns an Analyzer that looks works up through s.
func NewAnalyzer(s WorkSearcher, opts ...Option) *Analyzer {
	a := &Analyzer{
		searcher:    s,
		normalizer:  &textnorm.Normalizer{},
		maxKeywords: DefaultMaxKeywords,
		minTokenLen: DefaultMinTokenLen,
		snippetLen:  DefaultSnippetLen,
		log:         slog.New(slog.DiscardHandler),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = NewResultCache(DefaultTTL)
	}
	return a
}

// Analyze extracts keywords from text and returns the matching external
// records. Text without keywords yields an empty Result and no lookup.
// Records served from the cache are returned exactly as stored, so their
// overlap scores belong to the submission that first populated the entry.
// Lookup errors are returned unwrapped.
func (a *Analyzer) Analyze(ctx context.Context, text string) (Result, error) {
	start := a.now()

	keywords := a.normalizer.ExtractKeywords(text, a.maxKeywords, a.minTokenLen)
	if len(keywords) == 0 {
		return Result{Keywords: []string{}, Records: []types.ExternalRecord{}}, nil
	}
	query := strings.Join(keywords, " ")
	cleaned := a.normalizer.Normalize(text)

	records, hit, err := a.cache.GetOrFetch(ctx, query, func(ctx context.Context) ([]types.ExternalRecord, error) {
		a.log.Info("querying external database", slog.Any("keywords", keywords))
		works, err := a.searcher.SearchWorks(ctx, keywords)
		if err != nil {
			return nil, err
		}
		return a.buildRecords(works, cleaned), nil
	})
	if err != nil {
		return Result{}, err
	}

	latency := a.now().Sub(start)
	if hit {
		age, _ := a.cache.Age(query)
		a.log.Info("external cache hit", slog.Duration("age", age))
	} else {
		a.log.Info("external query completed",
			slog.Int("results", len(records)),
			slog.Duration("latency", latency))
	}
	return Result{Keywords: keywords, Records: records, Latency: latency, FromCache: hit}, nil
}

// buildRecords converts works into records and rescales their relevance
// scores against the batch maximum.
func (a *Analyzer) buildRecords(works []crossref.Work, cleanedInput string) []types.ExternalRecord {
	records := make([]types.ExternalRecord, 0, len(works))
	for _, w := range works {
		records = append(records, a.buildRecord(w, cleanedInput))
	}
	return NormalizeScores(records)
}
