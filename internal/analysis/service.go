// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis turns a student submission into a plagiarism report.
// Local analysis ranks the reference corpus; external analysis checks the
// bibliographic database. Both share request validation.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/plagiarism-engine/internal/external"
	"github.com/pdiddy/plagiarism-engine/internal/similarity"
	"github.com/pdiddy/plagiarism-engine/internal/textnorm"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

const (
	MaxStudentIDLen = 50
	MinTextLen      = 10

	DefaultMinWordCount = 5
)

var (
	// ErrInvalidRequest is returned for a malformed student id or text.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrTextTooShort is returned when too few meaningful words remain
	// after normalization.
	ErrTextTooShort = errors.New("text too short for analysis")

	// ErrExternalDisabled is returned by external analysis when the
	// service has no external analyzer.
	ErrExternalDisabled = errors.New("external lookup not configured")
)

// Request is one submission.
type Request struct {
	StudentID string `json:"student_id" yaml:"student_id"`
	Text      string `json:"text" yaml:"text"`
}

// Validate checks the student id length and the raw text length.
func (r Request) Validate() error {
	n := utf8.RuneCountInString(r.StudentID)
	if n < 1 || n > MaxStudentIDLen {
		return fmt.Errorf("%w: student_id must be 1-%d characters", ErrInvalidRequest, MaxStudentIDLen)
	}
	if utf8.RuneCountInString(r.Text) < MinTextLen {
		return fmt.Errorf("%w: text must be at least %d characters", ErrInvalidRequest, MinTextLen)
	}
	return nil
}

// LocalReport is the outcome of comparing a submission with the
// reference corpus.
type LocalReport struct {
	StudentID    string              `json:"student_id"`
	Decision     string              `json:"decision"`
	Verdict      similarity.Verdict  `json:"verdict"`
	Color        string              `json:"decision_color"`
	HighestScore float64             `json:"highest_score"`
	WordCount    int                 `json:"word_count"`
	TopMatches   []types.MatchResult `json:"top_matches"`
}

// ExternalReport is the outcome of checking a submission against the
// bibliographic database.
type ExternalReport struct {
	StudentID      string                 `json:"student_id"`
	QueryKeywords  []string               `json:"query_keywords"`
	ResultCount    int                    `json:"result_count"`
	Sources        []types.ExternalRecord `json:"sources"`
	LatencySeconds float64                `json:"latency_seconds"`
	FromCache      bool                   `json:"from_cache"`
}

// FullReport combines both analyses.
type FullReport struct {
	Local    LocalReport    `json:"local"`
	External ExternalReport `json:"external"`
}

// DocumentSource supplies the reference corpus snapshot.
type DocumentSource interface {
	Documents(ctx context.Context) ([]types.ReferenceDocument, error)
}

// ExternalAnalyzer checks text against an external database.
// *external.Analyzer satisfies it.
type ExternalAnalyzer interface {
	Analyze(ctx context.Context, text string) (external.Result, error)
}

// Service runs analyses. It is safe for concurrent use.
type Service struct {
	docs       DocumentSource
	external   ExternalAnalyzer
	ranker     *similarity.Ranker
	normalizer *textnorm.Normalizer
	policy     similarity.Policy
	minWords   int
	topN       int
	log        *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithRanker replaces the default ranker.
func WithRanker(r *similarity.Ranker) Option {
	return func(s *Service) {
		if r != nil {
			s.ranker = r
		}
	}
}

// WithNormalizer sets the normalizer used for the word count.
func WithNormalizer(n *textnorm.Normalizer) Option {
	return func(s *Service) {
		if n != nil {
			s.normalizer = n
		}
	}
}

// WithPolicy sets the verdict thresholds.
func WithPolicy(p similarity.Policy) Option {
	return func(s *Service) { s.policy = p }
}

// WithMinWordCount sets the minimum number of meaningful words.
func WithMinWordCount(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.minWords = n
		}
	}
}

// WithTopN sets how many matches a local report lists.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// NewService returns a Service over docs. ext may be nil, in which case
// external analysis reports ErrExternalDisabled.
func NewService(docs DocumentSource, ext ExternalAnalyzer, opts ...Option) *Service {
	s := &Service{
		docs:       docs,
		external:   ext,
		ranker:     similarity.NewRanker(),
		normalizer: &textnorm.Normalizer{},
		policy:     similarity.DefaultPolicy(),
		minWords:   DefaultMinWordCount,
		topN:       similarity.DefaultTopN,
		log:        slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AnalyzeLocal ranks the reference corpus against req.Text and applies
// the verdict policy to the best score. An empty corpus scores 0.
func (s *Service) AnalyzeLocal(ctx context.Context, req Request) (LocalReport, error) {
	if err := req.Validate(); err != nil {
		return LocalReport{}, err
	}
	words := s.normalizer.WordCount(req.Text)
	if words < s.minWords {
		return LocalReport{}, fmt.Errorf("%w: please provide at least %d meaningful words", ErrTextTooShort, s.minWords)
	}

	docs, err := s.docs.Documents(ctx)
	if err != nil {
		return LocalReport{}, fmt.Errorf("loading reference corpus: %w", err)
	}

	matches := s.ranker.FindTopMatches(req.Text, docs, s.topN)
	highest := 0.0
	if len(matches) > 0 {
		highest = matches[0].Score
	}
	verdict := s.policy.Decide(highest)

	for i := range matches {
		matches[i].Score = external.Round4(matches[i].Score)
	}
	if matches == nil {
		matches = []types.MatchResult{}
	}

	s.log.Info("local analysis",
		slog.String("student_id", req.StudentID),
		slog.Int("documents", len(docs)),
		slog.Float64("highest_score", highest),
		slog.String("verdict", string(verdict)))

	return LocalReport{
		StudentID:    req.StudentID,
		Decision:     verdict.Label(),
		Verdict:      verdict,
		Color:        verdict.Color(),
		HighestScore: external.Round4(highest),
		WordCount:    words,
		TopMatches:   matches,
	}, nil
}

// AnalyzeExternal checks req.Text against the bibliographic database.
// Lookup errors are returned unwrapped so callers can inspect them.
func (s *Service) AnalyzeExternal(ctx context.Context, req Request) (ExternalReport, error) {
	if err := req.Validate(); err != nil {
		return ExternalReport{}, err
	}
	if s.external == nil {
		return ExternalReport{}, ErrExternalDisabled
	}

	res, err := s.external.Analyze(ctx, req.Text)
	if err != nil {
		s.log.Warn("external analysis failed", slog.String("student_id", req.StudentID), slog.Any("error", err))
		return ExternalReport{}, err
	}

	keywords, records := res.Keywords, res.Records
	if keywords == nil {
		keywords = []string{}
	}
	if records == nil {
		records = []types.ExternalRecord{}
	}
	return ExternalReport{
		StudentID:      req.StudentID,
		QueryKeywords:  keywords,
		ResultCount:    len(records),
		Sources:        records,
		LatencySeconds: res.Latency.Seconds(),
		FromCache:      res.FromCache,
	}, nil
}

// AnalyzeFull runs local and external analysis concurrently. Either
// failing fails the whole call.
func (s *Service) AnalyzeFull(ctx context.Context, req Request) (FullReport, error) {
	var report FullReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		local, err := s.AnalyzeLocal(gctx, req)
		report.Local = local
		return err
	})
	g.Go(func() error {
		ext, err := s.AnalyzeExternal(gctx, req)
		report.External = ext
		return err
	})
	if err := g.Wait(); err != nil {
		return FullReport{}, err
	}
	return report, nil
}
