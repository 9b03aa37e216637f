// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package similarity ranks reference documents against a submission with
// TF-IDF cosine similarity, scores n-gram overlap against external
// abstracts, and maps scores to plagiarism verdicts.
package similarity

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"

	"github.com/pdiddy/plagiarism-engine/internal/fuzzy"
	"github.com/pdiddy/plagiarism-engine/internal/textnorm"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

const (
	// DefaultTopN is the number of matches returned when the caller does
	// not ask for a specific count.
	DefaultTopN = 3

	// DefaultMaxFeatures caps the TF-IDF vocabulary.
	DefaultMaxFeatures = 5000
)

// Ranker compares submissions against a reference corpus. A Ranker holds
// no per-call state; every call builds its vector space from the documents
// it is given, so one Ranker may serve concurrent callers.
type Ranker struct {
	normalizer  *textnorm.Normalizer
	corrector   *fuzzy.Corrector
	maxFeatures int
	topN        int
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithNormalizer replaces the default text normalizer.
func WithNormalizer(n *textnorm.Normalizer) RankerOption {
	return func(r *Ranker) {
		if n != nil {
			r.normalizer = n
		}
	}
}

// WithCorrector replaces the default fuzzy corrector.
func WithCorrector(c *fuzzy.Corrector) RankerOption {
	return func(r *Ranker) {
		if c != nil {
			r.corrector = c
		}
	}
}

// WithMaxFeatures sets the feature cap. Non-positive values are ignored.
func WithMaxFeatures(n int) RankerOption {
	return func(r *Ranker) {
		if n > 0 {
			r.maxFeatures = n
		}
	}
}

// WithTopN sets the default result count. Non-positive values are ignored.
func WithTopN(n int) RankerOption {
	return func(r *Ranker) {
		if n > 0 {
			r.topN = n
		}
	}
}

// NewRanker returns a Ranker with the default normalizer, corrector,
// feature cap, and result count, adjusted by opts.
func NewRanker(opts ...RankerOption) *Ranker {
	r := &Ranker{
		normalizer:  &textnorm.Normalizer{},
		corrector:   fuzzy.NewCorrector(),
		maxFeatures: DefaultMaxFeatures,
		topN:        DefaultTopN,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultRanker = NewRanker()

// FindTopMatches ranks docs against input with the default Ranker.
func FindTopMatches(input string, docs []types.ReferenceDocument, topN int) []types.MatchResult {
	return defaultRanker.FindTopMatches(input, docs, topN)
}

// FindTopMatches corrects and normalizes input, scores it against every
// document, and returns at most topN results ordered by descending score.
// Equal scores keep corpus order. A non-positive topN uses the Ranker's
// default. Empty input, an empty corpus, or an empty feature vocabulary
// yield an empty result.
func (r *Ranker) FindTopMatches(input string, docs []types.ReferenceDocument, topN int) []types.MatchResult {
	if topN <= 0 {
		topN = r.topN
	}
	if len(docs) == 0 {
		return nil
	}

	query := r.normalizer.Tokens(r.corrector.CorrectText(input, docs))
	if len(query) == 0 {
		return nil
	}

	texts := make([][]string, 0, len(docs)+1)
	texts = append(texts, query)
	for _, d := range docs {
		texts = append(texts, r.normalizer.Tokens(d.Content))
	}

	scores := cosineToFirst(texts, r.maxFeatures)
	if scores == nil {
		return nil
	}

	matches := make([]types.MatchResult, len(docs))
	for i, d := range docs {
		matches[i] = types.MatchResult{
			DocumentID: d.ID,
			Title:      d.Title,
			Category:   d.Category,
			Source:     d.Source,
			Score:      scores[i],
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topN {
		matches = matches[:topN]
	}
	return matches
}

// featureSpace maps unigram and bigram features to columns in first-seen
// order and records per-text counts.
type featureSpace struct {
	index  map[string]int
	total  []int         // corpus-wide count per feature
	df     []int         // number of texts containing the feature
	counts []map[int]int // per text: feature -> count
}

func buildFeatureSpace(texts [][]string) *featureSpace {
	fs := &featureSpace{
		index:  make(map[string]int),
		counts: make([]map[int]int, len(texts)),
	}
	for i, toks := range texts {
		c := make(map[int]int)
		for _, f := range features(toks) {
			col, ok := fs.index[f]
			if !ok {
				col = len(fs.total)
				fs.index[f] = col
				fs.total = append(fs.total, 0)
				fs.df = append(fs.df, 0)
			}
			if c[col] == 0 {
				fs.df[col]++
			}
			c[col]++
			fs.total[col]++
		}
		fs.counts[i] = c
	}
	return fs
}

// features returns the unigrams of toks followed by its adjacent pairs.
func features(toks []string) []string {
	if len(toks) == 0 {
		return nil
	}
	out := make([]string, 0, 2*len(toks)-1)
	out = append(out, toks...)
	for i := 0; i+1 < len(toks); i++ {
		out = append(out, toks[i]+" "+toks[i+1])
	}
	return out
}

// keptColumns selects the columns retained under the cap: the maxFeatures
// most frequent features across the corpus, ties resolved by first-seen
// order. The result maps old column to new column.
func (fs *featureSpace) keptColumns(maxFeatures int) map[int]int {
	n := len(fs.total)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	if maxFeatures > 0 && n > maxFeatures {
		sort.SliceStable(order, func(a, b int) bool {
			return fs.total[order[a]] > fs.total[order[b]]
		})
		order = order[:maxFeatures]
		sort.Ints(order)
	}
	kept := make(map[int]int, len(order))
	for newCol, oldCol := range order {
		kept[oldCol] = newCol
	}
	return kept
}

// cosineToFirst builds L2-normalized TF-IDF vectors for texts and returns
// the cosine similarity between texts[0] and each of texts[1:]. It returns
// nil when the corpus has no features at all.
func cosineToFirst(texts [][]string, maxFeatures int) []float64 {
	fs := buildFeatureSpace(texts)
	if len(fs.total) == 0 {
		return nil
	}
	kept := fs.keptColumns(maxFeatures)

	// Smoothed IDF: ln((1+n)/(1+df)) + 1, so features present in every
	// text still carry weight.
	n := float64(len(texts))
	idf := make([]float64, len(kept))
	for oldCol, newCol := range kept {
		idf[newCol] = math.Log((1+n)/(1+float64(fs.df[oldCol]))) + 1
	}

	vectors := make([][]float64, len(texts))
	for i, counts := range fs.counts {
		v := make([]float64, len(kept))
		for oldCol, c := range counts {
			if newCol, ok := kept[oldCol]; ok {
				v[newCol] = float64(c) * idf[newCol]
			}
		}
		if norm := floats.Norm(v, 2); norm > 0 {
			floats.Scale(1/norm, v)
		}
		vectors[i] = v
	}

	query := vectors[0]
	scores := make([]float64, len(texts)-1)
	for i, v := range vectors[1:] {
		scores[i] = clamp01(floats.Dot(query, v))
	}
	return scores
}

func clamp01(x float64) float64 {
	switch {
	case math.IsNaN(x), x < 0:
		return 0
	case x > 1:
		return 1
	default:
		return x
	}
}
