// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package external

import (
	"math"
	"regexp"
	"strings"

	"github.com/pdiddy/plagiarism-engine/internal/crossref"
	"github.com/pdiddy/plagiarism-engine/internal/similarity"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

func (a *Analyzer) buildRecord(w crossref.Work, cleanedInput string) types.ExternalRecord {
	r := types.ExternalRecord{
		Source:    SourceCrossref,
		DOI:       w.DOI,
		Title:     w.Title.First(),
		Authors:   []string{},
		Year:      w.Issued.Year(),
		URL:       w.URL,
		Publisher: w.Publisher,
	}
	for _, au := range w.Author {
		if name := au.DisplayName(); name != "" {
			r.Authors = append(r.Authors, name)
		}
	}
	if s, ok := w.RelevanceScore(); ok {
		r.Score = &s
	}

	if w.Abstract != "" {
		r.AbstractSnippet = snippet(w.Abstract, a.snippetLen)
		cleanedAbstract := a.normalizer.Normalize(r.AbstractSnippet)
		if cleanedAbstract != "" && cleanedInput != "" {
			score := similarity.NgramSimilarity(cleanedInput, cleanedAbstract, similarity.DefaultNgramSize)
			r.PlagiarismScore = &score
		}
	}
	return r
}

// snippet strips markup from an abstract, collapses whitespace, and cuts
// it to maxLen runes with a "..." suffix when longer.
func snippet(abstract string, maxLen int) string {
	text := strings.Join(strings.Fields(tagPattern.ReplaceAllString(abstract, " ")), " ")
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	return strings.TrimRight(string(runes[:maxLen]), " ") + "..."
}

// NormalizeScores divides every present relevance score by the largest
// one in records, rounded to four decimals. Records without a score are
// untouched, and nothing changes when no score is positive.
//
// The scale is per batch: scores from different queries are not
// comparable.
func NormalizeScores(records []types.ExternalRecord) []types.ExternalRecord {
	maxScore, found := 0.0, false
	for _, r := range records {
		if r.Score == nil {
			continue
		}
		if !found || *r.Score > maxScore {
			maxScore, found = *r.Score, true
		}
	}
	if !found || maxScore <= 0 {
		return records
	}
	for i := range records {
		if records[i].Score == nil {
			continue
		}
		scaled := Round4(*records[i].Score / maxScore)
		records[i].Score = &scaled
	}
	return records
}

// Round4 rounds x to four decimal places.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}
