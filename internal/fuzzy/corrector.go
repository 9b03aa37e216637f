// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fuzzy

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/hbollon/go-edlib"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

const (
	// DefaultCutoff is the minimum Ratio for a correction to be applied.
	DefaultCutoff = 70.0

	defaultMemoSize = 8
)

// Ratio returns the normalized InDel similarity of a and b on a 0-100
// scale: 100 * (1 - d / (len(a) + len(b))) where d is the number of
// single-rune insertions and deletions turning a into b.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	d := edlib.LCSEditDistance(a, b)
	return 100 * (1 - float64(d)/float64(total))
}

// ratioBound is the highest Ratio two strings of these lengths can reach.
func ratioBound(n, m int) float64 {
	diff := n - m
	if diff < 0 {
		diff = -diff
	}
	return 100 * (1 - float64(diff)/float64(n+m))
}

// Corrector applies vocabulary-based correction. Vocabularies are
// memoized per corpus snapshot, so repeated calls against an unchanged
// corpus skip the rebuild; a changed corpus hashes to a new key.
type Corrector struct {
	cutoff float64
	memo   *lru.Cache[uint64, *Vocabulary]
	log    *slog.Logger
}

// Option configures a Corrector.
type Option func(*Corrector)

// WithCutoff sets the minimum Ratio for a correction.
func WithCutoff(cutoff float64) Option {
	return func(c *Corrector) { c.cutoff = cutoff }
}

// WithLogger routes correction diagnostics to log.
func WithLogger(log *slog.Logger) Option {
	return func(c *Corrector) {
		if log != nil {
			c.log = log
		}
	}
}

// WithMemoSize bounds the number of memoized vocabularies. Zero disables
// memoization.
func WithMemoSize(n int) Option {
	return func(c *Corrector) {
		if n <= 0 {
			c.memo = nil
			return
		}
		c.memo, _ = lru.New[uint64, *Vocabulary](n)
	}
}

// NewCorrector returns a Corrector with DefaultCutoff and a small
// vocabulary memo.
func NewCorrector(opts ...Option) *Corrector {
	c := &Corrector{
		cutoff: DefaultCutoff,
		log:    slog.New(slog.DiscardHandler),
	}
	c.memo, _ = lru.New[uint64, *Vocabulary](defaultMemoSize)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Vocabulary returns the vocabulary of docs, reusing a memoized one when
// the snapshot is unchanged.
func (c *Corrector) Vocabulary(docs []types.ReferenceDocument) *Vocabulary {
	if c.memo == nil {
		return BuildVocabulary(docs)
	}
	key := snapshotKey(docs)
	if v, ok := c.memo.Get(key); ok {
		return v
	}
	v := BuildVocabulary(docs)
	c.memo.Add(key, v)
	c.log.Debug("built vocabulary", slog.Int("words", v.Len()), slog.Int("documents", len(docs)))
	return v
}

// CorrectWord corrects word against vocab using DefaultCutoff.
func CorrectWord(word string, vocab *Vocabulary) string {
	return correctWord(word, vocab, DefaultCutoff)
}

// CorrectWord returns the closest vocabulary word when it scores at least
// the cutoff, otherwise word unchanged. Words shorter than MinWordLength
// and known words are returned as is.
func (c *Corrector) CorrectWord(word string, vocab *Vocabulary) string {
	return correctWord(word, vocab, c.cutoff)
}

func correctWord(word string, vocab *Vocabulary, cutoff float64) string {
	n := utf8.RuneCountInString(word)
	if n < MinWordLength || vocab.Len() == 0 || vocab.Contains(word) {
		return word
	}

	best, bestScore := "", -1.0
	// Lexicographic iteration with strict improvement: the smallest word
	// wins ties.
	for _, cand := range vocab.words {
		bound := ratioBound(n, utf8.RuneCountInString(cand))
		if bound < cutoff || bound <= bestScore {
			continue
		}
		if score := Ratio(word, cand); score > bestScore {
			best, bestScore = cand, score
		}
	}
	if best != "" && bestScore >= cutoff {
		return best
	}
	return word
}

// CorrectText lowercases text, strips non-alphanumeric runes from each
// whitespace-separated token, and corrects tokens of at least
// MinWordLength against the vocabulary of docs. Tokens that strip to
// nothing are dropped; the rest are joined by single spaces. With an empty
// corpus text is returned unchanged.
func (c *Corrector) CorrectText(text string, docs []types.ReferenceDocument) string {
	if text == "" {
		return text
	}
	vocab := c.Vocabulary(docs)
	if vocab.Len() == 0 {
		c.log.Debug("empty vocabulary, skipping correction")
		return text
	}

	fields := strings.Fields(strings.ToLower(text))
	out := make([]string, 0, len(fields))
	corrections := 0
	for _, f := range fields {
		cleaned := stripNonAlnum(f)
		if cleaned == "" {
			continue
		}
		if utf8.RuneCountInString(cleaned) >= MinWordLength {
			fixed := c.CorrectWord(cleaned, vocab)
			if fixed != cleaned {
				corrections++
				c.log.Debug("corrected word", slog.String("from", cleaned), slog.String("to", fixed))
			}
			cleaned = fixed
		}
		out = append(out, cleaned)
	}

	c.log.Info("fuzzy correction", slog.Int("corrections", corrections), slog.Int("words", len(fields)))
	return strings.Join(out, " ")
}
