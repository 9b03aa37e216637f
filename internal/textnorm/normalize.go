// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package textnorm cleans noisy submission text for statistical comparison
// and extracts representative keywords for external queries.
package textnorm

import "strings"

// MinTokenLength is the shortest token kept by Normalize. Tokens of two
// characters or fewer are mostly OCR debris.
const MinTokenLength = 3

// Tokenizer splits cleaned text into tokens. A non-nil error makes the
// Normalizer fall back to whitespace splitting.
type Tokenizer func(text string) ([]string, error)

// Normalizer lowercases, strips punctuation, tokenizes, and removes
// stopwords and short tokens. The zero value is ready to use with the
// built-in stopword list and whitespace tokenization.
type Normalizer struct {
	// Tokenize is an optional linguistic tokenizer.
	Tokenize Tokenizer

	// Stopwords overrides the built-in list when non-nil.
	Stopwords map[string]struct{}
}

// defaultNormalizer backs the package-level Normalize.
var defaultNormalizer = &Normalizer{}

// Normalize cleans raw with the built-in stopword list and returns the
// remaining tokens joined by single spaces.
func Normalize(raw string) string {
	return defaultNormalizer.Normalize(raw)
}

// Normalize returns the space-joined token sequence for raw. It never
// fails; empty or all-noise input yields "".
func (n *Normalizer) Normalize(raw string) string {
	return strings.Join(n.Tokens(raw), " ")
}

// Tokens returns the normalized token sequence for raw.
func (n *Normalizer) Tokens(raw string) []string {
	cleaned := clean(raw)
	if cleaned == "" {
		return nil
	}

	tokens := n.tokenize(cleaned)
	stop := n.stopwords()

	kept := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) < MinTokenLength {
			continue
		}
		if _, ok := stop[tok]; ok {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}

func (n *Normalizer) tokenize(cleaned string) []string {
	if n != nil && n.Tokenize != nil {
		if toks, err := n.Tokenize(cleaned); err == nil {
			return toks
		}
	}
	return strings.Fields(cleaned)
}

func (n *Normalizer) stopwords() map[string]struct{} {
	if n != nil && n.Stopwords != nil {
		return n.Stopwords
	}
	return builtinStopwords
}

// clean lowercases s, replaces everything except a-z, 0-9 and whitespace
// with a space, and collapses whitespace runs.
func clean(s string) string {
	if s == "" {
		return ""
	}
	mapped := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			return r
		}
		// Whitespace and punctuation both become a separator.
		return ' '
	}, strings.ToLower(s))
	return strings.Join(strings.Fields(mapped), " ")
}

// WordCount returns the number of tokens Normalize keeps for raw.
func WordCount(raw string) int {
	return len(defaultNormalizer.Tokens(raw))
}

// WordCount returns the number of tokens n keeps for raw.
func (n *Normalizer) WordCount(raw string) int {
	return len(n.Tokens(raw))
}
