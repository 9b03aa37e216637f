// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fuzzy corrects OCR character-substitution noise by snapping
// out-of-vocabulary words to their closest known word from the reference
// corpus (e.g. "mltochondria" -> "mitochondria").
package fuzzy

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

// MinWordLength is the shortest word that enters the vocabulary or is
// considered for correction. Shorter words have too many near neighbours.
const MinWordLength = 4

// Vocabulary is the set of known words derived from a corpus snapshot.
// It is read-only once built and safe for concurrent use.
type Vocabulary struct {
	words []string // sorted
	set   map[string]struct{}
}

// BuildVocabulary collects every alphanumeric-stripped, lowercased word of
// at least MinWordLength characters from the titles and contents of docs.
func BuildVocabulary(docs []types.ReferenceDocument) *Vocabulary {
	set := make(map[string]struct{})
	add := func(text string) {
		for _, w := range strings.Fields(strings.ToLower(text)) {
			cleaned := stripNonAlnum(w)
			if utf8.RuneCountInString(cleaned) >= MinWordLength {
				set[cleaned] = struct{}{}
			}
		}
	}
	for _, d := range docs {
		add(d.Content)
		add(d.Title)
	}

	words := make([]string, 0, len(set))
	for w := range set {
		words = append(words, w)
	}
	sort.Strings(words)
	return &Vocabulary{words: words, set: set}
}

// Len returns the number of distinct words.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.words)
}

// Contains reports whether word is a known vocabulary member.
func (v *Vocabulary) Contains(word string) bool {
	if v == nil {
		return false
	}
	_, ok := v.set[word]
	return ok
}

// Words returns the vocabulary in lexicographic order.
func (v *Vocabulary) Words() []string {
	if v == nil {
		return nil
	}
	out := make([]string, len(v.words))
	copy(out, v.words)
	return out
}

// stripNonAlnum drops every rune that is neither a letter nor a number.
func stripNonAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return r
		}
		return -1
	}, s)
}

// snapshotKey hashes the parts of a corpus snapshot that feed the
// vocabulary. Equal keys mean equal vocabularies.
func snapshotKey(docs []types.ReferenceDocument) uint64 {
	h := xxhash.New()
	for _, d := range docs {
		h.WriteString(d.Title)
		h.Write([]byte{0})
		h.WriteString(d.Content)
		h.Write([]byte{0})
	}
	return h.Sum64()
}
