// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import "sort"

// ExtractKeywords returns up to limit of the most frequent normalized
// tokens of text that are at least minLen characters long, using the
// built-in stopword list.
func ExtractKeywords(text string, limit, minLen int) []string {
	return defaultNormalizer.ExtractKeywords(text, limit, minLen)
}

// ExtractKeywords ranks the normalized tokens of text by frequency and
// returns the top limit. Ties are ordered alphabetically so the same text
// always produces the same query. A non-positive limit returns every
// candidate.
func (n *Normalizer) ExtractKeywords(text string, limit, minLen int) []string {
	tokens := n.Tokens(text)
	if len(tokens) == 0 {
		return nil
	}

	freq := make(map[string]int)
	for _, tok := range tokens {
		if len(tok) < minLen {
			continue
		}
		freq[tok]++
	}
	if len(freq) == 0 {
		return nil
	}

	type kv struct {
		word  string
		count int
	}
	pairs := make([]kv, 0, len(freq))
	for word, count := range freq {
		pairs = append(pairs, kv{word: word, count: count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count == pairs[j].count {
			return pairs[i].word < pairs[j].word
		}
		return pairs[i].count > pairs[j].count
	})

	max := limit
	if max <= 0 || max > len(pairs) {
		max = len(pairs)
	}
	keywords := make([]string, 0, max)
	for _, p := range pairs[:max] {
		keywords = append(keywords, p.word)
	}
	return keywords
}
