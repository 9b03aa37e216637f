// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package similarity

import "strings"

// DefaultNgramSize is the window length used for abstract overlap.
const DefaultNgramSize = 3

// NgramSimilarity returns the Jaccard coefficient of the sets of
// contiguous n-token windows of a and b. Both inputs are expected to be
// normalized token strings. Texts shorter than n tokens score 0. A
// non-positive n uses DefaultNgramSize.
func NgramSimilarity(a, b string, n int) float64 {
	if n <= 0 {
		n = DefaultNgramSize
	}
	setA := ngrams(strings.Fields(a), n)
	setB := ngrams(strings.Fields(b), n)
	if setA == nil || setB == nil {
		return 0
	}

	inter := 0
	for g := range setA {
		if _, ok := setB[g]; ok {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return clamp01(float64(inter) / float64(union))
}

func ngrams(toks []string, n int) map[string]struct{} {
	if len(toks) < n {
		return nil
	}
	set := make(map[string]struct{}, len(toks)-n+1)
	for i := 0; i+n <= len(toks); i++ {
		set[strings.Join(toks[i:i+n], " ")] = struct{}{}
	}
	return set
}
