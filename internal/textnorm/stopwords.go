// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package textnorm

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// builtinStopwords is the minimal English list used when no external list
// is configured or the configured one cannot be read.
var builtinStopwords = toSet(strings.Fields(`
	the a an is are was were be been being
	have has had do does did will would could
	should may might must shall can to of in
	for on with at by from as into through
	during before after above below between under
	again further then once here there when where
	why how all each few more most other some
	such no nor not only own same so than
	too very just and but if or because until
	while this that these those it its i me
	my myself we our ours ourselves you your
	yours yourself yourselves he him his himself
	she her hers herself they them their theirs
	themselves what which who whom about against
`))

// BuiltinStopwords returns a copy of the built-in stopword list.
func BuiltinStopwords() map[string]struct{} {
	out := make(map[string]struct{}, len(builtinStopwords))
	for w := range builtinStopwords {
		out[w] = struct{}{}
	}
	return out
}

// LoadStopwords reads a newline-separated stopword file. Blank lines and
// lines starting with '#' are ignored; words are lowercased.
func LoadStopwords(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stopwords file: %w", err)
	}
	defer f.Close()

	var words []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, strings.ToLower(line))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stopwords file: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("stopwords file %s is empty", path)
	}
	return toSet(words), nil
}

// NewNormalizer builds a Normalizer using the stopword list at path. An
// empty path, or a file that cannot be loaded, selects the built-in list;
// the load error is returned alongside the usable Normalizer so callers
// can log the degradation.
func NewNormalizer(path string) (*Normalizer, error) {
	if path == "" {
		return &Normalizer{}, nil
	}
	words, err := LoadStopwords(path)
	if err != nil {
		return &Normalizer{}, err
	}
	return &Normalizer{Stopwords: words}, nil
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}
