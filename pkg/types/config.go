package types

import (
	"fmt"
	"time"
)

// HTTPConfig holds shared HTTP settings used by components that make
// network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "plagiarism-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// DetectionConfig holds settings for local similarity detection.
type DetectionConfig struct {
	// ThresholdHigh is the inclusive lower bound of the HIGH verdict (default 0.8).
	ThresholdHigh float64 `json:"threshold_high" yaml:"threshold_high" mapstructure:"threshold_high"`

	// ThresholdModerate is the inclusive lower bound of the MODERATE verdict (default 0.4).
	ThresholdModerate float64 `json:"threshold_moderate" yaml:"threshold_moderate" mapstructure:"threshold_moderate"`

	// TopMatches is the number of ranked matches returned (default 3).
	TopMatches int `json:"top_matches" yaml:"top_matches" mapstructure:"top_matches"`

	// MaxFeatures caps the TF-IDF feature vocabulary (default 5000).
	MaxFeatures int `json:"max_features" yaml:"max_features" mapstructure:"max_features"`

	// FuzzyCutoff is the minimum 0-100 ratio for an OCR correction (default 70).
	FuzzyCutoff float64 `json:"fuzzy_cutoff" yaml:"fuzzy_cutoff" mapstructure:"fuzzy_cutoff"`

	// MinWordCount is the minimum number of meaningful words a submission
	// needs before it is analyzed (default 5).
	MinWordCount int `json:"min_word_count" yaml:"min_word_count" mapstructure:"min_word_count"`

	// StopwordsFile optionally points at a newline-separated stopword list.
	// When it cannot be read the built-in English list is used.
	StopwordsFile string `json:"stopwords_file,omitempty" yaml:"stopwords_file,omitempty" mapstructure:"stopwords_file"`
}

// CrossrefConfig holds settings for the external bibliographic lookup.
type CrossrefConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the Crossref REST API root.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// Mailto identifies the caller for Crossref's polite pool.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`

	// MaxResults is the number of works requested per query (default 10).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`

	// MaxKeywords bounds the extracted keyword query (default 10).
	MaxKeywords int `json:"max_keywords" yaml:"max_keywords" mapstructure:"max_keywords"`

	// MinTokenLen is the minimum keyword length (default 3).
	MinTokenLen int `json:"min_token_len" yaml:"min_token_len" mapstructure:"min_token_len"`

	// SnippetLen is the maximum abstract snippet length (default 400).
	SnippetLen int `json:"snippet_len" yaml:"snippet_len" mapstructure:"snippet_len"`

	// CacheTTL is how long a keyword query's results are reused (default 1h).
	CacheTTL time.Duration `json:"cache_ttl" yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// CorpusConfig holds settings for the reference corpus store.
type CorpusConfig struct {
	// DataDir is the directory that holds corpus.db.
	DataDir string `json:"data_dir" yaml:"data_dir" mapstructure:"data_dir"`

	// Seed inserts the bundled sample documents into an empty store.
	Seed bool `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// ServerConfig holds settings for the HTTP API.
type ServerConfig struct {
	Addr        string   `json:"addr" yaml:"addr" mapstructure:"addr"`
	CORSOrigins []string `json:"cors_origins" yaml:"cors_origins" mapstructure:"cors_origins"`
}

// Config groups every component configuration.
type Config struct {
	Detection DetectionConfig `json:"detection" yaml:"detection" mapstructure:"detection"`
	Crossref  CrossrefConfig  `json:"crossref" yaml:"crossref" mapstructure:"crossref"`
	Corpus    CorpusConfig    `json:"corpus" yaml:"corpus" mapstructure:"corpus"`
	Server    ServerConfig    `json:"server" yaml:"server" mapstructure:"server"`
	LogLevel  string          `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		Detection: DetectionConfig{
			ThresholdHigh:     0.8,
			ThresholdModerate: 0.4,
			TopMatches:        3,
			MaxFeatures:       5000,
			FuzzyCutoff:       70,
			MinWordCount:      5,
		},
		Crossref: CrossrefConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   15 * time.Second,
				UserAgent: "plagiarism-engine/0.1",
			},
			BaseURL:     "https://api.crossref.org",
			MaxResults:  10,
			MaxKeywords: 10,
			MinTokenLen: 3,
			SnippetLen:  400,
			CacheTTL:    time.Hour,
		},
		Corpus: CorpusConfig{
			DataDir: "data",
			Seed:    true,
		},
		Server: ServerConfig{
			Addr:        "0.0.0.0:8000",
			CORSOrigins: []string{"*"},
		},
		LogLevel: "info",
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	d := c.Detection
	if d.ThresholdHigh < 0 || d.ThresholdHigh > 1 {
		return fmt.Errorf("detection.threshold_high must be within [0,1], got %v", d.ThresholdHigh)
	}
	if d.ThresholdModerate < 0 || d.ThresholdModerate > 1 {
		return fmt.Errorf("detection.threshold_moderate must be within [0,1], got %v", d.ThresholdModerate)
	}
	if d.ThresholdModerate > d.ThresholdHigh {
		return fmt.Errorf("detection.threshold_moderate (%v) cannot exceed detection.threshold_high (%v)",
			d.ThresholdModerate, d.ThresholdHigh)
	}
	if d.TopMatches <= 0 {
		return fmt.Errorf("detection.top_matches must be positive")
	}
	if d.MaxFeatures <= 0 {
		return fmt.Errorf("detection.max_features must be positive")
	}
	if d.FuzzyCutoff < 0 || d.FuzzyCutoff > 100 {
		return fmt.Errorf("detection.fuzzy_cutoff must be within [0,100], got %v", d.FuzzyCutoff)
	}
	if d.MinWordCount < 0 {
		return fmt.Errorf("detection.min_word_count cannot be negative")
	}

	x := c.Crossref
	if x.BaseURL == "" {
		return fmt.Errorf("crossref.base_url is required")
	}
	if x.MaxResults <= 0 {
		return fmt.Errorf("crossref.max_results must be positive")
	}
	if x.MaxKeywords <= 0 {
		return fmt.Errorf("crossref.max_keywords must be positive")
	}
	if x.MinTokenLen < 0 {
		return fmt.Errorf("crossref.min_token_len cannot be negative")
	}
	if x.SnippetLen <= 0 {
		return fmt.Errorf("crossref.snippet_len must be positive")
	}
	if x.CacheTTL <= 0 {
		return fmt.Errorf("crossref.cache_ttl must be positive")
	}

	if c.Corpus.DataDir == "" {
		return fmt.Errorf("corpus.data_dir is required")
	}
	return nil
}
