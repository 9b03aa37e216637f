// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/viper"

	"github.com/pdiddy/plagiarism-engine/internal/analysis"
	"github.com/pdiddy/plagiarism-engine/internal/corpus"
	"github.com/pdiddy/plagiarism-engine/internal/crossref"
	"github.com/pdiddy/plagiarism-engine/internal/external"
	"github.com/pdiddy/plagiarism-engine/internal/fuzzy"
	"github.com/pdiddy/plagiarism-engine/internal/httputil"
	"github.com/pdiddy/plagiarism-engine/internal/logger"
	"github.com/pdiddy/plagiarism-engine/internal/secrets"
	"github.com/pdiddy/plagiarism-engine/internal/similarity"
	"github.com/pdiddy/plagiarism-engine/internal/textnorm"
	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

// setDefaults registers every config key so environment variables and
// config files can override it.
func setDefaults(v *viper.Viper) {
	d := types.DefaultConfig()

	v.SetDefault("detection.threshold_high", d.Detection.ThresholdHigh)
	v.SetDefault("detection.threshold_moderate", d.Detection.ThresholdModerate)
	v.SetDefault("detection.top_matches", d.Detection.TopMatches)
	v.SetDefault("detection.max_features", d.Detection.MaxFeatures)
	v.SetDefault("detection.fuzzy_cutoff", d.Detection.FuzzyCutoff)
	v.SetDefault("detection.min_word_count", d.Detection.MinWordCount)
	v.SetDefault("detection.stopwords_file", d.Detection.StopwordsFile)

	v.SetDefault("crossref.timeout", d.Crossref.Timeout)
	v.SetDefault("crossref.user_agent", d.Crossref.UserAgent)
	v.SetDefault("crossref.base_url", d.Crossref.BaseURL)
	v.SetDefault("crossref.mailto", d.Crossref.Mailto)
	v.SetDefault("crossref.max_results", d.Crossref.MaxResults)
	v.SetDefault("crossref.max_keywords", d.Crossref.MaxKeywords)
	v.SetDefault("crossref.min_token_len", d.Crossref.MinTokenLen)
	v.SetDefault("crossref.snippet_len", d.Crossref.SnippetLen)
	v.SetDefault("crossref.cache_ttl", d.Crossref.CacheTTL)

	v.SetDefault("corpus.data_dir", d.Corpus.DataDir)
	v.SetDefault("corpus.seed", d.Corpus.Seed)

	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)

	v.SetDefault("log_level", d.LogLevel)
}

// loadConfig decodes the merged configuration, fills empty fields from
// the secrets directory, and validates the result.
func loadConfig(v *viper.Viper, secretsDir string) (types.Config, error) {
	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	s, err := secrets.Load(secretsDir, nil)
	if err != nil {
		return cfg, err
	}
	secrets.Apply(&cfg, s)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// app holds the components a command needs.
type app struct {
	cfg   types.Config
	log   *slog.Logger
	store *corpus.Store
	svc   *analysis.Service
}

// newApp loads configuration and opens the corpus store. The analysis
// service is wired with the Crossref analyzer.
func newApp() (*app, error) {
	cfg, err := loadConfig(viper.GetViper(), secrets.DefaultDir)
	if err != nil {
		return nil, err
	}
	log := logger.New("plagiarism-engine", cfg.LogLevel)
	httputil.Logger = log

	store, err := corpus.Open(cfg.Corpus, log)
	if err != nil {
		return nil, err
	}

	normalizer, err := textnorm.NewNormalizer(cfg.Detection.StopwordsFile)
	if err != nil {
		log.Warn("using built-in stopwords", slog.Any("error", err))
	}

	corrector := fuzzy.NewCorrector(fuzzy.WithCutoff(cfg.Detection.FuzzyCutoff), fuzzy.WithLogger(log))
	ranker := similarity.NewRanker(
		similarity.WithNormalizer(normalizer),
		similarity.WithCorrector(corrector),
		similarity.WithMaxFeatures(cfg.Detection.MaxFeatures),
		similarity.WithTopN(cfg.Detection.TopMatches))

	client := &crossref.Client{
		HTTP:      &http.Client{Timeout: cfg.Crossref.Timeout},
		BaseURL:   cfg.Crossref.BaseURL,
		Mailto:    cfg.Crossref.Mailto,
		UserAgent: cfg.Crossref.UserAgent,
		Rows:      cfg.Crossref.MaxResults,
	}
	ext := external.NewAnalyzer(client,
		external.WithCache(external.NewResultCache(cfg.Crossref.CacheTTL)),
		external.WithNormalizer(normalizer),
		external.WithKeywordLimits(cfg.Crossref.MaxKeywords, cfg.Crossref.MinTokenLen),
		external.WithSnippetLen(cfg.Crossref.SnippetLen),
		external.WithLogger(log))

	svc := analysis.NewService(store, ext,
		analysis.WithRanker(ranker),
		analysis.WithNormalizer(normalizer),
		analysis.WithPolicy(similarity.Policy{High: cfg.Detection.ThresholdHigh, Moderate: cfg.Detection.ThresholdModerate}),
		analysis.WithMinWordCount(cfg.Detection.MinWordCount),
		analysis.WithTopN(cfg.Detection.TopMatches),
		analysis.WithLogger(log))

	return &app{cfg: cfg, log: log, store: store, svc: svc}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
