// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials kept outside the config file. The
// secrets directory holds one plain-text file per key; the filename is the
// key and the trimmed contents are the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/plagiarism-engine/pkg/types"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// CrossrefMailto is the contact address sent to Crossref's polite pool.
const CrossrefMailto = "crossref-mailto"

// Known lists the keys this service reads.
var Known = []string{CrossrefMailto}

// Load returns the non-empty secrets found in dir. A missing directory
// yields an empty map. Unreadable files and unrecognised keys are logged
// and skipped.
func Load(dir string, log *slog.Logger) (map[string]string, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	out := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !isKnown(name) {
			log.Warn("ignoring unknown secret", slog.String("key", name))
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.Warn("could not read secret", slog.String("key", name), slog.Any("error", err))
			continue
		}
		if v := strings.TrimSpace(string(data)); v != "" {
			out[name] = v
		}
	}
	return out, nil
}

// Apply fills configuration fields that are still empty from s. Values
// already set by the config file, environment, or flags win.
func Apply(cfg *types.Config, s map[string]string) {
	if cfg.Crossref.Mailto == "" {
		cfg.Crossref.Mailto = s[CrossrefMailto]
	}
}

func isKnown(key string) bool {
	for _, k := range Known {
		if k == key {
			return true
		}
	}
	return false
}
