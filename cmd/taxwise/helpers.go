package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/Veraticus/taxwise/internal/advisory"
	"github.com/Veraticus/taxwise/internal/classify"
	"github.com/Veraticus/taxwise/internal/config"
	"github.com/Veraticus/taxwise/internal/rules"
	"github.com/Veraticus/taxwise/internal/storage"
	"github.com/spf13/viper"
)

var envKeyReplacer = strings.NewReplacer(".", "_")

func loadConfig() (*config.Config, error) {
	return config.Load(viper.GetViper())
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context, cfg *config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// loadRules returns the configured rule file, or the built-in tables when
// none is set.
func loadRules(cfg *config.Config) (*rules.RuleSet, error) {
	if cfg.RulesPath == "" {
		return rules.Default(), nil
	}
	rs, err := rules.Load(cfg.RulesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules from %s: %w", cfg.RulesPath, err)
	}
	slog.Debug("Loaded rules", "path", cfg.RulesPath)
	return rs, nil
}

func newClassifier(cfg *config.Config) (*classify.Classifier, error) {
	rs, err := loadRules(cfg)
	if err != nil {
		return nil, err
	}
	return classify.New(rs), nil
}

// newAdvisor never fails. A broken live configuration is logged and the
// advisor serves simulated advice.
func newAdvisor(ctx context.Context, cfg *config.Config) *advisory.Advisor {
	advisor, err := advisory.FromConfig(ctx, cfg.Advisory, advisory.WithLogger(slog.Default()))
	if err != nil {
		slog.Warn("Advisory service misconfigured, using simulated advice", "provider", cfg.Advisory.Provider, "error", err)
	}
	return advisor
}

func closeAdvisor(advisor *advisory.Advisor) {
	if err := advisor.Close(); err != nil {
		slog.Warn("Failed to release advisory resources", "error", err)
	}
}

// expandFiles resolves glob patterns, keeping plain paths that exist.
func expandFiles(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files found")
	}
	return files, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
