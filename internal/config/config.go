// Package config loads pysort settings from .pysort/config.json and the
// [tool.pysort] table of pyproject.toml, layered over built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"pysort/internal/sorting"
	"pysort/internal/usage"
)

// PrivacyConfig tunes usage-graph construction for privacy analysis.
type PrivacyConfig struct {
	ExcludeDirs            []string `json:"excludeDirs,omitempty" mapstructure:"excludeDirs" toml:"exclude-dirs"`
	ExcludePatterns        []string `json:"excludePatterns,omitempty" mapstructure:"excludePatterns" toml:"exclude-patterns"`
	AdditionalTestPatterns []string `json:"additionalTestPatterns,omitempty" mapstructure:"additionalTestPatterns" toml:"additional-test-patterns"`
	OverrideTestDetection  bool     `json:"overrideTestDetection,omitempty" mapstructure:"overrideTestDetection" toml:"override-test-detection"`
}

// AutoFixConfig tunes file rewriting.
type AutoFixConfig struct {
	Backup bool `json:"backup" mapstructure:"backup" toml:"backup"`
}

// LoggingConfig selects log output format and verbosity.
type LoggingConfig struct {
	Format string `json:"format,omitempty" mapstructure:"format" toml:"format"`
	Level  string `json:"level,omitempty" mapstructure:"level" toml:"level"`
}

// Config is the complete pysort configuration.
type Config struct {
	EnableCategories  bool                     `json:"enableCategories" mapstructure:"enableCategories" toml:"enable-categories"`
	Categories        []sorting.MethodCategory `json:"categories,omitempty" mapstructure:"categories" toml:"categories"`
	DefaultCategory   string                   `json:"defaultCategory,omitempty" mapstructure:"defaultCategory" toml:"default-category"`
	CategorySorting   string                   `json:"categorySorting,omitempty" mapstructure:"categorySorting" toml:"category-sorting"`
	IgnoreDecorators  []string                 `json:"ignoreDecorators,omitempty" mapstructure:"ignoreDecorators" toml:"ignore-decorators"`
	PublicAPIPatterns []string                 `json:"publicApiPatterns,omitempty" mapstructure:"publicApiPatterns" toml:"public-api-patterns"`
	Privacy           PrivacyConfig            `json:"privacy,omitempty" mapstructure:"privacy" toml:"privacy"`
	AutoFix           AutoFixConfig            `json:"autoFix,omitempty" mapstructure:"autoFix" toml:"auto-fix"`
	Logging           LoggingConfig            `json:"logging,omitempty" mapstructure:"logging" toml:"logging"`
}

// pyprojectFile mirrors the slice of pyproject.toml we care about. The
// Pysort pointer aliases an existing Config so decoding overlays only
// the keys present in the file.
type pyprojectFile struct {
	Tool struct {
		Pysort *Config `toml:"pysort"`
	} `toml:"tool"`
}

// DefaultConfig returns the built-in defaults: legacy binary sorting,
// backups on, human-readable info logging.
func DefaultConfig() *Config {
	return &Config{
		DefaultCategory: "public_methods",
		CategorySorting: "alphabetical",
		AutoFix:         AutoFixConfig{Backup: true},
		Logging:         LoggingConfig{Format: "human", Level: "info"},
	}
}

// LoadConfig resolves configuration for a project root. Precedence, low
// to high: defaults, .pysort/config.json, pyproject.toml [tool.pysort].
// Missing files are not errors.
func LoadConfig(projectRoot string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, ".pysort"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := overlayPyproject(cfg, filepath.Join(projectRoot, "pyproject.toml")); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlayPyproject merges [tool.pysort] keys from pyproject.toml into
// cfg. A missing file or a pyproject without the table is a no-op.
func overlayPyproject(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var doc pyprojectFile
	doc.Tool.Pysort = cfg
	if err := toml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// CategoryConfig assembles the sorting configuration from the loaded
// settings.
func (c *Config) CategoryConfig() sorting.CategoryConfig {
	return sorting.CategoryConfig{
		Categories:       c.Categories,
		DefaultCategory:  c.DefaultCategory,
		EnableCategories: c.EnableCategories,
		CategorySorting:  c.CategorySorting,
	}
}

// TestDetection assembles the privacy test-module rules.
func (c *Config) TestDetection() usage.TestDetection {
	return usage.TestDetection{
		ExcludeDirs:            c.Privacy.ExcludeDirs,
		ExcludePatterns:        c.Privacy.ExcludePatterns,
		AdditionalTestPatterns: c.Privacy.AdditionalTestPatterns,
		OverrideTestDetection:  c.Privacy.OverrideTestDetection,
	}
}

// Validate rejects configurations that would silently misbehave.
func (c *Config) Validate() error {
	if c.CategorySorting != "" && c.CategorySorting != "alphabetical" && c.CategorySorting != "declaration" {
		return fmt.Errorf("category-sorting must be %q or %q, got %q",
			"alphabetical", "declaration", c.CategorySorting)
	}

	seen := map[string]bool{}
	for _, category := range c.Categories {
		if category.Name == "" {
			return fmt.Errorf("category with empty name")
		}
		if seen[category.Name] {
			return fmt.Errorf("duplicate category name %q", category.Name)
		}
		seen[category.Name] = true
	}
	return nil
}
