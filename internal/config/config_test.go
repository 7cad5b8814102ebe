package config

import (
	"os"
	"path/filepath"
	"testing"

	"pysort/internal/sorting"
)

func writeConfigFile(t *testing.T, root string, rel string, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.EnableCategories {
		t.Error("categories should default to disabled")
	}
	if !cfg.AutoFix.Backup {
		t.Error("backups should default to enabled")
	}
	if cfg.CategorySorting != "alphabetical" {
		t.Errorf("CategorySorting = %q, want alphabetical", cfg.CategorySorting)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "human" {
		t.Errorf("Logging = %+v, want human/info", cfg.Logging)
	}
}

func TestLoadConfigJSON(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, ".pysort/config.json", `{
  "enableCategories": true,
  "categorySorting": "declaration",
  "ignoreDecorators": ["@app.route"],
  "categories": [
    {"name": "properties", "decorators": ["@property"]},
    {"name": "public_methods", "patterns": ["*"]}
  ],
  "privacy": {
    "excludeDirs": ["migrations"]
  },
  "autoFix": {"backup": false}
}`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.EnableCategories {
		t.Error("EnableCategories not loaded")
	}
	if cfg.CategorySorting != "declaration" {
		t.Errorf("CategorySorting = %q, want declaration", cfg.CategorySorting)
	}
	if len(cfg.IgnoreDecorators) != 1 || cfg.IgnoreDecorators[0] != "@app.route" {
		t.Errorf("IgnoreDecorators = %v", cfg.IgnoreDecorators)
	}
	if len(cfg.Categories) != 2 || cfg.Categories[0].Name != "properties" {
		t.Errorf("Categories = %+v", cfg.Categories)
	}
	if len(cfg.Privacy.ExcludeDirs) != 1 || cfg.Privacy.ExcludeDirs[0] != "migrations" {
		t.Errorf("Privacy.ExcludeDirs = %v", cfg.Privacy.ExcludeDirs)
	}
	if cfg.AutoFix.Backup {
		t.Error("AutoFix.Backup should be false")
	}
}

func TestLoadConfigPyprojectOverlay(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, ".pysort/config.json", `{"categorySorting": "declaration"}`)
	writeConfigFile(t, root, "pyproject.toml", `[project]
name = "demo"

[tool.pysort]
enable-categories = true
ignore-decorators = ["@cli.command"]

[tool.pysort.privacy]
exclude-dirs = ["vendored"]
`)

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if !cfg.EnableCategories {
		t.Error("pyproject should enable categories")
	}
	// Keys pyproject does not set keep their earlier values.
	if cfg.CategorySorting != "declaration" {
		t.Errorf("CategorySorting = %q, want declaration from config.json", cfg.CategorySorting)
	}
	if len(cfg.IgnoreDecorators) != 1 || cfg.IgnoreDecorators[0] != "@cli.command" {
		t.Errorf("IgnoreDecorators = %v", cfg.IgnoreDecorators)
	}
	if len(cfg.Privacy.ExcludeDirs) != 1 || cfg.Privacy.ExcludeDirs[0] != "vendored" {
		t.Errorf("Privacy.ExcludeDirs = %v", cfg.Privacy.ExcludeDirs)
	}
}

func TestLoadConfigPyprojectWithoutTable(t *testing.T) {
	root := t.TempDir()
	writeConfigFile(t, root, "pyproject.toml", "[project]\nname = \"demo\"\n")

	cfg, err := LoadConfig(root)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.AutoFix.Backup {
		t.Error("defaults should survive a pyproject without [tool.pysort]")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"bad sorting mode", func(c *Config) { c.CategorySorting = "random" }, true},
		{"duplicate category", func(c *Config) {
			c.Categories = []sorting.MethodCategory{{Name: "a"}, {Name: "a"}}
		}, true},
		{"empty category name", func(c *Config) {
			c.Categories = []sorting.MethodCategory{{Name: ""}}
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryConfigAssembly(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EnableCategories = true

	cc := cfg.CategoryConfig()
	if !cc.EnableCategories {
		t.Error("EnableCategories not carried over")
	}
	if cc.DefaultCategory != "public_methods" {
		t.Errorf("DefaultCategory = %q", cc.DefaultCategory)
	}
}
