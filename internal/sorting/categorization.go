// Package sorting implements declaration categorization and order
// validation for Python functions and methods.
package sorting

import (
	"strings"

	"pysort/internal/pyast"
)

// Match priorities: the more specific the rule, the higher it scores.
const (
	decoratorMatchPriority = 100
	patternMatchPriority   = 50
	catchAllMatchPriority  = 1
)

// MethodCategory defines one named bucket in the sorting scheme.
type MethodCategory struct {
	Name          string   `json:"name" mapstructure:"name" toml:"name"`
	Patterns      []string `json:"patterns,omitempty" mapstructure:"patterns" toml:"patterns"`
	Decorators    []string `json:"decorators,omitempty" mapstructure:"decorators" toml:"decorators"`
	Priority      int      `json:"priority,omitempty" mapstructure:"priority" toml:"priority"`
	SectionHeader string   `json:"sectionHeader,omitempty" mapstructure:"sectionHeader" toml:"section-header"`
}

// CategoryConfig defines the complete categorization scheme. The order
// of Categories is the required block order in source.
type CategoryConfig struct {
	Categories      []MethodCategory
	DefaultCategory string
	// EnableCategories false collapses to the legacy binary
	// public/private scheme.
	EnableCategories bool
	// CategorySorting is "alphabetical" or "declaration".
	CategorySorting string
}

// DefaultCategoryConfig returns the legacy binary scheme: public methods
// first, private methods second, with the private category winning
// tie-breaks over the public catch-all.
func DefaultCategoryConfig() CategoryConfig {
	return CategoryConfig{
		Categories: []MethodCategory{
			{
				Name:          "public_methods",
				Patterns:      []string{"*"},
				SectionHeader: "# Public methods",
			},
			{
				Name:          "private_methods",
				Patterns:      []string{"_*"},
				Priority:      1,
				SectionHeader: "# Private methods",
			},
		},
		DefaultCategory: "public_methods",
		CategorySorting: "alphabetical",
	}
}

// normalized fills zero-value fields with the legacy defaults.
func (c CategoryConfig) normalized() CategoryConfig {
	if len(c.Categories) == 0 {
		c.Categories = DefaultCategoryConfig().Categories
	}
	if c.DefaultCategory == "" {
		c.DefaultCategory = "public_methods"
	}
	if c.CategorySorting == "" {
		c.CategorySorting = "alphabetical"
	}
	return c
}

// IsPrivateName reports whether a name is private by convention: a single
// leading underscore. Dunder names are special methods, not private.
func IsPrivateName(name string) bool {
	return strings.HasPrefix(name, "_") && !IsDunderName(name)
}

// IsDunderName reports whether a name starts and ends with a double
// underscore (__init__, __str__, ...).
func IsDunderName(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

// IsPrivate reports whether a declaration is private by naming convention.
func IsPrivate(decl *pyast.Declaration) bool {
	return IsPrivateName(decl.Name)
}

// Categorize determines the category for a declaration. With categories
// disabled this is the legacy binary rule; otherwise the category with
// the highest (match priority, declared priority) pair wins, and
// declarations matching nothing fall to the default category.
func Categorize(decl *pyast.Declaration, cfg CategoryConfig) string {
	cfg = cfg.normalized()

	if !cfg.EnableCategories {
		if IsPrivate(decl) {
			return "private_methods"
		}
		return "public_methods"
	}

	bestName := ""
	bestMatch, bestPriority := 0, 0
	for _, category := range cfg.Categories {
		match := matchPriority(decl, category)
		if match == 0 {
			continue
		}
		if bestName == "" || match > bestMatch ||
			(match == bestMatch && category.Priority > bestPriority) {
			bestName = category.Name
			bestMatch = match
			bestPriority = category.Priority
		}
	}

	if bestName == "" {
		return cfg.DefaultCategory
	}
	return bestName
}

// matchPriority scores a declaration against one category: 0 for no
// match, otherwise the strength of the strongest matching rule.
func matchPriority(decl *pyast.Declaration, category MethodCategory) int {
	priority := 0

	for _, pattern := range category.Decorators {
		for _, decorator := range decl.Decorators {
			if DecoratorMatchesPattern(decorator, pattern) {
				priority = decoratorMatchPriority
				break
			}
		}
		if priority == decoratorMatchPriority {
			break
		}
	}

	for _, pattern := range category.Patterns {
		if !NameMatchesPattern(decl.Name, pattern) {
			continue
		}
		if pattern == "*" {
			priority = max(priority, catchAllMatchPriority)
		} else {
			priority = max(priority, patternMatchPriority)
		}
		break
	}

	return priority
}
