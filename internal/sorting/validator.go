package sorting

import (
	"sort"

	"pysort/internal/pyast"
)

// AreSorted reports whether declarations are in canonical order under the
// given configuration, after removing declarations excluded by
// ignore-decorator patterns. Sequences of length 0 or 1 are trivially
// sorted.
func AreSorted(decls []*pyast.Declaration, cfg CategoryConfig, ignoreDecorators []string) bool {
	sortable := make([]*pyast.Declaration, 0, len(decls))
	for _, decl := range decls {
		if !HasExcludedDecorator(decl, ignoreDecorators) {
			sortable = append(sortable, decl)
		}
	}
	return areSorted(sortable, cfg)
}

// AreProperlySeparated reports whether no public declaration follows a
// private one. It checks separation only, not alphabetical order.
func AreProperlySeparated(decls []*pyast.Declaration) bool {
	if len(decls) <= 1 {
		return true
	}

	seenPrivate := false
	for _, decl := range decls {
		if IsPrivate(decl) {
			seenPrivate = true
		} else if seenPrivate {
			return false
		}
	}
	return true
}

func areSorted(decls []*pyast.Declaration, cfg CategoryConfig) bool {
	if len(decls) <= 1 {
		return true
	}
	cfg = cfg.normalized()

	if !cfg.EnableCategories {
		// Legacy binary mode: each visibility partition must already be
		// in alphabetical order. Dunder methods count as public.
		var publicNames, privateNames []string
		for _, decl := range decls {
			if IsPrivate(decl) {
				privateNames = append(privateNames, decl.Name)
			} else {
				publicNames = append(publicNames, decl.Name)
			}
		}
		return sort.StringsAreSorted(publicNames) && sort.StringsAreSorted(privateNames)
	}

	if cfg.CategorySorting == "alphabetical" {
		names := map[string][]string{}
		for _, decl := range decls {
			category := Categorize(decl, cfg)
			names[category] = append(names[category], decl.Name)
		}
		for _, category := range cfg.Categories {
			if !sort.StringsAreSorted(names[category.Name]) {
				return false
			}
		}
	}

	return categoriesProperlyOrdered(decls, cfg)
}

// categoriesProperlyOrdered verifies that category blocks appear in the
// sequence declared by the configuration. A category may continue the
// immediately preceding block but may never reappear after another
// category has started.
func categoriesProperlyOrdered(decls []*pyast.Declaration, cfg CategoryConfig) bool {
	order := map[string]int{}
	for i, category := range cfg.Categories {
		order[category.Name] = i
	}

	seen := map[string]bool{}
	lastIndex := -1

	for _, decl := range decls {
		category := Categorize(decl, cfg)
		index, ok := order[category]
		if !ok {
			index = len(cfg.Categories)
		}

		if index < lastIndex {
			return false
		}
		if seen[category] && index != lastIndex {
			return false
		}
		seen[category] = true
		lastIndex = index
	}

	return true
}
