package sorting

import (
	"regexp"
	"strings"

	"pysort/internal/pyast"
)

// DecoratorMatchesPattern reports whether a normalized decorator string
// matches an ignore or category pattern. Three forms match:
//
//   - exact: "@app.route" matches "@app.route"
//   - parenthesis-insensitive: "@app.route" matches "@app.route()"
//   - wildcard: "@*.command" matches "@main.command", where * stands for
//     one or more non-dot characters (single segment only)
func DecoratorMatchesPattern(decorator string, pattern string) bool {
	if !strings.HasPrefix(pattern, "@") {
		pattern = "@" + pattern
	}

	if decorator == pattern {
		return true
	}

	decoratorBase := strings.TrimRight(decorator, "()")
	patternBase := strings.TrimRight(pattern, "()")
	if decoratorBase == patternBase {
		return true
	}

	if strings.Contains(patternBase, "*") {
		expr := regexp.QuoteMeta(patternBase)
		expr = strings.ReplaceAll(expr, `\*`, `[^.]+`)
		matched, err := regexp.MatchString("^"+expr+"$", decoratorBase)
		return err == nil && matched
	}

	return false
}

// HasExcludedDecorator reports whether any of the declaration's
// decorators matches an ignore pattern. Excluded declarations carry
// framework ordering dependencies (route tables, command registration)
// and are exempt from sorting requirements.
func HasExcludedDecorator(decl *pyast.Declaration, ignoreDecorators []string) bool {
	if len(ignoreDecorators) == 0 || len(decl.Decorators) == 0 {
		return false
	}

	for _, decorator := range decl.Decorators {
		for _, pattern := range ignoreDecorators {
			if DecoratorMatchesPattern(decorator, pattern) {
				return true
			}
		}
	}
	return false
}
