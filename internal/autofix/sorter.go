// Package autofix rewrites Python source so module-level functions
// appear in canonical order. Reordering moves whole declaration spans
// (decorators, body, trailing blank lines) without re-serializing any
// code, so every byte of the original file survives the rewrite.
package autofix

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"pysort/internal/logging"
	"pysort/internal/pyast"
	"pysort/internal/sorting"
)

// Config controls one auto-fix run.
type Config struct {
	// DryRun reports whether files would change without writing them.
	DryRun bool
	// Backup writes path.bak with the original content before rewriting.
	Backup bool
	// IgnoreDecorators are decorator patterns whose declarations stay in
	// place. Order among them is preserved relative to file position.
	IgnoreDecorators []string
	// Categories is the ordering configuration used to decide target order.
	Categories sorting.CategoryConfig
}

// Span is one function declaration's contiguous text region: from its
// first decorator line up to (not including) the next declaration's
// first line, or end of file for the last declaration. Lines keep their
// trailing newlines so reassembly is byte exact.
type Span struct {
	Decl      *pyast.Declaration
	StartLine int // 0-based, inclusive
	EndLine   int // 0-based, exclusive
	Text      string
}

// Sorter rewrites files into canonical function order.
type Sorter struct {
	cfg    Config
	parser *pyast.Parser
	logger *logging.Logger
}

// NewSorter creates a sorter with the given configuration.
func NewSorter(cfg Config, logger *logging.Logger) *Sorter {
	return &Sorter{cfg: cfg, parser: pyast.NewParser(), logger: logger}
}

// SortContent returns source with module-level functions reordered, and
// whether anything changed. Sources already in canonical order are
// returned unchanged. A syntax error aborts the rewrite.
func (s *Sorter) SortContent(ctx context.Context, source []byte) ([]byte, bool, error) {
	module, err := s.parser.Parse(ctx, source)
	if err != nil {
		return nil, false, err
	}

	decls := pyast.ModuleFunctions(module)
	if sorting.AreSorted(decls, s.cfg.Categories, s.cfg.IgnoreDecorators) {
		return source, false, nil
	}

	lines := splitLines(string(source))
	spans := extractSpans(decls, lines)
	ordered := s.sortSpans(spans)

	rewritten := reassemble(lines, spans, ordered)
	changed := rewritten != string(source)
	return []byte(rewritten), changed, nil
}

// SortFile applies SortContent to a file on disk. In dry-run mode the
// file is never written; the bool still reports whether it would change.
func (s *Sorter) SortFile(ctx context.Context, path string) (bool, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("reading %s: %w", path, err)
	}

	fixed, changed, err := s.SortContent(ctx, source)
	if err != nil {
		return false, fmt.Errorf("sorting %s: %w", path, err)
	}
	if !changed || s.cfg.DryRun {
		return changed, nil
	}

	if s.cfg.Backup {
		if err := os.WriteFile(path+".bak", source, 0644); err != nil {
			return false, fmt.Errorf("writing backup for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, fixed, 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}

	s.logger.Info("functions reordered", map[string]interface{}{"file": path})
	return true, nil
}

// splitLines splits source into lines that keep their trailing newline,
// so joining the result reproduces the input byte for byte.
func splitLines(source string) []string {
	if source == "" {
		return nil
	}
	lines := strings.SplitAfter(source, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// extractSpans computes each declaration's text region. A span begins at
// the declaration's first decorator line and runs to the next span's
// start, so comments and blank lines between declarations travel with
// the declaration above them.
func extractSpans(decls []*pyast.Declaration, lines []string) []Span {
	spans := make([]Span, len(decls))
	for i, decl := range decls {
		start := decl.DecoratorStartLine
		end := len(lines)
		if i+1 < len(decls) {
			end = decls[i+1].DecoratorStartLine
		}
		spans[i] = Span{
			Decl:      decl,
			StartLine: start,
			EndLine:   end,
			Text:      strings.Join(lines[start:end], ""),
		}
	}
	return spans
}

// sortSpans produces the target order: sortable declarations grouped by
// category, groups emitted in configured category order, names sorted
// within each group unless declaration order is configured. In legacy
// mode this collapses to public-then-private, each alphabetical.
// Declarations carrying an ignored decorator keep their relative file
// order and are appended after the sorted groups.
func (s *Sorter) sortSpans(spans []Span) []Span {
	cfg := s.cfg.Categories
	if len(cfg.Categories) == 0 {
		cfg.Categories = sorting.DefaultCategoryConfig().Categories
	}

	var excluded []Span
	groups := map[string][]Span{}
	for _, span := range spans {
		if sorting.HasExcludedDecorator(span.Decl, s.cfg.IgnoreDecorators) {
			excluded = append(excluded, span)
			continue
		}
		category := sorting.Categorize(span.Decl, cfg)
		groups[category] = append(groups[category], span)
	}

	ordered := make([]Span, 0, len(spans))
	emit := func(name string) {
		group := groups[name]
		if len(group) == 0 {
			return
		}
		delete(groups, name)
		if cfg.CategorySorting != "declaration" {
			sort.SliceStable(group, func(i, j int) bool {
				return group[i].Decl.Name < group[j].Decl.Name
			})
		}
		ordered = append(ordered, group...)
	}

	for _, category := range cfg.Categories {
		emit(category.Name)
	}

	// A default category absent from the configured list sorts after
	// every listed block, mirroring the order validator.
	var leftover []string
	for name := range groups {
		leftover = append(leftover, name)
	}
	sort.Strings(leftover)
	for _, name := range leftover {
		emit(name)
	}

	return append(ordered, excluded...)
}

// reassemble splices the reordered spans back between the untouched head
// (everything before the first span) and tail (everything after the
// last). A blank line is inserted before any moved span that does not
// already begin with one, so adjacent declarations stay separated.
func reassemble(lines []string, original []Span, ordered []Span) string {
	head := strings.Join(lines[:original[0].StartLine], "")
	tail := strings.Join(lines[original[len(original)-1].EndLine:], "")

	var b strings.Builder
	b.WriteString(head)
	for i, span := range ordered {
		if i > 0 && !strings.HasPrefix(span.Text, "\n") {
			b.WriteString("\n")
		}
		b.WriteString(span.Text)
	}
	b.WriteString(tail)
	return b.String()
}
