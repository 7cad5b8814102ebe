package privacy

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"pysort/internal/logging"
	"pysort/internal/pyast"
)

// Candidate is one proposed visibility rename inside a module, together
// with every reference that would have to change and the result of the
// safety analysis.
type Candidate struct {
	Declaration  *pyast.Declaration
	OldName      string
	NewName      string
	References   []pyast.Reference
	IsSafe       bool
	SafetyIssues []string
}

// Fixer analyzes a module for visibility renames and applies the safe
// ones. Unsafe candidates are reported, never applied.
type Fixer struct {
	classifier *Classifier
	parser     *pyast.Parser
	dryRun     bool
	backup     bool
	logger     *logging.Logger
}

// NewFixer creates a privacy fixer. When dryRun is set ApplyRenames
// reports what would change without touching the file. When backup is
// set a .bak copy is written before the first modification.
func NewFixer(classifier *Classifier, dryRun bool, backup bool, logger *logging.Logger) *Fixer {
	return &Fixer{
		classifier: classifier,
		parser:     pyast.NewParser(),
		dryRun:     dryRun,
		backup:     backup,
		logger:     logger,
	}
}

// AnalyzeModule parses source and returns rename candidates in both
// directions: public functions used only inside moduleName, and private
// functions used outside it.
func (f *Fixer) AnalyzeModule(ctx context.Context, source []byte, moduleName string) ([]Candidate, error) {
	module, err := f.parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", moduleName, err)
	}

	var candidates []Candidate
	for _, decl := range pyast.ModuleFunctions(module) {
		var newName string
		switch {
		case f.classifier.ShouldBePrivate(decl, moduleName):
			newName = "_" + decl.Name
		case f.classifier.ShouldBePublic(decl, moduleName):
			newName = strings.TrimPrefix(decl.Name, "_")
		default:
			continue
		}

		refs := pyast.FindReferences(module, decl.Name)
		issues := CheckRenameSafety(module, decl.Name, newName, refs)

		candidates = append(candidates, Candidate{
			Declaration:  decl,
			OldName:      decl.Name,
			NewName:      newName,
			References:   refs,
			IsSafe:       len(issues) == 0,
			SafetyIssues: issues,
		})
	}

	return candidates, nil
}

// CheckRenameSafety returns every reason a rename cannot be applied
// automatically. All issues are collected so the report shows the full
// picture, not just the first veto.
func CheckRenameSafety(module *pyast.Module, oldName string, newName string, refs []pyast.Reference) []string {
	var issues []string

	if pyast.HasDeclaration(module, newName) {
		issues = append(issues, fmt.Sprintf("a declaration named %q already exists", newName))
	}

	if pyast.HasDynamicDispatch(module) {
		issues = append(issues, "module uses dynamic dispatch (getattr/hasattr/eval), references may be invisible to static analysis")
	}

	if pyast.HasStringLiteralContaining(module, oldName) {
		issues = append(issues, fmt.Sprintf("string literals contain %q, they may be dynamic references", oldName))
	}

	for _, ref := range refs {
		switch ref.Context {
		case pyast.ContextCall, pyast.ContextAssignment, pyast.ContextDecorator, pyast.ContextReference:
		default:
			issues = append(issues, fmt.Sprintf("line %d: %q appears in an unrecognized context", ref.Line, oldName))
		}
	}

	return issues
}

// ApplyRenames rewrites source so every safe candidate's declaration and
// references use the new name. Unsafe candidates are skipped. The
// returned count is the number of candidates applied.
func (f *Fixer) ApplyRenames(source []byte, candidates []Candidate) ([]byte, int, error) {
	lines := strings.SplitAfter(string(source), "\n")

	type site struct {
		line, col        int
		oldName, newName string
	}

	// Verify every candidate's sites against the untouched lines first,
	// then patch all sites in one right-to-left pass per line so earlier
	// columns stay valid even when candidates share a line.
	var sites []site
	applied := 0

	for _, cand := range candidates {
		if !cand.IsSafe {
			continue
		}

		candSites := []site{{
			line: cand.Declaration.NameLine, col: cand.Declaration.NameColumn,
			oldName: cand.OldName, newName: cand.NewName,
		}}
		for _, ref := range cand.References {
			candSites = append(candSites, site{
				line: ref.Line, col: ref.Column,
				oldName: cand.OldName, newName: cand.NewName,
			})
		}

		ok := true
		for _, s := range candSites {
			idx := s.line - 1
			if idx < 0 || idx >= len(lines) {
				ok = false
				break
			}
			line := lines[idx]
			end := s.col + len(s.oldName)
			if end > len(line) || line[s.col:end] != s.oldName {
				ok = false
				break
			}
		}
		if !ok {
			f.logger.Warn("rename sites out of sync, skipping", map[string]interface{}{
				"function": cand.OldName,
			})
			continue
		}

		sites = append(sites, candSites...)
		applied++
	}

	sort.Slice(sites, func(i, j int) bool {
		if sites[i].line != sites[j].line {
			return sites[i].line < sites[j].line
		}
		return sites[i].col > sites[j].col
	})

	for _, s := range sites {
		idx := s.line - 1
		line := lines[idx]
		lines[idx] = line[:s.col] + s.newName + line[s.col+len(s.oldName):]
	}

	return []byte(strings.Join(lines, "")), applied, nil
}

// FixFile analyzes path, applies the safe renames, and returns the
// candidates found. The file is only rewritten when at least one rename
// applied and dry-run is off.
func (f *Fixer) FixFile(ctx context.Context, path string, moduleName string) ([]Candidate, int, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	candidates, err := f.AnalyzeModule(ctx, source, moduleName)
	if err != nil {
		return nil, 0, err
	}

	fixed, applied, err := f.ApplyRenames(source, candidates)
	if err != nil {
		return candidates, 0, err
	}
	if applied == 0 || f.dryRun {
		return candidates, applied, nil
	}

	if f.backup {
		if err := os.WriteFile(path+".bak", source, 0644); err != nil {
			return candidates, 0, fmt.Errorf("writing backup for %s: %w", path, err)
		}
	}
	if err := os.WriteFile(path, fixed, 0644); err != nil {
		return candidates, 0, fmt.Errorf("writing %s: %w", path, err)
	}

	f.logger.Info("privacy renames applied", map[string]interface{}{
		"file":    path,
		"applied": applied,
	})
	return candidates, applied, nil
}
