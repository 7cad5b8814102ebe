package autofix

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pysort/internal/logging"
	"pysort/internal/sorting"
)

func quietLogger() *logging.Logger {
	return logging.NewLogger(logging.Config{Level: logging.ErrorLevel})
}

func newTestSorter(cfg Config) *Sorter {
	return NewSorter(cfg, quietLogger())
}

func sortOnce(t *testing.T, cfg Config, source string) (string, bool) {
	t.Helper()
	fixed, changed, err := newTestSorter(cfg).SortContent(context.Background(), []byte(source))
	if err != nil {
		t.Fatalf("SortContent() error = %v", err)
	}
	return string(fixed), changed
}

func functionOrder(source string) []string {
	var names []string
	for _, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(line, "def ") {
			name := strings.TrimPrefix(line, "def ")
			names = append(names, name[:strings.Index(name, "(")])
		}
	}
	return names
}

func TestSortContentReordersAlphabetically(t *testing.T) {
	source := `def zebra():
    return "z"


def apple():
    return "a"


def banana():
    return "b"
`

	fixed, changed := sortOnce(t, Config{}, source)
	if !changed {
		t.Fatal("expected modified = true")
	}

	got := functionOrder(fixed)
	want := []string{"apple", "banana", "zebra"}
	if len(got) != len(want) {
		t.Fatalf("function order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("function order = %v, want %v", got, want)
		}
	}
}

func TestSortContentPublicBeforePrivate(t *testing.T) {
	source := `def zebra_public():
    pass


def apple_public():
    pass


def _zebra_private():
    pass


def _apple_private():
    pass
`

	fixed, changed := sortOnce(t, Config{}, source)
	if !changed {
		t.Fatal("expected modified = true")
	}

	got := functionOrder(fixed)
	want := []string{"apple_public", "zebra_public", "_apple_private", "_zebra_private"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("function order = %v, want %v", got, want)
		}
	}
}

func TestSortContentAlreadySorted(t *testing.T) {
	source := `def apple():
    pass


def banana():
    pass
`

	fixed, changed := sortOnce(t, Config{}, source)
	if changed {
		t.Error("expected modified = false for sorted input")
	}
	if fixed != source {
		t.Error("sorted input must be returned byte for byte")
	}
}

func TestSortContentIdempotent(t *testing.T) {
	source := `def zebra():
    pass


def apple():
    pass
`

	once, _ := sortOnce(t, Config{}, source)
	twice, changed := sortOnce(t, Config{}, once)
	if changed {
		t.Error("second pass reported changes")
	}
	if twice != once {
		t.Errorf("reorder is not idempotent:\n%s\nvs\n%s", once, twice)
	}
}

func TestSortContentPreservesSpansAndSurroundings(t *testing.T) {
	source := `"""Module docstring."""

import os

CONSTANT = 1


def zebra():
    # internal note
    return os.sep


def apple():
    return CONSTANT
`

	fixed, changed := sortOnce(t, Config{}, source)
	if !changed {
		t.Fatal("expected modified = true")
	}

	head := "\"\"\"Module docstring.\"\"\"\n\nimport os\n\nCONSTANT = 1\n\n\n"
	if !strings.HasPrefix(fixed, head) {
		t.Errorf("head region changed:\n%s", fixed)
	}

	// Each span relocates as an unaltered block.
	for _, span := range []string{
		"def zebra():\n    # internal note\n    return os.sep\n",
		"def apple():\n    return CONSTANT\n",
	} {
		if !strings.Contains(fixed, span) {
			t.Errorf("span body altered during relocation, missing:\n%s\nin:\n%s", span, fixed)
		}
	}
}

func TestSortContentKeepsDecoratorsWithFunction(t *testing.T) {
	source := `def zebra():
    pass


@app.decorator("x")
def apple():
    pass
`

	fixed, _ := sortOnce(t, Config{}, source)
	if !strings.Contains(fixed, "@app.decorator(\"x\")\ndef apple():") {
		t.Errorf("decorator separated from its function:\n%s", fixed)
	}
	if strings.Index(fixed, "def apple") > strings.Index(fixed, "def zebra") {
		t.Errorf("apple should sort before zebra:\n%s", fixed)
	}
}

func TestSortContentExcludedDecoratorsAppended(t *testing.T) {
	source := `@app.route("/z")
def zebra():
    pass


def banana():
    pass


def apple():
    pass
`

	cfg := Config{IgnoreDecorators: []string{"@app.route"}}
	fixed, changed := sortOnce(t, cfg, source)
	if !changed {
		t.Fatal("expected modified = true")
	}

	got := functionOrder(fixed)
	want := []string{"apple", "banana", "zebra"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("function order = %v, want %v (excluded appended last)", got, want)
		}
	}
}

func TestSortContentRejectsSyntaxErrors(t *testing.T) {
	_, _, err := newTestSorter(Config{}).SortContent(context.Background(), []byte("def broken(:\n"))
	if err == nil {
		t.Fatal("expected error for unparseable source")
	}
}

func TestSortContentLeavesSeparationViolations(t *testing.T) {
	// A private block ahead of a public one is a diagnostic finding, not
	// a reorder trigger: each visibility partition is already
	// alphabetical, so the file counts as sorted.
	source := `def _private():
    pass


def public():
    pass
`

	fixed, changed := sortOnce(t, Config{}, source)
	if changed {
		t.Error("expected modified = false")
	}
	if fixed != source {
		t.Error("input must be returned byte for byte")
	}
}

func TestSortContentCategoryOrder(t *testing.T) {
	cfg := Config{Categories: sorting.CategoryConfig{
		EnableCategories: true,
		DefaultCategory:  "public_methods",
		Categories: []sorting.MethodCategory{
			{Name: "private_methods", Patterns: []string{"_*"}, Priority: 1},
			{Name: "public_methods", Patterns: []string{"*"}},
		},
	}}
	source := `def render():
    pass


def _clip():
    pass
`

	fixed, changed := sortOnce(t, cfg, source)
	if !changed {
		t.Fatal("expected modified = true")
	}

	got := functionOrder(fixed)
	want := []string{"_clip", "render"}
	if len(got) != len(want) {
		t.Fatalf("function order = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("function order = %v, want %v", got, want)
		}
	}

	// The rewritten file counts as sorted under the same configuration.
	again, changed2 := sortOnce(t, cfg, fixed)
	if changed2 || again != fixed {
		t.Errorf("second pass under the same config must be a no-op:\n%s\nvs\n%s", fixed, again)
	}
}

func TestSortFileBackupAndDryRun(t *testing.T) {
	source := "def zebra():\n    pass\n\n\ndef apple():\n    pass\n"

	t.Run("backup", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mod.py")
		if err := os.WriteFile(path, []byte(source), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		sorter := newTestSorter(Config{Backup: true})
		modified, err := sorter.SortFile(context.Background(), path)
		if err != nil {
			t.Fatalf("SortFile() error = %v", err)
		}
		if !modified {
			t.Fatal("expected file to be modified")
		}

		backup, err := os.ReadFile(path + ".bak")
		if err != nil {
			t.Fatalf("reading backup: %v", err)
		}
		if !bytes.Equal(backup, []byte(source)) {
			t.Error("backup must hold the original content")
		}
	})

	t.Run("dry run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mod.py")
		if err := os.WriteFile(path, []byte(source), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}

		sorter := newTestSorter(Config{DryRun: true, Backup: true})
		modified, err := sorter.SortFile(context.Background(), path)
		if err != nil {
			t.Fatalf("SortFile() error = %v", err)
		}
		if !modified {
			t.Error("dry run should still report the file would change")
		}

		after, _ := os.ReadFile(path)
		if !bytes.Equal(after, []byte(source)) {
			t.Error("dry run must not modify the file")
		}
		if _, err := os.Stat(path + ".bak"); !os.IsNotExist(err) {
			t.Error("dry run must not write a backup")
		}
	})
}

func TestSortFilesBatch(t *testing.T) {
	dir := t.TempDir()
	unsorted := filepath.Join(dir, "unsorted.py")
	sorted := filepath.Join(dir, "sorted.py")
	broken := filepath.Join(dir, "broken.py")
	readme := filepath.Join(dir, "README.md")

	files := map[string]string{
		unsorted: "def b():\n    pass\n\n\ndef a():\n    pass\n",
		sorted:   "def a():\n    pass\n\n\ndef b():\n    pass\n",
		broken:   "def broken(:\n",
		readme:   "notes\n",
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	sorter := newTestSorter(Config{})
	summary := sorter.SortFiles(context.Background(), []string{unsorted, sorted, broken, readme})

	if summary.RunID == "" {
		t.Error("expected a run id")
	}
	if summary.Processed != 3 {
		t.Errorf("Processed = %d, want 3 (README skipped)", summary.Processed)
	}
	if summary.Modified != 1 {
		t.Errorf("Modified = %d, want 1", summary.Modified)
	}
	if summary.Errored != 1 {
		t.Errorf("Errored = %d, want 1", summary.Errored)
	}

	// The broken file must be untouched.
	after, _ := os.ReadFile(broken)
	if string(after) != files[broken] {
		t.Error("unparseable file was modified")
	}
}
