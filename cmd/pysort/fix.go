package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pysort/internal/autofix"
)

var (
	fixDryRun           bool
	fixNoBackup         bool
	fixIgnoreDecorators []string
)

var fixCmd = &cobra.Command{
	Use:   "fix [files or directories...]",
	Short: "Reorder functions into canonical order",
	Long: `Rewrite Python files so module-level functions appear in canonical
order: public functions alphabetically, then private functions
alphabetically. Each function moves as a whole block, decorators and
the comments above it included, so no code is reformatted.

Files already in order are left untouched. By default the original
content is saved next to the file as <name>.py.bak.

Examples:
  pysort fix src/
  pysort fix --dry-run src/
  pysort fix --no-backup --ignore-decorators "@app.route" src/`,
	Args: cobra.MinimumNArgs(1),
	Run:  runFix,
}

func init() {
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false,
		"Report files that would change without writing them")
	fixCmd.Flags().BoolVar(&fixNoBackup, "no-backup", false,
		"Do not write .bak files before rewriting")
	fixCmd.Flags().StringArrayVar(&fixIgnoreDecorators, "ignore-decorators", nil,
		"Decorator pattern whose functions keep their position (can be repeated)")
	rootCmd.AddCommand(fixCmd)
}

func runFix(cmd *cobra.Command, args []string) {
	cfg, logger, _ := loadConfigAndLogger()

	files, err := collectPythonFiles(args, cfg.Privacy.ExcludeDirs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting files: %v\n", err)
		os.Exit(1)
	}

	ignore := cfg.IgnoreDecorators
	ignore = append(ignore, fixIgnoreDecorators...)

	sorter := autofix.NewSorter(autofix.Config{
		DryRun:           fixDryRun,
		Backup:           cfg.AutoFix.Backup && !fixNoBackup,
		IgnoreDecorators: ignore,
		Categories:       cfg.CategoryConfig(),
	}, logger)

	summary := sorter.SortFiles(context.Background(), files)

	green := color.New(color.FgGreen)
	for _, outcome := range summary.Outcomes {
		switch {
		case outcome.Err != nil:
			fmt.Fprintf(os.Stderr, "%s: %v\n", outcome.Path, outcome.Err)
		case outcome.Modified && fixDryRun:
			green.Printf("would fix %s\n", outcome.Path)
		case outcome.Modified:
			green.Printf("fixed %s\n", outcome.Path)
		}
	}

	verb := "modified"
	if fixDryRun {
		verb = "would modify"
	}
	fmt.Printf("%d file(s) processed, %s %d, %d error(s)\n",
		summary.Processed, verb, summary.Modified, summary.Errored)

	if summary.Errored > 0 {
		os.Exit(1)
	}
}
