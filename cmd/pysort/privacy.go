package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pysort/internal/paths"
	"pysort/internal/privacy"
	"pysort/internal/usage"
)

var (
	privacyFix      bool
	privacyDryRun   bool
	privacyNoBackup bool
)

var privacyCmd = &cobra.Command{
	Use:   "privacy [files or directories...]",
	Short: "Analyze and fix public/private naming from project-wide usage",
	Long: `Build the project usage graph and report module-level functions whose
underscore prefix does not match how other modules use them: public
functions nobody imports should become private, private functions other
modules reach into should become public.

With --fix, safe renames are applied to both the definition and every
reference inside the module. A rename is skipped when the target name
already exists, the module uses dynamic dispatch, string literals
mention the function, or any reference sits in an unrecognized context.

Examples:
  pysort privacy src/
  pysort privacy --fix src/
  pysort privacy --fix --dry-run src/`,
	Args: cobra.MinimumNArgs(1),
	Run:  runPrivacy,
}

func init() {
	privacyCmd.Flags().BoolVar(&privacyFix, "fix", false,
		"Apply safe renames instead of just reporting")
	privacyCmd.Flags().BoolVar(&privacyDryRun, "dry-run", false,
		"With --fix, report what would change without writing")
	privacyCmd.Flags().BoolVar(&privacyNoBackup, "no-backup", false,
		"With --fix, do not write .bak files before rewriting")
	rootCmd.AddCommand(privacyCmd)
}

func runPrivacy(cmd *cobra.Command, args []string) {
	cfg, logger, root := loadConfigAndLogger()

	files, err := collectPythonFiles(args, cfg.Privacy.ExcludeDirs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting files: %v\n", err)
		os.Exit(1)
	}

	builder := usage.NewBuilder(cfg.TestDetection(), cfg.Privacy.ExcludeDirs, logger)
	graph, err := builder.Build(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building usage graph: %v\n", err)
		os.Exit(1)
	}

	classifier := privacy.NewClassifier(graph, cfg.PublicAPIPatterns)
	backup := cfg.AutoFix.Backup && !privacyNoBackup
	fixer := privacy.NewFixer(classifier, privacyDryRun, backup, logger)
	ctx := context.Background()

	found := 0
	for _, file := range files {
		moduleName, err := paths.ModuleName(file, root)
		if err != nil {
			continue
		}

		var candidates []privacy.Candidate
		if privacyFix {
			candidates, _, err = fixer.FixFile(ctx, file, moduleName)
		} else {
			var source []byte
			source, err = os.ReadFile(file)
			if err == nil {
				candidates, err = fixer.AnalyzeModule(ctx, source, moduleName)
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
			continue
		}

		found += len(candidates)
		privacy.RenderReport(os.Stdout, file, candidates)
	}

	if found == 0 {
		privacy.RenderEmpty(os.Stdout)
	}
}
