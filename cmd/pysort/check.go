package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"pysort/internal/config"
	"pysort/internal/logging"
	"pysort/internal/paths"
	"pysort/internal/privacy"
	"pysort/internal/pyast"
	"pysort/internal/sorting"
	"pysort/internal/usage"
)

var checkPrivacy bool

var checkCmd = &cobra.Command{
	Use:   "check [files or directories...]",
	Short: "Report declaration order and visibility violations",
	Long: `Check that module-level functions and class methods are in canonical
order: alphabetical within each visibility or category block, with no
public declaration after a private one. With --privacy, also report
functions whose underscore prefix does not match how other modules in
the project use them.

Examples:
  pysort check src/
  pysort check src/ tools/build.py
  pysort check --privacy src/`,
	Args: cobra.MinimumNArgs(1),
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkPrivacy, "privacy", false,
		"Also check public/private naming against project-wide usage")
	rootCmd.AddCommand(checkCmd)
}

// violation is one finding in one file.
type violation struct {
	line    int // 1-based
	message string
}

func runCheck(cmd *cobra.Command, args []string) {
	cfg, logger, root := loadConfigAndLogger()

	files, err := collectPythonFiles(args, cfg.Privacy.ExcludeDirs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error collecting files: %v\n", err)
		os.Exit(1)
	}

	var classifier *privacy.Classifier
	if checkPrivacy {
		builder := usage.NewBuilder(cfg.TestDetection(), cfg.Privacy.ExcludeDirs, logger)
		graph, err := builder.Build(root)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building usage graph: %v\n", err)
			os.Exit(1)
		}
		classifier = privacy.NewClassifier(graph, cfg.PublicAPIPatterns)
	}

	parser := pyast.NewParser()
	total := 0
	red := color.New(color.FgRed)

	for _, file := range files {
		violations := checkFile(parser, file, root, cfg, classifier, logger)
		if len(violations) == 0 {
			continue
		}
		total += len(violations)
		for _, v := range violations {
			red.Fprintf(os.Stdout, "%s:%d: ", file, v.line)
			fmt.Println(v.message)
		}
	}

	if total > 0 {
		fmt.Fprintf(os.Stderr, "\n%d violation(s) found in %d file(s)\n", total, len(files))
		os.Exit(1)
	}
	fmt.Printf("All %d file(s) pass.\n", len(files))
}

func checkFile(parser *pyast.Parser, file string, root string, cfg *config.Config, classifier *privacy.Classifier, logger *logging.Logger) []violation {
	source, err := os.ReadFile(file)
	if err != nil {
		return []violation{{line: 1, message: fmt.Sprintf("cannot read file: %v", err)}}
	}

	module, err := parser.Parse(context.Background(), source)
	if err != nil {
		logger.Warn("skipping unparseable file", map[string]interface{}{
			"file":  file,
			"error": err.Error(),
		})
		return nil
	}

	categories := cfg.CategoryConfig()
	ignore := cfg.IgnoreDecorators

	var violations []violation

	funcs := pyast.ModuleFunctions(module)
	if !sorting.AreSorted(funcs, categories, ignore) {
		violations = append(violations, violation{
			line:    firstLine(funcs),
			message: "module functions are not in canonical order",
		})
	}
	if !sorting.AreProperlySeparated(funcs) {
		violations = append(violations, violation{
			line:    firstLine(funcs),
			message: "public functions appear after private functions",
		})
	}

	for _, class := range pyast.Classes(module) {
		methods := pyast.Methods(module, class)
		if !sorting.AreSorted(methods, categories, ignore) {
			violations = append(violations, violation{
				line:    firstLine(methods),
				message: fmt.Sprintf("methods of class %s are not in canonical order", class.Name),
			})
		}
		if !sorting.AreProperlySeparated(methods) {
			violations = append(violations, violation{
				line:    firstLine(methods),
				message: fmt.Sprintf("public methods of class %s appear after private methods", class.Name),
			})
		}
	}

	if classifier != nil {
		moduleName, err := paths.ModuleName(file, root)
		if err == nil {
			for _, decl := range funcs {
				if classifier.ShouldBePrivate(decl, moduleName) {
					violations = append(violations, violation{
						line:    decl.NameLine,
						message: fmt.Sprintf("function %q is not used outside this module, consider renaming to _%s", decl.Name, decl.Name),
					})
				}
				if classifier.ShouldBePublic(decl, moduleName) {
					violations = append(violations, violation{
						line:    decl.NameLine,
						message: fmt.Sprintf("private function %q is used by other modules, consider making it public", decl.Name),
					})
				}
			}
		}
	}

	return violations
}

func firstLine(decls []*pyast.Declaration) int {
	if len(decls) == 0 {
		return 1
	}
	return decls[0].StartLine + 1
}
