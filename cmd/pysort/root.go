package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pysort/internal/config"
	"pysort/internal/logging"
	"pysort/internal/usage"
	"pysort/internal/version"
)

var (
	projectRootFlag string
	logLevelFlag    string
	logFormatFlag   string
)

var rootCmd = &cobra.Command{
	Use:   "pysort",
	Short: "pysort - Python declaration order linter",
	Long: `pysort validates and fixes the order of functions and methods in Python
source files: alphabetical order within visibility or category blocks,
public before private, plus import-based detection of functions whose
underscore prefix does not match how the rest of the project uses them.`,
	Version: version.Info(),
}

func init() {
	rootCmd.SetVersionTemplate("pysort version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&projectRootFlag, "project-root", "",
		"Project root directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: human, json")
}

// resolveProjectRoot determines the project root from the CLI flag or
// the working directory.
func resolveProjectRoot() string {
	if projectRootFlag != "" {
		return projectRootFlag
	}
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving working directory: %v\n", err)
		os.Exit(1)
	}
	return cwd
}

// loadConfigAndLogger loads project configuration and builds the logger.
// CLI flags win over config file settings.
func loadConfigAndLogger() (*config.Config, *logging.Logger, string) {
	root := resolveProjectRoot()

	cfg, err := config.LoadConfig(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	format := cfg.Logging.Format
	if logFormatFlag != "" {
		format = logFormatFlag
	}
	level := cfg.Logging.Level
	if logLevelFlag != "" {
		level = logLevelFlag
	}

	logger := logging.NewLogger(logging.Config{
		Format: logging.Format(format),
		Level:  logging.ParseLevel(level),
	})
	return cfg, logger, root
}

// collectPythonFiles expands the positional arguments into Python file
// paths. Directory arguments are walked recursively.
func collectPythonFiles(args []string, excludeDirs []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			found, err := usage.FindPythonFiles(arg, excludeDirs)
			if err != nil {
				return nil, err
			}
			files = append(files, found...)
			continue
		}
		if filepath.Ext(arg) == ".py" {
			files = append(files, arg)
		}
	}
	return files, nil
}
