// Command ntfsconv is the CLI front-end over the core transit object
// graph and its transformation algebra: read a tabular feed, apply one or
// more transformations, write a tabular or NeTEx export, and report what
// happened.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	jsonReport bool
)

// newCLILogger returns a fresh *slog.Logger for the CLI's
// long-running/diagnostic paths (apply-rules --watch, malformed-row
// skips). Commands call it where they need one and pass it down
// explicitly to helpers that log, matching the teacher's
// *slog.Logger-as-parameter idiom rather than a package-global logger.
func newCLILogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

var rootCmd = &cobra.Command{
	Use:           "ntfsconv",
	Short:         "Convert and transform transit schedule datasets",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a pipelineconfig YAML file")
	rootCmd.PersistentFlags().BoolVar(&jsonReport, "json-report", false, "emit the Report as JSON instead of colored text")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(restrictCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(transfersCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(reportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		newCLILogger().Error(err.Error())
		os.Exit(1)
	}
}
