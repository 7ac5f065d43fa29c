// Package cli is the command line of smartmethods.
//
//	smartmethods serve       run the REST service
//	smartmethods calc        compute a report from pasted times
//	smartmethods stopwatch   time a process in the terminal
package cli

import (
	"github.com/spf13/cobra"
)

const defaultConfigPath = ""

var configPath string

// BuildCLI assembles the root command with all sub commands.
func BuildCLI() *cobra.Command {
	root := &cobra.Command{
		Use:           "smartmethods",
		Short:         "Time and motion studies",
		Long:          "smartmethods records cycle observations and derives average, normal and standard times.",
		Version:       "1.0.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "config file (.toml or .yaml)")

	root.AddCommand(buildServeCommand())
	root.AddCommand(buildCalcCommand())
	root.AddCommand(buildStopwatchCommand())
	return root
}

// Execute runs the command line with os.Args.
func Execute() error {
	return BuildCLI().Execute()
}
