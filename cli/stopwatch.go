package cli

import (
	"smartmethods/domain/observation"
	"smartmethods/domain/study"
	"smartmethods/stopwatch"

	"github.com/spf13/cobra"
)

var runStopwatchFunc = stopwatch.Run

func buildStopwatchCommand() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "stopwatch",
		Short: "Time a process in the terminal and print its report on exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := opts.params()
			if err != nil {
				return err
			}
			m := stopwatch.New(opts.name, p, observation.NewStore())
			if err := runStopwatchFunc(m); err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), study.BuildReport(opts.newStudy(p, m.Cycles())), nil, opts.json)
		},
	}
	opts.bind(cmd)
	return cmd
}
