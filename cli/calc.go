package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"smartmethods/domain/observation"
	"smartmethods/domain/standard"
	"smartmethods/domain/study"
	"smartmethods/domain/timing"

	"github.com/spf13/cobra"
)

type reportOptions struct {
	name       string
	rating     float64
	supplement float64
	json       bool
}

func (o *reportOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.name, "name", "n", "Untitled process", "process name")
	cmd.Flags().Float64Var(&o.rating, "rating", standard.DefaultPerformanceRating, "performance rating in percent (0-300)")
	cmd.Flags().Float64Var(&o.supplement, "supplement", standard.DefaultSupplementPercentage, "supplement in percent (0-100)")
	cmd.Flags().BoolVar(&o.json, "json", false, "print the report as json")
}

func (o *reportOptions) params() (standard.Params, error) {
	if o.rating < 0 || o.rating > study.MaxPerformanceRating {
		return standard.Params{}, fmt.Errorf("rating %v is out of range [0, %d]", o.rating, study.MaxPerformanceRating)
	}
	if o.supplement < 0 || o.supplement > study.MaxSupplement {
		return standard.Params{}, fmt.Errorf("supplement %v is out of range [0, %d]", o.supplement, study.MaxSupplement)
	}
	return standard.Params{PerformanceRating: o.rating, SupplementPercentage: o.supplement}, nil
}

// newStudy builds an unsaved study to report on.
func (o *reportOptions) newStudy(p standard.Params, cycles []observation.Cycle) *study.Study {
	return &study.Study{
		ProcessName:          o.name,
		Status:               study.StatusDraft,
		PerformanceRating:    p.PerformanceRating,
		SupplementPercentage: p.SupplementPercentage,
		ObservedTimes:        study.NewObservedTimes(cycles),
	}
}

func buildCalcCommand() *cobra.Command {
	opts := &reportOptions{}
	cmd := &cobra.Command{
		Use:   "calc [file]",
		Short: "Compute a report from one time per line (mm:ss.cc, mm:ss, ss.cc or ss)",
		Long: "calc reads observed times from the file, or from stdin when no file is given, " +
			"and prints the standard time report of a single cycle.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return runCalc(cmd.OutOrStdout(), in, opts)
		},
	}
	opts.bind(cmd)
	return cmd
}

func runCalc(out io.Writer, in io.Reader, opts *reportOptions) error {
	p, err := opts.params()
	if err != nil {
		return err
	}
	text, err := io.ReadAll(in)
	if err != nil {
		return err
	}
	parsed := timing.ParseBulk(string(text))
	if len(parsed.Accepted) == 0 {
		return errors.New("no valid times found in input")
	}

	cycles := []observation.Cycle{{Name: "Cycle 1", Observations: parsed.Accepted}}
	return printReport(out, study.BuildReport(opts.newStudy(p, cycles)), parsed.RejectedLines, opts.json)
}
