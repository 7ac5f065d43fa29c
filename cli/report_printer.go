package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"smartmethods/domain/standard"
	"smartmethods/domain/study"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var titleStyle = lipgloss.NewStyle().Bold(true)

// reportOutput is the --json document of calc and stopwatch.
type reportOutput struct {
	Report        *study.Report `json:"report"`
	RejectedLines []int         `json:"rejectedLines,omitempty"`
}

func printReport(w io.Writer, r *study.Report, rejectedLines []int, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(&reportOutput{Report: r, RejectedLines: rejectedLines})
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(r.ProcessName) + "\n")
	fmt.Fprintf(&b, "performance rating %s%%  supplement %s%%\n\n",
		percent(r.Params.PerformanceRating), percent(r.Params.SupplementPercentage))

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("cycle", "obs", "average", "normal", "standard", "variability")
	for _, c := range r.Cycles {
		t.Row(c.Name, strconv.Itoa(c.ObservationsCount),
			c.Times.AverageText, c.Times.NormalText, c.Times.StandardText, percent(c.Variability)+"%")
	}
	t.Row("overall", strconv.Itoa(r.ObservationsCount),
		r.Overall.AverageText, r.Overall.NormalText, r.Overall.StandardText, percent(r.Variability)+"%")
	b.WriteString(t.String() + "\n\n")

	fmt.Fprintf(&b, "standard time %s (%ss)\n", r.Overall.StandardClock, r.Overall.StandardText)
	fmt.Fprintf(&b, "efficiency %s%%\n", percent(r.Efficiency))
	if r.Conclusion != nil {
		writeConclusion(&b, r.Conclusion)
	} else {
		b.WriteString("no observations\n")
	}
	if len(rejectedLines) > 0 {
		lines := make([]string, 0, len(rejectedLines))
		for _, l := range rejectedLines {
			lines = append(lines, strconv.Itoa(l))
		}
		fmt.Fprintf(&b, "rejected lines: %s\n", strings.Join(lines, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeConclusion(b *strings.Builder, c *standard.Conclusion) {
	fmt.Fprintf(b, "performance %s, variability %s\n", c.Performance, c.Variability)
	b.WriteString(c.Summary + "\n")
	b.WriteString(c.Recommendation + "\n")
}

func percent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
