package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"smartmethods/stopwatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := BuildCLI()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetErr(out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestBuildCLI(t *testing.T) {
	cmd := BuildCLI()

	assert.Equal(t, "smartmethods", cmd.Use)

	names := map[string]bool{}
	for _, c := range cmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["calc"])
	assert.True(t, names["stopwatch"])

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "c", configFlag.Shorthand)

	calc, _, err := cmd.Find([]string{"calc"})
	require.NoError(t, err)
	for _, name := range []string{"name", "rating", "supplement", "json"} {
		assert.NotNil(t, calc.Flags().Lookup(name), "calc should have --%s", name)
	}
}

func TestCalcCommand(t *testing.T) {
	t.Run("should print a json report of the times in a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "times.txt")
		require.NoError(t, os.WriteFile(path, []byte("00:10.00\n20\n\nabc\n"), 0o600))

		out, err := execute(t, "", "calc", path, "--json", "--name", "Assembly")
		require.NoError(t, err)

		var doc struct {
			Report struct {
				ProcessName       string `json:"processName"`
				ObservationsCount int    `json:"observationsCount"`
				Overall           struct {
					Average  float64 `json:"average"`
					Standard float64 `json:"standard"`
				} `json:"overall"`
				Cycles []struct {
					Name string `json:"name"`
				} `json:"cycles"`
				Conclusion *struct {
					Performance string `json:"performance"`
				} `json:"conclusion"`
			} `json:"report"`
			RejectedLines []int `json:"rejectedLines"`
		}
		require.NoError(t, json.Unmarshal([]byte(out), &doc))
		assert.Equal(t, "Assembly", doc.Report.ProcessName)
		assert.Equal(t, 2, doc.Report.ObservationsCount)
		assert.InDelta(t, 15.0, doc.Report.Overall.Average, 1e-9)
		assert.InDelta(t, 17.25, doc.Report.Overall.Standard, 1e-9)
		require.Len(t, doc.Report.Cycles, 1)
		assert.Equal(t, "Cycle 1", doc.Report.Cycles[0].Name)
		require.NotNil(t, doc.Report.Conclusion)
		assert.Equal(t, "within standard", doc.Report.Conclusion.Performance)
		assert.Equal(t, []int{4}, doc.RejectedLines)
	})

	t.Run("should print a text report of the times from stdin", func(t *testing.T) {
		out, err := execute(t, "00:10.00\n00:20.00\n", "calc", "--rating", "110", "--supplement", "10")
		require.NoError(t, err)

		assert.Contains(t, out, "Cycle 1")
		assert.Contains(t, out, "overall")
		assert.Contains(t, out, "performance rating 110.00%  supplement 10.00%")
		// 15 * 1.1 * 1.1
		assert.Contains(t, out, "standard time 00:18.15 (18.15s)")
		assert.Contains(t, out, "efficiency 110.00%")
		assert.NotContains(t, out, "rejected lines")
	})

	t.Run("should fail when no line is a valid time", func(t *testing.T) {
		_, err := execute(t, "abc\n\n", "calc")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no valid times")
	})

	t.Run("should reject a rating out of range", func(t *testing.T) {
		_, err := execute(t, "10\n", "calc", "--rating", "301")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "rating 301 is out of range")
	})

	t.Run("should fail on a missing file", func(t *testing.T) {
		_, err := execute(t, "", "calc", filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}

func TestStopwatchCommand(t *testing.T) {
	defer func() { runStopwatchFunc = stopwatch.Run }()

	t.Run("should print the report after the session ends", func(t *testing.T) {
		var ran *stopwatch.Model
		runStopwatchFunc = func(m *stopwatch.Model) error {
			ran = m
			return nil
		}
		out, err := execute(t, "", "stopwatch", "--name", "Packing")
		require.NoError(t, err)
		require.NotNil(t, ran)
		assert.Len(t, ran.Cycles(), 1)
		assert.Contains(t, out, "Packing")
		assert.Contains(t, out, "no observations")
	})

	t.Run("should return the session error", func(t *testing.T) {
		runStopwatchFunc = func(m *stopwatch.Model) error {
			return errors.New("no tty")
		}
		_, err := execute(t, "", "stopwatch")
		assert.EqualError(t, err, "no tty")
	})
}
