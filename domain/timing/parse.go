package timing

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"smartmethods/domain"
)

var (
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
	// mm:ss.cc | mm:ss | ss.cc | ss
	flexiblePattern = regexp.MustCompile(`^(?:([0-9]+):)?([0-9]{1,2})(?:\.([0-9]{2}))?$`)
	lineBreaks      = regexp.MustCompile(`\r\n|\r|\n`)

	maxMinutes = int64(math.MaxInt64 / MillisPerMinute)
)

// BulkResult partitions the lines of a paste.
type BulkResult struct {
	Accepted      []int64 `json:"accepted"`
	RejectedCount int     `json:"rejectedCount"`
	RejectedLines []int   `json:"rejectedLines"`
}

// ParseStrict converts the three form fields into milliseconds. Empty fields count as zero.
func ParseStrict(minutesText, secondsText, centisText string) (int64, error) {
	minutes, err := parseField("minutes", minutesText)
	if err != nil {
		return 0, err
	}
	seconds, err := parseField("seconds", secondsText)
	if err != nil {
		return 0, err
	}
	centis, err := parseField("centiseconds", centisText)
	if err != nil {
		return 0, err
	}
	return compose(minutes, seconds, centis)
}

// ParseFlexible accepts one of mm:ss.cc, mm:ss, ss.cc or ss. It reports false instead of
// an error so that bulk imports can keep counting.
func ParseFlexible(line string) (int64, bool) {
	ms, err := ParseLine(line)
	return ms, err == nil
}

// ParseLine is ParseFlexible with the rejection reason kept.
func ParseLine(line string) (int64, error) {
	line = strings.TrimSpace(line)
	m := flexiblePattern.FindStringSubmatch(line)
	if m == nil {
		return 0, fmt.Errorf("%q: %w", line, domain.ErrInvalidFormat)
	}
	minutes, err := parseField("minutes", m[1])
	if err != nil {
		return 0, err
	}
	seconds, err := parseField("seconds", m[2])
	if err != nil {
		return 0, err
	}
	centis, err := parseField("centiseconds", m[3])
	if err != nil {
		return 0, err
	}
	return compose(minutes, seconds, centis)
}

// ParseBulk parses a multi-line paste, skipping blank lines.
func ParseBulk(text string) BulkResult {
	r := BulkResult{Accepted: []int64{}, RejectedLines: []int{}}
	for i, line := range lineBreaks.Split(text, -1) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if ms, ok := ParseFlexible(line); ok {
			r.Accepted = append(r.Accepted, ms)
		} else {
			r.RejectedCount++
			r.RejectedLines = append(r.RejectedLines, i+1)
		}
	}
	return r
}

func parseField(name, text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	if !digitsPattern.MatchString(text) {
		return 0, fmt.Errorf("%s %q: %w", name, text, domain.ErrInvalidFormat)
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		// only overflow is possible here
		return 0, fmt.Errorf("%s %q: %w", name, text, domain.ErrOutOfRange)
	}
	return v, nil
}

func compose(minutes, seconds, centis int64) (int64, error) {
	if minutes < 0 || minutes > maxMinutes {
		return 0, fmt.Errorf("minutes %d: %w", minutes, domain.ErrOutOfRange)
	}
	if seconds < 0 || seconds > MaxSeconds {
		return 0, fmt.Errorf("seconds %d not in [0,%d]: %w", seconds, MaxSeconds, domain.ErrOutOfRange)
	}
	if centis < 0 || centis > MaxCentis {
		return 0, fmt.Errorf("centiseconds %d not in [0,%d]: %w", centis, MaxCentis, domain.ErrOutOfRange)
	}
	ms := minutes*MillisPerMinute + seconds*MillisPerSecond + centis*MillisPerCenti
	if ms < 0 {
		return 0, fmt.Errorf("minutes %d: %w", minutes, domain.ErrOutOfRange)
	}
	return ms, nil
}
