// Package standard reduces observed durations into average, normal and standard times.
package standard

import (
	"math"

	"smartmethods/domain/observation"
)

const (
	DefaultPerformanceRating    = 100
	DefaultSupplementPercentage = 15
)

type Params struct {
	PerformanceRating    float64 `json:"performanceRating"`
	SupplementPercentage float64 `json:"supplementPercentage"`
}

func DefaultParams() Params {
	return Params{PerformanceRating: DefaultPerformanceRating, SupplementPercentage: DefaultSupplementPercentage}
}

// Times are expressed in seconds.
type Times struct {
	Average  float64 `json:"average"`
	Normal   float64 `json:"normal"`
	Standard float64 `json:"standard"`
}

// Aggregate of an empty sequence is the zero Times.
func Aggregate(observationsMs []int64, p Params) Times {
	if len(observationsMs) == 0 {
		return Times{}
	}
	var sum float64
	for _, ms := range observationsMs {
		sum += float64(ms)
	}
	average := sum / float64(len(observationsMs)) / 1000
	normal := average * (p.PerformanceRating / 100)
	return Times{
		Average:  average,
		Normal:   normal,
		Standard: normal * (1 + p.SupplementPercentage/100),
	}
}

func ComputeForCycle(c observation.Cycle, p Params) Times {
	return Aggregate(c.Observations, p)
}

// ComputeOverall is the general standard time: all cycles flattened into one sequence.
func ComputeOverall(cycles []observation.Cycle, p Params) Times {
	return Aggregate(Flatten(cycles), p)
}

func Flatten(cycles []observation.Cycle) []int64 {
	n := 0
	for _, c := range cycles {
		n += len(c.Observations)
	}
	all := make([]int64, 0, n)
	for _, c := range cycles {
		all = append(all, c.Observations...)
	}
	return all
}

// Variability is the coefficient of variation in percent, using the sample standard
// deviation (n-1). It is 0 for fewer than two observations or a zero mean.
func Variability(observationsMs []int64) float64 {
	n := len(observationsMs)
	if n < 2 {
		return 0
	}
	var sum float64
	for _, ms := range observationsMs {
		sum += float64(ms) / 1000
	}
	mean := sum / float64(n)
	if mean == 0 {
		return 0
	}
	var sq float64
	for _, ms := range observationsMs {
		d := float64(ms)/1000 - mean
		sq += d * d
	}
	return math.Sqrt(sq/float64(n-1)) / mean * 100
}

// Efficiency is the performance rating itself. Stored reports rely on this equivalence.
func Efficiency(p Params) float64 {
	return p.PerformanceRating
}
