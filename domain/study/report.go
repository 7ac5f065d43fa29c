package study

import (
	"math"

	"smartmethods/domain/standard"
	"smartmethods/domain/timing"

	"github.com/fundwit/go-commons/types"
)

// TimesView adds the clock (mm:ss.cc) and seconds text of each time.
type TimesView struct {
	standard.Times
	AverageText   string `json:"averageText"`
	NormalText    string `json:"normalText"`
	StandardText  string `json:"standardText"`
	AverageClock  string `json:"averageClock"`
	NormalClock   string `json:"normalClock"`
	StandardClock string `json:"standardClock"`
}

type CycleReport struct {
	Name              string    `json:"name"`
	ObservationsCount int       `json:"observationsCount"`
	Times             TimesView `json:"times"`
	Variability       float64   `json:"variability"`
}

type Report struct {
	StudyID     types.ID        `json:"studyId"`
	ProcessName string          `json:"processName"`
	Status      string          `json:"status"`
	Params      standard.Params `json:"params"`

	Cycles            []CycleReport `json:"cycles"`
	ObservationsCount int           `json:"observationsCount"`
	Overall           TimesView     `json:"overall"`
	Variability       float64       `json:"variability"`
	Efficiency        float64       `json:"efficiency"`

	// nil while the study has no observations
	Conclusion *standard.Conclusion `json:"conclusion"`
}

func BuildReport(study *Study) *Report {
	p := study.Params()
	cycles := study.ObservedTimes.Cycles
	all := standard.Flatten(cycles)

	r := &Report{
		StudyID:           study.ID,
		ProcessName:       study.ProcessName,
		Status:            study.Status,
		Params:            p,
		Cycles:            make([]CycleReport, 0, len(cycles)),
		ObservationsCount: len(all),
		Overall:           viewOf(standard.ComputeOverall(cycles, p)),
		Variability:       standard.Variability(all),
		Efficiency:        standard.Efficiency(p),
	}
	for _, c := range cycles {
		r.Cycles = append(r.Cycles, CycleReport{
			Name:              c.Name,
			ObservationsCount: len(c.Observations),
			Times:             viewOf(standard.ComputeForCycle(c, p)),
			Variability:       standard.Variability(c.Observations),
		})
	}
	if len(all) > 0 {
		c := standard.ClassifyConclusion(r.Efficiency, r.Variability)
		r.Conclusion = &c
	}
	return r
}

func viewOf(t standard.Times) TimesView {
	return TimesView{
		Times:         t,
		AverageText:   timing.FormatSeconds(t.Average),
		NormalText:    timing.FormatSeconds(t.Normal),
		StandardText:  timing.FormatSeconds(t.Standard),
		AverageClock:  clock(t.Average),
		NormalClock:   clock(t.Normal),
		StandardClock: clock(t.Standard),
	}
}

func clock(seconds float64) string {
	return timing.Format(int64(math.Round(seconds * timing.MillisPerSecond)))
}
