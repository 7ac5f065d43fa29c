package standard

const (
	PerformanceAbove  = "above standard"
	PerformanceWithin = "within standard"
	PerformanceBelow  = "below standard"

	VariabilityHigh       = "high"
	VariabilityModerate   = "moderate"
	VariabilityControlled = "controlled"

	upperEfficiency   = 105
	lowerEfficiency   = 95
	highVariability   = 12
	moderateVariation = 6
)

type Conclusion struct {
	Performance    string `json:"performance"`
	Variability    string `json:"variability"`
	Summary        string `json:"summary"`
	Recommendation string `json:"recommendation"`
}

type conclusionKey struct {
	performance, variability string
}

var recommendations = map[conclusionKey]string{
	{PerformanceAbove, VariabilityControlled}: "The operator works faster than the normal pace with a stable method. " +
		"Verify the rating and consider documenting this method as the reference.",
	{PerformanceAbove, VariabilityModerate}: "The operator works faster than the normal pace with some dispersion. " +
		"Check that quality is kept and standardize the fastest repeatable sequence.",
	{PerformanceAbove, VariabilityHigh}: "The pace is above normal but cycles are inconsistent. " +
		"Review outliers and interruptions before adopting this standard time.",
	{PerformanceWithin, VariabilityControlled}: "The process runs at the normal pace and is under control. " +
		"The standard time can be adopted as is.",
	{PerformanceWithin, VariabilityModerate}: "The process runs at the normal pace with moderate dispersion. " +
		"Take additional observations to confirm the standard time.",
	{PerformanceWithin, VariabilityHigh}: "The pace is normal but cycles vary widely. " +
		"Look for method differences, material delays or measurement errors.",
	{PerformanceBelow, VariabilityControlled}: "The operator works below the normal pace with a stable method. " +
		"Consider training or an ergonomic review of the workstation.",
	{PerformanceBelow, VariabilityModerate}: "The pace is below normal with moderate dispersion. " +
		"Analyse the elements of the cycle to find avoidable waiting and motions.",
	{PerformanceBelow, VariabilityHigh}: "The pace is below normal and cycles are inconsistent. " +
		"Redesign and standardize the method before setting a standard time.",
}

func ClassifyPerformance(efficiencyPercent float64) string {
	switch {
	case efficiencyPercent > upperEfficiency:
		return PerformanceAbove
	case efficiencyPercent < lowerEfficiency:
		return PerformanceBelow
	default:
		return PerformanceWithin
	}
}

func ClassifyVariability(variabilityPercent float64) string {
	switch {
	case variabilityPercent > highVariability:
		return VariabilityHigh
	case variabilityPercent > moderateVariation:
		return VariabilityModerate
	default:
		return VariabilityControlled
	}
}

func ClassifyConclusion(efficiencyPercent, variabilityPercent float64) Conclusion {
	c := Conclusion{
		Performance: ClassifyPerformance(efficiencyPercent),
		Variability: ClassifyVariability(variabilityPercent),
	}
	c.Summary = "Performance " + c.Performance + ", " + c.Variability + " variability"
	c.Recommendation = recommendations[conclusionKey{c.Performance, c.Variability}]
	return c
}
