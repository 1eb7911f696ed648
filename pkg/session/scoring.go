package session

import "math"

const (
	// ComboStep is how many consecutive successes raise the multiplier one step.
	ComboStep = 5
	// ComboStepPct is the multiplier gain per step, in percent.
	ComboStepPct = 10
	// BaseMultiplierPct is the multiplier below the first step.
	BaseMultiplierPct = 100
	// MaxMultiplierPct caps the combo multiplier.
	MaxMultiplierPct = 300

	// FanThreshold is the meter value that triggers a fan bonus.
	FanThreshold = 100.0
	// FanGainDivisor converts base points into meter gain.
	FanGainDivisor = 10.0
	// FanBonusPoints is awarded each time the meter fills.
	FanBonusPoints = 500
)

// ComboMultiplierPct returns the score multiplier for a combo, in percent.
// Flat below ComboStep, then +ComboStepPct per step, capped.
func ComboMultiplierPct(combo int) int {
	if combo < 0 {
		combo = 0
	}
	pct := BaseMultiplierPct + ComboStepPct*(combo/ComboStep)
	return min(pct, MaxMultiplierPct)
}

// AwardedPoints applies the combo multiplier to base points in integer math.
func AwardedPoints(basePoints, combo int) int {
	if basePoints <= 0 {
		return 0
	}
	return basePoints * ComboMultiplierPct(combo) / 100
}

// FanGain returns how much the fan meter rises for a success. Defender
// speed boosts make the crowd louder.
func FanGain(basePoints int, speedBoostPct float64) float64 {
	if basePoints <= 0 {
		return 0
	}
	boost := 1 + math.Max(speedBoostPct, 0)/100
	return float64(basePoints) / FanGainDivisor * boost
}
