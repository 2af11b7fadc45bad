// Package points computes a configurable points breakdown from canonical
// per-match performance counters. The formula is pure: everything it needs
// comes in through its arguments, so two clubs with different weight sets can
// score the same counters independently.
package points

import (
	"scorebook/internal/constants"
	"scorebook/internal/domain"
)

// Config holds the named weights a club scores with. Weights are immutable
// per computation.
type Config struct {
	Run                float64
	Four               float64
	Six                float64
	FiftyBonus         float64
	HundredBonus       float64
	Wicket             float64
	Maiden             float64
	EconomyPenaltyRate float64
	Catch              float64
	Stumping           float64
	Runout             float64
	Assist             float64
	DuckPenalty        float64
	DropPenalty        float64
}

// DefaultConfig is used for clubs that have not configured their own weights.
func DefaultConfig() Config {
	return Config{
		Run:                1,
		Four:               1,
		Six:                2,
		FiftyBonus:         10,
		HundredBonus:       25,
		Wicket:             20,
		Maiden:             5,
		EconomyPenaltyRate: 0.5,
		Catch:              10,
		Stumping:           15,
		Runout:             10,
		Assist:             5,
		DuckPenalty:        5,
		DropPenalty:        2,
	}
}

// Breakdown retains each sub-total because downstream events are bucketed by
// category. Total = Batting + Bowling + Fielding - Penalty.
type Breakdown struct {
	Batting  float64
	Bowling  float64
	Fielding float64
	Penalty  float64
	Total    float64
}

// Compute maps counters to a points breakdown under cfg. It is total over
// its numeric domain and never panics.
func Compute(c domain.PerformanceCounters, cfg Config) Breakdown {
	b := Breakdown{
		Batting:  battingPoints(c.Batting, cfg),
		Bowling:  bowlingPoints(c.Bowling, cfg),
		Fielding: fieldingPoints(c.Fielding, cfg),
		Penalty:  penaltyPoints(c.Penalties, cfg),
	}
	b.Total = b.Batting + b.Bowling + b.Fielding - b.Penalty
	return b
}

func battingPoints(b domain.BattingCounters, cfg Config) float64 {
	pts := float64(b.Runs)*cfg.Run +
		float64(b.Fours)*cfg.Four +
		float64(b.Sixes)*cfg.Six

	// Milestone bonuses are mutually exclusive: a century does not also
	// collect the fifty bonus.
	switch {
	case b.Runs >= 100:
		pts += cfg.HundredBonus
	case b.Runs >= 50:
		pts += cfg.FiftyBonus
	}
	return pts
}

func bowlingPoints(b domain.BowlingCounters, cfg Config) float64 {
	pts := float64(b.Wickets)*cfg.Wicket + float64(b.Maidens)*cfg.Maiden

	// Wickets offset runs conceded at a fixed exchange rate before the
	// economy penalty applies, so expensive wicket-less spells are penalised
	// while wicket-taking ones are not.
	excess := b.RunsConceded - b.Wickets*constants.EconomyRunsPerWicket
	if excess > 0 {
		pts -= float64(excess) * cfg.EconomyPenaltyRate
	}
	return pts
}

func fieldingPoints(f domain.FieldingCounters, cfg Config) float64 {
	return float64(f.Catches)*cfg.Catch +
		float64(f.Stumpings)*cfg.Stumping +
		float64(f.Runouts)*cfg.Runout +
		float64(f.Assists)*cfg.Assist
}

func penaltyPoints(p domain.PenaltyCounters, cfg Config) float64 {
	return float64(p.Ducks)*cfg.DuckPenalty + float64(p.Drops)*cfg.DropPenalty
}
