package points

import (
	"testing"

	"scorebook/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestCompute_TotalIsSumOfCategories(t *testing.T) {
	cfg := DefaultConfig()
	counters := domain.PerformanceCounters{
		Batting:   domain.BattingCounters{Runs: 34, Fours: 4, Sixes: 1},
		Bowling:   domain.BowlingCounters{Overs: 8, Maidens: 1, RunsConceded: 25, Wickets: 2},
		Fielding:  domain.FieldingCounters{Catches: 1, Runouts: 1},
		Penalties: domain.PenaltyCounters{Drops: 1},
	}

	bd := Compute(counters, cfg)
	assert.Equal(t, bd.Batting+bd.Bowling+bd.Fielding-bd.Penalty, bd.Total)

	// deterministic: same inputs, same output
	assert.Equal(t, bd, Compute(counters, cfg))
}

func TestCompute_Batting(t *testing.T) {
	cfg := Config{Run: 1, Four: 1, Six: 2, FiftyBonus: 10, HundredBonus: 25}

	tests := []struct {
		name string
		runs int
		want float64
	}{
		{"no bonus below fifty", 49, 49},
		{"fifty bonus at exactly fifty", 50, 60},
		{"fifty bonus below hundred", 99, 109},
		{"hundred bonus replaces fifty bonus", 100, 125},
		{"hundred bonus well past hundred", 150, 175},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := Compute(domain.PerformanceCounters{
				Batting: domain.BattingCounters{Runs: tt.runs},
			}, cfg)
			assert.Equal(t, tt.want, bd.Batting)
		})
	}
}

func TestCompute_BigHundredWithBoundaries(t *testing.T) {
	// 143 off 98 with 12 fours and 3 sixes: 143 + 12 + 6 + 25 = 186
	cfg := Config{Run: 1, Four: 1, Six: 2, FiftyBonus: 10, HundredBonus: 25}
	bd := Compute(domain.PerformanceCounters{
		Batting: domain.BattingCounters{Runs: 143, Fours: 12, Sixes: 3},
	}, cfg)
	assert.Equal(t, 186.0, bd.Batting)
}

func TestCompute_EconomyPenalty(t *testing.T) {
	cfg := Config{Wicket: 20, Maiden: 5, EconomyPenaltyRate: 0.5}

	tests := []struct {
		name    string
		bowling domain.BowlingCounters
		want    float64
	}{
		{"wickets fully offset runs", domain.BowlingCounters{RunsConceded: 30, Wickets: 3}, 60},
		{"penalty never negative contribution", domain.BowlingCounters{RunsConceded: 10, Wickets: 2}, 40},
		{"wicketless expensive spell penalised", domain.BowlingCounters{RunsConceded: 52, Wickets: 0}, -26},
		{"partial offset", domain.BowlingCounters{RunsConceded: 34, Wickets: 3, Maidens: 2}, 68},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bd := Compute(domain.PerformanceCounters{Bowling: tt.bowling}, cfg)
			assert.Equal(t, tt.want, bd.Bowling)
		})
	}
}

func TestCompute_FieldingAndPenalties(t *testing.T) {
	cfg := Config{Catch: 10, Stumping: 15, Runout: 10, Assist: 5, DuckPenalty: 5, DropPenalty: 2}

	bd := Compute(domain.PerformanceCounters{
		Fielding:  domain.FieldingCounters{Catches: 2, Stumpings: 1, Runouts: 1, Assists: 1},
		Penalties: domain.PenaltyCounters{Ducks: 1, Drops: 2},
	}, cfg)

	assert.Equal(t, 50.0, bd.Fielding)
	assert.Equal(t, 9.0, bd.Penalty)
	assert.Equal(t, 41.0, bd.Total)
}

func TestCompute_ZeroCounters(t *testing.T) {
	bd := Compute(domain.PerformanceCounters{}, DefaultConfig())
	assert.Zero(t, bd.Batting)
	assert.Zero(t, bd.Bowling)
	assert.Zero(t, bd.Fielding)
	assert.Zero(t, bd.Penalty)
	assert.Zero(t, bd.Total)
}

func TestCompute_ConfigIsolation(t *testing.T) {
	counters := domain.PerformanceCounters{
		Batting: domain.BattingCounters{Runs: 50},
	}
	a := Compute(counters, Config{Run: 1, FiftyBonus: 10})
	b := Compute(counters, Config{Run: 2, FiftyBonus: 0})

	assert.Equal(t, 60.0, a.Batting)
	assert.Equal(t, 100.0, b.Batting)
}
