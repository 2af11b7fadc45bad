package normalizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"scorebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	homeTeam = "team-home"
	awayTeam = "team-away"
)

func collect(sc domain.Scorecard) []domain.Performance {
	return Collect(sc, "club-1", "match-1", homeTeam, awayTeam, time.Now())
}

func findPerf(t *testing.T, perfs []domain.Performance, name, teamID string) domain.Performance {
	t.Helper()
	for _, p := range perfs {
		if p.RawName == name && p.TeamID == teamID {
			return p
		}
	}
	t.Fatalf("no performance for %q on %s", name, teamID)
	return domain.Performance{}
}

func TestCollect_MergesAllRounderLines(t *testing.T) {
	sc := domain.Scorecard{
		Home: domain.TeamInnings{
			Batters: []domain.Batter{{Name: "A. Patel", Runs: 30, Dismissal: "b Jones"}},
			Bowlers: []domain.Bowler{{Name: "A. Patel", Overs: 9, Maidens: 3, Runs: 21, Wickets: 4}},
		},
	}

	perfs := collect(sc)
	p := findPerf(t, perfs, "A. Patel", homeTeam)

	assert.True(t, p.Counters.Batted)
	assert.True(t, p.Counters.Bowled)
	assert.Equal(t, 30, p.Counters.Batting.Runs)
	assert.Equal(t, 4, p.Counters.Bowling.Wickets)
}

func TestCollect_FieldingCredits(t *testing.T) {
	sc := domain.Scorecard{
		Home: domain.TeamInnings{
			Batters: []domain.Batter{
				{Name: "One", Runs: 10, Dismissal: "c Brown b Jones"},
				{Name: "Two", Runs: 5, Dismissal: "st Keeper b Jones"},
				{Name: "Three", Runs: 7, Dismissal: "run out (Cover/Point)"},
				{Name: "Four", Runs: 12, Dismissal: "c&b Jones"},
				{Name: "Five", Runs: 3, Dismissal: "run out (Mid)"},
				{Name: "Six", Runs: 40, Dismissal: "b Jones"},
			},
		},
	}

	perfs := collect(sc)

	assert.Equal(t, 1, findPerf(t, perfs, "Brown", awayTeam).Counters.Fielding.Catches)
	assert.Equal(t, 1, findPerf(t, perfs, "Keeper", awayTeam).Counters.Fielding.Stumpings)
	assert.Equal(t, 1, findPerf(t, perfs, "Cover", awayTeam).Counters.Fielding.Runouts)
	assert.Equal(t, 1, findPerf(t, perfs, "Point", awayTeam).Counters.Fielding.Assists)
	assert.Equal(t, 1, findPerf(t, perfs, "Jones", awayTeam).Counters.Fielding.Catches)
	assert.Equal(t, 1, findPerf(t, perfs, "Mid", awayTeam).Counters.Fielding.Runouts)

	// each dismissal yields at most one primary credit
	totalPrimary := 0
	for _, p := range perfs {
		if p.TeamID == awayTeam {
			f := p.Counters.Fielding
			totalPrimary += f.Catches + f.Stumpings + f.Runouts
		}
	}
	assert.Equal(t, 5, totalPrimary)
}

func TestCollect_NoCreditForPlainBowled(t *testing.T) {
	sc := domain.Scorecard{
		Home: domain.TeamInnings{
			Batters: []domain.Batter{
				{Name: "One", Runs: 10, Dismissal: "b Jones"},
				{Name: "Two", Runs: 4, Dismissal: "lbw b Jones"},
				{Name: "Three", Runs: 8, Dismissal: "not out"},
			},
		},
	}

	perfs := collect(sc)
	for _, p := range perfs {
		if p.TeamID == awayTeam {
			t.Fatalf("unexpected fielding credit for %q", p.RawName)
		}
	}
}

func TestCollect_DuckDetection(t *testing.T) {
	sc := domain.Scorecard{
		Home: domain.TeamInnings{
			Batters: []domain.Batter{
				{Name: "Duck", Runs: 0, Dismissal: "b Jones"},
				{Name: "NotOutZero", Runs: 0, Dismissal: "not out"},
				{Name: "Retired", Runs: 0, Dismissal: "retired hurt"},
				{Name: "StillIn", Runs: 0},
				{Name: "Scored", Runs: 1, Dismissal: "b Jones"},
			},
		},
	}

	perfs := collect(sc)

	assert.Equal(t, 1, findPerf(t, perfs, "Duck", homeTeam).Counters.Penalties.Ducks)
	assert.Zero(t, findPerf(t, perfs, "NotOutZero", homeTeam).Counters.Penalties.Ducks)
	assert.Zero(t, findPerf(t, perfs, "Retired", homeTeam).Counters.Penalties.Ducks)
	assert.Zero(t, findPerf(t, perfs, "StillIn", homeTeam).Counters.Penalties.Ducks)
	assert.Zero(t, findPerf(t, perfs, "Scored", homeTeam).Counters.Penalties.Ducks)
}

func TestResolve_MergesByPlayerAndReportsUnresolved(t *testing.T) {
	perfs := []domain.Performance{
		{RawName: "J. Smith", TeamID: homeTeam, Counters: domain.PerformanceCounters{
			Batting: domain.BattingCounters{Runs: 40}, Batted: true,
		}},
		{RawName: "Smith", TeamID: homeTeam, Counters: domain.PerformanceCounters{
			Fielding: domain.FieldingCounters{Catches: 2},
		}},
		{RawName: "Mystery Man", TeamID: homeTeam},
		{RawName: "Mystery Man", TeamID: homeTeam},
	}

	lookup := func(_ context.Context, name, _ string) (string, error) {
		switch name {
		case "J. Smith", "Smith":
			return "player-1", nil
		}
		return "", nil
	}

	resolved, unresolved, err := Resolve(context.Background(), perfs, lookup)
	require.NoError(t, err)

	require.Len(t, resolved, 1)
	assert.Equal(t, "player-1", resolved[0].PlayerID)
	assert.Equal(t, 40, resolved[0].Counters.Batting.Runs)
	assert.Equal(t, 2, resolved[0].Counters.Fielding.Catches)
	assert.True(t, resolved[0].Counters.Batted)

	// duplicates collapse to one report entry
	require.Len(t, unresolved, 1)
	assert.Equal(t, "Mystery Man", unresolved[0].RawName)
}

func TestResolve_LookupErrorAborts(t *testing.T) {
	perfs := []domain.Performance{{RawName: "Anyone", TeamID: homeTeam}}
	boom := errors.New("store down")

	lookup := func(_ context.Context, _, _ string) (string, error) {
		return "", boom
	}

	_, _, err := Resolve(context.Background(), perfs, lookup)
	assert.ErrorIs(t, err, boom)
}

func TestFieldingCredit_Shapes(t *testing.T) {
	tests := []struct {
		dismissal string
		fielder   string
		kind      string
		assist    string
	}{
		{"c Brown b Jones", "Brown", creditCatch, ""},
		{"ct Brown b Jones", "Brown", creditCatch, ""},
		{"c sub Wilson b Jones", "Wilson", creditCatch, ""},
		{"st Keeper b Spinner", "Keeper", creditStumping, ""},
		{"c&b Jones", "Jones", creditCatch, ""},
		{"c & b Jones", "Jones", creditCatch, ""},
		{"run out (Cover)", "Cover", creditRunout, ""},
		{"run out (Cover/Point)", "Cover", creditRunout, "Point"},
		{"Run out ( Cover / Point )", "Cover", creditRunout, "Point"},
	}
	for _, tt := range tests {
		t.Run(tt.dismissal, func(t *testing.T) {
			cr := fieldingCredit(tt.dismissal)
			require.NotNil(t, cr)
			assert.Equal(t, tt.fielder, cr.fielder)
			assert.Equal(t, tt.kind, cr.kind)
			assert.Equal(t, tt.assist, cr.assist)
		})
	}

	for _, none := range []string{"", "b Jones", "lbw b Jones", "not out", "retired hurt", "hit wicket b Jones"} {
		t.Run("none/"+none, func(t *testing.T) {
			assert.Nil(t, fieldingCredit(none))
		})
	}
}
