// Package normalizer maps parsed scorecard lines into the canonical counters
// the points formula consumes. It works in two stages: Collect builds
// per-raw-name performance rows from a Scorecard (including fielding credits
// read out of dismissal text), and Resolve attributes those rows to canonical
// player ids through an alias lookup, merging rows that resolve to the same
// player. A name the lookup cannot resolve is reported, never guessed.
package normalizer

import (
	"context"
	"regexp"
	"strings"
	"time"

	"scorebook/internal/domain"
)

// LookupFunc resolves a raw scorecard name within a team to a canonical
// player id. An empty id with a nil error means no alias matched.
type LookupFunc func(ctx context.Context, name, teamID string) (string, error)

type Resolved struct {
	PlayerID string
	TeamID   string
	Counters domain.PerformanceCounters
}

type Unresolved struct {
	RawName string
	TeamID  string
}

// Collect flattens a scorecard into performance rows keyed by raw name and
// team. Batting and bowling lines for the same printed name merge into one
// row; fielding credits from the opposing innings' dismissals merge the same
// way.
func Collect(sc domain.Scorecard, clubID, matchID, homeTeamID, awayTeamID string, now time.Time) []domain.Performance {
	c := &collector{
		clubID:  clubID,
		matchID: matchID,
		now:     now,
		rows:    make(map[string]*domain.Performance),
	}

	c.addInnings(sc.Home, homeTeamID, awayTeamID)
	c.addInnings(sc.Away, awayTeamID, homeTeamID)

	perfs := make([]domain.Performance, 0, len(c.order))
	for _, key := range c.order {
		perfs = append(perfs, *c.rows[key])
	}
	return perfs
}

type collector struct {
	clubID  string
	matchID string
	now     time.Time
	rows    map[string]*domain.Performance
	order   []string
}

func (c *collector) addInnings(innings domain.TeamInnings, battingTeamID, fieldingTeamID string) {
	for _, b := range innings.Batters {
		p := c.row(b.Name, battingTeamID)
		p.Counters.Batted = true
		p.Counters.Batting.Runs += b.Runs
		if b.Fours != nil {
			p.Counters.Batting.Fours += *b.Fours
		}
		if b.Sixes != nil {
			p.Counters.Batting.Sixes += *b.Sixes
		}
		if p.Dismissal == "" {
			p.Dismissal = b.Dismissal
		}
		if isDuck(b) {
			p.Counters.Penalties.Ducks++
		}

		if cr := fieldingCredit(b.Dismissal); cr != nil {
			f := c.row(cr.fielder, fieldingTeamID)
			switch cr.kind {
			case creditCatch:
				f.Counters.Fielding.Catches++
			case creditStumping:
				f.Counters.Fielding.Stumpings++
			case creditRunout:
				f.Counters.Fielding.Runouts++
			}
			if cr.assist != "" {
				a := c.row(cr.assist, fieldingTeamID)
				a.Counters.Fielding.Assists++
			}
		}
	}

	for _, b := range innings.Bowlers {
		p := c.row(b.Name, battingTeamID)
		p.Counters.Bowled = true
		p.Counters.Bowling.Overs += b.Overs
		p.Counters.Bowling.Maidens += b.Maidens
		p.Counters.Bowling.RunsConceded += b.Runs
		p.Counters.Bowling.Wickets += b.Wickets
	}
}

// row returns the performance row for a raw name within a team, creating it
// on first sight. Matching is case-folded.
func (c *collector) row(rawName, teamID string) *domain.Performance {
	key := teamID + "|" + strings.ToLower(strings.TrimSpace(rawName))
	if p, ok := c.rows[key]; ok {
		return p
	}
	p := &domain.Performance{
		MatchID:   c.matchID,
		ClubID:    c.clubID,
		TeamID:    teamID,
		RawName:   strings.TrimSpace(rawName),
		CreatedAt: c.now,
	}
	c.rows[key] = p
	c.order = append(c.order, key)
	return p
}

var notOutRe = regexp.MustCompile(`(?i)^(not out|retired)`)

func isDuck(b domain.Batter) bool {
	return b.Runs == 0 && b.Dismissal != "" && !notOutRe.MatchString(b.Dismissal)
}

const (
	creditCatch    = "catch"
	creditStumping = "stumping"
	creditRunout   = "runout"
)

type credit struct {
	fielder string
	kind    string
	assist  string
}

var (
	caughtBowledRe = regexp.MustCompile(`(?i)^c\s*&\s*b\.?\s+(.+)$`)
	stumpedRe      = regexp.MustCompile(`(?i)^st\.?\s+(.+?)\s+b\.?\s+.+$`)
	caughtRe       = regexp.MustCompile(`(?i)^c[t]?\.?\s+(?:sub\.?\s+)?(.+?)\s+b\.?\s+.+$`)
	caughtBareRe   = regexp.MustCompile(`(?i)^c[t]?\.?\s+(.+)$`)
	runOutRe       = regexp.MustCompile(`(?i)\brun\s+out\s*\(\s*([^/)]+?)\s*(?:/\s*([^)]+?)\s*)?\)`)
)

// fieldingCredit extracts at most one primary fielding credit from a
// dismissal description. Free-text dismissals are lossy, so this is
// best-effort: an unrecognised shape yields no credit rather than a wrong
// one. The first matching pattern wins, which keeps a dismissal from ever
// being credited twice.
func fieldingCredit(dismissal string) *credit {
	d := strings.TrimSpace(dismissal)
	if d == "" {
		return nil
	}

	if m := caughtBowledRe.FindStringSubmatch(d); m != nil {
		return &credit{fielder: strings.TrimSpace(m[1]), kind: creditCatch}
	}
	if m := stumpedRe.FindStringSubmatch(d); m != nil {
		return &credit{fielder: strings.TrimSpace(m[1]), kind: creditStumping}
	}
	if m := caughtRe.FindStringSubmatch(d); m != nil {
		return &credit{fielder: strings.TrimSpace(m[1]), kind: creditCatch}
	}
	if m := caughtBareRe.FindStringSubmatch(d); m != nil {
		return &credit{fielder: strings.TrimSpace(m[1]), kind: creditCatch}
	}
	if m := runOutRe.FindStringSubmatch(d); m != nil {
		cr := &credit{fielder: strings.TrimSpace(m[1]), kind: creditRunout}
		if m[2] != "" {
			cr.assist = strings.TrimSpace(m[2])
		}
		return cr
	}
	return nil
}

// Resolve attributes performance rows to canonical players. Rows resolving to
// the same player id merge by summing counter groups. Rows whose name cannot
// be resolved are excluded from the result and listed once per (name, team).
// A lookup error aborts resolution: store failures are not tolerated the way
// unknown names are.
func Resolve(ctx context.Context, perfs []domain.Performance, lookup LookupFunc) ([]Resolved, []Unresolved, error) {
	var resolved []Resolved
	byPlayer := make(map[string]int)

	var unresolved []Unresolved
	seenUnresolved := make(map[string]bool)

	for _, p := range perfs {
		playerID, err := lookup(ctx, p.RawName, p.TeamID)
		if err != nil {
			return nil, nil, err
		}
		if playerID == "" {
			key := p.TeamID + "|" + strings.ToLower(p.RawName)
			if !seenUnresolved[key] {
				seenUnresolved[key] = true
				unresolved = append(unresolved, Unresolved{RawName: p.RawName, TeamID: p.TeamID})
			}
			continue
		}

		if i, ok := byPlayer[playerID]; ok {
			resolved[i].Counters = mergeCounters(resolved[i].Counters, p.Counters)
			continue
		}
		resolved = append(resolved, Resolved{
			PlayerID: playerID,
			TeamID:   p.TeamID,
			Counters: p.Counters,
		})
		byPlayer[playerID] = len(resolved) - 1
	}

	return resolved, unresolved, nil
}

func mergeCounters(a, b domain.PerformanceCounters) domain.PerformanceCounters {
	a.Batting.Runs += b.Batting.Runs
	a.Batting.Fours += b.Batting.Fours
	a.Batting.Sixes += b.Batting.Sixes
	a.Bowling.Overs += b.Bowling.Overs
	a.Bowling.Maidens += b.Bowling.Maidens
	a.Bowling.RunsConceded += b.Bowling.RunsConceded
	a.Bowling.Wickets += b.Bowling.Wickets
	a.Fielding.Catches += b.Fielding.Catches
	a.Fielding.Stumpings += b.Fielding.Stumpings
	a.Fielding.Runouts += b.Fielding.Runouts
	a.Fielding.Assists += b.Fielding.Assists
	a.Penalties.Ducks += b.Penalties.Ducks
	a.Penalties.Drops += b.Penalties.Drops
	a.Batted = a.Batted || b.Batted
	a.Bowled = a.Bowled || b.Bowled
	return a
}
