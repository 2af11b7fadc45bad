package domain

import (
	"time"
)

// Metric categories a points event can be filed under.
const (
	CategoryBatting  = "bat"
	CategoryBowling  = "bowl"
	CategoryFielding = "field"
	CategoryPenalty  = "penalty"
)

type Club struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Team struct {
	ID        string
	ClubID    string
	Name      string
	CreatedAt time.Time
}

type Player struct {
	ID        string
	ClubID    string
	TeamID    string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Season struct {
	ID        string
	ClubID    string
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

// Scorecard is the transient result of parsing one match's extracted text.
// Both innings are always present; a section that could not be located is an
// empty TeamInnings, never a missing one.
type Scorecard struct {
	MatchIDHint string
	Date        *time.Time
	Venue       string
	Result      string
	Home        TeamInnings
	Away        TeamInnings
}

type TeamInnings struct {
	TeamName string
	Batters  []Batter
	Bowlers  []Bowler
	Total    *int
}

type Batter struct {
	Name      string
	Runs      int
	Balls     *int
	Fours     *int
	Sixes     *int
	Dismissal string // free text, audit only
}

// Bowler holds one O-M-R-W line. Overs may be fractional, e.g. 7.3.
type Bowler struct {
	Name    string
	Overs   float64
	Maidens int
	Runs    int
	Wickets int
}

type BattingCounters struct {
	Runs  int
	Fours int
	Sixes int
}

type BowlingCounters struct {
	Overs        float64
	Maidens      int
	RunsConceded int
	Wickets      int
}

type FieldingCounters struct {
	Catches   int
	Stumpings int
	Runouts   int
	Assists   int
}

type PenaltyCounters struct {
	Ducks int
	Drops int
}

// PerformanceCounters are the canonical per-player per-match inputs to the
// points formula. Absent values are zero.
type PerformanceCounters struct {
	Batting   BattingCounters
	Bowling   BowlingCounters
	Fielding  FieldingCounters
	Penalties PenaltyCounters
	Batted    bool
	Bowled    bool
}

// Performance is one persisted scorecard line (batting, bowling or a
// fielding credit) keyed by the raw name as printed. Name resolution happens
// at publish/recompute time so alias fixes apply retroactively.
type Performance struct {
	ID        string
	MatchID   string
	ClubID    string
	TeamID    string
	RawName   string
	Dismissal string
	Counters  PerformanceCounters
	CreatedAt time.Time
}

type Match struct {
	ID           string
	ClubID       string
	Date         time.Time
	Venue        string
	Result       string
	HomeTeamID   string
	AwayTeamID   string
	HomeTeamName string
	AwayTeamName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// PointsEvent is the only durable artifact of scoring: one row per player per
// metric category per match. Penalty events carry negative points so the sum
// of a player's events equals their total.
type PointsEvent struct {
	ID        string // nanoid
	ClubID    string
	MatchID   string
	PlayerID  string
	TeamID    string
	Category  string
	Points    float64
	CreatedAt time.Time
}

type PlayerTotals struct {
	PlayerID   string  `json:"player_id"`
	PlayerName string  `json:"player_name"`
	Bat        float64 `json:"bat"`
	Bowl       float64 `json:"bowl"`
	Field      float64 `json:"field"`
	Total      float64 `json:"total"`
}

type TeamTotals struct {
	TeamID   string  `json:"team_id"`
	TeamName string  `json:"team_name"`
	Bat      float64 `json:"bat"`
	Bowl     float64 `json:"bowl"`
	Field    float64 `json:"field"`
	Total    float64 `json:"total"`
}
