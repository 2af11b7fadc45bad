// Package parser turns the flat text extracted from a scorecard PDF into a
// structured Scorecard. It is deliberately tolerant: lines that do not match
// the expected shapes are dropped, and a completely unparseable document
// yields a Scorecard with empty innings. Parse never fails.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"scorebook/internal/domain"
)

// section tracks where the line scanner currently is. Sections are visited in
// the Play-Cricket order: home batting, away bowling (of that innings), away
// batting, home bowling.
type section int

const (
	secNone section = iota
	secBattingHome
	secBowlingAway
	secBattingAway
	secBowlingHome
)

var (
	battingLabelRe = regexp.MustCompile(`(?i)^(.*?)\s*\bbatting\b\s*[:\-]?\s*(.*)$`)
	bowlingLabelRe = regexp.MustCompile(`(?i)^(.*?)\s*\bbowling\b\s*[:\-]?\s*(.*)$`)
	terminatorRe   = regexp.MustCompile(`(?i)^(extras|fall of wickets?|result|innings|umpires)\b`)
	totalLineRe    = regexp.MustCompile(`(?i)^total\b.*?(\d+)\s*$`)

	// <name> <dismissal>? <runs>(<balls>)? <fours>? <sixes>?
	batterLineRe = regexp.MustCompile(`^([A-Za-z].*?)\s+(\d+)(?:\s*\((\d+)\))?(?:\s+(\d+)\s+(\d+))?$`)
	// <name> <overs>-<maidens>-<runs>-<wickets>, overs possibly fractional
	bowlerLineRe = regexp.MustCompile(`^([A-Za-z].*?)\s+(\d+(?:\.\d+)?)\s*-\s*(\d+)\s*-\s*(\d+)\s*-\s*(\d+)$`)

	dateRe    = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`)
	venueRe   = regexp.MustCompile(`(?i)^(?:venue|ground)\s*[:\-]\s*(.+)$`)
	resultRe  = regexp.MustCompile(`(?i)^result\s*[:\-]?\s*(.+)$`)
	wonByRe   = regexp.MustCompile(`(?i)\bwon by\b`)
	matchIDRe = regexp.MustCompile(`(?i)\bmatch\s*(?:id|no\.?|#)\s*[:\-]?\s*([A-Za-z0-9\-]+)`)
)

// Parse converts extracted scorecard text into a Scorecard. Both innings are
// always present; missing sections leave their lists empty.
func Parse(text string) domain.Scorecard {
	lines := splitLines(text)

	sc := domain.Scorecard{}
	cur := secNone
	battingSeen := 0
	bowlingSeen := 0

	// the innings a trailing "Total" line belongs to: the most recent
	// batting section, which may already have been terminated by Extras or
	// fall-of-wickets noise
	var lastBat *domain.TeamInnings

	for _, line := range lines {
		if m := battingLabelRe.FindStringSubmatch(line); m != nil {
			switch battingSeen {
			case 0:
				cur = secBattingHome
				lastBat = &sc.Home
				if name := teamNameFromLabel(m); name != "" {
					sc.Home.TeamName = name
				}
			case 1:
				cur = secBattingAway
				lastBat = &sc.Away
				if name := teamNameFromLabel(m); name != "" {
					sc.Away.TeamName = name
				}
			default:
				cur = secNone
			}
			battingSeen++
			continue
		}
		if m := bowlingLabelRe.FindStringSubmatch(line); m != nil {
			// the side bowling the home innings is the away side, and vice
			// versa; a Bowling label may be the only place that side's name
			// is printed
			switch bowlingSeen {
			case 0:
				cur = secBowlingAway
				if sc.Away.TeamName == "" {
					sc.Away.TeamName = teamNameFromLabel(m)
				}
			case 1:
				cur = secBowlingHome
				if sc.Home.TeamName == "" {
					sc.Home.TeamName = teamNameFromLabel(m)
				}
			default:
				cur = secNone
			}
			bowlingSeen++
			continue
		}
		if m := totalLineRe.FindStringSubmatch(line); m != nil {
			if total, err := strconv.Atoi(m[1]); err == nil && lastBat != nil && lastBat.Total == nil {
				lastBat.Total = &total
			}
			cur = secNone
			continue
		}
		if terminatorRe.MatchString(line) {
			cur = secNone
			continue
		}

		switch cur {
		case secBattingHome:
			if b, ok := parseBatterLine(line); ok {
				sc.Home.Batters = append(sc.Home.Batters, b)
			}
		case secBattingAway:
			if b, ok := parseBatterLine(line); ok {
				sc.Away.Batters = append(sc.Away.Batters, b)
			}
		case secBowlingAway:
			if b, ok := parseBowlerLine(line); ok {
				sc.Away.Bowlers = append(sc.Away.Bowlers, b)
			}
		case secBowlingHome:
			if b, ok := parseBowlerLine(line); ok {
				sc.Home.Bowlers = append(sc.Home.Bowlers, b)
			}
		}
	}

	if sc.Home.TeamName == "" {
		sc.Home.TeamName = "Home"
	}
	if sc.Away.TeamName == "" {
		sc.Away.TeamName = "Away"
	}

	scanMetadata(lines, &sc)
	return sc
}

func splitLines(text string) []string {
	var lines []string
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// teamNameFromLabel pulls a team name out of text around a Batting label,
// e.g. "Oakfield CC Batting" or "Batting: Oakfield 2nd XI". Prefix wins over
// suffix when both are present.
func teamNameFromLabel(m []string) string {
	if name := cleanTeamName(m[1]); name != "" {
		return name
	}
	return cleanTeamName(m[2])
}

func cleanTeamName(s string) string {
	s = strings.Trim(s, " \t:-–|")
	if len(s) < 2 {
		return ""
	}
	return s
}

func parseBatterLine(line string) (domain.Batter, bool) {
	m := batterLineRe.FindStringSubmatch(line)
	if m == nil {
		return domain.Batter{}, false
	}

	runs, err := strconv.Atoi(m[2])
	if err != nil {
		// runs are required; without them the line is noise
		return domain.Batter{}, false
	}

	name, dismissal := splitNameDismissal(m[1])
	if name == "" {
		return domain.Batter{}, false
	}

	b := domain.Batter{
		Name:      name,
		Runs:      runs,
		Dismissal: dismissal,
	}
	b.Balls = optionalInt(m[3])
	b.Fours = optionalInt(m[4])
	b.Sixes = optionalInt(m[5])
	return b, true
}

func optionalInt(s string) *int {
	if s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// splitNameDismissal separates "J. Smith c Brown b Jones" into name and
// dismissal. The name runs up to the first dismissal marker; a line with no
// marker is all name (e.g. an opener still batting).
func splitNameDismissal(head string) (string, string) {
	tokens := strings.Fields(head)
	for i := 1; i < len(tokens); i++ {
		if isDismissalToken(tokens[i]) {
			return strings.Join(tokens[:i], " "), strings.Join(tokens[i:], " ")
		}
	}
	return strings.Join(tokens, " "), ""
}

func isDismissalToken(tok string) bool {
	// Single-letter markers are matched case-sensitively so that initials
	// like "B." in a surname are not mistaken for "bowled".
	switch tok {
	case "b", "c", "ct", "st", "c&b":
		return true
	}
	switch strings.ToLower(tok) {
	case "lbw", "run", "not", "retired", "hit", "obstructing", "handled", "timed", "absent":
		return true
	}
	return false
}

func parseBowlerLine(line string) (domain.Bowler, bool) {
	m := bowlerLineRe.FindStringSubmatch(line)
	if m == nil {
		return domain.Bowler{}, false
	}

	overs, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return domain.Bowler{}, false
	}
	maidens, err := strconv.Atoi(m[3])
	if err != nil {
		return domain.Bowler{}, false
	}
	runs, err := strconv.Atoi(m[4])
	if err != nil {
		return domain.Bowler{}, false
	}
	wickets, err := strconv.Atoi(m[5])
	if err != nil {
		return domain.Bowler{}, false
	}

	return domain.Bowler{
		Name:    strings.TrimSpace(m[1]),
		Overs:   overs,
		Maidens: maidens,
		Runs:    runs,
		Wickets: wickets,
	}, true
}

// scanMetadata runs best-effort extraction of date, venue, result and a
// match-id hint over the whole document. Absence leaves fields unset.
func scanMetadata(lines []string, sc *domain.Scorecard) {
	for _, line := range lines {
		if sc.Date == nil {
			if m := dateRe.FindStringSubmatch(line); m != nil {
				if d := parseDate(m); d != nil {
					sc.Date = d
				}
			}
		}
		if sc.Venue == "" {
			if m := venueRe.FindStringSubmatch(line); m != nil {
				sc.Venue = strings.TrimSpace(m[1])
			}
		}
		if sc.Result == "" {
			if m := resultRe.FindStringSubmatch(line); m != nil {
				sc.Result = strings.TrimSpace(m[1])
			} else if wonByRe.MatchString(line) {
				sc.Result = line
			}
		}
		if sc.MatchIDHint == "" {
			if m := matchIDRe.FindStringSubmatch(line); m != nil {
				sc.MatchIDHint = m[1]
			}
		}
	}
}

func parseDate(m []string) *time.Time {
	day, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	year, err := strconv.Atoi(m[3])
	if err != nil {
		return nil
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return &d
}
