package service

import (
	"context"
	"fmt"
	"time"

	"scorebook/internal/domain"
	"scorebook/internal/normalizer"
	"scorebook/internal/points"
	"scorebook/internal/store"
)

// publishMatch rebuilds a match's points events from its stored performance
// rows: resolve names against the current alias table, score under cfg, then
// replace the event set atomically. Import and recompute both go through
// here, so a match always carries events produced by exactly one pass.
func publishMatch(ctx context.Context, st store.Store, clubID, matchID string, cfg points.Config) (int, []normalizer.Unresolved, error) {
	perfs, err := st.GetPerformances(ctx, matchID)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to load performances for match %s: %w", matchID, err)
	}

	lookup := func(ctx context.Context, name, teamID string) (string, error) {
		return st.LookupAlias(ctx, clubID, name, teamID)
	}

	resolved, unresolved, err := normalizer.Resolve(ctx, perfs, lookup)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to resolve names for match %s: %w", matchID, err)
	}

	events := buildEvents(clubID, matchID, resolved, cfg, time.Now())
	if err := st.ReplaceEvents(ctx, matchID, events); err != nil {
		return 0, nil, fmt.Errorf("failed to replace events for match %s: %w", matchID, err)
	}

	return len(events), unresolved, nil
}

// buildEvents emits one event per non-zero metric category per player.
// Penalty events carry negative points, so SUM(points) over a player's
// events reproduces the formula total.
func buildEvents(clubID, matchID string, resolved []normalizer.Resolved, cfg points.Config, now time.Time) []domain.PointsEvent {
	var events []domain.PointsEvent

	add := func(playerID, teamID, category string, pts float64) {
		if pts == 0 {
			return
		}
		events = append(events, domain.PointsEvent{
			ClubID:    clubID,
			MatchID:   matchID,
			PlayerID:  playerID,
			TeamID:    teamID,
			Category:  category,
			Points:    pts,
			CreatedAt: now,
		})
	}

	for _, r := range resolved {
		bd := points.Compute(r.Counters, cfg)
		add(r.PlayerID, r.TeamID, domain.CategoryBatting, bd.Batting)
		add(r.PlayerID, r.TeamID, domain.CategoryBowling, bd.Bowling)
		add(r.PlayerID, r.TeamID, domain.CategoryFielding, bd.Fielding)
		add(r.PlayerID, r.TeamID, domain.CategoryPenalty, -bd.Penalty)
	}
	return events
}

func unresolvedNames(unresolved []normalizer.Unresolved) []string {
	names := make([]string, 0, len(unresolved))
	for _, u := range unresolved {
		names = append(names, u.RawName)
	}
	return names
}
