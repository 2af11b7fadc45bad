package service

import (
	"context"
	"errors"
	"fmt"

	"scorebook/internal/constants"
	"scorebook/internal/domain"
	"scorebook/internal/store"

	"github.com/rs/zerolog"
)

// RecomputeService regenerates points events for every match in a season
// window. Each match is an independent delete+insert unit, so an aborted run
// is safely re-runnable from scratch. Concurrent recomputes of the same
// season are not serialized: overlapping matches end up with the events of
// whichever run replaced them last.
type RecomputeService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewRecomputeService(st store.Store, logger zerolog.Logger) *RecomputeService {
	return &RecomputeService{store: st, logger: logger}
}

type RecomputeSummary struct {
	MatchesProcessed int      `json:"matches_processed"`
	EventsInserted   int      `json:"events_inserted"`
	Unresolved       []string `json:"unresolved"`
}

func (s *RecomputeService) Recompute(ctx context.Context, clubID, seasonID string) (*RecomputeSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	season, err := s.store.GetWindow(ctx, seasonID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("season window not found for season %s: %w", seasonID, err)
		}
		return nil, fmt.Errorf("failed to resolve season window: %w", err)
	}
	if season.ClubID != clubID {
		return nil, fmt.Errorf("season %s does not belong to club %s", seasonID, clubID)
	}

	// one config per run: a mid-run config change affects the next run, not
	// a suffix of this one
	cfg, err := s.store.GetConfig(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring config: %w", err)
	}

	matches, err := s.store.GetMatches(ctx, clubID, season.StartDate, season.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches in window: %w", err)
	}

	s.logger.Info().
		Str("club_id", clubID).
		Str("season_id", seasonID).
		Int("matches", len(matches)).
		Time("start", season.StartDate).
		Time("end", season.EndDate).
		Msg("recompute started")

	summary := &RecomputeSummary{Unresolved: []string{}}
	seenUnresolved := make(map[string]bool)

	for _, match := range matches {
		inserted, unresolved, err := publishMatch(ctx, s.store, clubID, match.ID, cfg)
		if err != nil {
			// matches already processed keep their fresh events; the rest
			// keep their previous ones
			s.logger.Error().Err(err).Str("match_id", match.ID).Msg("recompute failed mid-run")
			return summary, err
		}
		summary.MatchesProcessed++
		summary.EventsInserted += inserted
		for _, u := range unresolved {
			key := u.TeamID + "|" + u.RawName
			if !seenUnresolved[key] {
				seenUnresolved[key] = true
				summary.Unresolved = append(summary.Unresolved, u.RawName)
			}
		}
	}

	s.logger.Info().
		Str("club_id", clubID).
		Str("season_id", seasonID).
		Int("matches_processed", summary.MatchesProcessed).
		Int("events_inserted", summary.EventsInserted).
		Int("unresolved", len(summary.Unresolved)).
		Msg("recompute completed")
	return summary, nil
}
