package service

import (
	"context"
	"errors"
	"fmt"

	"scorebook/internal/constants"
	"scorebook/internal/domain"
	"scorebook/internal/store"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// LeaderboardService is the read side: a pure fold over points events in a
// season window. It performs no writes, so it is safe to run while a
// recompute is in flight, at the cost of possibly observing a window
// mid-recompute.
type LeaderboardService struct {
	store  store.Store
	logger zerolog.Logger
}

func NewLeaderboardService(st store.Store, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{store: st, logger: logger}
}

func (s *LeaderboardService) PlayerLeaderboard(ctx context.Context, clubID, seasonID string) ([]domain.PlayerTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	season, err := s.window(ctx, clubID, seasonID)
	if err != nil {
		return nil, err
	}

	totals, err := s.store.SumEventsByPlayer(ctx, clubID, season.StartDate, season.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum player events: %w", err)
	}
	if totals == nil {
		totals = []domain.PlayerTotals{}
	}
	return totals, nil
}

func (s *LeaderboardService) TeamLeaderboard(ctx context.Context, clubID, seasonID string) ([]domain.TeamTotals, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	season, err := s.window(ctx, clubID, seasonID)
	if err != nil {
		return nil, err
	}

	totals, err := s.store.SumEventsByTeam(ctx, clubID, season.StartDate, season.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to sum team events: %w", err)
	}
	if totals == nil {
		totals = []domain.TeamTotals{}
	}
	return totals, nil
}

type Overview struct {
	Players []domain.PlayerTotals `json:"players"`
	Teams   []domain.TeamTotals   `json:"teams"`
}

// Overview fetches both leaderboards concurrently.
func (s *LeaderboardService) Overview(ctx context.Context, clubID, seasonID string) (*Overview, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	season, err := s.window(ctx, clubID, seasonID)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)
	var players []domain.PlayerTotals
	var teams []domain.TeamTotals

	g.Go(func() error {
		var err error
		players, err = s.store.SumEventsByPlayer(gCtx, clubID, season.StartDate, season.EndDate)
		return err
	})
	g.Go(func() error {
		var err error
		teams, err = s.store.SumEventsByTeam(gCtx, clubID, season.StartDate, season.EndDate)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to assemble leaderboard overview: %w", err)
	}

	if players == nil {
		players = []domain.PlayerTotals{}
	}
	if teams == nil {
		teams = []domain.TeamTotals{}
	}
	return &Overview{Players: players, Teams: teams}, nil
}

func (s *LeaderboardService) window(ctx context.Context, clubID, seasonID string) (*domain.Season, error) {
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
	return season, nil
}
