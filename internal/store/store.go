// Package store defines the narrow persistence capability set the scoring
// pipeline depends on, with two interchangeable implementations: a
// SQLite-backed store and an in-memory demo store. The implementation is
// chosen once at startup and injected; nothing in the pipeline reaches for a
// process-wide database handle.
package store

import (
	"context"
	"time"

	"scorebook/internal/domain"
	"scorebook/internal/points"
)

type Store interface {
	// GetWindow resolves a season id to its inclusive date window.
	GetWindow(ctx context.Context, seasonID string) (*domain.Season, error)

	GetMatches(ctx context.Context, clubID string, start, end time.Time) ([]domain.Match, error)
	UpsertMatch(ctx context.Context, match *domain.Match) error
	UpsertTeam(ctx context.Context, clubID, name string) (string, error)

	ReplacePerformances(ctx context.Context, matchID string, perfs []domain.Performance) error
	GetPerformances(ctx context.Context, matchID string) ([]domain.Performance, error)

	// LookupAlias returns "" with a nil error when the name is unresolved.
	LookupAlias(ctx context.Context, clubID, name, teamID string) (string, error)

	GetConfig(ctx context.Context, clubID string) (points.Config, error)

	// ReplaceEvents must be atomic per match: delete-then-insert in one unit.
	ReplaceEvents(ctx context.Context, matchID string, events []domain.PointsEvent) error
	SumEventsByPlayer(ctx context.Context, clubID string, start, end time.Time) ([]domain.PlayerTotals, error)
	SumEventsByTeam(ctx context.Context, clubID string, start, end time.Time) ([]domain.TeamTotals, error)

	Close() error
}
