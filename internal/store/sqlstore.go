package store

import (
	"context"
	"database/sql"
	"time"

	"scorebook/internal/domain"
	"scorebook/internal/points"
	"scorebook/internal/repository"

	"github.com/rs/zerolog"
)

// SQLStore implements Store over the SQLite repositories.
type SQLStore struct {
	db      *sql.DB
	players *repository.PlayerRepository
	matches *repository.MatchRepository
	events  *repository.EventRepository
	seasons *repository.SeasonRepository
	configs *repository.ConfigRepository
}

func NewSQLStore(db *sql.DB, logger zerolog.Logger) *SQLStore {
	return &SQLStore{
		db:      db,
		players: repository.NewPlayerRepository(db, logger),
		matches: repository.NewMatchRepository(db, logger),
		events:  repository.NewEventRepository(db, logger),
		seasons: repository.NewSeasonRepository(db, logger),
		configs: repository.NewConfigRepository(db, logger),
	}
}

func (s *SQLStore) GetWindow(ctx context.Context, seasonID string) (*domain.Season, error) {
	return s.seasons.GetWindow(ctx, seasonID)
}

func (s *SQLStore) GetMatches(ctx context.Context, clubID string, start, end time.Time) ([]domain.Match, error) {
	return s.matches.GetByDateRange(ctx, clubID, start, end)
}

func (s *SQLStore) UpsertMatch(ctx context.Context, match *domain.Match) error {
	return s.matches.Upsert(ctx, match)
}

func (s *SQLStore) UpsertTeam(ctx context.Context, clubID, name string) (string, error) {
	return s.matches.UpsertTeam(ctx, clubID, name)
}

func (s *SQLStore) ReplacePerformances(ctx context.Context, matchID string, perfs []domain.Performance) error {
	return s.matches.ReplacePerformances(ctx, matchID, perfs)
}

func (s *SQLStore) GetPerformances(ctx context.Context, matchID string) ([]domain.Performance, error) {
	return s.matches.GetPerformances(ctx, matchID)
}

func (s *SQLStore) LookupAlias(ctx context.Context, clubID, name, teamID string) (string, error) {
	return s.players.LookupAlias(ctx, clubID, name, teamID)
}

func (s *SQLStore) GetConfig(ctx context.Context, clubID string) (points.Config, error) {
	return s.configs.GetForClub(ctx, clubID)
}

func (s *SQLStore) ReplaceEvents(ctx context.Context, matchID string, events []domain.PointsEvent) error {
	return s.events.ReplaceForMatch(ctx, matchID, events)
}

func (s *SQLStore) SumEventsByPlayer(ctx context.Context, clubID string, start, end time.Time) ([]domain.PlayerTotals, error) {
	return s.events.SumByPlayer(ctx, clubID, start, end)
}

func (s *SQLStore) SumEventsByTeam(ctx context.Context, clubID string, start, end time.Time) ([]domain.TeamTotals, error) {
	return s.events.SumByTeam(ctx, clubID, start, end)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
