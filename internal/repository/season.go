package repository

import (
	"context"
	"database/sql"
	"fmt"

	"scorebook/internal/domain"

	"github.com/rs/zerolog"
)

type SeasonRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSeasonRepository(sqlDB *sql.DB, logger zerolog.Logger) *SeasonRepository {
	return &SeasonRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// GetWindow resolves a season id to its inclusive date window.
func (r *SeasonRepository) GetWindow(ctx context.Context, seasonID string) (*domain.Season, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, club_id, name, start_date, end_date
		FROM seasons WHERE id = ?`, seasonID)

	var s domain.Season
	err := row.Scan(&s.ID, &s.ClubID, &s.Name, &s.StartDate, &s.EndDate)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		r.logger.Error().Err(err).Str("season_id", seasonID).Msg("failed to get season")
		return nil, err
	}
	return &s, nil
}

func (r *SeasonRepository) Upsert(ctx context.Context, season *domain.Season) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO seasons (id, club_id, name, start_date, end_date)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			end_date = excluded.end_date`,
		season.ID, season.ClubID, season.Name, season.StartDate, season.EndDate)
	if err != nil {
		return fmt.Errorf("failed to upsert season %s: %w", season.ID, err)
	}
	return nil
}
