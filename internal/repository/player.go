package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scorebook/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type PlayerRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewPlayerRepository(sqlDB *sql.DB, logger zerolog.Logger) *PlayerRepository {
	return &PlayerRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *PlayerRepository) Get(ctx context.Context, id string) (*domain.Player, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, club_id, team_id, name, created_at, updated_at
		FROM players WHERE id = ?`, id)

	var p domain.Player
	err := row.Scan(&p.ID, &p.ClubID, &p.TeamID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PlayerRepository) Upsert(ctx context.Context, player *domain.Player) error {
	if player.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		player.ID = id
	}
	now := time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO players (id, club_id, team_id, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			team_id = excluded.team_id,
			name = excluded.name,
			updated_at = excluded.updated_at`,
		player.ID, player.ClubID, player.TeamID, player.Name, now, now)
	if err != nil {
		r.logger.Error().Err(err).Str("player_id", player.ID).Msg("failed to upsert player")
		return fmt.Errorf("failed to upsert player %s: %w", player.ID, err)
	}
	return nil
}

// LookupAlias resolves a raw scorecard name to a canonical player id. A
// team-scoped alias beats a club-wide one; when no alias matches, the
// players table itself is tried by exact name. Returns "" when nothing
// matches; unresolved names are the caller's problem to report, not ours to
// guess at.
func (r *PlayerRepository) LookupAlias(ctx context.Context, clubID, name, teamID string) (string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT player_id FROM player_aliases
		WHERE club_id = ? AND lower(alias) = lower(?) AND team_id IN (?, '')
		ORDER BY CASE WHEN team_id = ? THEN 0 ELSE 1 END
		LIMIT 1`,
		clubID, name, teamID, teamID)

	var playerID string
	err := row.Scan(&playerID)
	if err == nil {
		return playerID, nil
	}
	if err != sql.ErrNoRows {
		r.logger.Error().Err(err).Str("club_id", clubID).Str("alias", name).Msg("alias lookup failed")
		return "", err
	}

	row = r.db.QueryRowContext(ctx, `
		SELECT id FROM players
		WHERE club_id = ? AND lower(name) = lower(?)
		LIMIT 1`,
		clubID, name)

	err = row.Scan(&playerID)
	if err == sql.ErrNoRows {
		r.logger.Debug().Str("club_id", clubID).Str("alias", name).Msg("name unresolved")
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return playerID, nil
}

func (r *PlayerRepository) UpsertAlias(ctx context.Context, clubID, teamID, alias, playerID string) error {
	id, err := gonanoid.New()
	if err != nil {
		return fmt.Errorf("failed to generate nanoid: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO player_aliases (id, club_id, team_id, alias, player_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (club_id, team_id, alias) DO UPDATE SET
			player_id = excluded.player_id`,
		id, clubID, teamID, alias, playerID)
	if err != nil {
		r.logger.Error().Err(err).Str("alias", alias).Msg("failed to upsert alias")
		return fmt.Errorf("failed to upsert alias %q: %w", alias, err)
	}
	return nil
}
