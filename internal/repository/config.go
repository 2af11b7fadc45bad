package repository

import (
	"context"
	"database/sql"
	"fmt"

	"scorebook/internal/points"

	"github.com/rs/zerolog"
)

type ConfigRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewConfigRepository(sqlDB *sql.DB, logger zerolog.Logger) *ConfigRepository {
	return &ConfigRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// GetForClub returns the club's scoring weights, falling back to the
// documented defaults when the club has not configured any.
func (r *ConfigRepository) GetForClub(ctx context.Context, clubID string) (points.Config, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT run_weight, four_weight, six_weight, fifty_bonus, hundred_bonus,
			wicket_weight, maiden_weight, economy_penalty_rate,
			catch_weight, stumping_weight, runout_weight, assist_weight,
			duck_penalty, drop_penalty
		FROM scoring_configs WHERE club_id = ?`, clubID)

	var cfg points.Config
	err := row.Scan(&cfg.Run, &cfg.Four, &cfg.Six, &cfg.FiftyBonus, &cfg.HundredBonus,
		&cfg.Wicket, &cfg.Maiden, &cfg.EconomyPenaltyRate,
		&cfg.Catch, &cfg.Stumping, &cfg.Runout, &cfg.Assist,
		&cfg.DuckPenalty, &cfg.DropPenalty)
	if err == sql.ErrNoRows {
		r.logger.Debug().Str("club_id", clubID).Msg("no scoring config, using defaults")
		return points.DefaultConfig(), nil
	}
	if err != nil {
		return points.Config{}, err
	}
	return cfg, nil
}

func (r *ConfigRepository) Upsert(ctx context.Context, clubID string, cfg points.Config) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO scoring_configs (club_id, run_weight, four_weight, six_weight,
			fifty_bonus, hundred_bonus, wicket_weight, maiden_weight,
			economy_penalty_rate, catch_weight, stumping_weight, runout_weight,
			assist_weight, duck_penalty, drop_penalty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (club_id) DO UPDATE SET
			run_weight = excluded.run_weight,
			four_weight = excluded.four_weight,
			six_weight = excluded.six_weight,
			fifty_bonus = excluded.fifty_bonus,
			hundred_bonus = excluded.hundred_bonus,
			wicket_weight = excluded.wicket_weight,
			maiden_weight = excluded.maiden_weight,
			economy_penalty_rate = excluded.economy_penalty_rate,
			catch_weight = excluded.catch_weight,
			stumping_weight = excluded.stumping_weight,
			runout_weight = excluded.runout_weight,
			assist_weight = excluded.assist_weight,
			duck_penalty = excluded.duck_penalty,
			drop_penalty = excluded.drop_penalty`,
		clubID, cfg.Run, cfg.Four, cfg.Six, cfg.FiftyBonus, cfg.HundredBonus,
		cfg.Wicket, cfg.Maiden, cfg.EconomyPenaltyRate,
		cfg.Catch, cfg.Stumping, cfg.Runout, cfg.Assist,
		cfg.DuckPenalty, cfg.DropPenalty)
	if err != nil {
		return fmt.Errorf("failed to upsert scoring config for club %s: %w", clubID, err)
	}
	return nil
}
