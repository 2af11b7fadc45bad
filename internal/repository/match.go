package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"scorebook/internal/constants"
	"scorebook/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type MatchRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		db:     sqlDB,
		logger: logger,
	}
}

func (r *MatchRepository) Upsert(ctx context.Context, match *domain.Match) error {
	if match.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		match.ID = id
	}
	now := time.Now()

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO matches (id, club_id, match_date, venue, result,
			home_team_id, away_team_id, home_team_name, away_team_name,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			match_date = excluded.match_date,
			venue = excluded.venue,
			result = excluded.result,
			home_team_id = excluded.home_team_id,
			away_team_id = excluded.away_team_id,
			home_team_name = excluded.home_team_name,
			away_team_name = excluded.away_team_name,
			updated_at = excluded.updated_at`,
		match.ID, match.ClubID, match.Date, match.Venue, match.Result,
		match.HomeTeamID, match.AwayTeamID, match.HomeTeamName, match.AwayTeamName,
		now, now)
	if err != nil {
		r.logger.Error().Err(err).Str("match_id", match.ID).Msg("failed to upsert match")
		return fmt.Errorf("failed to upsert match %s: %w", match.ID, err)
	}
	return nil
}

func (r *MatchRepository) Get(ctx context.Context, matchID string) (*domain.Match, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, club_id, match_date, venue, result,
			home_team_id, away_team_id, home_team_name, away_team_name,
			created_at, updated_at
		FROM matches WHERE id = ?`, matchID)

	var m domain.Match
	err := row.Scan(&m.ID, &m.ClubID, &m.Date, &m.Venue, &m.Result,
		&m.HomeTeamID, &m.AwayTeamID, &m.HomeTeamName, &m.AwayTeamName,
		&m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByDateRange lists a club's matches with date within [start, end]
// inclusive, oldest first.
func (r *MatchRepository) GetByDateRange(ctx context.Context, clubID string, start, end time.Time) ([]domain.Match, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, club_id, match_date, venue, result,
			home_team_id, away_team_id, home_team_name, away_team_name,
			created_at, updated_at
		FROM matches
		WHERE club_id = ? AND match_date >= ? AND match_date <= ?
		ORDER BY match_date ASC`,
		clubID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var m domain.Match
		if err := rows.Scan(&m.ID, &m.ClubID, &m.Date, &m.Venue, &m.Result,
			&m.HomeTeamID, &m.AwayTeamID, &m.HomeTeamName, &m.AwayTeamName,
			&m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// UpsertTeam returns the id of the club's team with the given name, creating
// the team on first sight.
func (r *MatchRepository) UpsertTeam(ctx context.Context, clubID, name string) (string, error) {
	var teamID string
	err := r.db.QueryRowContext(ctx,
		`SELECT id FROM teams WHERE club_id = ? AND name = ?`, clubID, name).Scan(&teamID)
	if err == nil {
		return teamID, nil
	}
	if err != sql.ErrNoRows {
		return "", err
	}

	teamID, err = gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("failed to generate nanoid: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO teams (id, club_id, name, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (club_id, name) DO NOTHING`,
		teamID, clubID, name, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("club_id", clubID).Str("team", name).Msg("failed to insert team")
		return "", fmt.Errorf("failed to insert team %q: %w", name, err)
	}

	// another import may have won the race; read back the canonical id
	err = r.db.QueryRowContext(ctx,
		`SELECT id FROM teams WHERE club_id = ? AND name = ?`, clubID, name).Scan(&teamID)
	if err != nil {
		return "", err
	}
	return teamID, nil
}

// ReplacePerformances swaps a match's performance rows in one transaction so
// a re-import never leaves a mix of old and new lines.
func (r *MatchRepository) ReplacePerformances(ctx context.Context, matchID string, perfs []domain.Performance) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM performances WHERE match_id = ?`, matchID); err != nil {
		return fmt.Errorf("failed to delete performances for match %s: %w", matchID, err)
	}

	for i := 0; i < len(perfs); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(perfs) {
			end = len(perfs)
		}

		for _, p := range perfs[i:end] {
			id := p.ID
			if id == "" {
				id, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO performances (id, match_id, club_id, team_id, raw_name, dismissal,
					runs, fours, sixes, batted,
					overs, maidens, runs_conceded, wickets, bowled,
					catches, stumpings, runouts, assists, ducks, drops, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id, p.MatchID, p.ClubID, p.TeamID, p.RawName, p.Dismissal,
				p.Counters.Batting.Runs, p.Counters.Batting.Fours, p.Counters.Batting.Sixes, p.Counters.Batted,
				p.Counters.Bowling.Overs, p.Counters.Bowling.Maidens, p.Counters.Bowling.RunsConceded, p.Counters.Bowling.Wickets, p.Counters.Bowled,
				p.Counters.Fielding.Catches, p.Counters.Fielding.Stumpings, p.Counters.Fielding.Runouts, p.Counters.Fielding.Assists,
				p.Counters.Penalties.Ducks, p.Counters.Penalties.Drops, p.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert performance %s/%s: %w", matchID, p.RawName, err)
			}
		}
	}

	return tx.Commit()
}

func (r *MatchRepository) GetPerformances(ctx context.Context, matchID string) ([]domain.Performance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, match_id, club_id, team_id, raw_name, dismissal,
			runs, fours, sixes, batted,
			overs, maidens, runs_conceded, wickets, bowled,
			catches, stumpings, runouts, assists, ducks, drops, created_at
		FROM performances WHERE match_id = ?`, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var perfs []domain.Performance
	for rows.Next() {
		var p domain.Performance
		if err := rows.Scan(&p.ID, &p.MatchID, &p.ClubID, &p.TeamID, &p.RawName, &p.Dismissal,
			&p.Counters.Batting.Runs, &p.Counters.Batting.Fours, &p.Counters.Batting.Sixes, &p.Counters.Batted,
			&p.Counters.Bowling.Overs, &p.Counters.Bowling.Maidens, &p.Counters.Bowling.RunsConceded, &p.Counters.Bowling.Wickets, &p.Counters.Bowled,
			&p.Counters.Fielding.Catches, &p.Counters.Fielding.Stumpings, &p.Counters.Fielding.Runouts, &p.Counters.Fielding.Assists,
			&p.Counters.Penalties.Ducks, &p.Counters.Penalties.Drops, &p.CreatedAt); err != nil {
			return nil, err
		}
		perfs = append(perfs, p)
	}
	return perfs, rows.Err()
}
