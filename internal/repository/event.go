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

type EventRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewEventRepository(sqlDB *sql.DB, logger zerolog.Logger) *EventRepository {
	return &EventRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// ReplaceForMatch deletes a match's points events and inserts the new set in
// a single transaction. Readers never observe a match with events deleted
// but not yet reinserted, which is what makes recompute safe to re-run at
// any point.
func (r *EventRepository) ReplaceForMatch(ctx context.Context, matchID string, events []domain.PointsEvent) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM points_events WHERE match_id = ?`, matchID); err != nil {
		return fmt.Errorf("failed to delete events for match %s: %w", matchID, err)
	}

	for i := 0; i < len(events); i += constants.DBBatchSize {
		end := i + constants.DBBatchSize
		if end > len(events) {
			end = len(events)
		}

		for _, e := range events[i:end] {
			id := e.ID
			if id == "" {
				id, err = gonanoid.New()
				if err != nil {
					return fmt.Errorf("failed to generate nanoid: %w", err)
				}
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO points_events (id, club_id, match_id, player_id, team_id, category, points, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				id, e.ClubID, e.MatchID, e.PlayerID, e.TeamID, e.Category, e.Points, e.CreatedAt)
			if err != nil {
				return fmt.Errorf("failed to insert event %s/%s/%s: %w", e.MatchID, e.PlayerID, e.Category, err)
			}
		}
	}

	return tx.Commit()
}

// SumByPlayer folds all events for matches in the window into per-player
// totals, bucketed by category. The penalty category is already negative, so
// the plain sum is the player's total. Pure read, no writes.
func (r *EventRepository) SumByPlayer(ctx context.Context, clubID string, start, end time.Time) ([]domain.PlayerTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.player_id,
			COALESCE(p.name, e.player_id),
			COALESCE(SUM(CASE WHEN e.category = 'bat' THEN e.points END), 0),
			COALESCE(SUM(CASE WHEN e.category = 'bowl' THEN e.points END), 0),
			COALESCE(SUM(CASE WHEN e.category = 'field' THEN e.points END), 0),
			COALESCE(SUM(e.points), 0) AS total
		FROM points_events e
		JOIN matches m ON m.id = e.match_id
		LEFT JOIN players p ON p.id = e.player_id
		WHERE e.club_id = ? AND m.match_date >= ? AND m.match_date <= ?
		GROUP BY e.player_id
		ORDER BY total DESC`,
		clubID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.PlayerTotals
	for rows.Next() {
		var t domain.PlayerTotals
		if err := rows.Scan(&t.PlayerID, &t.PlayerName, &t.Bat, &t.Bowl, &t.Field, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *EventRepository) SumByTeam(ctx context.Context, clubID string, start, end time.Time) ([]domain.TeamTotals, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT e.team_id,
			COALESCE(t.name, e.team_id),
			COALESCE(SUM(CASE WHEN e.category = 'bat' THEN e.points END), 0),
			COALESCE(SUM(CASE WHEN e.category = 'bowl' THEN e.points END), 0),
			COALESCE(SUM(CASE WHEN e.category = 'field' THEN e.points END), 0),
			COALESCE(SUM(e.points), 0) AS total
		FROM points_events e
		JOIN matches m ON m.id = e.match_id
		LEFT JOIN teams t ON t.id = e.team_id
		WHERE e.club_id = ? AND m.match_date >= ? AND m.match_date <= ?
		GROUP BY e.team_id
		ORDER BY total DESC`,
		clubID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.TeamTotals
	for rows.Next() {
		var t domain.TeamTotals
		if err := rows.Scan(&t.TeamID, &t.TeamName, &t.Bat, &t.Bowl, &t.Field, &t.Total); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
