package service

import (
	"context"
	"fmt"
	"time"

	"scorebook/internal/constants"
	"scorebook/internal/domain"
	"scorebook/internal/extract"
	"scorebook/internal/fetch"
	"scorebook/internal/normalizer"
	"scorebook/internal/parser"
	"scorebook/internal/store"

	"github.com/rs/zerolog"
)

type ImportService struct {
	store   store.Store
	fetcher *fetch.Client
	logger  zerolog.Logger
}

func NewImportService(st store.Store, fetcher *fetch.Client, logger zerolog.Logger) *ImportService {
	return &ImportService{store: st, fetcher: fetcher, logger: logger}
}

type ImportSummary struct {
	MatchID        string   `json:"match_id"`
	HomeTeam       string   `json:"home_team"`
	AwayTeam       string   `json:"away_team"`
	BattersParsed  int      `json:"batters_parsed"`
	BowlersParsed  int      `json:"bowlers_parsed"`
	EventsInserted int      `json:"events_inserted"`
	Unresolved     []string `json:"unresolved"`
}

// ImportText runs the full pipeline on extracted scorecard text: parse,
// persist match and performance rows, then publish points events under the
// club's current scoring config. A document that parses to nothing still
// succeeds with an empty summary; the caller decides how to surface that.
func (s *ImportService) ImportText(ctx context.Context, clubID, text string) (*ImportSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.RequestTimeout)
	defer cancel()

	sc := parser.Parse(text)
	s.logger.Info().
		Str("club_id", clubID).
		Str("home_team", sc.Home.TeamName).
		Str("away_team", sc.Away.TeamName).
		Int("home_batters", len(sc.Home.Batters)).
		Int("away_batters", len(sc.Away.Batters)).
		Msg("scorecard parsed")

	homeTeamID, err := s.store.UpsertTeam(ctx, clubID, sc.Home.TeamName)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert home team: %w", err)
	}
	awayTeamID, err := s.store.UpsertTeam(ctx, clubID, sc.Away.TeamName)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert away team: %w", err)
	}

	now := time.Now()
	matchDate := now
	if sc.Date != nil {
		matchDate = *sc.Date
	}

	// reusing the scorecard's own id hint makes re-importing the same card
	// overwrite rather than duplicate
	match := &domain.Match{
		ID:           sc.MatchIDHint,
		ClubID:       clubID,
		Date:         matchDate,
		Venue:        sc.Venue,
		Result:       sc.Result,
		HomeTeamID:   homeTeamID,
		AwayTeamID:   awayTeamID,
		HomeTeamName: sc.Home.TeamName,
		AwayTeamName: sc.Away.TeamName,
	}
	if err := s.store.UpsertMatch(ctx, match); err != nil {
		return nil, fmt.Errorf("failed to upsert match: %w", err)
	}

	perfs := normalizer.Collect(sc, clubID, match.ID, homeTeamID, awayTeamID, now)
	if err := s.store.ReplacePerformances(ctx, match.ID, perfs); err != nil {
		return nil, fmt.Errorf("failed to store performances: %w", err)
	}

	cfg, err := s.store.GetConfig(ctx, clubID)
	if err != nil {
		return nil, fmt.Errorf("failed to load scoring config: %w", err)
	}

	inserted, unresolved, err := publishMatch(ctx, s.store, clubID, match.ID, cfg)
	if err != nil {
		return nil, err
	}

	summary := &ImportSummary{
		MatchID:        match.ID,
		HomeTeam:       sc.Home.TeamName,
		AwayTeam:       sc.Away.TeamName,
		BattersParsed:  len(sc.Home.Batters) + len(sc.Away.Batters),
		BowlersParsed:  len(sc.Home.Bowlers) + len(sc.Away.Bowlers),
		EventsInserted: inserted,
		Unresolved:     unresolvedNames(unresolved),
	}

	s.logger.Info().
		Str("club_id", clubID).
		Str("match_id", match.ID).
		Int("events_inserted", inserted).
		Int("unresolved", len(summary.Unresolved)).
		Msg("scorecard imported")
	return summary, nil
}

// ImportPDF extracts text from uploaded PDF bytes and imports it.
func (s *ImportService) ImportPDF(ctx context.Context, clubID string, pdfBytes []byte) (*ImportSummary, error) {
	text, err := extract.Text(pdfBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text from pdf: %w", err)
	}
	return s.ImportText(ctx, clubID, text)
}

// ImportURL downloads a scorecard document and imports it. PDF responses are
// extracted first; anything else is treated as plain text.
func (s *ImportService) ImportURL(ctx context.Context, clubID, url string) (*ImportSummary, error) {
	body, contentType, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch scorecard from %s: %w", url, err)
	}
	if fetch.IsPDF(contentType, body) {
		return s.ImportPDF(ctx, clubID, body)
	}
	return s.ImportText(ctx, clubID, string(body))
}
