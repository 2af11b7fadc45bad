package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"scorebook/internal/domain"
	"scorebook/internal/points"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

// MemStore is the in-memory Store used in demo mode and in tests. It holds
// the same data the SQL store would, guarded by one mutex; per-match
// delete+insert atomicity falls out of that for free.
type MemStore struct {
	mu sync.RWMutex

	seasons      map[string]domain.Season
	teams        map[string]domain.Team // by id
	players      map[string]domain.Player
	aliases      map[string]string // club|team|folded alias -> player id
	configs      map[string]points.Config
	matches      map[string]domain.Match
	performances map[string][]domain.Performance // by match id
	events       map[string][]domain.PointsEvent // by match id
}

func NewMemStore() *MemStore {
	return &MemStore{
		seasons:      make(map[string]domain.Season),
		teams:        make(map[string]domain.Team),
		players:      make(map[string]domain.Player),
		aliases:      make(map[string]string),
		configs:      make(map[string]points.Config),
		matches:      make(map[string]domain.Match),
		performances: make(map[string][]domain.Performance),
		events:       make(map[string][]domain.PointsEvent),
	}
}

// NewDemoStore seeds a MemStore with a small demo club so the service is
// usable without any backing database.
func NewDemoStore(logger zerolog.Logger) *MemStore {
	s := NewMemStore()

	const clubID = "demo-club"
	s.AddSeason(domain.Season{
		ID:        "demo-season",
		ClubID:    clubID,
		Name:      "Demo Season",
		StartDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
	})

	teamID := s.mustTeam(clubID, "Oakfield CC")
	demoPlayers := []struct {
		id, name string
		aliases  []string
	}{
		{"demo-p1", "James Smith", []string{"J. Smith", "Smith"}},
		{"demo-p2", "David Finch", []string{"D. Finch", "Finch"}},
		{"demo-p3", "Arjun Patel", []string{"A. Patel", "Patel"}},
		{"demo-p4", "Tom Jones", []string{"T. Jones", "Jones"}},
		{"demo-p5", "Sam Brown", []string{"S. Brown", "Brown"}},
	}
	for _, p := range demoPlayers {
		s.AddPlayer(domain.Player{ID: p.id, ClubID: clubID, TeamID: teamID, Name: p.name})
		for _, a := range p.aliases {
			s.AddAlias(clubID, teamID, a, p.id)
		}
	}

	logger.Info().Str("club_id", clubID).Msg("demo store seeded")
	return s
}

// Seeding helpers, also used by tests.

func (s *MemStore) AddSeason(season domain.Season) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seasons[season.ID] = season
}

func (s *MemStore) AddPlayer(p domain.Player) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[p.ID] = p
}

func (s *MemStore) AddAlias(clubID, teamID, alias, playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aliases[aliasKey(clubID, teamID, alias)] = playerID
}

func (s *MemStore) SetConfig(clubID string, cfg points.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.configs[clubID] = cfg
}

func (s *MemStore) mustTeam(clubID, name string) string {
	id, _ := s.UpsertTeam(context.Background(), clubID, name)
	return id
}

func aliasKey(clubID, teamID, alias string) string {
	return clubID + "|" + teamID + "|" + strings.ToLower(strings.TrimSpace(alias))
}

func (s *MemStore) GetWindow(_ context.Context, seasonID string) (*domain.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	season, ok := s.seasons[seasonID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &season, nil
}

func (s *MemStore) GetMatches(_ context.Context, clubID string, start, end time.Time) ([]domain.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Match
	for _, m := range s.matches {
		if m.ClubID == clubID && !m.Date.Before(start) && !m.Date.After(end) {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *MemStore) UpsertMatch(_ context.Context, match *domain.Match) error {
	if match.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return err
		}
		match.ID = id
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches[match.ID] = *match
	return nil
}

func (s *MemStore) UpsertTeam(_ context.Context, clubID, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.teams {
		if t.ClubID == clubID && t.Name == name {
			return t.ID, nil
		}
	}
	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	s.teams[id] = domain.Team{ID: id, ClubID: clubID, Name: name, CreatedAt: time.Now()}
	return id, nil
}

func (s *MemStore) ReplacePerformances(_ context.Context, matchID string, perfs []domain.Performance) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.Performance, len(perfs))
	copy(stored, perfs)
	for i := range stored {
		if stored[i].ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				return err
			}
			stored[i].ID = id
		}
	}
	s.performances[matchID] = stored
	return nil
}

func (s *MemStore) GetPerformances(_ context.Context, matchID string) ([]domain.Performance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	perfs := s.performances[matchID]
	out := make([]domain.Performance, len(perfs))
	copy(out, perfs)
	return out, nil
}

func (s *MemStore) LookupAlias(_ context.Context, clubID, name, teamID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.aliases[aliasKey(clubID, teamID, name)]; ok {
		return id, nil
	}
	if id, ok := s.aliases[aliasKey(clubID, "", name)]; ok {
		return id, nil
	}
	for _, p := range s.players {
		if p.ClubID == clubID && strings.EqualFold(p.Name, name) {
			return p.ID, nil
		}
	}
	return "", nil
}

func (s *MemStore) GetConfig(_ context.Context, clubID string) (points.Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if cfg, ok := s.configs[clubID]; ok {
		return cfg, nil
	}
	return points.DefaultConfig(), nil
}

func (s *MemStore) ReplaceEvents(_ context.Context, matchID string, events []domain.PointsEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]domain.PointsEvent, len(events))
	copy(stored, events)
	for i := range stored {
		if stored[i].ID == "" {
			id, err := gonanoid.New()
			if err != nil {
				return err
			}
			stored[i].ID = id
		}
	}
	s.events[matchID] = stored
	return nil
}

func (s *MemStore) SumEventsByPlayer(_ context.Context, clubID string, start, end time.Time) ([]domain.PlayerTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byPlayer := make(map[string]*domain.PlayerTotals)
	var order []string
	for matchID, events := range s.events {
		m, ok := s.matches[matchID]
		if !ok || m.ClubID != clubID || m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		for _, e := range events {
			t, ok := byPlayer[e.PlayerID]
			if !ok {
				name := e.PlayerID
				if p, ok := s.players[e.PlayerID]; ok {
					name = p.Name
				}
				t = &domain.PlayerTotals{PlayerID: e.PlayerID, PlayerName: name}
				byPlayer[e.PlayerID] = t
				order = append(order, e.PlayerID)
			}
			switch e.Category {
			case domain.CategoryBatting:
				t.Bat += e.Points
			case domain.CategoryBowling:
				t.Bowl += e.Points
			case domain.CategoryFielding:
				t.Field += e.Points
			}
			t.Total += e.Points
		}
	}

	out := make([]domain.PlayerTotals, 0, len(order))
	for _, id := range order {
		out = append(out, *byPlayer[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func (s *MemStore) SumEventsByTeam(_ context.Context, clubID string, start, end time.Time) ([]domain.TeamTotals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byTeam := make(map[string]*domain.TeamTotals)
	var order []string
	for matchID, events := range s.events {
		m, ok := s.matches[matchID]
		if !ok || m.ClubID != clubID || m.Date.Before(start) || m.Date.After(end) {
			continue
		}
		for _, e := range events {
			t, ok := byTeam[e.TeamID]
			if !ok {
				name := e.TeamID
				if team, ok := s.teams[e.TeamID]; ok {
					name = team.Name
				}
				t = &domain.TeamTotals{TeamID: e.TeamID, TeamName: name}
				byTeam[e.TeamID] = t
				order = append(order, e.TeamID)
			}
			switch e.Category {
			case domain.CategoryBatting:
				t.Bat += e.Points
			case domain.CategoryBowling:
				t.Bowl += e.Points
			case domain.CategoryFielding:
				t.Field += e.Points
			}
			t.Total += e.Points
		}
	}

	out := make([]domain.TeamTotals, 0, len(order))
	for _, id := range order {
		out = append(out, *byTeam[id])
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Total > out[j].Total })
	return out, nil
}

func (s *MemStore) Close() error {
	return nil
}

// EventCount reports the number of stored events for a match. Test helper.
func (s *MemStore) EventCount(matchID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.events[matchID])
}
