package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"scorebook/internal/domain"
	"scorebook/internal/service"
	"scorebook/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCard = `Match ID: M-3003
Date: 05/07/2026

Oakfield CC Batting
J. Smith not out 64(50)
Total 70

Riverton CC Bowling
T. Jones 6-2-25-0
`

func newTestServer(t *testing.T) (*httptest.Server, *store.MemStore) {
	t.Helper()
	st := store.NewMemStore()
	st.AddSeason(domain.Season{
		ID:        "season-1",
		ClubID:    "club-1",
		Name:      "2026 League",
		StartDate: time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.September, 30, 0, 0, 0, 0, time.UTC),
	})
	homeID, err := st.UpsertTeam(context.Background(), "club-1", "Oakfield CC")
	require.NoError(t, err)
	awayID, err := st.UpsertTeam(context.Background(), "club-1", "Riverton CC")
	require.NoError(t, err)
	st.AddPlayer(domain.Player{ID: "p1", ClubID: "club-1", TeamID: homeID, Name: "James Smith"})
	st.AddAlias("club-1", homeID, "J. Smith", "p1")
	st.AddPlayer(domain.Player{ID: "p4", ClubID: "club-1", TeamID: awayID, Name: "Tom Jones"})
	st.AddAlias("club-1", awayID, "T. Jones", "p4")

	logger := zerolog.Nop()
	srv := New(
		service.NewImportService(st, nil, logger),
		service.NewRecomputeService(st, logger),
		service.NewLeaderboardService(st, logger),
		logger,
	)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, st
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	buf, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(buf))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestImportThenLeaderboard(t *testing.T) {
	ts, st := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/clubs/club-1/imports", map[string]string{"text": testCard})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[service.ImportSummary](t, resp)
	assert.Equal(t, "M-3003", summary.MatchID)
	assert.Equal(t, 2, summary.EventsInserted) // Smith 64+10 bat, Jones maidens - economy
	assert.Equal(t, 2, st.EventCount("M-3003"))

	resp, err := http.Get(ts.URL + "/api/clubs/club-1/seasons/season-1/leaderboard")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rows := decode[[]domain.PlayerTotals](t, resp)
	require.Len(t, rows, 2)
	assert.Equal(t, "James Smith", rows[0].PlayerName)
	assert.InDelta(t, 74, rows[0].Total, 1e-9)
}

func TestRecomputeEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/clubs/club-1/imports", map[string]string{"text": testCard})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, ts.URL+"/api/clubs/club-1/seasons/season-1/recompute", struct{}{})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[service.RecomputeSummary](t, resp)
	assert.Equal(t, 1, summary.MatchesProcessed)
	assert.Equal(t, 2, summary.EventsInserted)
}

func TestImport_BadBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/clubs/club-1/imports", struct{}{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOverviewUnknownSeason(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/clubs/club-1/seasons/missing/overview")
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decode[map[string]string](t, resp)
	assert.Contains(t, body["error"], "season window not found")
}
