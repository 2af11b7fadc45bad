package service

import (
	"context"
	"testing"

	"scorebook/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute_Idempotent(t *testing.T) {
	st := newTestStore(t)
	imp := NewImportService(st, nil, zerolog.Nop())
	rec := NewRecomputeService(st, zerolog.Nop())

	_, err := imp.ImportText(context.Background(), testClub, testCard)
	require.NoError(t, err)
	imported := playerTotals(t, st)

	for i := 0; i < 2; i++ {
		summary, err := rec.Recompute(context.Background(), testClub, "season-1")
		require.NoError(t, err)
		assert.Equal(t, 1, summary.MatchesProcessed)
		assert.Equal(t, 12, summary.EventsInserted)
		assert.Empty(t, summary.Unresolved)
	}

	assert.Equal(t, 12, st.EventCount("M-1001"))
	assert.Equal(t, imported, playerTotals(t, st))
}

func TestRecompute_AliasFixPicksUpPlayer(t *testing.T) {
	st := newTestStore(t)
	imp := NewImportService(st, nil, zerolog.Nop())
	rec := NewRecomputeService(st, zerolog.Nop())

	card := `Match ID: M-2002
Date: 20/06/2026

Oakfield CC Batting
J. Smith b Jones 15(20)
R. Newman not out 62(55)
Total 80

Riverton CC Bowling
T. Jones 6-1-30-1
`
	summary, err := imp.ImportText(context.Background(), testClub, card)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"R. Newman"}, summary.Unresolved)

	before := playerTotals(t, st)
	_, hasNewman := before["p6"]
	require.False(t, hasNewman)

	// register the missing player, then recompute from the stored rows
	homeID, err := st.UpsertTeam(context.Background(), testClub, "Oakfield CC")
	require.NoError(t, err)
	st.AddPlayer(domain.Player{ID: "p6", ClubID: testClub, TeamID: homeID, Name: "Rob Newman"})
	st.AddAlias(testClub, homeID, "R. Newman", "p6")

	recSummary, err := rec.Recompute(context.Background(), testClub, "season-1")
	require.NoError(t, err)
	assert.Empty(t, recSummary.Unresolved)

	after := playerTotals(t, st)
	assert.InDelta(t, 72, after["p6"], 1e-9) // 62 + fifty bonus
	assert.InDelta(t, before["p1"], after["p1"], 1e-9)
}

func TestRecompute_UnknownSeason(t *testing.T) {
	st := newTestStore(t)
	rec := NewRecomputeService(st, zerolog.Nop())

	_, err := rec.Recompute(context.Background(), testClub, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, err.Error(), "season window not found")
}

func TestRecompute_WrongClub(t *testing.T) {
	st := newTestStore(t)
	rec := NewRecomputeService(st, zerolog.Nop())

	_, err := rec.Recompute(context.Background(), "someone-else", "season-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not belong")
}

func TestRecompute_EmptyWindow(t *testing.T) {
	st := newTestStore(t)
	rec := NewRecomputeService(st, zerolog.Nop())

	summary, err := rec.Recompute(context.Background(), testClub, "season-1")
	require.NoError(t, err)
	assert.Zero(t, summary.MatchesProcessed)
	assert.Zero(t, summary.EventsInserted)
}
