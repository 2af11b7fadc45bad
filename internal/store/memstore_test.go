package store

import (
	"context"
	"testing"
	"time"

	"scorebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 0, 0, 0, 0, time.UTC)
}

func TestMemStore_GetMatchesWindow(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	for i, d := range []time.Time{date(time.March, 30), date(time.May, 10), date(time.June, 20), date(time.October, 2)} {
		m := domain.Match{ID: string(rune('a' + i)), ClubID: "club-1", Date: d}
		require.NoError(t, st.UpsertMatch(ctx, &m))
	}
	require.NoError(t, st.UpsertMatch(ctx, &domain.Match{ID: "other", ClubID: "club-2", Date: date(time.May, 11)}))

	matches, err := st.GetMatches(ctx, "club-1", date(time.April, 1), date(time.September, 30))
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "b", matches[0].ID)
	assert.Equal(t, "c", matches[1].ID)
}

func TestMemStore_ReplaceEventsIsWholesale(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	ev := func(player string, pts float64) domain.PointsEvent {
		return domain.PointsEvent{ClubID: "club-1", MatchID: "m1", PlayerID: player, Category: domain.CategoryBatting, Points: pts}
	}
	require.NoError(t, st.ReplaceEvents(ctx, "m1", []domain.PointsEvent{ev("p1", 10), ev("p2", 20), ev("p3", 30)}))
	require.NoError(t, st.ReplaceEvents(ctx, "m1", []domain.PointsEvent{ev("p1", 15)}))

	assert.Equal(t, 1, st.EventCount("m1"))

	require.NoError(t, st.UpsertMatch(ctx, &domain.Match{ID: "m1", ClubID: "club-1", Date: date(time.May, 1)}))
	totals, err := st.SumEventsByPlayer(ctx, "club-1", date(time.April, 1), date(time.September, 30))
	require.NoError(t, err)
	require.Len(t, totals, 1)
	assert.InDelta(t, 15, totals[0].Total, 1e-9)
}

func TestMemStore_LookupAliasPrecedence(t *testing.T) {
	st := NewMemStore()
	ctx := context.Background()

	st.AddPlayer(domain.Player{ID: "p1", ClubID: "club-1", Name: "James Smith"})
	st.AddPlayer(domain.Player{ID: "p2", ClubID: "club-1", Name: "Jack Smith"})
	st.AddAlias("club-1", "", "Smith", "p1")
	st.AddAlias("club-1", "team-2", "Smith", "p2")

	// team-scoped alias beats the club-wide one
	id, err := st.LookupAlias(ctx, "club-1", "Smith", "team-2")
	require.NoError(t, err)
	assert.Equal(t, "p2", id)

	id, err = st.LookupAlias(ctx, "club-1", "Smith", "team-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	// case-insensitive alias match, then exact player-name fallback
	id, err = st.LookupAlias(ctx, "club-1", "smith", "team-2")
	require.NoError(t, err)
	assert.Equal(t, "p2", id)

	id, err = st.LookupAlias(ctx, "club-1", "james smith", "team-9")
	require.NoError(t, err)
	assert.Equal(t, "p1", id)

	id, err = st.LookupAlias(ctx, "club-1", "Nobody", "team-1")
	require.NoError(t, err)
	assert.Empty(t, id)
}

func TestMemStore_GetWindowNotFound(t *testing.T) {
	st := NewMemStore()
	_, err := st.GetWindow(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
