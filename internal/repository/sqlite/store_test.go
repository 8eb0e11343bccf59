package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynastyhoops/capkeeper/internal/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "league.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestPlayerRoundTripAndUpsert(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	p := models.Player{ID: "p1", Name: "One", Salary: 40_000_000, IsRookie: true, TeamID: "A", Slot: models.SlotActive}
	require.NoError(t, store.SavePlayer(ctx, "league-1", p))

	p.Salary = 45_000_000
	require.NoError(t, store.SavePlayer(ctx, "league-1", p))

	players, err := store.LoadPlayers(ctx, "league-1")
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, int64(45_000_000), players[0].Salary)
	assert.True(t, players[0].IsRookie)
	assert.Equal(t, models.SlotActive, players[0].Slot)

	require.NoError(t, store.PersistPlayerOwnership(ctx, "p1", "", ""))
	players, err = store.LoadPlayers(ctx, "league-1")
	require.NoError(t, err)
	assert.Empty(t, players[0].TeamID)
}

func TestTeamAndRosterSlotsRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	team := models.Team{
		ID: "A", LeagueID: "league-1", Name: "Alphas", Owner: "omar", CapAdjustment: -3_000_000,
		Roster: models.RosterSlots{Active: []string{"p1", "p2"}, Bench: []string{"p2"}},
	}
	require.NoError(t, store.SaveTeam(ctx, team))

	// Upsert replaces the slot arrays wholesale.
	require.NoError(t, store.PersistCanonicalRoster(ctx, "A", models.RosterSlots{
		Active:   []string{"p1"},
		Redshirt: []string{"p3"},
	}))

	teams, err := store.LoadTeams(ctx, "league-1")
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, int64(-3_000_000), teams[0].CapAdjustment)
	assert.Equal(t, []string{"p1"}, teams[0].Roster.Active)
	assert.Equal(t, []string{"p3"}, teams[0].Roster.Redshirt)
	assert.Empty(t, teams[0].Roster.Bench)
}

func TestRosterEntriesKeepInsertionOrder(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	entries := []models.RosterEntry{
		{PlayerID: "z", Decision: models.DecisionKeep, BaseRound: 1},
		{PlayerID: "a", Decision: models.DecisionRedshirt},
		{PlayerID: "m", Decision: models.DecisionKeep, BaseRound: 5, KeeperRound: 5},
	}
	require.NoError(t, store.SaveRosterEntries(ctx, "league-1", "A", 2026, entries))

	got, err := store.LoadRosterEntries(ctx, "league-1", "A", 2026)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "z", got[0].PlayerID)
	assert.Equal(t, "a", got[1].PlayerID)
	assert.Equal(t, models.DecisionRedshirt, got[1].Decision)
	assert.Equal(t, 5, got[2].KeeperRound)
}

func TestDraftAndTradeHistoryRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDraftPick(ctx, models.DraftPick{
		LeagueID: "league-1", SeasonYear: 2026, Round: 1, Pick: 3, TeamID: "A", PlayerID: "p1",
	}))
	require.NoError(t, store.SaveTrade(ctx, "league-1", 2026, 0, models.TradeAsset{
		Type: models.AssetRedshirt, PlayerID: "p1", FromTeamID: "A", ToTeamID: "B", Salary: 5_000_000,
	}))
	require.NoError(t, store.SaveTrade(ctx, "league-1", 2026, 1, models.TradeAsset{
		Type: models.AssetRookiePick, FromTeamID: "B", ToTeamID: "A", PickRound: 2,
	}))

	picks, err := store.LoadDraftResults(ctx, "league-1", 2026)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.Equal(t, "p1", picks[0].PlayerID)
	assert.False(t, picks[0].KeeperSlot)

	trades, err := store.LoadExecutedTrades(ctx, "league-1", 2026)
	require.NoError(t, err)
	require.Len(t, trades, 2)
	assert.Equal(t, models.AssetRedshirt, trades[0].Type)
	assert.Equal(t, models.AssetRookiePick, trades[1].Type)
	assert.Equal(t, 2, trades[1].PickRound)
}

func TestRosterSummaryRoundTrip(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	summary := models.RosterSummary{KeepersCount: 5, CapUsed: 212_000_000, TotalFees: 54}
	require.NoError(t, store.PersistRosterSummary(ctx, "A", summary))

	// Upsert overwrites.
	summary.TotalFees = 60
	require.NoError(t, store.PersistRosterSummary(ctx, "A", summary))
}
