package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynastyhoops/capkeeper/internal/keeper"
	"github.com/dynastyhoops/capkeeper/internal/models"
	"github.com/dynastyhoops/capkeeper/internal/repository/memory"
	"github.com/dynastyhoops/capkeeper/internal/roster"
)

const (
	testLeague = "league-1"
	testSeason = 2026
)

func newTestService(t *testing.T) (*LeagueService, *memory.Repository) {
	t.Helper()
	repo := memory.NewRepository()
	repo.SaveTeam(models.Team{ID: "A", LeagueID: testLeague, Name: "Uptown Funk"})
	repo.SaveTeam(models.Team{ID: "B", LeagueID: testLeague, Name: "Glass Cleaners"})
	repo.SavePlayer(models.Player{ID: "p1", Name: "LeBron James", Salary: 180_000_000, TeamID: "A", Slot: models.SlotActive})
	repo.SavePlayer(models.Player{ID: "p2", Name: "Victor Wembanyama", Salary: 55_000_000, TeamID: "B", Slot: models.SlotActive})
	repo.SaveRosterEntries(testLeague, "A", testSeason, []models.RosterEntry{
		{PlayerID: "p1", Decision: models.DecisionKeep, BaseRound: 1},
	})
	repo.SaveRosterEntries(testLeague, "B", testSeason, []models.RosterEntry{
		{PlayerID: "p2", Decision: models.DecisionKeep, BaseRound: 2},
	})
	repo.SaveTeam(models.Team{ID: "A", LeagueID: testLeague, Name: "Uptown Funk",
		Roster: models.RosterSlots{Active: []string{"p1"}}})
	repo.SaveTeam(models.Team{ID: "B", LeagueID: testLeague, Name: "Glass Cleaners",
		Roster: models.RosterSlots{Active: []string{"p2"}}})

	rec := roster.NewReconciler(repo, nil)
	return NewLeagueService(repo, rec, keeper.DefaultRules(), testLeague, testSeason), repo
}

func TestGetTeamCapReportPersistsSummary(t *testing.T) {
	svc, repo := newTestService(t)

	report, err := svc.GetTeamCapReport(context.Background(), "A")
	require.NoError(t, err)

	assert.Contains(t, report, "Uptown Funk")
	assert.Contains(t, report, "$180.0M")
	assert.Contains(t, report, "First Apron Fee: $50")

	summary, ok := repo.GetSummary("A")
	require.True(t, ok)
	assert.Equal(t, int64(180_000_000), summary.CapUsed)
	assert.Equal(t, int64(50), summary.TotalFees)
}

func TestGetTeamCapReportUnknownTeam(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetTeamCapReport(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "team not found")
}

func TestGetLeagueCapReportRanksByCapUsed(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.GetLeagueCapReport(context.Background())
	require.NoError(t, err)

	assert.Contains(t, report, "1. *Uptown Funk*")
	assert.Contains(t, report, "2. *Glass Cleaners*")
}

func TestSimulateTradeReport(t *testing.T) {
	svc, _ := newTestService(t)

	impacts, report, err := svc.SimulateTrade(context.Background(), []models.TradeAsset{
		{Type: models.AssetKeeper, PlayerID: "p2", FromTeamID: "B", ToTeamID: "A", Salary: 55_000_000},
	})
	require.NoError(t, err)

	require.Len(t, impacts, 2)
	assert.Contains(t, report, "Trade Cap Impact")
	assert.Contains(t, report, "Uptown Funk")
	// 180M -> 235M crosses the second apron.
	assert.Contains(t, report, "second apron")
}

func TestValidateRostersReportsCleanLeague(t *testing.T) {
	svc, _ := newTestService(t)

	issues, report, err := svc.ValidateRosters(context.Background())
	require.NoError(t, err)

	assert.Empty(t, issues)
	assert.Contains(t, report, "no issues found")
}

func TestRebuildRostersReport(t *testing.T) {
	svc, _ := newTestService(t)

	result, report, err := svc.RebuildRosters(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.TeamsFixed)
	assert.Contains(t, report, "Teams fixed: 2")
}

func TestWhoHasFuzzyMatch(t *testing.T) {
	svc, _ := newTestService(t)

	report, err := svc.WhoHas(context.Background(), "lebron jams")
	require.NoError(t, err)

	assert.Contains(t, report, "LeBron James")
	assert.Contains(t, report, "Uptown Funk")

	report, err = svc.WhoHas(context.Background(), "zzzzzz")
	require.NoError(t, err)
	assert.Contains(t, report, "No player found")
}
