package trade

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynastyhoops/capkeeper/internal/keeper"
	"github.com/dynastyhoops/capkeeper/internal/models"
)

var testSalaries = map[string]int64{
	"star":    180_000_000,
	"vet":     50_000_000,
	"role":    20_000_000,
	"rookie":  5_000_000,
	"stashed": 3_000_000,
}

func lookup(playerID string) (int64, bool) {
	s, ok := testSalaries[playerID]
	return s, ok
}

func twoTeamFixture() (map[string][]models.RosterEntry, map[string]models.Team) {
	rosters := map[string][]models.RosterEntry{
		"A": {
			{PlayerID: "star", Decision: models.DecisionKeep, BaseRound: 1},
			{PlayerID: "role", Decision: models.DecisionKeep, BaseRound: 4},
		},
		"B": {
			{PlayerID: "vet", Decision: models.DecisionKeep, BaseRound: 2},
			{PlayerID: "rookie", Decision: models.DecisionRedshirt},
		},
	}
	teams := map[string]models.Team{
		"A": {ID: "A", Name: "Alphas"},
		"B": {ID: "B", Name: "Bravos"},
	}
	return rosters, teams
}

func impactFor(t *testing.T, impacts []models.TeamCapImpact, teamID string) models.TeamCapImpact {
	t.Helper()
	for _, impact := range impacts {
		if impact.TeamID == teamID {
			return impact
		}
	}
	t.Fatalf("no impact computed for team %s", teamID)
	return models.TeamCapImpact{}
}

func TestSimulateMovesSalariesBothWays(t *testing.T) {
	rosters, teams := twoTeamFixture()
	assets := []models.TradeAsset{
		{Type: models.AssetKeeper, PlayerID: "role", FromTeamID: "A", ToTeamID: "B", Salary: 20_000_000},
		{Type: models.AssetKeeper, PlayerID: "vet", FromTeamID: "B", ToTeamID: "A", Salary: 50_000_000},
	}

	impacts := Simulate(assets, rosters, teams, lookup, keeper.DefaultRules())
	require.Len(t, impacts, 2)

	a := impactFor(t, impacts, "A")
	assert.Equal(t, int64(50_000_000), a.SalaryIn)
	assert.Equal(t, int64(20_000_000), a.SalaryOut)
	assert.Equal(t, int64(200_000_000), a.Before.CapUsed)
	assert.Equal(t, int64(230_000_000), a.After.CapUsed)

	b := impactFor(t, impacts, "B")
	assert.Equal(t, int64(20_000_000), b.SalaryIn)
	assert.Equal(t, int64(50_000_000), b.SalaryOut)
	assert.Equal(t, int64(50_000_000), b.Before.CapUsed)
	assert.Equal(t, int64(20_000_000), b.After.CapUsed)
}

func TestSimulateWarnsOnThresholdCrossings(t *testing.T) {
	rosters, teams := twoTeamFixture()
	assets := []models.TradeAsset{
		{Type: models.AssetKeeper, PlayerID: "vet", FromTeamID: "B", ToTeamID: "A", Salary: 50_000_000},
	}

	impacts := Simulate(assets, rosters, teams, lookup, keeper.DefaultRules())

	// A goes from 200M to 250M: crosses the second apron, grows the
	// penalty, but stays under the hard ceiling.
	a := impactFor(t, impacts, "A")
	require.NotEmpty(t, a.Warnings)
	joined := ""
	for _, w := range a.Warnings {
		joined += w + "\n"
	}
	assert.Contains(t, joined, "second apron")
	assert.Contains(t, joined, "penalty dues increase")
	assert.NotContains(t, joined, "hard ceiling")
	assert.NotContains(t, joined, "first apron")

	b := impactFor(t, impacts, "B")
	assert.Empty(t, b.Warnings)
}

func TestSimulateRookiePicksNeverTouchCapMath(t *testing.T) {
	rosters, teams := twoTeamFixture()
	assets := []models.TradeAsset{
		{Type: models.AssetRookiePick, FromTeamID: "A", ToTeamID: "B", PickRound: 1},
	}

	impacts := Simulate(assets, rosters, teams, lookup, keeper.DefaultRules())
	require.Len(t, impacts, 2)

	for _, impact := range impacts {
		assert.Zero(t, impact.SalaryIn)
		assert.Zero(t, impact.SalaryOut)
		assert.Equal(t, impact.Before, impact.After)
		assert.Empty(t, impact.Warnings)
	}
}

func TestSimulateIncomingPlayersJoinByAssetType(t *testing.T) {
	rosters, teams := twoTeamFixture()
	assets := []models.TradeAsset{
		{Type: models.AssetRedshirt, PlayerID: "rookie", FromTeamID: "B", ToTeamID: "A", Salary: 5_000_000},
		{Type: models.AssetIntStash, PlayerID: "stashed", FromTeamID: "B", ToTeamID: "A", Salary: 3_000_000},
	}

	impacts := Simulate(assets, rosters, teams, lookup, keeper.DefaultRules())

	a := impactFor(t, impacts, "A")
	assert.Equal(t, 1, a.After.RedshirtsCount)
	assert.Equal(t, 1, a.After.IntStashCount)
	// Redshirt and stash salaries stay off the cap.
	assert.Equal(t, a.Before.CapUsed, a.After.CapUsed)

	b := impactFor(t, impacts, "B")
	assert.Zero(t, b.After.RedshirtsCount)
}

func TestSimulateIncomingKeeperGetsProvisionalRound(t *testing.T) {
	rosters, teams := twoTeamFixture()
	assets := []models.TradeAsset{
		{Type: models.AssetKeeper, PlayerID: "vet", FromTeamID: "B", ToTeamID: "A", Salary: 50_000_000},
	}

	impacts := Simulate(assets, rosters, teams, lookup, keeper.DefaultRules())

	a := impactFor(t, impacts, "A")
	assert.Equal(t, 3, a.After.KeepersCount)
	// The incoming keeper stacks at the provisional round, so no franchise
	// tag is charged for him.
	assert.Equal(t, a.Before.FranchiseTags, a.After.FranchiseTags)
}
