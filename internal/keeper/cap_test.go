package keeper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynastyhoops/capkeeper/internal/models"
)

func salaryTable(salaries map[string]int64) SalaryLookup {
	return func(playerID string) (int64, bool) {
		s, ok := salaries[playerID]
		return s, ok
	}
}

func TestSummarizeCountsOnlyKeepSalaries(t *testing.T) {
	entries := []models.RosterEntry{
		{PlayerID: "k1", Decision: models.DecisionKeep},
		{PlayerID: "k2", Decision: models.DecisionKeep},
		{PlayerID: "r1", Decision: models.DecisionRedshirt},
		{PlayerID: "i1", Decision: models.DecisionIntStash},
		{PlayerID: "d1", Decision: models.DecisionDrop},
	}
	salaries := salaryTable(map[string]int64{
		"k1": 40_000_000, "k2": 25_000_000,
		"r1": 8_000_000, "i1": 3_000_000, "d1": 12_000_000,
	})

	s := Summarize(entries, salaries, 0, 0, DefaultRules())

	assert.Equal(t, int64(65_000_000), s.CapUsed)
	assert.Equal(t, 2, s.KeepersCount)
	assert.Equal(t, 1, s.RedshirtsCount)
	assert.Equal(t, 1, s.IntStashCount)
}

func TestSummarizePenaltyRoundsUpPerStartedMillion(t *testing.T) {
	rules := DefaultRules()

	for _, tc := range []struct {
		name      string
		capUsed   int64
		wantOverM int64
		wantDues  int64
	}{
		{"at the line", 210_000_000, 0, 0},
		{"half a million over", 210_500_000, 1, 2},
		{"exactly one million over", 211_000_000, 1, 2},
		{"two million over", 212_000_000, 2, 4},
		{"just past two million", 212_000_001, 3, 6},
	} {
		t.Run(tc.name, func(t *testing.T) {
			entries := []models.RosterEntry{{PlayerID: "star", Decision: models.DecisionKeep}}
			s := Summarize(entries, salaryTable(map[string]int64{"star": tc.capUsed}), 0, 0, rules)
			assert.Equal(t, tc.wantOverM, s.OverSecondApronByM)
			assert.Equal(t, tc.wantDues, s.PenaltyDues)
		})
	}
}

func TestSummarizeClampsEffectiveCap(t *testing.T) {
	rules := DefaultRules()

	s := Summarize(nil, salaryTable(nil), 100_000_000, 0, rules)
	assert.Equal(t, int64(250_000_000), s.CapEffective)

	s = Summarize(nil, salaryTable(nil), -100_000_000, 0, rules)
	assert.Equal(t, int64(170_000_000), s.CapEffective)

	s = Summarize(nil, salaryTable(nil), 5_000_000, 0, rules)
	assert.Equal(t, int64(215_000_000), s.CapEffective)
	assert.Equal(t, int64(5_000_000), s.CapTradeDelta)
}

func TestSummarizeFees(t *testing.T) {
	entries := []models.RosterEntry{
		{PlayerID: "k1", Decision: models.DecisionKeep},
		{PlayerID: "r1", Decision: models.DecisionRedshirt},
		{PlayerID: "r2", Decision: models.DecisionRedshirt},
	}
	salaries := salaryTable(map[string]int64{"k1": 212_000_000})

	s := Summarize(entries, salaries, 0, 2, DefaultRules())

	require.Equal(t, int64(4), s.PenaltyDues)
	assert.Equal(t, int64(30), s.FranchiseTagDues)
	assert.Equal(t, int64(20), s.RedshirtDues)
	assert.Equal(t, int64(50), s.FirstApronFee)
	assert.Equal(t, int64(104), s.TotalFees)
}

func TestSummarizeFirstApronFee(t *testing.T) {
	rules := DefaultRules()
	entries := []models.RosterEntry{{PlayerID: "k1", Decision: models.DecisionKeep}}

	s := Summarize(entries, salaryTable(map[string]int64{"k1": 170_000_000}), 0, 0, rules)
	assert.Zero(t, s.FirstApronFee)

	s = Summarize(entries, salaryTable(map[string]int64{"k1": 170_000_001}), 0, 0, rules)
	assert.Equal(t, int64(50), s.FirstApronFee)
}

func TestSummarizeUnknownPlayerSalaryCountsZero(t *testing.T) {
	entries := []models.RosterEntry{{PlayerID: "ghost", Decision: models.DecisionKeep}}

	s := Summarize(entries, salaryTable(nil), 0, 0, DefaultRules())

	assert.Zero(t, s.CapUsed)
	assert.Equal(t, 1, s.KeepersCount)
}

func TestSummarizeCapUsedMonotonicUnderAddedKeeper(t *testing.T) {
	salaries := salaryTable(map[string]int64{"a": 30_000_000, "b": 20_000_000, "c": 10_000_000})
	entries := []models.RosterEntry{
		{PlayerID: "a", Decision: models.DecisionKeep},
		{PlayerID: "b", Decision: models.DecisionKeep},
	}

	base := Summarize(entries, salaries, 0, 0, DefaultRules())
	grown := Summarize(append(entries, models.RosterEntry{PlayerID: "c", Decision: models.DecisionKeep}), salaries, 0, 0, DefaultRules())
	shrunk := Summarize(entries[:1], salaries, 0, 0, DefaultRules())

	assert.GreaterOrEqual(t, grown.CapUsed, base.CapUsed)
	assert.LessOrEqual(t, shrunk.CapUsed, base.CapUsed)
}
