// Package trade simulates the cap consequences of a proposed multi-asset
// trade without committing it.
package trade

import (
	"fmt"
	"sort"

	"github.com/dynastyhoops/capkeeper/internal/keeper"
	"github.com/dynastyhoops/capkeeper/internal/models"
)

// ProvisionalBaseRound is assigned to incoming keepers, who carry no base
// round context from their previous team. Post-trade stacking is therefore
// an approximation of next season's keeper cost, not a guarantee.
const ProvisionalBaseRound = 7

// Warning thresholds, in cap dollars.
const (
	FirstApronLine  = 195_000_000
	SecondApronLine = 225_000_000
	HardCapCeiling  = 255_000_000
)

// Simulate produces one TeamCapImpact per involved team. rosters maps each
// involved team to its current declared entries; teams supplies each team's
// standing cap adjustment; salaries resolves catalog salaries for the cap
// summary. Rookie-pick assets never affect cap math.
func Simulate(assets []models.TradeAsset, rosters map[string][]models.RosterEntry, teams map[string]models.Team, salaries keeper.SalaryLookup, rules keeper.Rules) []models.TeamCapImpact {
	involved := involvedTeams(assets)

	impacts := make([]models.TeamCapImpact, 0, len(involved))
	for _, teamID := range involved {
		impacts = append(impacts, simulateTeam(teamID, assets, rosters[teamID], teams[teamID], salaries, rules))
	}
	return impacts
}

func involvedTeams(assets []models.TradeAsset) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, a := range assets {
		for _, id := range []string{a.FromTeamID, a.ToTeamID} {
			if id != "" && !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	sort.Strings(ids)
	return ids
}

func simulateTeam(teamID string, assets []models.TradeAsset, entries []models.RosterEntry, team models.Team, salaries keeper.SalaryLookup, rules keeper.Rules) models.TeamCapImpact {
	impact := models.TeamCapImpact{TeamID: teamID}

	stacked, tags := keeper.Stack(entries)
	impact.Before = keeper.Summarize(stacked, salaries, team.CapAdjustment, tags, rules)

	outgoing := make(map[string]bool)
	var incoming []models.RosterEntry
	for _, a := range assets {
		if a.Type == models.AssetRookiePick || a.PlayerID == "" {
			continue
		}
		switch teamID {
		case a.FromTeamID:
			outgoing[a.PlayerID] = true
			impact.SalaryOut += a.Salary
		case a.ToTeamID:
			incoming = append(incoming, incomingEntry(a))
			impact.SalaryIn += a.Salary
		}
	}

	after := make([]models.RosterEntry, 0, len(entries)+len(incoming))
	for _, e := range entries {
		if !outgoing[e.PlayerID] {
			after = append(after, e)
		}
	}
	after = append(after, incoming...)

	restacked, afterTags := keeper.Stack(after)
	impact.After = keeper.Summarize(restacked, salaries, team.CapAdjustment, afterTags, rules)

	impact.Warnings = warnings(impact.Before, impact.After)
	return impact
}

func incomingEntry(a models.TradeAsset) models.RosterEntry {
	e := models.RosterEntry{PlayerID: a.PlayerID}
	switch a.Type {
	case models.AssetRedshirt:
		e.Decision = models.DecisionRedshirt
	case models.AssetIntStash:
		e.Decision = models.DecisionIntStash
	default:
		e.Decision = models.DecisionKeep
		e.BaseRound = ProvisionalBaseRound
	}
	return e
}

// warnings reports every threshold the trade would push the team across.
// Conditions are independent; none suppresses another.
func warnings(before, after models.RosterSummary) []string {
	var w []string
	if before.CapUsed <= FirstApronLine && after.CapUsed > FirstApronLine {
		w = append(w, fmt.Sprintf("trade pushes cap usage past the $%dM first apron", FirstApronLine/1_000_000))
	}
	if before.CapUsed <= SecondApronLine && after.CapUsed > SecondApronLine {
		w = append(w, fmt.Sprintf("trade pushes cap usage past the $%dM second apron", SecondApronLine/1_000_000))
	}
	if after.PenaltyDues > before.PenaltyDues {
		w = append(w, fmt.Sprintf("penalty dues increase from $%d to $%d", before.PenaltyDues, after.PenaltyDues))
	}
	if after.CapUsed > HardCapCeiling {
		w = append(w, fmt.Sprintf("cap usage exceeds the $%dM hard ceiling", HardCapCeiling/1_000_000))
	}
	return w
}
