// Package service composes the cap engine, validator, and reconciler into
// the operations the daemon, scheduler, and admin commands call. Report
// methods return Markdown-formatted text.
package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/dynastyhoops/capkeeper/internal/keeper"
	"github.com/dynastyhoops/capkeeper/internal/models"
	"github.com/dynastyhoops/capkeeper/internal/repository"
	"github.com/dynastyhoops/capkeeper/internal/roster"
	"github.com/dynastyhoops/capkeeper/internal/trade"
)

type LeagueService struct {
	repo       repository.Repository
	reconciler *roster.Reconciler
	rules      keeper.Rules
	leagueID   string
	seasonYear int
}

func NewLeagueService(repo repository.Repository, reconciler *roster.Reconciler, rules keeper.Rules, leagueID string, seasonYear int) *LeagueService {
	return &LeagueService{
		repo:       repo,
		reconciler: reconciler,
		rules:      rules,
		leagueID:   leagueID,
		seasonYear: seasonYear,
	}
}

func (s *LeagueService) salaryLookup(ctx context.Context) (keeper.SalaryLookup, error) {
	players, err := s.repo.LoadPlayers(ctx, s.leagueID)
	if err != nil {
		return nil, fmt.Errorf("loading player catalog: %w", err)
	}
	salaries := make(map[string]int64, len(players))
	for _, p := range players {
		salaries[p.ID] = p.Salary
	}
	return func(playerID string) (int64, bool) {
		sal, ok := salaries[playerID]
		return sal, ok
	}, nil
}

// SummarizeTeam stacks a team's declared entries, derives its cap and fee
// summary, and persists the snapshot.
func (s *LeagueService) SummarizeTeam(ctx context.Context, team models.Team) (models.RosterSummary, error) {
	entries, err := s.repo.LoadRosterEntries(ctx, s.leagueID, team.ID, s.seasonYear)
	if err != nil {
		return models.RosterSummary{}, fmt.Errorf("loading roster entries for %s: %w", team.ID, err)
	}
	salaries, err := s.salaryLookup(ctx)
	if err != nil {
		return models.RosterSummary{}, err
	}

	stacked, tags := keeper.Stack(entries)
	summary := keeper.Summarize(stacked, salaries, team.CapAdjustment, tags, s.rules)

	if err := s.repo.PersistRosterSummary(ctx, team.ID, summary); err != nil {
		return summary, fmt.Errorf("persisting summary for %s: %w", team.ID, err)
	}
	return summary, nil
}

// GetTeamCapReport returns a formatted cap and fee report for one team.
func (s *LeagueService) GetTeamCapReport(ctx context.Context, teamID string) (string, error) {
	team, err := s.findTeam(ctx, teamID)
	if err != nil {
		return "", err
	}
	summary, err := s.SummarizeTeam(ctx, team)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏀 *%s Cap Report*\n\n", team.Name))
	writeSummary(&sb, summary)
	return sb.String(), nil
}

// GetLeagueCapReport summarizes every team, ranked by cap usage.
func (s *LeagueService) GetLeagueCapReport(ctx context.Context) (string, error) {
	teams, err := s.repo.LoadTeams(ctx, s.leagueID)
	if err != nil {
		return "", fmt.Errorf("loading teams: %w", err)
	}

	type teamSummary struct {
		team    models.Team
		summary models.RosterSummary
	}
	summaries := make([]teamSummary, 0, len(teams))
	for _, t := range teams {
		summary, err := s.SummarizeTeam(ctx, t)
		if err != nil {
			return "", err
		}
		summaries = append(summaries, teamSummary{t, summary})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].summary.CapUsed != summaries[j].summary.CapUsed {
			return summaries[i].summary.CapUsed > summaries[j].summary.CapUsed
		}
		return summaries[i].team.ID < summaries[j].team.ID
	})

	var sb strings.Builder
	sb.WriteString("🏀 *League Cap Report*\n\n")
	for i, ts := range summaries {
		sb.WriteString(fmt.Sprintf("%d. *%s*\n", i+1, ts.team.Name))
		sb.WriteString(fmt.Sprintf("   Cap Used: %s of %s\n", millions(ts.summary.CapUsed), millions(ts.summary.CapEffective)))
		sb.WriteString(fmt.Sprintf("   Keepers: %d | Tags: %d | Fees: $%d\n\n", ts.summary.KeepersCount, ts.summary.FranchiseTags, ts.summary.TotalFees))
	}
	return sb.String(), nil
}

// SimulateTrade computes the before/after cap impact for every team
// involved in the proposed assets and formats a report. Nothing is
// committed.
func (s *LeagueService) SimulateTrade(ctx context.Context, assets []models.TradeAsset) ([]models.TeamCapImpact, string, error) {
	teams, err := s.repo.LoadTeams(ctx, s.leagueID)
	if err != nil {
		return nil, "", fmt.Errorf("loading teams: %w", err)
	}
	salaries, err := s.salaryLookup(ctx)
	if err != nil {
		return nil, "", err
	}

	teamByID := make(map[string]models.Team, len(teams))
	rosters := make(map[string][]models.RosterEntry, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
		entries, err := s.repo.LoadRosterEntries(ctx, s.leagueID, t.ID, s.seasonYear)
		if err != nil {
			return nil, "", fmt.Errorf("loading roster entries for %s: %w", t.ID, err)
		}
		rosters[t.ID] = entries
	}

	impacts := trade.Simulate(assets, rosters, teamByID, salaries, s.rules)

	var sb strings.Builder
	sb.WriteString("🔄 *Trade Cap Impact*\n\n")
	for _, impact := range impacts {
		name := impact.TeamID
		if t, ok := teamByID[impact.TeamID]; ok {
			name = t.Name
		}
		sb.WriteString(fmt.Sprintf("*%s*\n", name))
		sb.WriteString(fmt.Sprintf("   Salary In: %s | Salary Out: %s\n", millions(impact.SalaryIn), millions(impact.SalaryOut)))
		sb.WriteString(fmt.Sprintf("   Cap Used: %s → %s\n", millions(impact.Before.CapUsed), millions(impact.After.CapUsed)))
		sb.WriteString(fmt.Sprintf("   Total Fees: $%d → $%d\n", impact.Before.TotalFees, impact.After.TotalFees))
		for _, w := range impact.Warnings {
			sb.WriteString(fmt.Sprintf("   ⚠️ %s\n", w))
		}
		sb.WriteString("\n")
	}
	return impacts, sb.String(), nil
}

// ValidateRosters runs an integrity scan over the whole league. A failed
// read aborts the pass; a partial issue list is never returned as
// complete.
func (s *LeagueService) ValidateRosters(ctx context.Context) ([]models.IntegrityIssue, string, error) {
	players, err := s.repo.LoadPlayers(ctx, s.leagueID)
	if err != nil {
		return nil, "", fmt.Errorf("loading player catalog: %w", err)
	}
	teams, err := s.repo.LoadTeams(ctx, s.leagueID)
	if err != nil {
		return nil, "", fmt.Errorf("loading teams: %w", err)
	}

	issues, summary := roster.Validate(players, teams)

	var sb strings.Builder
	sb.WriteString("🔍 *Roster Integrity Scan*\n\n")
	sb.WriteString(summary)
	sb.WriteString("\n")
	for _, issue := range issues {
		sb.WriteString(fmt.Sprintf("• [%s] %s\n", issue.Kind, issue.Explanation))
	}
	return issues, sb.String(), nil
}

// RebuildRosters discards drifted roster state and rebuilds it from
// transaction history.
func (s *LeagueService) RebuildRosters(ctx context.Context) (models.ReconcileResult, string, error) {
	result, err := s.reconciler.Rebuild(ctx, s.leagueID, s.seasonYear)
	if err != nil {
		return result, "", fmt.Errorf("rebuilding rosters: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("🛠 *Roster Rebuild*\n\n")
	sb.WriteString(fmt.Sprintf("Teams fixed: %d\n", result.TeamsFixed))
	sb.WriteString(fmt.Sprintf("FA pickups restored: %d\n", result.FAPickupsRestored))
	sb.WriteString(fmt.Sprintf("Players assigned: %d\n", result.PlayersAssigned))
	if len(result.TeamErrors) > 0 {
		sb.WriteString("\nFailures (re-run to repair):\n")
		for _, e := range result.TeamErrors {
			sb.WriteString(fmt.Sprintf("• %s\n", e.Error()))
		}
	}
	return result, sb.String(), nil
}

// WhoHas fuzzy-matches a player name against the catalog and reports who
// owns him, where he sits, and what he costs.
func (s *LeagueService) WhoHas(ctx context.Context, playerName string) (string, error) {
	players, err := s.repo.LoadPlayers(ctx, s.leagueID)
	if err != nil {
		return "", fmt.Errorf("loading player catalog: %w", err)
	}

	var bestMatch *models.Player
	bestScore := -1.0
	threshold := 0.7

	for i, p := range players {
		fullName := strings.ToLower(p.Name)
		distance := fuzzy.LevenshteinDistance(strings.ToLower(playerName), fullName)
		maxLen := float64(max(len(playerName), len(fullName)))
		similarity := 1 - float64(distance)/maxLen

		if similarity > threshold && similarity > bestScore {
			bestScore = similarity
			bestMatch = &players[i]
		}
	}

	if bestMatch == nil {
		return fmt.Sprintf("🔍 No player found matching '%s'.", playerName), nil
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*%s* — %s\n", bestMatch.Name, millions(bestMatch.Salary)))
	if bestMatch.TeamID == "" {
		sb.WriteString("Free Agent\n")
	} else {
		teamName := bestMatch.TeamID
		if t, err := s.findTeam(ctx, bestMatch.TeamID); err == nil {
			teamName = t.Name
		}
		sb.WriteString(fmt.Sprintf("*%s* (%s)\n", teamName, bestMatch.Slot))
	}
	if bestMatch.PriorKeeperRound > 0 {
		sb.WriteString(fmt.Sprintf("Kept last season in round %d\n", bestMatch.PriorKeeperRound))
	}
	return sb.String(), nil
}

func (s *LeagueService) findTeam(ctx context.Context, teamID string) (models.Team, error) {
	teams, err := s.repo.LoadTeams(ctx, s.leagueID)
	if err != nil {
		return models.Team{}, fmt.Errorf("loading teams: %w", err)
	}
	for _, t := range teams {
		if t.ID == teamID {
			return t, nil
		}
	}
	return models.Team{}, fmt.Errorf("team not found: %s", teamID)
}

func writeSummary(sb *strings.Builder, s models.RosterSummary) {
	sb.WriteString(fmt.Sprintf("Keepers: %d | Redshirts: %d | Int'l Stash: %d\n", s.KeepersCount, s.RedshirtsCount, s.IntStashCount))
	sb.WriteString(fmt.Sprintf("Cap Used: %s\n", millions(s.CapUsed)))
	sb.WriteString(fmt.Sprintf("Effective Cap: %s (base %s, trade delta %s)\n", millions(s.CapEffective), millions(s.CapBase), millions(s.CapTradeDelta)))
	if s.OverSecondApronByM > 0 {
		sb.WriteString(fmt.Sprintf("Over Second Apron: $%dM → penalty $%d\n", s.OverSecondApronByM, s.PenaltyDues))
	}
	sb.WriteString(fmt.Sprintf("Franchise Tags: %d ($%d)\n", s.FranchiseTags, s.FranchiseTagDues))
	sb.WriteString(fmt.Sprintf("Redshirt Dues: $%d\n", s.RedshirtDues))
	if s.FirstApronFee > 0 {
		sb.WriteString(fmt.Sprintf("First Apron Fee: $%d\n", s.FirstApronFee))
	}
	sb.WriteString(fmt.Sprintf("*Total Fees: $%d*\n", s.TotalFees))
}

func millions(v int64) string {
	return fmt.Sprintf("$%.1fM", float64(v)/1_000_000)
}
