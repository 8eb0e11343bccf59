// Package roster detects and repairs drift between the two denormalized
// views of league roster membership: each player's ownership field and the
// per-team slot arrays. Transaction history is ground truth; both views
// are rebuildable caches.
package roster

import (
	"fmt"
	"strings"

	"github.com/dynastyhoops/capkeeper/internal/models"
)

// Validate cross-references the player catalog against every team's slot
// arrays and reports all anomalies found. The checks are independent: one
// finding never masks another, so a player can surface in several issues.
//
// Output is advisory while a rebuild is in flight, since a stale read
// during the reconciler's write window can produce transient findings.
func Validate(players []models.Player, teams []models.Team) ([]models.IntegrityIssue, string) {
	playerByID := make(map[string]models.Player, len(players))
	for _, p := range players {
		playerByID[p.ID] = p
	}
	teamByID := make(map[string]models.Team, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
	}

	// One pass over every slot array builds playerID -> containing teams.
	containing := make(map[string][]string)
	for _, t := range teams {
		seen := make(map[string]bool)
		for _, ids := range [][]string{t.Roster.Active, t.Roster.IR, t.Roster.Redshirt, t.Roster.International, t.Roster.Bench} {
			for _, id := range ids {
				if seen[id] {
					continue
				}
				seen[id] = true
				containing[id] = append(containing[id], t.ID)
			}
		}
	}

	var issues []models.IntegrityIssue

	reported := make(map[string]bool)
	for _, t := range teams {
		for _, ids := range [][]string{t.Roster.Active, t.Roster.IR, t.Roster.Redshirt, t.Roster.International, t.Roster.Bench} {
			for _, id := range ids {
				p, inCatalog := playerByID[id]
				holders := containing[id]

				if !inCatalog && !reported[id+"/orphan"] {
					reported[id+"/orphan"] = true
					issues = append(issues, models.IntegrityIssue{
						Kind:        models.IssueOrphanedID,
						PlayerID:    id,
						TeamIDs:     holders,
						Explanation: fmt.Sprintf("player %s is rostered by %s but does not exist in the player catalog", id, strings.Join(holders, ", ")),
					})
				}
				if len(holders) > 1 && !reported[id+"/dup"] {
					reported[id+"/dup"] = true
					issues = append(issues, models.IntegrityIssue{
						Kind:        models.IssueDuplicate,
						PlayerID:    id,
						TeamIDs:     holders,
						Explanation: fmt.Sprintf("player %s appears on multiple rosters: %s", id, strings.Join(holders, ", ")),
					})
				}
				if inCatalog && p.TeamID != t.ID && !reported[id+"/mismatch/"+t.ID] {
					reported[id+"/mismatch/"+t.ID] = true
					issues = append(issues, models.IntegrityIssue{
						Kind:        models.IssueTeamIDMismatch,
						PlayerID:    id,
						TeamIDs:     []string{t.ID, p.TeamID},
						Explanation: fmt.Sprintf("player %s sits on team %s's roster but his ownership field says %q", id, t.ID, p.TeamID),
					})
				}
			}
		}
	}

	for _, p := range players {
		if p.TeamID == "" {
			continue
		}
		if _, teamExists := teamByID[p.TeamID]; !teamExists {
			continue
		}
		if len(containing[p.ID]) == 0 {
			issues = append(issues, models.IntegrityIssue{
				Kind:        models.IssueNotInRoster,
				PlayerID:    p.ID,
				TeamIDs:     []string{p.TeamID},
				Explanation: fmt.Sprintf("player %s claims team %s but appears in no team's roster", p.ID, p.TeamID),
			})
		}
	}

	return issues, summarize(issues)
}

func summarize(issues []models.IntegrityIssue) string {
	if len(issues) == 0 {
		return "rosters are consistent, no issues found"
	}
	counts := make(map[models.IssueKind]int)
	for _, issue := range issues {
		counts[issue.Kind]++
	}
	parts := make([]string, 0, 4)
	for _, kind := range []models.IssueKind{models.IssueOrphanedID, models.IssueTeamIDMismatch, models.IssueDuplicate, models.IssueNotInRoster} {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, kind))
		}
	}
	return fmt.Sprintf("%d issues found: %s", len(issues), strings.Join(parts, ", "))
}
