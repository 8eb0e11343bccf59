package roster

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dynastyhoops/capkeeper/internal/audit"
	"github.com/dynastyhoops/capkeeper/internal/models"
	"github.com/dynastyhoops/capkeeper/internal/repository"
)

// Reconciler rebuilds canonical roster state from transaction history and
// republishes both denormalized views. Rebuilds are serialized per league;
// running the same rebuild twice with no intervening transactions yields
// identical state.
type Reconciler struct {
	repo  repository.Repository
	audit audit.Sink

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewReconciler(repo repository.Repository, sink audit.Sink) *Reconciler {
	if sink == nil {
		sink = audit.Discard{}
	}
	return &Reconciler{
		repo:  repo,
		audit: sink,
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *Reconciler) leagueLock(leagueID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[leagueID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[leagueID] = l
	}
	return l
}

// intended is one team's rebuilt slot membership while evidence is applied.
type intended struct {
	active        map[string]bool
	redshirt      map[string]bool
	international map[string]bool
}

func newIntended() *intended {
	return &intended{
		active:        make(map[string]bool),
		redshirt:      make(map[string]bool),
		international: make(map[string]bool),
	}
}

func (in *intended) remove(playerID string) {
	delete(in.active, playerID)
	delete(in.redshirt, playerID)
	delete(in.international, playerID)
}

func (in *intended) contains(playerID string) bool {
	return in.active[playerID] || in.redshirt[playerID] || in.international[playerID]
}

// Rebuild reconstructs every team's roster in leagueID for seasonYear.
//
// Evidence is layered in order: keeper declarations seed each team's sets,
// drafted players overlay them, executed trades move players between teams
// in recorded order, and any remaining player whose ownership field names a
// team is inferred to be a free-agent pickup. The result is filtered to
// players still in the catalog, existing bench selections are preserved
// when their members survive in the rebuilt active set, and both views are
// then republished: slot arrays per team, followed by a two-phase ownership
// sweep (clear all, then re-assign) so no stale ownership value survives.
//
// All reads complete before any write; a read failure aborts with nothing
// written. Write failures are per-team, collected in the result, and never
// rolled back — the caller re-runs to repair reported teams.
func (r *Reconciler) Rebuild(ctx context.Context, leagueID string, seasonYear int) (models.ReconcileResult, error) {
	lock := r.leagueLock(leagueID)
	lock.Lock()
	defer lock.Unlock()

	runID := uuid.NewString()
	result := models.ReconcileResult{LeagueID: leagueID, SeasonYear: seasonYear}

	players, err := r.repo.LoadPlayers(ctx, leagueID)
	if err != nil {
		return result, fmt.Errorf("loading player catalog: %w", err)
	}
	teams, err := r.repo.LoadTeams(ctx, leagueID)
	if err != nil {
		return result, fmt.Errorf("loading teams: %w", err)
	}
	entriesByTeam := make(map[string][]models.RosterEntry, len(teams))
	for _, t := range teams {
		entries, err := r.repo.LoadRosterEntries(ctx, leagueID, t.ID, seasonYear)
		if err != nil {
			return result, fmt.Errorf("loading keeper declarations for team %s: %w", t.ID, err)
		}
		entriesByTeam[t.ID] = entries
	}
	picks, err := r.repo.LoadDraftResults(ctx, leagueID, seasonYear)
	if err != nil {
		return result, fmt.Errorf("loading draft results: %w", err)
	}
	trades, err := r.repo.LoadExecutedTrades(ctx, leagueID, seasonYear)
	if err != nil {
		return result, fmt.Errorf("loading trade history: %w", err)
	}

	r.audit.Event("roster_rebuild_started",
		"run_id", runID, "league_id", leagueID, "season_year", seasonYear,
		"teams", len(teams), "draft_picks", len(picks), "trade_assets", len(trades))

	catalog := make(map[string]models.Player, len(players))
	for _, p := range players {
		catalog[p.ID] = p
	}
	teamByID := make(map[string]models.Team, len(teams))
	rebuilt := make(map[string]*intended, len(teams))
	for _, t := range teams {
		teamByID[t.ID] = t
		rebuilt[t.ID] = newIntended()
	}

	// 1. Keeper declarations seed each team.
	for teamID, entries := range entriesByTeam {
		in := rebuilt[teamID]
		for _, e := range entries {
			switch e.Decision {
			case models.DecisionKeep:
				in.active[e.PlayerID] = true
			case models.DecisionRedshirt:
				in.redshirt[e.PlayerID] = true
			case models.DecisionIntStash:
				in.international[e.PlayerID] = true
			}
		}
	}

	// 2. Drafted players join their team's active set. Keeper-slot picks
	// re-assert declarations already applied above.
	for _, p := range picks {
		if p.KeeperSlot {
			continue
		}
		if in, ok := rebuilt[p.TeamID]; ok {
			in.active[p.PlayerID] = true
		}
	}

	// 3. Executed trades, in recorded order. Picks carry no roster state.
	for _, a := range trades {
		if a.PlayerID == "" || a.Type == models.AssetRookiePick {
			continue
		}
		if from, ok := rebuilt[a.FromTeamID]; ok {
			from.remove(a.PlayerID)
		}
		if to, ok := rebuilt[a.ToTeamID]; ok {
			switch a.Type {
			case models.AssetRedshirt:
				to.redshirt[a.PlayerID] = true
			case models.AssetIntStash:
				to.international[a.PlayerID] = true
			default:
				to.active[a.PlayerID] = true
			}
		}
	}

	// 4. Anyone still claiming a team but unaccounted for is assumed to be
	// a free-agent pickup.
	assignedAnywhere := func(playerID string) bool {
		for _, in := range rebuilt {
			if in.contains(playerID) {
				return true
			}
		}
		return false
	}
	for _, p := range players {
		if p.TeamID == "" {
			continue
		}
		in, ok := rebuilt[p.TeamID]
		if !ok {
			continue
		}
		if !assignedAnywhere(p.ID) {
			in.active[p.ID] = true
			result.FAPickupsRestored++
		}
	}

	// 5. Drop IDs that no longer exist in the catalog.
	for _, in := range rebuilt {
		for _, set := range []map[string]bool{in.active, in.redshirt, in.international} {
			for id := range set {
				if _, ok := catalog[id]; !ok {
					delete(set, id)
				}
			}
		}
	}

	// Ownership target for the final sweep.
	type assignment struct {
		teamID string
		slot   models.Slot
	}
	owner := make(map[string]assignment)

	// 6 & 7. Rebuild each team's slot arrays, preserving bench selections
	// whose members survived, and write them out. Per-team failures are
	// collected; successful teams are not rolled back.
	teamIDs := make([]string, 0, len(teams))
	for _, t := range teams {
		teamIDs = append(teamIDs, t.ID)
	}
	sort.Strings(teamIDs)

	for _, teamID := range teamIDs {
		in := rebuilt[teamID]

		var bench []string
		for _, id := range teamByID[teamID].Roster.Bench {
			if in.active[id] {
				bench = append(bench, id)
			}
		}
		benched := make(map[string]bool, len(bench))
		for _, id := range bench {
			benched[id] = true
		}

		slots := models.RosterSlots{
			Active:        sortedKeys(in.active),
			Redshirt:      sortedKeys(in.redshirt),
			International: sortedKeys(in.international),
			Bench:         bench,
		}

		for id := range in.active {
			slot := models.SlotActive
			if benched[id] {
				slot = models.SlotBench
			}
			owner[id] = assignment{teamID, slot}
		}
		for id := range in.redshirt {
			owner[id] = assignment{teamID, models.SlotRedshirt}
		}
		for id := range in.international {
			owner[id] = assignment{teamID, models.SlotInternational}
		}

		if err := r.repo.PersistCanonicalRoster(ctx, teamID, slots); err != nil {
			werr := models.TeamWriteError{TeamID: teamID, Operation: "persist canonical roster", Err: err}
			result.TeamErrors = append(result.TeamErrors, werr)
			r.audit.Event("roster_rebuild_team_failed", "run_id", runID, "team_id", teamID, "error", err.Error())
			continue
		}
		result.TeamsFixed++
		result.PlayersAssigned += len(slots.Active) + len(slots.Redshirt) + len(slots.International)
	}

	// Ownership sweep: clear everyone first so no stale value survives for
	// players removed from all teams, then re-assign.
	for _, p := range players {
		if err := r.repo.PersistPlayerOwnership(ctx, p.ID, "", ""); err != nil {
			result.TeamErrors = append(result.TeamErrors, models.TeamWriteError{
				TeamID:    p.TeamID,
				Operation: fmt.Sprintf("clear ownership of player %s", p.ID),
				Err:       err,
			})
		}
	}
	for _, p := range players {
		a, ok := owner[p.ID]
		if !ok {
			continue
		}
		if err := r.repo.PersistPlayerOwnership(ctx, p.ID, a.teamID, a.slot); err != nil {
			result.TeamErrors = append(result.TeamErrors, models.TeamWriteError{
				TeamID:    a.teamID,
				Operation: fmt.Sprintf("assign ownership of player %s", p.ID),
				Err:       err,
			})
		}
	}

	r.audit.Event("roster_rebuild_completed",
		"run_id", runID, "league_id", leagueID,
		"teams_fixed", result.TeamsFixed,
		"fa_pickups_restored", result.FAPickupsRestored,
		"players_assigned", result.PlayersAssigned,
		"team_errors", len(result.TeamErrors))

	return result, nil
}

func sortedKeys(set map[string]bool) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
