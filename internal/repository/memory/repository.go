// Package memory is the in-memory Repository, used as the default backing
// store and as the fixture for core algorithm tests.
package memory

import (
	"context"
	"sync"

	"github.com/dynastyhoops/capkeeper/internal/models"
)

type entryKey struct {
	leagueID   string
	teamID     string
	seasonYear int
}

type seasonKey struct {
	leagueID   string
	seasonYear int
}

type Repository struct {
	mu        sync.RWMutex
	players   map[string]models.Player
	teams     map[string]models.Team
	entries   map[entryKey][]models.RosterEntry
	picks     map[seasonKey][]models.DraftPick
	trades    map[seasonKey][]models.TradeAsset
	summaries map[string]models.RosterSummary
}

func NewRepository() *Repository {
	return &Repository{
		players:   make(map[string]models.Player),
		teams:     make(map[string]models.Team),
		entries:   make(map[entryKey][]models.RosterEntry),
		picks:     make(map[seasonKey][]models.DraftPick),
		trades:    make(map[seasonKey][]models.TradeAsset),
		summaries: make(map[string]models.RosterSummary),
	}
}

func (r *Repository) SavePlayer(p models.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[p.ID] = p
}

func (r *Repository) SaveTeam(t models.Team) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[t.ID] = t
}

func (r *Repository) SaveRosterEntries(leagueID, teamID string, seasonYear int, entries []models.RosterEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[entryKey{leagueID, teamID, seasonYear}] = append([]models.RosterEntry(nil), entries...)
}

func (r *Repository) SaveDraftPicks(leagueID string, seasonYear int, picks []models.DraftPick) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.picks[seasonKey{leagueID, seasonYear}] = append([]models.DraftPick(nil), picks...)
}

func (r *Repository) SaveTrades(leagueID string, seasonYear int, trades []models.TradeAsset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trades[seasonKey{leagueID, seasonYear}] = append([]models.TradeAsset(nil), trades...)
}

func (r *Repository) GetPlayer(playerID string) (models.Player, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.players[playerID]
	return p, ok
}

func (r *Repository) GetTeam(teamID string) (models.Team, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.teams[teamID]
	return t, ok
}

func (r *Repository) GetSummary(teamID string) (models.RosterSummary, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.summaries[teamID]
	return s, ok
}

func (r *Repository) LoadPlayers(_ context.Context, _ string) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	players := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	return players, nil
}

func (r *Repository) LoadTeams(_ context.Context, leagueID string) ([]models.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	teams := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		if t.LeagueID == "" || t.LeagueID == leagueID {
			teams = append(teams, t)
		}
	}
	return teams, nil
}

func (r *Repository) LoadRosterEntries(_ context.Context, leagueID, teamID string, seasonYear int) ([]models.RosterEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.RosterEntry(nil), r.entries[entryKey{leagueID, teamID, seasonYear}]...), nil
}

func (r *Repository) LoadDraftResults(_ context.Context, leagueID string, seasonYear int) ([]models.DraftPick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.DraftPick(nil), r.picks[seasonKey{leagueID, seasonYear}]...), nil
}

func (r *Repository) LoadExecutedTrades(_ context.Context, leagueID string, seasonYear int) ([]models.TradeAsset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]models.TradeAsset(nil), r.trades[seasonKey{leagueID, seasonYear}]...), nil
}

func (r *Repository) PersistRosterSummary(_ context.Context, teamID string, summary models.RosterSummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.summaries[teamID] = summary
	return nil
}

func (r *Repository) PersistCanonicalRoster(_ context.Context, teamID string, slots models.RosterSlots) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[teamID]
	if !ok {
		t = models.Team{ID: teamID}
	}
	t.Roster = slots
	r.teams[teamID] = t
	return nil
}

func (r *Repository) PersistPlayerOwnership(_ context.Context, playerID, teamID string, slot models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[playerID]
	if !ok {
		return nil
	}
	p.TeamID = teamID
	p.Slot = slot
	r.players[playerID] = p
	return nil
}
