// Package sqlite is the durable Repository backed by an embedded SQLite
// database. Every write is an upsert, so the reconciler's retry semantics
// hold without compensating actions.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/dynastyhoops/capkeeper/internal/models"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

const schema = `
CREATE TABLE IF NOT EXISTS players (
	id TEXT PRIMARY KEY,
	league_id TEXT NOT NULL,
	name TEXT NOT NULL,
	salary INTEGER NOT NULL DEFAULT 0,
	is_rookie INTEGER NOT NULL DEFAULT 0,
	redshirt_eligible INTEGER NOT NULL DEFAULT 0,
	int_stash_eligible INTEGER NOT NULL DEFAULT 0,
	prior_keeper_round INTEGER NOT NULL DEFAULT 0,
	team_id TEXT NOT NULL DEFAULT '',
	slot TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS teams (
	id TEXT PRIMARY KEY,
	league_id TEXT NOT NULL,
	name TEXT NOT NULL,
	owner TEXT NOT NULL DEFAULT '',
	cap_adjustment INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS roster_slots (
	team_id TEXT NOT NULL,
	slot TEXT NOT NULL,
	player_id TEXT NOT NULL,
	PRIMARY KEY (team_id, slot, player_id)
);
CREATE TABLE IF NOT EXISTS roster_entries (
	league_id TEXT NOT NULL,
	team_id TEXT NOT NULL,
	season_year INTEGER NOT NULL,
	pos INTEGER NOT NULL,
	player_id TEXT NOT NULL,
	decision TEXT NOT NULL,
	base_round INTEGER NOT NULL DEFAULT 0,
	keeper_round INTEGER NOT NULL DEFAULT 0,
	needs_review INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (league_id, team_id, season_year, player_id)
);
CREATE TABLE IF NOT EXISTS draft_picks (
	league_id TEXT NOT NULL,
	season_year INTEGER NOT NULL,
	round INTEGER NOT NULL,
	pick INTEGER NOT NULL,
	team_id TEXT NOT NULL,
	player_id TEXT NOT NULL,
	keeper_slot INTEGER NOT NULL DEFAULT 0,
	picked_at TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (league_id, season_year, round, pick)
);
CREATE TABLE IF NOT EXISTS trades (
	league_id TEXT NOT NULL,
	season_year INTEGER NOT NULL,
	seq INTEGER NOT NULL,
	asset_type TEXT NOT NULL,
	player_id TEXT NOT NULL DEFAULT '',
	from_team_id TEXT NOT NULL,
	to_team_id TEXT NOT NULL,
	salary INTEGER NOT NULL DEFAULT 0,
	pick_round INTEGER NOT NULL DEFAULT 0,
	executed_at TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (league_id, season_year, seq)
);
CREATE TABLE IF NOT EXISTS roster_summaries (
	team_id TEXT PRIMARY KEY,
	summary_json TEXT NOT NULL
);
`

type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and bootstraps the schema.
func Open(path string) (*Store, error) {
	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", p, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) SavePlayer(ctx context.Context, leagueID string, p models.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, league_id, name, salary, is_rookie, redshirt_eligible, int_stash_eligible, prior_keeper_round, team_id, slot)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			league_id=excluded.league_id, name=excluded.name, salary=excluded.salary,
			is_rookie=excluded.is_rookie, redshirt_eligible=excluded.redshirt_eligible,
			int_stash_eligible=excluded.int_stash_eligible, prior_keeper_round=excluded.prior_keeper_round,
			team_id=excluded.team_id, slot=excluded.slot`,
		p.ID, leagueID, p.Name, p.Salary, p.IsRookie, p.RedshirtEligible, p.IntStashEligible, p.PriorKeeperRound, p.TeamID, string(p.Slot))
	if err != nil {
		return fmt.Errorf("saving player %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) SaveTeam(ctx context.Context, t models.Team) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, league_id, name, owner, cap_adjustment)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			league_id=excluded.league_id, name=excluded.name,
			owner=excluded.owner, cap_adjustment=excluded.cap_adjustment`,
		t.ID, t.LeagueID, t.Name, t.Owner, t.CapAdjustment)
	if err != nil {
		return fmt.Errorf("saving team %s: %w", t.ID, err)
	}
	if err := s.PersistCanonicalRoster(ctx, t.ID, t.Roster); err != nil {
		return err
	}
	return nil
}

func (s *Store) SaveRosterEntries(ctx context.Context, leagueID, teamID string, seasonYear int, entries []models.RosterEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("saving roster entries for %s: %w", teamID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM roster_entries WHERE league_id=? AND team_id=? AND season_year=?`,
		leagueID, teamID, seasonYear); err != nil {
		return fmt.Errorf("clearing roster entries for %s: %w", teamID, err)
	}
	for i, e := range entries {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO roster_entries (league_id, team_id, season_year, pos, player_id, decision, base_round, keeper_round, needs_review)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			leagueID, teamID, seasonYear, i, e.PlayerID, string(e.Decision), e.BaseRound, e.KeeperRound, e.NeedsReview); err != nil {
			return fmt.Errorf("saving roster entry %s/%s: %w", teamID, e.PlayerID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) SaveDraftPick(ctx context.Context, p models.DraftPick) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO draft_picks (league_id, season_year, round, pick, team_id, player_id, keeper_slot, picked_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(league_id, season_year, round, pick) DO UPDATE SET
			team_id=excluded.team_id, player_id=excluded.player_id,
			keeper_slot=excluded.keeper_slot, picked_at=excluded.picked_at`,
		p.LeagueID, p.SeasonYear, p.Round, p.Pick, p.TeamID, p.PlayerID, p.KeeperSlot, p.PickedAt.UTC().Format("2006-01-02T15:04:05Z"))
	if err != nil {
		return fmt.Errorf("saving draft pick %d.%d: %w", p.Round, p.Pick, err)
	}
	return nil
}

func (s *Store) SaveTrade(ctx context.Context, leagueID string, seasonYear, seq int, a models.TradeAsset) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO trades (league_id, season_year, seq, asset_type, player_id, from_team_id, to_team_id, salary, pick_round, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(league_id, season_year, seq) DO UPDATE SET
			asset_type=excluded.asset_type, player_id=excluded.player_id,
			from_team_id=excluded.from_team_id, to_team_id=excluded.to_team_id,
			salary=excluded.salary, pick_round=excluded.pick_round, executed_at=excluded.executed_at`,
		leagueID, seasonYear, seq, string(a.Type), a.PlayerID, a.FromTeamID, a.ToTeamID, a.Salary, a.PickRound, a.ExecutedAt.UTC().Format("2006-01-02T15:04:05Z"))
	if err != nil {
		return fmt.Errorf("saving trade asset %d: %w", seq, err)
	}
	return nil
}

func (s *Store) LoadPlayers(ctx context.Context, leagueID string) ([]models.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, salary, is_rookie, redshirt_eligible, int_stash_eligible, prior_keeper_round, team_id, slot
		FROM players WHERE league_id=? ORDER BY id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("loading players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		var slot string
		if err := rows.Scan(&p.ID, &p.Name, &p.Salary, &p.IsRookie, &p.RedshirtEligible, &p.IntStashEligible, &p.PriorKeeperRound, &p.TeamID, &slot); err != nil {
			return nil, fmt.Errorf("scanning player: %w", err)
		}
		p.Slot = models.Slot(slot)
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading players: %w", err)
	}
	return players, nil
}

func (s *Store) LoadTeams(ctx context.Context, leagueID string) ([]models.Team, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, league_id, name, owner, cap_adjustment
		FROM teams WHERE league_id=? ORDER BY id`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.Owner, &t.CapAdjustment); err != nil {
			return nil, fmt.Errorf("scanning team: %w", err)
		}
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading teams: %w", err)
	}

	for i := range teams {
		slots, err := s.loadSlots(ctx, teams[i].ID)
		if err != nil {
			return nil, err
		}
		teams[i].Roster = slots
	}
	return teams, nil
}

func (s *Store) loadSlots(ctx context.Context, teamID string) (models.RosterSlots, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slot, player_id FROM roster_slots WHERE team_id=? ORDER BY slot, player_id`, teamID)
	if err != nil {
		return models.RosterSlots{}, fmt.Errorf("loading roster slots for %s: %w", teamID, err)
	}
	defer rows.Close()

	var slots models.RosterSlots
	for rows.Next() {
		var slot, playerID string
		if err := rows.Scan(&slot, &playerID); err != nil {
			return models.RosterSlots{}, fmt.Errorf("scanning roster slot: %w", err)
		}
		switch models.Slot(slot) {
		case models.SlotActive:
			slots.Active = append(slots.Active, playerID)
		case models.SlotIR:
			slots.IR = append(slots.IR, playerID)
		case models.SlotRedshirt:
			slots.Redshirt = append(slots.Redshirt, playerID)
		case models.SlotInternational:
			slots.International = append(slots.International, playerID)
		case models.SlotBench:
			slots.Bench = append(slots.Bench, playerID)
		}
	}
	if err := rows.Err(); err != nil {
		return models.RosterSlots{}, fmt.Errorf("loading roster slots for %s: %w", teamID, err)
	}
	return slots, nil
}

func (s *Store) LoadRosterEntries(ctx context.Context, leagueID, teamID string, seasonYear int) ([]models.RosterEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, decision, base_round, keeper_round, needs_review
		FROM roster_entries WHERE league_id=? AND team_id=? AND season_year=? ORDER BY pos`,
		leagueID, teamID, seasonYear)
	if err != nil {
		return nil, fmt.Errorf("loading roster entries for %s: %w", teamID, err)
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var e models.RosterEntry
		var decision string
		if err := rows.Scan(&e.PlayerID, &decision, &e.BaseRound, &e.KeeperRound, &e.NeedsReview); err != nil {
			return nil, fmt.Errorf("scanning roster entry: %w", err)
		}
		e.Decision = models.Decision(decision)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading roster entries for %s: %w", teamID, err)
	}
	return entries, nil
}

func (s *Store) LoadDraftResults(ctx context.Context, leagueID string, seasonYear int) ([]models.DraftPick, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT round, pick, team_id, player_id, keeper_slot
		FROM draft_picks WHERE league_id=? AND season_year=? ORDER BY round, pick`,
		leagueID, seasonYear)
	if err != nil {
		return nil, fmt.Errorf("loading draft results: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		p := models.DraftPick{LeagueID: leagueID, SeasonYear: seasonYear}
		if err := rows.Scan(&p.Round, &p.Pick, &p.TeamID, &p.PlayerID, &p.KeeperSlot); err != nil {
			return nil, fmt.Errorf("scanning draft pick: %w", err)
		}
		picks = append(picks, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading draft results: %w", err)
	}
	return picks, nil
}

func (s *Store) LoadExecutedTrades(ctx context.Context, leagueID string, seasonYear int) ([]models.TradeAsset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT asset_type, player_id, from_team_id, to_team_id, salary, pick_round
		FROM trades WHERE league_id=? AND season_year=? ORDER BY seq`,
		leagueID, seasonYear)
	if err != nil {
		return nil, fmt.Errorf("loading trades: %w", err)
	}
	defer rows.Close()

	var assets []models.TradeAsset
	for rows.Next() {
		var a models.TradeAsset
		var assetType string
		if err := rows.Scan(&assetType, &a.PlayerID, &a.FromTeamID, &a.ToTeamID, &a.Salary, &a.PickRound); err != nil {
			return nil, fmt.Errorf("scanning trade asset: %w", err)
		}
		a.Type = models.AssetType(assetType)
		assets = append(assets, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading trades: %w", err)
	}
	return assets, nil
}

func (s *Store) PersistRosterSummary(ctx context.Context, teamID string, summary models.RosterSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding summary for %s: %w", teamID, err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO roster_summaries (team_id, summary_json) VALUES (?, ?)
		ON CONFLICT(team_id) DO UPDATE SET summary_json=excluded.summary_json`,
		teamID, string(raw))
	if err != nil {
		return fmt.Errorf("persisting summary for %s: %w", teamID, err)
	}
	return nil
}

func (s *Store) PersistCanonicalRoster(ctx context.Context, teamID string, slots models.RosterSlots) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("persisting roster for %s: %w", teamID, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM roster_slots WHERE team_id=?`, teamID); err != nil {
		return fmt.Errorf("clearing roster slots for %s: %w", teamID, err)
	}
	insert := func(slot models.Slot, ids []string) error {
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO roster_slots (team_id, slot, player_id) VALUES (?, ?, ?)
				ON CONFLICT(team_id, slot, player_id) DO NOTHING`,
				teamID, string(slot), id); err != nil {
				return fmt.Errorf("persisting %s slot for %s: %w", slot, teamID, err)
			}
		}
		return nil
	}
	for _, group := range []struct {
		slot models.Slot
		ids  []string
	}{
		{models.SlotActive, slots.Active},
		{models.SlotIR, slots.IR},
		{models.SlotRedshirt, slots.Redshirt},
		{models.SlotInternational, slots.International},
		{models.SlotBench, slots.Bench},
	} {
		if err := insert(group.slot, group.ids); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) PersistPlayerOwnership(ctx context.Context, playerID, teamID string, slot models.Slot) error {
	_, err := s.db.ExecContext(ctx, `UPDATE players SET team_id=?, slot=? WHERE id=?`,
		teamID, string(slot), playerID)
	if err != nil {
		return fmt.Errorf("persisting ownership for player %s: %w", playerID, err)
	}
	return nil
}
