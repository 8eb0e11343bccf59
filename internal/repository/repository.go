// Package repository defines the storage boundary for league state. The
// core algorithms are storage-agnostic: they see only these load/persist
// methods, so they test against the in-memory implementation and run in
// production against SQLite.
package repository

import (
	"context"

	"github.com/dynastyhoops/capkeeper/internal/models"
)

// Repository loads league records and persists derived state. Every
// persist method has upsert semantics, so any failed write can be retried
// without compensating actions.
type Repository interface {
	LoadPlayers(ctx context.Context, leagueID string) ([]models.Player, error)
	LoadTeams(ctx context.Context, leagueID string) ([]models.Team, error)
	LoadRosterEntries(ctx context.Context, leagueID, teamID string, seasonYear int) ([]models.RosterEntry, error)
	LoadDraftResults(ctx context.Context, leagueID string, seasonYear int) ([]models.DraftPick, error)
	LoadExecutedTrades(ctx context.Context, leagueID string, seasonYear int) ([]models.TradeAsset, error)

	PersistRosterSummary(ctx context.Context, teamID string, summary models.RosterSummary) error
	PersistCanonicalRoster(ctx context.Context, teamID string, slots models.RosterSlots) error
	PersistPlayerOwnership(ctx context.Context, playerID, teamID string, slot models.Slot) error
}
