package models

import "time"

// Slot is a roster slot a player can occupy on a team.
type Slot string

const (
	SlotActive        Slot = "active"
	SlotIR            Slot = "ir"
	SlotRedshirt      Slot = "redshirt"
	SlotInternational Slot = "international"
	SlotBench         Slot = "bench"
)

// Player is one entry in the league catalog. Salary is in whole dollars.
// TeamID is the denormalized ownership field; empty means free agent.
type Player struct {
	ID               string
	Name             string
	Salary           int64
	IsRookie         bool
	RedshirtEligible bool
	IntStashEligible bool
	PriorKeeperRound int // 0 if the player was not kept last season
	TeamID           string
	Slot             Slot
}

// RosterSlots is the per-team slot-array projection of the canonical roster.
// Bench is a sub-selection of Active, not a disjoint set.
type RosterSlots struct {
	Active        []string
	IR            []string
	Redshirt      []string
	International []string
	Bench         []string
}

type Team struct {
	ID       string
	LeagueID string
	Name     string
	Owner    string
	// CapAdjustment is cap room gained or given up in past trades,
	// applied on top of the league base cap.
	CapAdjustment int64
	Roster        RosterSlots
}

// DraftPick records one executed selection from a season's draft.
// KeeperSlot picks re-assert an existing keeper and are skipped when
// rebuilding rosters from history.
type DraftPick struct {
	LeagueID   string
	SeasonYear int
	Round      int
	Pick       int
	TeamID     string
	PlayerID   string
	KeeperSlot bool
	PickedAt   time.Time
}
