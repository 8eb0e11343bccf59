package models

import "time"

// Decision is a team's declared intent for one player going into a season.
type Decision string

const (
	DecisionKeep     Decision = "KEEP"
	DecisionRedshirt Decision = "REDSHIRT"
	DecisionIntStash Decision = "INT_STASH"
	DecisionDrop     Decision = "DROP"
)

// RosterEntry is one team's declaration for one player.
// BaseRound is user-supplied; KeeperRound is derived by stacking and must be
// 0 (unset) whenever Decision != KEEP. NeedsReview is set when stacking ran
// out of rounds and pinned the entry to the last round.
type RosterEntry struct {
	PlayerID    string
	Decision    Decision
	BaseRound   int // 0 means not set
	KeeperRound int // 0 means not set; derived, never user-supplied
	NeedsReview bool
}

// RosterSummary is an immutable snapshot of a team's cap and fee position.
// It is recomputed wholesale on every change, never patched.
type RosterSummary struct {
	KeepersCount       int
	RedshirtsCount     int
	IntStashCount      int
	CapUsed            int64
	CapBase            int64
	CapTradeDelta      int64
	CapEffective       int64
	OverSecondApronByM int64
	PenaltyDues        int64
	FranchiseTags      int
	FranchiseTagDues   int64
	RedshirtDues       int64
	FirstApronFee      int64
	TotalFees          int64
}

// AssetType classifies one side of a trade asset.
type AssetType string

const (
	AssetKeeper     AssetType = "keeper"
	AssetRedshirt   AssetType = "redshirt"
	AssetIntStash   AssetType = "int_stash"
	AssetRookiePick AssetType = "rookie_pick"
)

// TradeAsset is one asset moving in a trade. PlayerID is empty for picks.
type TradeAsset struct {
	Type       AssetType
	PlayerID   string
	FromTeamID string
	ToTeamID   string
	Salary     int64
	PickRound  int
	ExecutedAt time.Time
}

// TeamCapImpact is the simulated before/after cap position for one team
// involved in a proposed trade. Ephemeral, never persisted.
type TeamCapImpact struct {
	TeamID    string
	Before    RosterSummary
	After     RosterSummary
	SalaryIn  int64
	SalaryOut int64
	Warnings  []string
}

// IssueKind tags one category of roster desynchronization.
type IssueKind string

const (
	IssueOrphanedID     IssueKind = "orphaned_id"
	IssueTeamIDMismatch IssueKind = "team_id_mismatch"
	IssueDuplicate      IssueKind = "duplicate"
	IssueNotInRoster    IssueKind = "not_in_roster"
)

// IntegrityIssue is one finding from a validation pass.
type IntegrityIssue struct {
	Kind        IssueKind
	PlayerID    string
	TeamIDs     []string
	Explanation string
}

// TeamWriteError reports a persistence failure for a single team during the
// reconciler's write sweep. Carries enough context to retry idempotently.
type TeamWriteError struct {
	TeamID    string
	Operation string
	Err       error
}

func (e TeamWriteError) Error() string {
	return "team " + e.TeamID + ": " + e.Operation + ": " + e.Err.Error()
}

// ReconcileResult summarizes one rebuild run. TeamErrors holds per-team
// write failures; the caller must inspect it even when the run succeeded.
type ReconcileResult struct {
	LeagueID          string
	SeasonYear        int
	TeamsFixed        int
	FAPickupsRestored int
	PlayersAssigned   int
	TeamErrors        []TeamWriteError
}
