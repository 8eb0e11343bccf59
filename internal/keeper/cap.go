package keeper

import "github.com/dynastyhoops/capkeeper/internal/models"

// Rules is the league's cap and fee schedule. Cap figures are whole
// dollars; dues and fees are in league fee dollars.
type Rules struct {
	BaseCap         int64
	CapFloor        int64
	CapCeiling      int64
	PenaltyStart    int64
	PenaltyRatePerM int64
	RedshirtFee     int64
	FranchiseTagFee int64
	FirstApronLine  int64
	FirstApronFee   int64
}

// DefaultRules returns the league's standing fee schedule.
func DefaultRules() Rules {
	return Rules{
		BaseCap:         210_000_000,
		CapFloor:        170_000_000,
		CapCeiling:      250_000_000,
		PenaltyStart:    210_000_000,
		PenaltyRatePerM: 2,
		RedshirtFee:     10,
		FranchiseTagFee: 15,
		FirstApronLine:  170_000_000,
		FirstApronFee:   50,
	}
}

// SalaryLookup resolves a player's salary from the league catalog.
// ok is false for unknown players, whose salary counts as zero.
type SalaryLookup func(playerID string) (int64, bool)

// Summarize derives a team's cap and fee snapshot from stacked entries.
// Only KEEP salaries count against the cap; redshirt and international
// stash players sit outside it and incur flat dues instead. All fee math
// is integer; the over-apron figure rounds up per started million.
func Summarize(entries []models.RosterEntry, salary SalaryLookup, tradeDelta int64, franchiseTags int, rules Rules) models.RosterSummary {
	s := models.RosterSummary{
		CapBase:       rules.BaseCap,
		CapTradeDelta: tradeDelta,
		FranchiseTags: franchiseTags,
	}

	for _, e := range entries {
		switch e.Decision {
		case models.DecisionKeep:
			s.KeepersCount++
			if sal, ok := salary(e.PlayerID); ok {
				s.CapUsed += sal
			}
		case models.DecisionRedshirt:
			s.RedshirtsCount++
		case models.DecisionIntStash:
			s.IntStashCount++
		}
	}

	s.CapEffective = clamp(rules.BaseCap+tradeDelta, rules.CapFloor, rules.CapCeiling)

	if over := s.CapUsed - rules.PenaltyStart; over > 0 {
		// ceil to the next started million
		s.OverSecondApronByM = (over + 999_999) / 1_000_000
	}
	s.PenaltyDues = s.OverSecondApronByM * rules.PenaltyRatePerM
	s.FranchiseTagDues = int64(franchiseTags) * rules.FranchiseTagFee
	s.RedshirtDues = int64(s.RedshirtsCount) * rules.RedshirtFee
	if s.CapUsed > rules.FirstApronLine {
		s.FirstApronFee = rules.FirstApronFee
	}
	s.TotalFees = s.PenaltyDues + s.FranchiseTagDues + s.RedshirtDues + s.FirstApronFee

	return s
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
