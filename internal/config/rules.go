package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dynastyhoops/capkeeper/internal/keeper"
)

// RulesConfig is the on-disk shape (YAML) of the league's cap and fee
// schedule. Zero-valued fields fall back to the league defaults.
type RulesConfig struct {
	BaseCap         int64 `yaml:"base_cap"`
	CapFloor        int64 `yaml:"cap_floor"`
	CapCeiling      int64 `yaml:"cap_ceiling"`
	PenaltyStart    int64 `yaml:"penalty_start"`
	PenaltyRatePerM int64 `yaml:"penalty_rate_per_m"`
	RedshirtFee     int64 `yaml:"redshirt_fee"`
	FranchiseTagFee int64 `yaml:"franchise_tag_fee"`
	FirstApronLine  int64 `yaml:"first_apron_line"`
	FirstApronFee   int64 `yaml:"first_apron_fee"`
}

// LoadRules reads the rules file at path, merges it over the defaults, and
// validates the result. An empty path returns the defaults untouched.
func LoadRules(path string) (keeper.Rules, error) {
	rules := keeper.DefaultRules()
	if path == "" {
		return rules, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("reading rules file: %w", err)
	}
	var rc RulesConfig
	if err := yaml.Unmarshal(raw, &rc); err != nil {
		return rules, fmt.Errorf("parsing rules file: %w", err)
	}

	overlay(&rules.BaseCap, rc.BaseCap)
	overlay(&rules.CapFloor, rc.CapFloor)
	overlay(&rules.CapCeiling, rc.CapCeiling)
	overlay(&rules.PenaltyStart, rc.PenaltyStart)
	overlay(&rules.PenaltyRatePerM, rc.PenaltyRatePerM)
	overlay(&rules.RedshirtFee, rc.RedshirtFee)
	overlay(&rules.FranchiseTagFee, rc.FranchiseTagFee)
	overlay(&rules.FirstApronLine, rc.FirstApronLine)
	overlay(&rules.FirstApronFee, rc.FirstApronFee)

	if err := validateRules(rules); err != nil {
		return rules, fmt.Errorf("invalid rules file %s: %w", path, err)
	}
	return rules, nil
}

func overlay(dst *int64, v int64) {
	if v != 0 {
		*dst = v
	}
}

func validateRules(r keeper.Rules) error {
	if r.CapFloor > r.CapCeiling {
		return fmt.Errorf("cap_floor %d exceeds cap_ceiling %d", r.CapFloor, r.CapCeiling)
	}
	if r.BaseCap < r.CapFloor || r.BaseCap > r.CapCeiling {
		return fmt.Errorf("base_cap %d outside [%d, %d]", r.BaseCap, r.CapFloor, r.CapCeiling)
	}
	if r.PenaltyStart <= 0 {
		return fmt.Errorf("penalty_start must be positive, got %d", r.PenaltyStart)
	}
	if r.PenaltyRatePerM < 0 || r.RedshirtFee < 0 || r.FranchiseTagFee < 0 || r.FirstApronFee < 0 {
		return fmt.Errorf("fees must be non-negative")
	}
	return nil
}
