package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/robfig/cron/v3"
)

type Config struct {
	League League
	Server Server
	Jobs   Jobs
}

type League struct {
	LeagueID   string `envconfig:"LEAGUE_ID" required:"true"`
	SeasonYear int    `envconfig:"SEASON_YEAR" required:"true"`
	// RulesFile optionally overrides the default cap and fee schedule.
	RulesFile string `envconfig:"RULES_FILE"`
}

type Server struct {
	// DBPath selects the SQLite store; empty runs on the in-memory store.
	DBPath     string `envconfig:"DB_PATH"`
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`
}

type Jobs struct {
	ScanCron   string `envconfig:"SCAN_CRON" default:"30 7 * * *"`
	ReportCron string `envconfig:"REPORT_CRON" default:"0 8 * * 1"`
}

func New() (*Config, error) {
	var c Config
	err := envconfig.Process("", &c)
	if err != nil {
		return nil, err
	}
	for name, spec := range map[string]string{
		"SCAN_CRON":   c.Jobs.ScanCron,
		"REPORT_CRON": c.Jobs.ReportCron,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			return nil, fmt.Errorf("invalid %s %q: %w", name, spec, err)
		}
	}
	return &c, nil
}
