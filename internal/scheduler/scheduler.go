// Package scheduler runs the recurring league jobs: the nightly roster
// integrity scan and the weekly cap report.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/dynastyhoops/capkeeper/internal/service"
)

type Scheduler struct {
	s             gocron.Scheduler
	leagueService *service.LeagueService
	notify        func(string) error
	scanCron      string
	reportCron    string
}

// NewScheduler builds the job runner. notify receives each job's report
// text; cron specs are standard five-field expressions, validated at
// config load.
func NewScheduler(leagueService *service.LeagueService, notify func(string) error, scanCron, reportCron string) (*Scheduler, error) {
	location, err := time.LoadLocation("America/Chicago")
	if err != nil {
		slog.Error("Failed to load location", "error", err)
		location = time.UTC
	}

	s, err := gocron.NewScheduler(
		gocron.WithLocation(location),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		s:             s,
		leagueService: leagueService,
		notify:        notify,
		scanCron:      scanCron,
		reportCron:    reportCron,
	}, nil
}

func (s *Scheduler) Start() error {
	_, err := s.s.NewJob(
		gocron.CronJob(s.scanCron, false),
		gocron.NewTask(s.runIntegrityScan),
	)
	if err != nil {
		return fmt.Errorf("failed to create integrity scan job: %w", err)
	}

	_, err = s.s.NewJob(
		gocron.CronJob(s.reportCron, false),
		gocron.NewTask(s.sendCapReport),
	)
	if err != nil {
		return fmt.Errorf("failed to create cap report job: %w", err)
	}

	s.s.Start()
	return nil
}

func (s *Scheduler) Stop() error {
	return s.s.Shutdown()
}

func (s *Scheduler) runIntegrityScan() {
	issues, report, err := s.leagueService.ValidateRosters(context.Background())
	if err != nil {
		slog.Error("Failed to run integrity scan", "error", err)
		return
	}
	// Quiet nights stay quiet.
	if len(issues) == 0 {
		slog.Info("Integrity scan clean")
		return
	}
	s.notify(report)
}

func (s *Scheduler) sendCapReport() {
	report, err := s.leagueService.GetLeagueCapReport(context.Background())
	if err != nil {
		slog.Error("Failed to build league cap report", "error", err)
		return
	}
	s.notify(report)
}
