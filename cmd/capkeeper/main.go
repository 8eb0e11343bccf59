package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/dynastyhoops/capkeeper/internal/audit"
	"github.com/dynastyhoops/capkeeper/internal/config"
	"github.com/dynastyhoops/capkeeper/internal/repository"
	"github.com/dynastyhoops/capkeeper/internal/repository/memory"
	"github.com/dynastyhoops/capkeeper/internal/repository/sqlite"
	"github.com/dynastyhoops/capkeeper/internal/roster"
	"github.com/dynastyhoops/capkeeper/internal/scheduler"
	"github.com/dynastyhoops/capkeeper/internal/service"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Error running application", "error", err)
		os.Exit(1)
	}
}

func run() error {
	validateOnce := flag.Bool("validate", false, "run one integrity scan and exit")
	rebuildOnce := flag.Bool("rebuild", false, "run one roster rebuild and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Error("Error loading .env file", "error", err)
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}
	rules, err := config.LoadRules(cfg.League.RulesFile)
	if err != nil {
		return err
	}

	var repo repository.Repository
	if cfg.Server.DBPath != "" {
		store, err := sqlite.Open(cfg.Server.DBPath)
		if err != nil {
			return err
		}
		defer store.Close()
		repo = store
	} else {
		repo = memory.NewRepository()
	}

	sink := audit.NewLogSink(slog.Default())
	reconciler := roster.NewReconciler(repo, sink)
	leagueService := service.NewLeagueService(repo, reconciler, rules, cfg.League.LeagueID, cfg.League.SeasonYear)

	if *validateOnce || *rebuildOnce {
		return runOnce(leagueService, *validateOnce, *rebuildOnce)
	}

	notify := func(report string) error {
		fmt.Println(report)
		return nil
	}

	sched, err := scheduler.NewScheduler(leagueService, notify, cfg.Jobs.ScanCron, cfg.Jobs.ReportCron)
	if err != nil {
		return err
	}

	if err := sched.Start(); err != nil {
		return err
	}
	defer func() {
		err := sched.Stop()
		if err != nil {
			slog.Error("Error stopping scheduler", "error", err)
		}
	}()

	http.HandleFunc("/", healthCheckHandler)

	go func() {
		if err := http.ListenAndServe(cfg.Server.ListenAddr, nil); err != nil {
			slog.Error("Error starting HTTP server", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	slog.Info("Shutting down gracefully...")

	return nil
}

func runOnce(leagueService *service.LeagueService, validate, rebuild bool) error {
	ctx := context.Background()
	if validate {
		_, report, err := leagueService.ValidateRosters(ctx)
		if err != nil {
			return err
		}
		fmt.Println(report)
	}
	if rebuild {
		result, report, err := leagueService.RebuildRosters(ctx)
		if err != nil {
			return err
		}
		fmt.Println(report)
		if len(result.TeamErrors) > 0 {
			return fmt.Errorf("rebuild completed with %d team errors", len(result.TeamErrors))
		}
	}
	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
