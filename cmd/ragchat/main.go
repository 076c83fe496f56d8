package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ragchat/internal/app"
	"ragchat/internal/config"
	"ragchat/internal/domain"
	"ragchat/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragchat/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()

	log, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	var cfg *config.AppConfig
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	}

	svc, err := app.NewService(cfg, log)
	if err != nil {
		log.Fatal("failed to assemble components", zap.Error(err))
	}

	// With document arguments we ingest fresh; otherwise we serve from
	// the persisted snapshot.
	summary := ""
	if len(inputs) > 0 {
		report, err := svc.Ingest(inputs)
		if err != nil {
			log.Fatal("ingestion failed", zap.Error(err))
		}
		summary = report.Summary
	} else if err := svc.LoadSnapshot(); err != nil {
		if errors.Is(err, domain.ErrIndexUnavailable) {
			fmt.Fprintf(os.Stderr, "No usable index snapshot at %s.\n", cfg.Index.Path)
			fmt.Fprintln(os.Stderr, "Run `ingest file1.txt ...` first, or pass documents: ragchat file1.txt")
			os.Exit(1)
		}
		log.Fatal("failed to load snapshot", zap.Error(err))
	}

	m := tui.New(svc, app.NewGenerator(cfg), summary)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal("tui failed", zap.Error(err))
	}
}
