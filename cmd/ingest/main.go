package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"ragchat/internal/app"
	"ragchat/internal/config"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/ragchat/config.yaml if not provided)")
	flag.Parse()
	inputs := flag.Args()
	if len(inputs) == 0 {
		fmt.Println("Usage: ingest [--config=config.yaml] file1.txt [glob ...]")
		os.Exit(1)
	}

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

	report, err := svc.Ingest(inputs)
	if err != nil {
		log.Fatal("ingestion failed", zap.Error(err))
	}
	log.Info("ingestion complete",
		zap.Int("documents", report.Documents),
		zap.Int("skipped", report.Skipped),
		zap.Int("chunks", report.Chunks),
		zap.String("snapshot", cfg.Index.Path))
	if report.Summary != "" {
		fmt.Println(report.Summary)
	}
}
