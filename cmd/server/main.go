// cmd/server/main.go
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/globalmedics/transcript-summarizer/internal/config"
	"github.com/globalmedics/transcript-summarizer/internal/llm"
	"github.com/globalmedics/transcript-summarizer/internal/logging"
	"github.com/globalmedics/transcript-summarizer/internal/metrics"
	"github.com/globalmedics/transcript-summarizer/internal/server"
	"github.com/globalmedics/transcript-summarizer/internal/soap"
)

func main() {
	envFile := flag.String("env-file", config.DefaultEnvFile(), "optional dotenv file (default from ENV_FILE)")
	flag.Parse()

	cfg, err := config.LoadConfig(*envFile)
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, closer, err := logging.New(cfg.Log, os.Stdout)
	if err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)
	slog.Info("configuration loaded successfully", "env_file", *envFile, "provider", cfg.Model.Provider)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	llmProvider, err := llm.NewOpenAI(&cfg.Model)
	if err != nil {
		log.Fatalf("failed to create LLM provider: %v", err)
	}

	summarizer := soap.New(llmProvider, soap.WithTimeout(cfg.Model.Timeout), soap.WithMetrics(m))

	srv := server.New(*cfg, summarizer, m)
	slog.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port, "legacy_errors", cfg.Server.LegacyErrors)
	if err := srv.Run(); err != nil {
		slog.Error("server failed", "error", err)
		closer.Close()
		os.Exit(1)
	}
}
