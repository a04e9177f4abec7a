package main

import (
	"bytes"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"surplus-scraper/internal/config"
	"surplus-scraper/internal/core/discover"
	"surplus-scraper/internal/core/extract"
	"surplus-scraper/internal/core/fetch"
	"surplus-scraper/internal/core/job"
	"surplus-scraper/internal/core/parse"
	"surplus-scraper/internal/logger"
	"surplus-scraper/internal/server"
)

func main() {
	cfg := config.Load()
	log.Printf("[surplus-scraper] starting at %s (env=%s base=%s)\n", cfg.HTTPAddr, cfg.AppEnv, cfg.BaseURL)

	logr := logger.New("main")

	// Core services
	parser, err := parse.NewParser(cfg)
	if err != nil {
		log.Fatal(err)
	}
	fetchSvc := fetch.NewService(cfg)
	discoverSvc := discover.NewService(fetchSvc, parser, cfg)
	extractSvc := extract.NewService(fetchSvc, parser)
	jobSvc := job.NewService(discoverSvc, extractSvc)

	// HTTP server
	app := fiber.New(fiber.Config{
		AppName: "Surplus Equipment Scraper",
		JSONEncoder: func(v interface{}) ([]byte, error) {
			var buf bytes.Buffer
			encoder := json.NewEncoder(&buf)
			encoder.SetEscapeHTML(false)
			if err := encoder.Encode(v); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		},
	})

	deps := server.Dependencies{Job: jobSvc}
	healthHandler := server.RegisterRoutes(app, deps)
	healthHandler.SetReady()

	// Graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-shutdown
		logr.LogInfo("Shutting down...")
		_ = app.ShutdownWithTimeout(5 * time.Second)
	}()

	if err := app.Listen(cfg.HTTPAddr); err != nil {
		log.Fatalf("server listen: %v", err)
	}
}
