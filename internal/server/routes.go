package server

import (
	"surplus-scraper/internal/core/job"
	"surplus-scraper/internal/health"

	"github.com/gofiber/fiber/v2"
)

type Dependencies struct {
	Job *job.Service
}

func RegisterRoutes(app *fiber.App, d Dependencies) *health.HealthHandler {
	// Health endpoints
	healthHandler := health.NewHealthHandler(d.Job)
	app.Get("/v1/health", health.HealthLimiter(), healthHandler.HandleHealth)

	api := app.Group("/v1")

	jobHandler := job.NewHandler(d.Job)
	api.Post("/scrape", jobHandler.HandleCreate)
	api.Get("/scrape/:jobId", jobHandler.HandleGetStatus)
	api.Get("/scrape/:jobId/records", jobHandler.HandleGetRecords)
	api.Get("/scrape/:jobId/export/csv", jobHandler.HandleExportCSV)
	api.Get("/scrape/:jobId/export/json", jobHandler.HandleExportJSON)
	api.Delete("/scrape/:jobId", jobHandler.HandleDelete)
	api.Get("/jobs", jobHandler.HandleList)

	return healthHandler
}
