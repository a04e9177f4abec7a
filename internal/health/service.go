package health

import (
	"net/http"
	"time"

	"surplus-scraper/internal/core/job"
	"surplus-scraper/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// HealthHandler handles health check requests
type HealthHandler struct {
	log       *logger.Logger
	jobs      *job.Service
	startTime time.Time
	isReady   bool
}

func NewHealthHandler(jobs *job.Service) *HealthHandler {
	return &HealthHandler{
		log:       logger.New("HealthCheck"),
		jobs:      jobs,
		startTime: time.Now(),
		isReady:   false,
	}
}

// SetReady marks the application as ready to receive traffic
func (h *HealthHandler) SetReady() {
	h.isReady = true
	h.log.LogInfof("Application marked as ready for traffic after %v", time.Since(h.startTime))
}

type OverallHealth struct {
	OverallStatus string `json:"overall_status"`
	Timestamp     string `json:"timestamp"`
	Ready         bool   `json:"ready"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	ActiveJobs    int    `json:"active_jobs"`
}

// HandleHealth responds with the system's health status
func (h *HealthHandler) HandleHealth(c *fiber.Ctx) error {
	response := OverallHealth{
		Timestamp:     time.Now().UTC().Format(time.RFC3339Nano),
		Ready:         h.isReady,
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		ActiveJobs:    h.jobs.Active(),
	}

	if h.isReady {
		response.OverallStatus = "ok"
		return c.Status(http.StatusOK).JSON(response)
	}

	response.OverallStatus = "starting"
	h.log.LogDebugf("Health check: application not ready (uptime: %v)", time.Since(h.startTime))
	return c.Status(http.StatusServiceUnavailable).JSON(response)
}

func HealthLimiter() fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{"error": "Rate limit exceeded"})
		},
	})
}
