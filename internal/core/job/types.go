package job

import (
	"time"

	"surplus-scraper/internal/core/listing"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal reports whether no further transition can leave the status.
func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusFailed }

// Run is the mutable record of one discovery+extraction invocation. Total is
// set once discovery finishes, before extraction begins. Completed counts
// successfully extracted records. Partial success still ends in
// StatusCompleted with Errors populated; StatusFailed is reserved for an
// index that could not be reached at all.
type Run struct {
	JobID       string           `json:"job_id"`
	Status      Status           `json:"status"`
	Total       int              `json:"total"`
	Completed   int              `json:"completed"`
	CurrentItem string           `json:"current_item"`
	Records     []listing.Record `json:"records"`
	Errors      []string         `json:"errors"`
	CreatedAt   time.Time        `json:"created_at"`
}

// StatusView is the polling snapshot returned to callers.
type StatusView struct {
	JobID       string   `json:"job_id"`
	Status      Status   `json:"status"`
	Total       int      `json:"total"`
	Completed   int      `json:"completed"`
	CurrentItem string   `json:"current_item"`
	Errors      []string `json:"errors"`
}

// Summary is one row of the job listing.
type Summary struct {
	JobID     string    `json:"job_id"`
	Status    Status    `json:"status"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}
