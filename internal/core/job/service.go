package job

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"surplus-scraper/internal/core/discover"
	"surplus-scraper/internal/core/extract"
	"surplus-scraper/internal/core/listing"
	"surplus-scraper/internal/logger"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

// Request is the caller-supplied scrape configuration.
type Request struct {
	// MaxItems caps how many listings the job scrapes; 0 means all.
	MaxItems int `json:"max_items"`
	// MenuID optionally scopes the job to one category subtree.
	MenuID string `json:"menuid"`
}

// Service is the in-memory job registry. The registry map supports concurrent
// insert and read; each run is mutated only by its own pipeline goroutine,
// through update, and exposed to pollers as snapshot copies.
type Service struct {
	discover *discover.Service
	extract  *extract.Service
	log      *logger.Logger

	mu   sync.RWMutex
	runs map[string]*runState
}

type runState struct {
	run    Run
	cancel context.CancelFunc
}

func NewService(discoverSvc *discover.Service, extractSvc *extract.Service) *Service {
	return &Service{
		discover: discoverSvc,
		extract:  extractSvc,
		log:      logger.New("JobService"),
		runs:     make(map[string]*runState),
	}
}

// newJobID derives an id from the start time, with a short random suffix so
// jobs started within the same second stay distinct.
func newJobID(now time.Time) string {
	return now.UTC().Format("20060102_150405") + "_" + uuid.NewString()[:8]
}

// Start registers a pending run and launches discovery+extraction in the
// background, returning the job id immediately.
func (s *Service) Start(req Request) string {
	now := time.Now()
	id := newJobID(now)
	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.runs[id] = &runState{
		run: Run{
			JobID:     id,
			Status:    StatusPending,
			Records:   []listing.Record{},
			Errors:    []string{},
			CreatedAt: now.UTC(),
		},
		cancel: cancel,
	}
	s.mu.Unlock()

	s.log.LogInfof("job %s started (max_items=%d menuid=%q)", id, req.MaxItems, req.MenuID)
	go s.runJob(ctx, cancel, id, req)
	return id
}

func (s *Service) runJob(ctx context.Context, cancel context.CancelFunc, id string, req Request) {
	defer cancel()

	s.update(id, func(r *Run) { r.Status = StatusRunning })

	refs, err := s.discover.Discover(ctx, discover.Request{MaxItems: req.MaxItems, MenuID: req.MenuID})
	if err != nil {
		s.log.LogErrorf("job %s failed: %v", id, err)
		s.update(id, func(r *Run) {
			r.Status = StatusFailed
			r.Errors = append(r.Errors, err.Error())
		})
		return
	}

	s.update(id, func(r *Run) { r.Total = len(refs) })

	s.extract.Extract(ctx, refs, func(p extract.Progress) {
		s.update(id, func(r *Run) {
			r.Completed = p.Completed
			r.CurrentItem = p.CurrentItem
			if p.Record != nil {
				r.Records = append(r.Records, *p.Record)
			}
			if p.Err != "" {
				r.Errors = append(r.Errors, p.Err)
			}
		})
	})

	s.update(id, func(r *Run) {
		if r.Status.Terminal() {
			return
		}
		r.Status = StatusCompleted
		r.CurrentItem = ""
	})
	s.log.LogInfof("job %s completed", id)
}

// update applies fn to the run under the registry lock. The run may have been
// deleted mid-flight; updates after deletion are dropped.
func (s *Service) update(id string, fn func(r *Run)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.runs[id]
	if !ok {
		return
	}
	fn(&state.run)
}

// Status returns a polling snapshot for the job.
func (s *Service) Status(id string) (StatusView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.runs[id]
	if !ok {
		return StatusView{}, ErrNotFound
	}
	r := state.run
	return StatusView{
		JobID:       r.JobID,
		Status:      r.Status,
		Total:       r.Total,
		Completed:   r.Completed,
		CurrentItem: r.CurrentItem,
		Errors:      append([]string{}, r.Errors...),
	}, nil
}

// Records returns the job's accumulated records; the partial set while the
// job is still running.
func (s *Service) Records(id string) ([]listing.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.runs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]listing.Record{}, state.run.Records...), nil
}

// Delete cancels the job if still running and removes its run record. A
// second delete of the same id fails with ErrNotFound.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	state, ok := s.runs[id]
	if ok {
		delete(s.runs, id)
	}
	s.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	state.cancel()
	s.log.LogInfof("job %s deleted", id)
	return nil
}

// List returns a summary per known job, newest first.
func (s *Service) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.runs))
	for _, state := range s.runs {
		out = append(out, Summary{
			JobID:     state.run.JobID,
			Status:    state.run.Status,
			Count:     len(state.run.Records),
			CreatedAt: state.run.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].JobID > out[j].JobID })
	return out
}

// Active counts jobs that have not reached a terminal status.
func (s *Service) Active() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, state := range s.runs {
		if !state.run.Status.Terminal() {
			n++
		}
	}
	return n
}
