package extract

import (
	"context"
	"fmt"

	"surplus-scraper/internal/core/fetch"
	"surplus-scraper/internal/core/listing"
	"surplus-scraper/internal/core/parse"
	"surplus-scraper/internal/logger"
)

// Progress describes the pipeline's state after processing one reference.
// Record is set when the item succeeded; Err holds a human-readable entry
// when it failed. Completed counts successful records so far.
type Progress struct {
	Completed   int
	Total       int
	CurrentItem string
	Record      *listing.Record
	Err         string
}

type ProgressFunc func(p Progress)

// Service drives the detail parser over discovered references, one at a
// time. The fetcher's limiter spaces successive requests, failed items
// included.
type Service struct {
	fetch  *fetch.Service
	parser *parse.Parser
	log    *logger.Logger
}

func NewService(fetcher *fetch.Service, parser *parse.Parser) *Service {
	return &Service{fetch: fetcher, parser: parser, log: logger.New("ExtractService")}
}

// Extract fetches and parses every reference sequentially. A single item's
// fetch or parse failure is recorded as an error entry and never aborts the
// batch. Output order matches input order minus failed items. The loop stops
// early only when ctx is cancelled.
func (s *Service) Extract(ctx context.Context, refs []listing.Reference, onProgress ProgressFunc) ([]listing.Record, []string) {
	records := []listing.Record{}
	errs := []string{}
	total := len(refs)

	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	for i, ref := range refs {
		if ctx.Err() != nil {
			s.log.LogWarnf("extraction cancelled after %d/%d items", i, total)
			break
		}
		s.log.LogDebugf("extracting %d/%d: item %s", i+1, total, ref.ItemID)

		markup, err := s.fetch.Fetch(ctx, ref.URL)
		if err != nil {
			entry := fmt.Sprintf("item %s (%s): %v", ref.ItemID, ref.URL, err)
			errs = append(errs, entry)
			report(Progress{Completed: len(records), Total: total, CurrentItem: ref.ItemID, Err: entry})
			continue
		}

		rec, err := s.parser.ParseDetail(markup, ref)
		if err != nil {
			entry := fmt.Sprintf("item %s (%s): %v", ref.ItemID, ref.URL, err)
			errs = append(errs, entry)
			report(Progress{Completed: len(records), Total: total, CurrentItem: ref.ItemID, Err: entry})
			continue
		}

		records = append(records, rec)
		report(Progress{Completed: len(records), Total: total, CurrentItem: ref.ItemID, Record: &rec})
	}

	return records, errs
}
