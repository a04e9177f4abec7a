package discover

import (
	"context"
	"fmt"
	"time"

	"surplus-scraper/internal/config"
	"surplus-scraper/internal/core/fetch"
	"surplus-scraper/internal/core/listing"
	"surplus-scraper/internal/core/parse"
	"surplus-scraper/internal/logger"
	"surplus-scraper/internal/utils/retry"
)

// Service walks the paginated all-items index and accumulates listing
// references in the order encountered.
type Service struct {
	fetch   *fetch.Service
	parser  *parse.Parser
	retries int
	backoff time.Duration
	log     *logger.Logger
}

func NewService(fetcher *fetch.Service, parser *parse.Parser, cfg config.Config) *Service {
	return &Service{
		fetch:   fetcher,
		parser:  parser,
		retries: cfg.PageRetries,
		backoff: time.Second,
		log:     logger.New("DiscoverService"),
	}
}

type Request struct {
	// MaxItems caps the number of references returned; 0 means no cap.
	MaxItems int
	// MenuID scopes discovery to one category subtree; empty means all items.
	MenuID string
}

// Discover walks index pages starting at page 1, deduplicating by item id
// (first occurrence wins), until the site reports no further page, the cap is
// reached, or a page fetch fails after retries. A failed page truncates
// discovery and returns what was gathered; only an unreachable first page is
// an error, since that means the index itself could not be read at all.
func (s *Service) Discover(ctx context.Context, req Request) ([]listing.Reference, error) {
	refs := []listing.Reference{}
	seen := map[string]struct{}{}

	for page := 1; ; page++ {
		pageURL := s.parser.IndexURL(page, req.MenuID)

		var markup string
		err := retry.Do(s.retries, s.backoff, func() error {
			var ferr error
			markup, ferr = s.fetch.Fetch(ctx, pageURL)
			return ferr
		})
		if err != nil {
			if page == 1 {
				return nil, fmt.Errorf("index unreachable: %w", err)
			}
			s.log.LogWarnf("page %d fetch failed, truncating discovery at %d items: %v", page, len(refs), err)
			return refs, nil
		}

		pageRefs, hasNext := s.parser.ParseIndex(markup, page)
		s.log.LogDebugf("page %d yielded %d items (hasNext=%v)", page, len(pageRefs), hasNext)
		if len(pageRefs) == 0 {
			break
		}

		for _, ref := range pageRefs {
			if _, dup := seen[ref.ItemID]; dup {
				continue
			}
			seen[ref.ItemID] = struct{}{}
			refs = append(refs, ref)
			if req.MaxItems > 0 && len(refs) >= req.MaxItems {
				s.log.LogInfof("discovery reached cap of %d items", req.MaxItems)
				return refs[:req.MaxItems], nil
			}
		}

		if !hasNext {
			break
		}
	}

	s.log.LogInfof("discovery finished with %d items", len(refs))
	return refs, nil
}
