package retry

import (
	"fmt"
	"time"
)

// Do runs fn up to attempts times, sleeping backoff, 2*backoff, 4*backoff...
// between failures. Returns nil on the first success, or the last error once
// attempts are exhausted.
func Do(attempts int, backoff time.Duration, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt < attempts && backoff > 0 {
			time.Sleep(backoff << uint(attempt-1))
		}
	}
	return fmt.Errorf("%d attempts failed: %w", attempts, lastErr)
}
