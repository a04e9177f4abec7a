package job

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"surplus-scraper/internal/config"
	"surplus-scraper/internal/core/discover"
	"surplus-scraper/internal/core/extract"
	"surplus-scraper/internal/core/fetch"
	"surplus-scraper/internal/core/parse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixtureSite serves one index page of ten items plus a detail page per item.
type fixtureSite struct {
	indexDown bool
	failItem  string // this item's detail page returns a server error
}

func (f *fixtureSite) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/mAllitems.cfm":
			if f.indexDown {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			var b strings.Builder
			b.WriteString("<html><body><table>")
			for i := 1; i <= 10; i++ {
				fmt.Fprintf(&b, `<tr><td class="itemid"><a class="collink0" href="iinfo.cfm?ItemNo=%d">%d</a></td></tr>`, 100+i, 100+i)
			}
			b.WriteString("</table></body></html>")
			_, _ = w.Write([]byte(b.String()))
		case "/iinfo.cfm":
			id := r.URL.Query().Get("ItemNo")
			if id == f.failItem {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			fmt.Fprintf(w, `<html><body><h1 class="HL1"><span class="HL1">Equipment %s</span></h1></body></html>`, id)
		default:
			http.NotFound(w, r)
		}
	})
}

func newTestService(t *testing.T, site *fixtureSite) *Service {
	t.Helper()
	srv := httptest.NewServer(site.handler())
	t.Cleanup(srv.Close)

	cfg := config.Config{
		BaseURL:         srv.URL + "/",
		PageSize:        100,
		PageRetries:     1,
		DefaultLocation: "Regensburg, Germany",
	}
	parser, err := parse.NewParser(cfg)
	require.NoError(t, err)
	fetchSvc := fetch.NewService(cfg)
	return NewService(discover.NewService(fetchSvc, parser, cfg), extract.NewService(fetchSvc, parser))
}

func waitForTerminal(t *testing.T, svc *Service, id string) StatusView {
	t.Helper()
	var view StatusView
	require.Eventually(t, func() bool {
		v, err := svc.Status(id)
		if err != nil {
			return false
		}
		view = v
		return v.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)
	return view
}

func TestJobRunsToCompletionWithCap(t *testing.T) {
	svc := newTestService(t, &fixtureSite{})

	id := svc.Start(Request{MaxItems: 3})

	view, err := svc.Status(id)
	require.NoError(t, err, "status must be visible immediately after start")
	assert.Contains(t, []Status{StatusPending, StatusRunning, StatusCompleted}, view.Status)

	view = waitForTerminal(t, svc, id)
	assert.Equal(t, StatusCompleted, view.Status)
	assert.Equal(t, 3, view.Total)
	assert.Equal(t, 3, view.Completed)
	assert.Empty(t, view.Errors)

	records, err := svc.Records(id)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "101", records[0].ItemID)
	assert.Equal(t, "Equipment 101", records[0].Title)
}

func TestJobCompletesWithPartialFailures(t *testing.T) {
	svc := newTestService(t, &fixtureSite{failItem: "103"})

	id := svc.Start(Request{MaxItems: 5})
	view := waitForTerminal(t, svc, id)

	assert.Equal(t, StatusCompleted, view.Status, "partial success is still completed")
	assert.Equal(t, 5, view.Total)
	assert.Equal(t, 4, view.Completed)
	require.Len(t, view.Errors, 1)
	assert.Contains(t, view.Errors[0], "item 103")

	records, err := svc.Records(id)
	require.NoError(t, err)
	require.Len(t, records, 4)
	for _, rec := range records {
		assert.NotEqual(t, "103", rec.ItemID)
	}
}

func TestJobFailsWhenIndexUnreachable(t *testing.T) {
	svc := newTestService(t, &fixtureSite{indexDown: true})

	id := svc.Start(Request{})
	view := waitForTerminal(t, svc, id)

	assert.Equal(t, StatusFailed, view.Status)
	require.Len(t, view.Errors, 1)
	assert.Contains(t, view.Errors[0], "index unreachable")

	records, err := svc.Records(id)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestJobStatusUnknownID(t *testing.T) {
	svc := newTestService(t, &fixtureSite{})

	_, err := svc.Status("nope")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Records("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobDeleteRemovesRun(t *testing.T) {
	svc := newTestService(t, &fixtureSite{})

	id := svc.Start(Request{MaxItems: 1})
	waitForTerminal(t, svc, id)

	require.NoError(t, svc.Delete(id))
	assert.ErrorIs(t, svc.Delete(id), ErrNotFound, "second delete legitimately fails")
	_, err := svc.Status(id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestJobListSummaries(t *testing.T) {
	svc := newTestService(t, &fixtureSite{})

	a := svc.Start(Request{MaxItems: 1})
	b := svc.Start(Request{MaxItems: 2})
	waitForTerminal(t, svc, a)
	waitForTerminal(t, svc, b)

	jobs := svc.List()
	require.Len(t, jobs, 2)
	counts := map[string]int{}
	for _, j := range jobs {
		counts[j.JobID] = j.Count
		assert.Equal(t, StatusCompleted, j.Status)
	}
	assert.Equal(t, 1, counts[a])
	assert.Equal(t, 2, counts[b])
}

func TestJobIDsAreUnique(t *testing.T) {
	now := time.Now()
	a := newJobID(now)
	b := newJobID(now)
	assert.NotEqual(t, a, b)
	assert.Equal(t, now.UTC().Format("20060102_150405"), a[:15])
}
