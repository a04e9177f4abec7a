package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"surplus-scraper/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReturnsBody(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		_, _ = w.Write([]byte("<html>ok</html>"))
	}))
	t.Cleanup(srv.Close)

	svc := NewService(config.Config{UserAgent: "test-agent", RequestTimeout: time.Second})
	body, err := svc.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "<html>ok</html>", body)
	assert.Equal(t, "test-agent", gotUA)
}

func TestFetchNon2xxIsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	svc := NewService(config.Config{RequestTimeout: time.Second})
	_, err := svc.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Equal(t, http.StatusNotFound, ferr.Status)
	assert.Equal(t, srv.URL, ferr.URL)
}

func TestFetchNetworkFailureIsTypedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused

	svc := NewService(config.Config{RequestTimeout: time.Second})
	_, err := svc.Fetch(context.Background(), srv.URL)

	var ferr *Error
	require.True(t, errors.As(err, &ferr))
	assert.Zero(t, ferr.Status)
	assert.NotNil(t, ferr.Unwrap())
}

func TestFetchSpacesSuccessiveRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(srv.Close)

	delay := 50 * time.Millisecond
	svc := NewService(config.Config{RequestTimeout: time.Second, PolitenessDelay: delay})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := svc.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}
	// First request is immediate; the next two wait one interval each.
	assert.GreaterOrEqual(t, time.Since(start), 2*delay)
}

func TestFetchRespectsCancelledContext(t *testing.T) {
	svc := NewService(config.Config{RequestTimeout: time.Second, PolitenessDelay: time.Minute})
	_, _ = svc.Fetch(context.Background(), "http://127.0.0.1:0/") // consume the initial token

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Fetch(ctx, "http://127.0.0.1:0/")
	require.Error(t, err)
}
