package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/sutherm/glos-geo/internal/api"
)

// newTestClient builds a client with client-level retries disabled so the
// poller's own backoff is what gets exercised.
func newTestClient(url string) *api.Client {
	return api.NewClient(url, "ops@example.org", api.WithRetries(0, 10*time.Millisecond))
}

func TestPoller_AlreadyComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id": "ord-1", "status": "complete", "output_location": "https://files.example.com/ord-1.zip"}`))
	}))
	defer server.Close()

	p := New(DefaultConfig(), newTestClient(server.URL), nil)

	status, err := p.Await(context.Background(), "ord-1")
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if status.Status != api.OrderStatusComplete {
		t.Errorf("Status = %q, want %q", status.Status, api.OrderStatusComplete)
	}
	if status.OutputLocation != "https://files.example.com/ord-1.zip" {
		t.Errorf("OutputLocation = %q, want the download URL", status.OutputLocation)
	}
}

func TestPoller_PollsUntilComplete(t *testing.T) {
	fakeClock := clockwork.NewFakeClockAt(time.Date(2021, time.June, 1, 12, 0, 0, 0, time.UTC))
	SetClock(fakeClock)
	t.Cleanup(func() { SetClock(nil) })

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch calls.Add(1) {
		case 1:
			w.Write([]byte(`{"order_id": "ord-2", "status": "pending"}`))
		case 2:
			w.Write([]byte(`{"order_id": "ord-2", "status": "processing"}`))
		default:
			w.Write([]byte(`{"order_id": "ord-2", "status": "complete"}`))
		}
	}))
	defer server.Close()

	p := New(DefaultConfig(), newTestClient(server.URL), nil)

	type result struct {
		status api.OrderStatus
		err    error
	}
	done := make(chan result, 1)
	go func() {
		status, err := p.Await(context.Background(), "ord-2")
		done <- result{status, err}
	}()

	// Two non-terminal checks, so two interval waits to release.
	fakeClock.BlockUntil(1)
	fakeClock.Advance(30 * time.Second)
	fakeClock.BlockUntil(1)
	fakeClock.Advance(30 * time.Second)

	res := <-done
	if res.err != nil {
		t.Fatalf("Await failed: %v", res.err)
	}
	if res.status.Status != api.OrderStatusComplete {
		t.Errorf("Status = %q, want %q", res.status.Status, api.OrderStatusComplete)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("status checks = %d, want 3", got)
	}
}

func TestPoller_OrderFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id": "ord-3", "status": "failed", "message": "region too large"}`))
	}))
	defer server.Close()

	p := New(DefaultConfig(), newTestClient(server.URL), nil)

	_, err := p.Await(context.Background(), "ord-3")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var failErr *OrderFailedError
	if !errors.As(err, &failErr) {
		t.Fatalf("expected *OrderFailedError, got %T", err)
	}
	if failErr.Message != "region too large" {
		t.Errorf("Message = %q, want %q", failErr.Message, "region too large")
	}
}

func TestPoller_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id": "ord-4", "status": "pending"}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.MaxWait = 0 // Next wait would always overshoot.

	p := New(cfg, newTestClient(server.URL), nil)

	_, err := p.Await(context.Background(), "ord-4")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var waitErr *WaitTimeoutError
	if !errors.As(err, &waitErr) {
		t.Fatalf("expected *WaitTimeoutError, got %T", err)
	}
	if waitErr.OrderID != "ord-4" {
		t.Errorf("OrderID = %q, want %q", waitErr.OrderID, "ord-4")
	}
}

func TestPoller_NonRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": "no such order"}`))
	}))
	defer server.Close()

	p := New(DefaultConfig(), newTestClient(server.URL), nil)

	_, err := p.Await(context.Background(), "ord-missing")
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError in chain, got %T", err)
	}
	if apiErr.StatusCode != 404 {
		t.Errorf("StatusCode = %d, want 404", apiErr.StatusCode)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("status checks = %d, want 1 (no retry on 404)", got)
	}
}

func TestPoller_RetriesTransient(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"order_id": "ord-5", "status": "complete"}`))
	}))
	defer server.Close()

	p := New(DefaultConfig(), newTestClient(server.URL), nil)

	status, err := p.Await(context.Background(), "ord-5")
	if err != nil {
		t.Fatalf("Await failed: %v", err)
	}
	if status.Status != api.OrderStatusComplete {
		t.Errorf("Status = %q, want %q", status.Status, api.OrderStatusComplete)
	}
	if got := calls.Load(); got != 2 {
		t.Errorf("status checks = %d, want 2", got)
	}
}

func TestPoller_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"order_id": "ord-6", "status": "pending"}`))
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Interval = time.Hour

	p := New(cfg, newTestClient(server.URL), nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, err := p.Await(ctx, "ord-6")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
