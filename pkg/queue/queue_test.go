package queue_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sujinlee/moamall/pkg/queue"
)

// ─── Job types ────────────────────────────────────────────────────────────────

// processed collects the order IDs handled by confirmationJob so tests can
// wait for completion instead of sleeping.
var processed = make(chan uint, 64)

// confirmationJob mirrors the shape of the order-confirmation job: a small
// JSON payload carrying only the order ID, re-hydrated by the worker.
type confirmationJob struct {
	OrderID uint `json:"order_id"`
}

func (j *confirmationJob) Handle() error {
	processed <- j.OrderID
	return nil
}

// brokenSMTPJob always fails, standing in for a job whose mail host is down.
type brokenSMTPJob struct {
	OrderID uint `json:"order_id"`
}

func (j *brokenSMTPJob) Handle() error {
	return errors.New("smtp: connection refused")
}

func init() {
	queue.Register("*queue_test.confirmationJob", func() queue.Job { return &confirmationJob{} })
	queue.Register("*queue_test.brokenSMTPJob", func() queue.Job { return &brokenSMTPJob{} })

	// Workers run for the life of the test binary.
	queue.StartWorkers(context.Background(), 2)
}

func waitForOrder(t *testing.T, want uint) {
	t.Helper()
	deadline := time.After(3 * time.Second)
	for {
		select {
		case got := <-processed:
			if got == want {
				return
			}
			// A concurrent test's job; keep draining.
		case <-deadline:
			t.Fatalf("order %d was never processed", want)
		}
	}
}

// ─── Tests ────────────────────────────────────────────────────────────────────

func TestDispatchCarriesPayloadThroughWorker(t *testing.T) {
	if err := queue.Dispatch(&confirmationJob{OrderID: 101}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	waitForOrder(t, 101)
}

func TestDispatchAfterDelaysDelivery(t *testing.T) {
	start := time.Now()
	queue.DispatchAfter(&confirmationJob{OrderID: 202}, 100*time.Millisecond)
	waitForOrder(t, 202)

	if elapsed := time.Since(start); elapsed < 100*time.Millisecond {
		t.Errorf("job ran after %v, want at least the 100ms delay", elapsed)
	}
}

func TestExhaustedRetriesArePersisted(t *testing.T) {
	queue.SetMaxRetry(1)
	defer queue.SetMaxRetry(3)

	if err := queue.Dispatch(&brokenSMTPJob{OrderID: 303}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	// One attempt plus the backoff before the failure is recorded.
	deadline := time.After(5 * time.Second)
	for {
		if failed, ok := findFailedSMTP(); ok {
			if failed.Err == nil || !strings.Contains(failed.Err.Error(), "smtp") {
				t.Errorf("failed job error = %v, want the handler's error", failed.Err)
			}
			if job, ok := failed.Job.(*brokenSMTPJob); !ok || job.OrderID != 303 {
				t.Errorf("failed job = %#v, want the original order id 303", failed.Job)
			}
			if failed.Attempts != 1 {
				t.Errorf("attempts = %d, want 1", failed.Attempts)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("job never reached the failed list")
		case <-time.After(100 * time.Millisecond):
		}
	}
}

func findFailedSMTP() (queue.FailedJob, bool) {
	for _, j := range queue.FailedJobs() {
		if _, ok := j.Job.(*brokenSMTPJob); ok {
			return j, true
		}
	}
	return queue.FailedJob{}, false
}

func TestConcurrentDispatchDeliversEverything(t *testing.T) {
	const n = 20

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(id uint) {
			defer wg.Done()
			queue.Dispatch(&confirmationJob{OrderID: 1000 + id}) //nolint:errcheck
		}(uint(i))
	}
	wg.Wait()

	seen := map[uint]bool{}
	deadline := time.After(3 * time.Second)
	for len(seen) < n {
		select {
		case got := <-processed:
			if got >= 1000 && got < 1000+n {
				seen[got] = true
			}
		case <-deadline:
			t.Fatalf("only %d of %d jobs processed", len(seen), n)
		}
	}
}
