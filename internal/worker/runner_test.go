package worker_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/nyashahama/ecmo-advisor-backend/internal/assess"
	"github.com/nyashahama/ecmo-advisor-backend/internal/worker"
)

// ─── STUBS ────────────────────────────────────────────────────────────────────

type stubPersister struct {
	mu    sync.Mutex
	saved []assess.Assessment

	// failures counts down: while positive, SaveAssessment fails.
	failures int
}

func (s *stubPersister) SaveAssessment(_ context.Context, a assess.Assessment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("database unavailable")
	}
	s.saved = append(s.saved, a)
	return nil
}

func (s *stubPersister) savedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}

// ─── Runner ───────────────────────────────────────────────────────────────────

func TestRunner_ArchivesEnqueuedAssessment(t *testing.T) {
	persister := &stubPersister{}
	runner := worker.NewRunner(persister, worker.RunnerConfig{Workers: 1}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Start(ctx)

	a := assess.Assessment{AssessmentID: "a-1", PatientID: "PATIENT_1"}
	if err := runner.Enqueue(context.Background(), a); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	waitFor(t, func() bool { return persister.savedCount() == 1 })

	persister.mu.Lock()
	defer persister.mu.Unlock()
	if persister.saved[0].AssessmentID != "a-1" {
		t.Errorf("saved wrong assessment: %q", persister.saved[0].AssessmentID)
	}
}

func TestRunner_RetriesTransientFailure(t *testing.T) {
	// First attempt fails, second succeeds. Back-off between attempts is 2s,
	// so allow a generous wait.
	persister := &stubPersister{failures: 1}
	runner := worker.NewRunner(persister, worker.RunnerConfig{Workers: 1, MaxRetries: 3}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go runner.Start(ctx)

	if err := runner.Enqueue(context.Background(), assess.Assessment{AssessmentID: "a-2"}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) && persister.savedCount() == 0 {
		time.Sleep(20 * time.Millisecond)
	}
	if persister.savedCount() != 1 {
		t.Fatal("expected the archive write to succeed on retry")
	}
}

func TestRunner_EnqueueFullQueueReturnsError(t *testing.T) {
	// Runner never started, so nothing drains the queue. Capacity is
	// Workers*8; fill it and confirm the next enqueue is rejected, not
	// blocked.
	persister := &stubPersister{}
	runner := worker.NewRunner(persister, worker.RunnerConfig{Workers: 1}, discardLogger())

	ctx := context.Background()
	for i := 0; i < 8; i++ {
		if err := runner.Enqueue(ctx, assess.Assessment{}); err != nil {
			t.Fatalf("enqueue %d: %v", i, err)
		}
	}
	if err := runner.Enqueue(ctx, assess.Assessment{}); err == nil {
		t.Fatal("expected an error when the queue is full")
	}
}

func TestRunner_StopsOnContextCancel(t *testing.T) {
	persister := &stubPersister{}
	runner := worker.NewRunner(persister, worker.RunnerConfig{Workers: 2}, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		runner.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("runner did not stop after context cancellation")
	}
}

func TestRunnerConfig_ZeroValuesGetDefaults(t *testing.T) {
	def := worker.DefaultRunnerConfig()
	if def.Workers != 2 || def.SaveTimeout != 30*time.Second || def.MaxRetries != 3 {
		t.Errorf("unexpected defaults: %+v", def)
	}
}
