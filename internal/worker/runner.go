// Package worker contains the background pool that archives completed
// assessments. The HTTP layer answers the caller synchronously with the
// freshly assembled artifact and hands a copy to this pool, so database
// latency never sits on the response path. It is intentionally decoupled from
// the HTTP layer: the api package holds an Enqueuer interface and calls
// Enqueue — it never imports the concrete Runner type.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/nyashahama/ecmo-advisor-backend/internal/assess"
)

// ─── INTERFACES ───────────────────────────────────────────────────────────────

// Enqueuer is the narrow interface the api package uses to hand off a
// completed assessment for archival. The concrete implementation is *Runner.
// In tests, any struct with an Enqueue method satisfies the interface.
type Enqueuer interface {
	Enqueue(ctx context.Context, a assess.Assessment) error
}

// Persister is what the Runner needs from the storage layer. *store.Store
// satisfies it; tests inject a stub.
type Persister interface {
	SaveAssessment(ctx context.Context, a assess.Assessment) error
}

// ─── RUNNER ───────────────────────────────────────────────────────────────────

// RunnerConfig holds tuning parameters for the Runner. All fields have
// sensible defaults if zero-valued; call DefaultRunnerConfig() to get them.
type RunnerConfig struct {
	// Workers is the number of concurrent archival goroutines. Default: 2.
	Workers int

	// SaveTimeout is the per-save context deadline. Default: 30s.
	SaveTimeout time.Duration

	// MaxRetries is the number of attempts per assessment before the archive
	// write is abandoned with an error log. Default: 3.
	MaxRetries int
}

// DefaultRunnerConfig returns safe production defaults.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Workers:     2,
		SaveTimeout: 30 * time.Second,
		MaxRetries:  3,
	}
}

// Runner manages the pool of archival goroutines behind a bounded in-process
// channel. Losing an archive write is logged, never surfaced to the patient
// evaluation — the artifact was already delivered to the caller.
type Runner struct {
	persister Persister
	cfg       RunnerConfig
	logger    *slog.Logger

	queue chan assess.Assessment
	wg    sync.WaitGroup
}

// NewRunner constructs a Runner. Call Start() to begin processing.
func NewRunner(persister Persister, cfg RunnerConfig, logger *slog.Logger) *Runner {
	def := DefaultRunnerConfig()
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if cfg.SaveTimeout <= 0 {
		cfg.SaveTimeout = def.SaveTimeout
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = def.MaxRetries
	}

	return &Runner{
		persister: persister,
		cfg:       cfg,
		logger:    logger,
		// Buffer sized well above Workers so Enqueue never blocks under
		// normal load.
		queue: make(chan assess.Assessment, cfg.Workers*8),
	}
}

// Enqueue pushes an assessment onto the in-process channel. It satisfies the
// Enqueuer interface. If the channel is full it returns an error rather than
// blocking the HTTP response; the caller logs and moves on.
func (r *Runner) Enqueue(_ context.Context, a assess.Assessment) error {
	select {
	case r.queue <- a:
		return nil
	default:
		return errors.New("worker: queue is full, assessment will not be archived")
	}
}

// Start launches the worker pool. It blocks until ctx is cancelled; call it
// in a goroutine from main:
//
//	go runner.Start(ctx)
func (r *Runner) Start(ctx context.Context) {
	r.logger.Info("worker: starting", "workers", r.cfg.Workers)

	for i := 0; i < r.cfg.Workers; i++ {
		r.wg.Add(1)
		go r.work(ctx, i)
	}

	r.wg.Wait()
	r.logger.Info("worker: stopped")
}

// work is the inner loop for each archival goroutine.
func (r *Runner) work(ctx context.Context, id int) {
	defer r.wg.Done()
	log := r.logger.With("worker_id", id)

	for {
		select {
		case <-ctx.Done():
			return
		case a := <-r.queue:
			r.saveWithRetry(ctx, a, log)
		}
	}
}

// saveWithRetry attempts the archive write up to MaxRetries times with
// exponential back-off. Exhausting the retries logs the loss and drops the
// assessment — the evaluation itself already completed.
func (r *Runner) saveWithRetry(ctx context.Context, a assess.Assessment, log *slog.Logger) {
	var lastErr error

	for attempt := 1; attempt <= r.cfg.MaxRetries; attempt++ {
		saveCtx, cancel := context.WithTimeout(ctx, r.cfg.SaveTimeout)
		lastErr = r.persister.SaveAssessment(saveCtx, a)
		cancel()

		if lastErr == nil {
			log.Debug("worker: assessment archived",
				"assessment_id", a.AssessmentID,
				"patient_id", a.PatientID,
				"attempt", attempt,
			)
			return
		}

		log.Warn("worker: archive attempt failed",
			"assessment_id", a.AssessmentID,
			"attempt", attempt,
			"max", r.cfg.MaxRetries,
			"error", lastErr,
		)

		if attempt < r.cfg.MaxRetries {
			// Exponential back-off: 2s, 4s, 8s …
			backoff := time.Duration(1<<attempt) * time.Second
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
		}
	}

	log.Error("worker: assessment archive abandoned",
		"assessment_id", a.AssessmentID,
		"patient_id", a.PatientID,
		"error", lastErr,
	)
}
