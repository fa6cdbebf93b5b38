// Package turnover completes bed cleaning cycles after their
// configured duration. Instead of one timer per bed, a single
// periodic sweep scans for due jobs and completes them, so manual
// completion only has to flip a row and never has to chase a
// goroutine.
package turnover

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/arivanan0218/hospital-management-system-sub006/internal/apperr"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/lifecycle"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/metrics"
	"github.com/arivanan0218/hospital-management-system-sub006/internal/model"
)

// Sweeper owns the turnover job table and the background sweep loop.
type Sweeper struct {
	db        *gorm.DB
	lifecycle *lifecycle.Manager
	interval  time.Duration
	enabled   bool
}

// NewSweeper creates a sweeper. interval is how often the background
// loop scans for due jobs.
func NewSweeper(db *gorm.DB, lc *lifecycle.Manager, interval time.Duration, enabled bool) *Sweeper {
	return &Sweeper{db: db, lifecycle: lc, interval: interval, enabled: enabled}
}

// Tx returns a copy of the sweeper bound to the given transaction
// handle so a job can be scheduled as part of a larger unit.
func (s *Sweeper) Tx(tx *gorm.DB) *Sweeper {
	cp := *s
	cp.db = tx
	return &cp
}

// Schedule registers a turnover job for the bed, due after duration.
// A bed holds at most one job: scheduling while a previous job is
// pending replaces it rather than duplicating it.
func (s *Sweeper) Schedule(ctx context.Context, bedID int64, duration time.Duration) (*model.TurnoverJob, error) {
	now := time.Now().UTC()
	job := model.TurnoverJob{
		BedID:     bedID,
		StartedAt: now,
		Deadline:  now.Add(duration),
		Status:    model.TurnoverScheduled,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "bed_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"started_at", "deadline", "status", "updated_at"}),
	}).Create(&job).Error
	if err != nil {
		return nil, apperr.Transient("turnover job schedule failed", err)
	}
	return &job, nil
}

// Cancel marks the bed's pending job cancelled. Cancelling a bed
// with no pending job is a no-op. The same statement runs inline in
// lifecycle.CompleteCleaning, which cannot import this package; keep
// the two in sync.
func (s *Sweeper) Cancel(ctx context.Context, bedID int64) error {
	err := s.db.WithContext(ctx).
		Model(&model.TurnoverJob{}).
		Where("bed_id = ? AND status = ?", bedID, model.TurnoverScheduled).
		Update("status", model.TurnoverCancelled).Error
	if err != nil {
		return apperr.Transient("turnover job cancel failed", err)
	}
	return nil
}

// Run executes the sweep loop until the context is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	if !s.enabled {
		log.Println("Turnover sweeper is disabled. Not starting.")
		return
	}
	log.Printf("Starting turnover sweeper (interval %s)...", s.interval)

	s.SweepOnce(ctx)

	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Turnover sweeper shutting down.")
			return
		case <-timer.C:
			s.SweepOnce(ctx)
			timer.Reset(s.interval)
		}
	}
}

// SweepOnce completes every scheduled job whose deadline has passed.
// It returns the number of beds transitioned back to available.
func (s *Sweeper) SweepOnce(ctx context.Context) int {
	started := time.Now()
	defer func() { metrics.SweepDuration.Observe(time.Since(started).Seconds()) }()

	now := time.Now().UTC()
	var due []model.TurnoverJob
	err := s.db.WithContext(ctx).
		Where("status = ? AND deadline <= ?", model.TurnoverScheduled, now).
		Find(&due).Error
	if err != nil {
		log.Printf("Sweep: due-job query failed: %v", err)
		return 0
	}

	completed := 0
	for _, job := range due {
		if s.completeJob(ctx, job) {
			completed++
		}
	}
	if completed > 0 {
		log.Printf("Sweep: completed %d turnover job(s)", completed)
	}
	return completed
}

// completeJob claims the job and flips its bed to available. The
// claim is a status guard, so a concurrent manual completion (which
// cancels the job) and the sweep cannot both act on it.
func (s *Sweeper) completeJob(ctx context.Context, job model.TurnoverJob) bool {
	res := s.db.WithContext(ctx).
		Model(&model.TurnoverJob{}).
		Where("id = ? AND status = ?", job.ID, model.TurnoverScheduled).
		Update("status", model.TurnoverCompleted)
	if res.Error != nil {
		log.Printf("Sweep: claiming job %d failed: %v", job.ID, res.Error)
		return false
	}
	if res.RowsAffected == 0 {
		// Cancelled or already handled since we read it.
		return false
	}

	if _, err := s.lifecycle.CompleteCleaning(ctx, job.BedID); err != nil {
		switch {
		case apperr.IsInvalidState(err) || apperr.IsNotFound(err):
			// The bed is no longer cleaning (manual completion or an
			// administrative transition won the race). Firing on such
			// a bed is a no-op, not an error.
			return false
		default:
			// Storage trouble: release the claim so the next sweep
			// retries.
			s.db.WithContext(ctx).
				Model(&model.TurnoverJob{}).
				Where("id = ?", job.ID).
				Update("status", model.TurnoverScheduled)
			log.Printf("Sweep: completing bed %d failed: %v", job.BedID, err)
			return false
		}
	}

	metrics.TurnoverCompleted.Inc()
	return true
}
