package syncer

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/smallbiznis/tenantsync/internal/clock"
	"github.com/smallbiznis/tenantsync/internal/feed"
	syncrundomain "github.com/smallbiznis/tenantsync/internal/syncrun/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Tracker persists the sync run lifecycle: one RUNNING row up front, one
// terminal update at the end, plus the run's issues and errors.
type Tracker struct {
	db    *gorm.DB
	log   *zap.Logger
	repo  syncrundomain.Repository
	clock clock.Clock
}

func NewTracker(db *gorm.DB, log *zap.Logger, repo syncrundomain.Repository, clk clock.Clock) *Tracker {
	return &Tracker{
		db:    db,
		log:   log.Named("tracker"),
		repo:  repo,
		clock: clk,
	}
}

// Start creates the RUNNING run row before any upstream call is made.
func (t *Tracker) Start(ctx context.Context, externalAPIURL string) (*syncrundomain.SyncRun, error) {
	run := &syncrundomain.SyncRun{
		SyncID:         "sync_" + uuid.NewString(),
		Status:         syncrundomain.RunStatusRunning,
		ExternalAPIURL: externalAPIURL,
		StartedAt:      t.clock.Now(),
	}
	if err := t.repo.Create(ctx, t.db, run); err != nil {
		return nil, fmt.Errorf("create sync run: %w", err)
	}
	t.log.Info("sync run started", zap.String("sync_id", run.SyncID))
	return run, nil
}

// Finish records the terminal state of a run that got past fetching: the
// counters, the unresolved label summary and the accumulated issues/errors.
func (t *Tracker) Finish(ctx context.Context, run *syncrundomain.SyncRun, rc *RunContext, fetched *feed.Result, totals Totals, status syncrundomain.RunStatus, notes string) error {
	now := t.clock.Now()
	run.Status = status
	run.CompletedAt = &now
	run.Notes = notes

	run.TotalRecordsFetched = len(fetched.Records)
	run.TotalPages = fetched.TotalPages
	run.LastPageProcessed = fetched.LastPage

	run.RecordsProcessed = totals.Processed
	run.RecordsCreated = totals.Created
	run.RecordsUpdated = totals.Updated
	run.RecordsFailed = totals.Failed
	run.ShopsProcessed = totals.Shops
	run.DiningsProcessed = totals.Dinings

	run.AvgTimePerRecordMs = rc.AvgTimePerRecord().Milliseconds()
	run.AvgAPIResponseTimeMs = fetched.AvgResponseTime().Milliseconds()
	run.MemoryUsageMB = heapAllocMB()
	run.Unresolved = unresolvedSummary(rc)

	if err := t.repo.Update(ctx, t.db, run); err != nil {
		return fmt.Errorf("finalize sync run: %w", err)
	}
	if err := t.persistFindings(ctx, run.ID, rc); err != nil {
		return err
	}

	t.log.Info("sync run finished",
		zap.String("sync_id", run.SyncID),
		zap.String("status", string(status)),
		zap.Int("processed", totals.Processed),
		zap.Int("created", totals.Created),
		zap.Int("updated", totals.Updated),
		zap.Int("failed", totals.Failed),
	)
	return nil
}

// Fail marks the run FAILED after a run-level error, keeping whatever issues
// and errors accumulated before the abort.
func (t *Tracker) Fail(ctx context.Context, run *syncrundomain.SyncRun, rc *RunContext) error {
	now := t.clock.Now()
	run.Status = syncrundomain.RunStatusFailed
	run.CompletedAt = &now
	run.Notes = "Sync failed due to critical error."
	run.Unresolved = unresolvedSummary(rc)

	if err := t.repo.Update(ctx, t.db, run); err != nil {
		return fmt.Errorf("mark sync run failed: %w", err)
	}
	return t.persistFindings(ctx, run.ID, rc)
}

func (t *Tracker) persistFindings(ctx context.Context, runID int64, rc *RunContext) error {
	issues := rc.Issues()
	for i := range issues {
		issues[i].RunID = runID
	}
	if err := t.repo.AddIssues(ctx, t.db, issues); err != nil {
		return fmt.Errorf("persist issues: %w", err)
	}

	errs := rc.Errors()
	for i := range errs {
		errs[i].RunID = runID
	}
	if err := t.repo.AddErrors(ctx, t.db, errs); err != nil {
		return fmt.Errorf("persist errors: %w", err)
	}
	return nil
}

func unresolvedSummary(rc *RunContext) datatypes.JSONMap {
	floors := rc.UnresolvedFloors()
	categories := rc.UnresolvedCategories()
	if len(floors) == 0 && len(categories) == 0 {
		return nil
	}
	return datatypes.JSONMap{
		"floors":     floors,
		"categories": categories,
	}
}

func heapAllocMB() int64 {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	return int64(stats.HeapAlloc / 1024 / 1024)
}
