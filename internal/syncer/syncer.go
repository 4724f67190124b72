package syncer

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/smallbiznis/tenantsync/internal/catalog/domain"
	"github.com/smallbiznis/tenantsync/internal/clock"
	"github.com/smallbiznis/tenantsync/internal/config"
	"github.com/smallbiznis/tenantsync/internal/feed"
	"github.com/smallbiznis/tenantsync/internal/resolver"
	syncrundomain "github.com/smallbiznis/tenantsync/internal/syncrun/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrInvalidConfig = errors.New("syncer: missing required dependency")

// ErrMissingFeedURL aborts a run before any run row is written.
var ErrMissingFeedURL = errors.New("syncer: EXTERNAL_API_URL is not configured")

// Fetcher pulls the full upstream record set.
type Fetcher interface {
	FetchAll(ctx context.Context) (*feed.Result, error)
}

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	Repo     catalogdomain.Repository
	RunRepo  syncrundomain.Repository
	Resolver *resolver.Resolver
	Fetcher  Fetcher
	GenID    *snowflake.Node
	Clock    clock.Clock
}

// Syncer runs one end-to-end sync: fetch, reconcile in batches, finalize the
// run record.
type Syncer struct {
	log          *zap.Logger
	cfg          config.Config
	fetcher      Fetcher
	tracker      *Tracker
	orchestrator *Orchestrator
}

func New(p Params) (*Syncer, error) {
	if p.DB == nil || p.Log == nil || p.Repo == nil || p.RunRepo == nil || p.Resolver == nil || p.Fetcher == nil || p.GenID == nil || p.Clock == nil {
		return nil, ErrInvalidConfig
	}

	reconciler := NewReconciler(p.DB, p.Log, p.Repo, p.Resolver, p.GenID, p.Clock)
	splitter := NewSplitter(p.Resolver)
	return &Syncer{
		log:          p.Log.Named("syncer"),
		cfg:          p.Config,
		fetcher:      p.Fetcher,
		tracker:      NewTracker(p.DB, p.Log, p.RunRepo, p.Clock),
		orchestrator: NewOrchestrator(p.Log, p.Clock, splitter, reconciler, p.Config.SyncBatchSize),
	}, nil
}

// Run executes one sync pass and returns the finalized run record. The
// returned error is run-level; per-record failures are absorbed into the run
// as PARTIAL.
func (s *Syncer) Run(ctx context.Context) (*syncrundomain.SyncRun, error) {
	if s.cfg.ExternalAPIURL == "" {
		return nil, ErrMissingFeedURL
	}

	run, err := s.tracker.Start(ctx, s.cfg.ExternalAPIURL)
	if err != nil {
		return nil, err
	}

	rc := NewRunContext()

	fetched, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		s.log.Error("fetch aborted", zap.Error(err))
		if failErr := s.tracker.Fail(ctx, run, rc); failErr != nil {
			s.log.Error("failed to record aborted run", zap.Error(failErr))
		}
		return run, err
	}
	if fetched.PageError != nil {
		// Pagination stopped early. Records fetched before the failing page
		// are still processed and the failure is kept on the run record.
		rc.AddError("page_"+strconv.Itoa(fetched.PageError.Page), fetched.PageError, s.tracker.clock.Now())
	}

	totals := s.orchestrator.Process(ctx, rc, fetched.Records)

	status := syncrundomain.RunStatusCompleted
	if totals.Failed > 0 || fetched.PageError != nil {
		status = syncrundomain.RunStatusPartial
	}
	notes := fmt.Sprintf("Processed %d records: %d created, %d updated, %d failed.",
		totals.Processed, totals.Created, totals.Updated, totals.Failed)

	if err := s.tracker.Finish(ctx, run, rc, fetched, totals, status, notes); err != nil {
		return run, err
	}

	s.log.Info("sync complete",
		zap.String("sync_id", run.SyncID),
		zap.String("status", string(run.Status)),
		zap.Int("fetched", run.TotalRecordsFetched),
		zap.Int("shops", totals.Shops),
		zap.Int("dinings", totals.Dinings),
		zap.Int64("avg_time_per_record_ms", run.AvgTimePerRecordMs),
		zap.Int64("avg_api_response_time_ms", run.AvgAPIResponseTimeMs),
	)
	return run, nil
}
