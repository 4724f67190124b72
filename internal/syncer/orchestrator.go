package syncer

import (
	"context"
	"fmt"
	"sync"

	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	"github.com/smallbiznis/tenantsync/internal/clock"
	"github.com/smallbiznis/tenantsync/internal/feed"
	"go.uber.org/zap"
)

// Totals aggregates per-record outcomes across a whole run.
type Totals struct {
	Processed int
	Succeeded int
	Failed    int
	Created   int
	Updated   int
	Shops     int
	Dinings   int
}

type recordSplitter interface {
	Split(ctx context.Context, rc *RunContext, record feed.Record) []feed.Record
}

type recordReconciler interface {
	Reconcile(ctx context.Context, rc *RunContext, record feed.Record) (*Result, error)
}

// Orchestrator drives reconciliation over the fetched record set in fixed-size
// concurrent chunks. One failing record never affects its neighbours.
type Orchestrator struct {
	log        *zap.Logger
	clock      clock.Clock
	splitter   recordSplitter
	reconciler recordReconciler
	batchSize  int
}

func NewOrchestrator(log *zap.Logger, clk clock.Clock, splitter recordSplitter, reconciler recordReconciler, batchSize int) *Orchestrator {
	if batchSize <= 0 {
		batchSize = 1
	}
	return &Orchestrator{
		log:        log.Named("orchestrator"),
		clock:      clk,
		splitter:   splitter,
		reconciler: reconciler,
		batchSize:  batchSize,
	}
}

type recordOutcome struct {
	uniqueID string
	result   *Result
	err      error
}

// Process reconciles every record and returns the aggregated totals. Records
// within a chunk run concurrently; chunks run strictly one after another, and
// outcomes are folded in only after the chunk's goroutines have all returned.
func (o *Orchestrator) Process(ctx context.Context, rc *RunContext, records []feed.Record) Totals {
	var totals Totals

	for offset := 0; offset < len(records); offset += o.batchSize {
		end := offset + o.batchSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[offset:end]

		outcomes := make([]recordOutcome, len(chunk))
		var wg sync.WaitGroup
		for i, record := range chunk {
			wg.Add(1)
			go func(i int, record feed.Record) {
				defer wg.Done()
				outcomes[i] = o.processRecord(ctx, rc, record)
			}(i, record)
		}
		wg.Wait()

		for _, outcome := range outcomes {
			totals.Processed++
			if outcome.err != nil {
				totals.Failed++
				rc.AddError(outcome.uniqueID, outcome.err, o.clock.Now())
				o.log.Error("record failed",
					zap.String("unique_id", outcome.uniqueID),
					zap.Error(outcome.err),
				)
				continue
			}
			totals.Succeeded++
			if outcome.result.WasCreated {
				totals.Created++
			} else {
				totals.Updated++
			}
			if outcome.result.Collection == domain.CollectionDinings {
				totals.Dinings++
			} else {
				totals.Shops++
			}
		}
	}

	return totals
}

// processRecord reconciles one upstream record and every floor variant it
// splits into. The variants are reconciled sequentially; the record counts
// once, classified by the first variant's outcome, and fails as a whole if
// any variant fails.
func (o *Orchestrator) processRecord(ctx context.Context, rc *RunContext, record feed.Record) (outcome recordOutcome) {
	outcome.uniqueID = record.UniqueID
	if outcome.uniqueID == "" {
		outcome.uniqueID = "unknown"
	}

	defer func() {
		if r := recover(); r != nil {
			outcome.err = fmt.Errorf("panic: %v", r)
			outcome.result = nil
		}
	}()

	variants := o.splitter.Split(ctx, rc, record)
	for _, variant := range variants {
		result, err := o.reconciler.Reconcile(ctx, rc, variant)
		if err != nil {
			outcome.err = err
			return outcome
		}
		if outcome.result == nil {
			outcome.result = result
		}
	}
	return outcome
}
