package syncer

import (
	"fmt"
	"sort"
	"sync"
	"time"

	catalogdomain "github.com/smallbiznis/tenantsync/internal/catalog/domain"
	syncrundomain "github.com/smallbiznis/tenantsync/internal/syncrun/domain"
)

// RunContext owns the run-scoped accumulators: unresolved labels, validation
// issues, processing errors and timing counters. All appends are safe for
// concurrent reconciliations; reads happen after every chunk has settled.
type RunContext struct {
	mu sync.Mutex

	unresolvedFloors     map[string]struct{}
	unresolvedCategories map[string]struct{}
	issues               []syncrundomain.ValidationIssue
	errors               []syncrundomain.ProcessingError

	recordCount     int
	processingTotal time.Duration
}

func NewRunContext() *RunContext {
	return &RunContext{
		unresolvedFloors:     make(map[string]struct{}),
		unresolvedCategories: make(map[string]struct{}),
	}
}

// UnresolvedFloor records a floor label no tier could resolve. Deduplicated.
func (rc *RunContext) UnresolvedFloor(label string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.unresolvedFloors[label] = struct{}{}
}

// UnresolvedCategory records a category label no tier could resolve.
func (rc *RunContext) UnresolvedCategory(label string, collection catalogdomain.Collection) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.unresolvedCategories[fmt.Sprintf("%s (%s)", label, collection)] = struct{}{}
}

// AddIssue appends a non-fatal validation issue for a record.
func (rc *RunContext) AddIssue(recordUniqueID, description string) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.issues = append(rc.issues, syncrundomain.ValidationIssue{
		RecordUniqueID: recordUniqueID,
		Description:    description,
	})
}

// AddError appends an isolated per-record processing error.
func (rc *RunContext) AddError(recordUniqueID string, err error, at time.Time) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.errors = append(rc.errors, syncrundomain.ProcessingError{
		RecordUniqueID: recordUniqueID,
		Message:        err.Error(),
		OccurredAt:     at,
	})
}

// ObserveRecord accumulates one record's processing duration.
func (rc *RunContext) ObserveRecord(d time.Duration) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.recordCount++
	rc.processingTotal += d
}

// AvgTimePerRecord returns the mean processing time across observed records.
func (rc *RunContext) AvgTimePerRecord() time.Duration {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.recordCount == 0 {
		return 0
	}
	return rc.processingTotal / time.Duration(rc.recordCount)
}

// UnresolvedFloors returns the deduplicated floor labels, sorted.
func (rc *RunContext) UnresolvedFloors() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return sortedKeys(rc.unresolvedFloors)
}

// UnresolvedCategories returns the deduplicated category labels, sorted.
func (rc *RunContext) UnresolvedCategories() []string {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return sortedKeys(rc.unresolvedCategories)
}

// Issues returns a copy of the accumulated validation issues.
func (rc *RunContext) Issues() []syncrundomain.ValidationIssue {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]syncrundomain.ValidationIssue, len(rc.issues))
	copy(out, rc.issues)
	return out
}

// Errors returns a copy of the accumulated processing errors.
func (rc *RunContext) Errors() []syncrundomain.ProcessingError {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	out := make([]syncrundomain.ProcessingError, len(rc.errors))
	copy(out, rc.errors)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
