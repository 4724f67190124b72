package domain

import (
	"time"

	"gorm.io/datatypes"
)

// RunStatus is the lifecycle state of one sync run.
type RunStatus string

const (
	// RunStatusRunning is the initial state. A run observed as RUNNING after a
	// process interrupt was cut short and never reached a terminal update.
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusPartial   RunStatus = "PARTIAL"
	RunStatusFailed    RunStatus = "FAILED"
)

// SyncRun is the auditable record of one end-to-end sync invocation.
type SyncRun struct {
	ID             int64     `gorm:"primaryKey"`
	SyncID         string    `gorm:"column:sync_id;type:text;not null"`
	Status         RunStatus `gorm:"type:text;not null"`
	ExternalAPIURL string    `gorm:"column:external_api_url;type:text"`
	StartedAt      time.Time `gorm:"not null"`
	CompletedAt    *time.Time

	TotalRecordsFetched int
	TotalPages          int
	LastPageProcessed   int

	RecordsProcessed int
	RecordsCreated   int
	RecordsUpdated   int
	RecordsFailed    int
	ShopsProcessed   int
	DiningsProcessed int

	AvgTimePerRecordMs   int64
	AvgAPIResponseTimeMs int64
	MemoryUsageMB        int64

	// Unresolved holds the run's unmapped floor and category labels.
	Unresolved datatypes.JSONMap `gorm:"type:jsonb"`
	Notes      string            `gorm:"type:text"`
}

func (SyncRun) TableName() string { return "sync_runs" }

// ValidationIssue is a non-fatal data problem on a single upstream record.
type ValidationIssue struct {
	ID             int64  `gorm:"primaryKey"`
	RunID          int64  `gorm:"column:run_id;not null"`
	RecordUniqueID string `gorm:"column:record_unique_id;type:text"`
	Description    string `gorm:"type:text;not null"`
}

func (ValidationIssue) TableName() string { return "sync_run_issues" }

// ProcessingError is a per-record failure isolated from the rest of the run.
type ProcessingError struct {
	ID             int64     `gorm:"primaryKey"`
	RunID          int64     `gorm:"column:run_id;not null"`
	RecordUniqueID string    `gorm:"column:record_unique_id;type:text"`
	Message        string    `gorm:"type:text;not null"`
	OccurredAt     time.Time `gorm:"not null"`
}

func (ProcessingError) TableName() string { return "sync_run_errors" }
