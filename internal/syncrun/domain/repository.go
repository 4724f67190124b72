package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, run *SyncRun) error
	Update(ctx context.Context, db *gorm.DB, run *SyncRun) error
	AddIssues(ctx context.Context, db *gorm.DB, issues []ValidationIssue) error
	AddErrors(ctx context.Context, db *gorm.DB, errs []ProcessingError) error
}
