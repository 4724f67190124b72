package repository

import (
	"context"

	"github.com/smallbiznis/tenantsync/internal/syncrun/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, run *domain.SyncRun) error {
	return db.WithContext(ctx).Create(run).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, run *domain.SyncRun) error {
	return db.WithContext(ctx).Save(run).Error
}

func (r *repo) AddIssues(ctx context.Context, db *gorm.DB, issues []domain.ValidationIssue) error {
	if len(issues) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&issues).Error
}

func (r *repo) AddErrors(ctx context.Context, db *gorm.DB, errs []domain.ProcessingError) error {
	if len(errs) == 0 {
		return nil
	}
	return db.WithContext(ctx).Create(&errs).Error
}
