package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	ErrDuplicateEntity = errors.New("duplicate_entity")
	ErrInvalidEntity   = errors.New("invalid_entity")
)

// Repository is the store boundary of the reconciliation engine. The backing
// store must enforce uniqueness on (collection, unique_id) so that concurrent
// creates of the same key surface ErrDuplicateEntity instead of a second row.
type Repository interface {
	// Canonical lookups. Name matching is case-insensitive; the Contains
	// variants return every candidate so callers can tie-break.
	FindFloorByName(ctx context.Context, db *gorm.DB, name string) (*Floor, error)
	FindFloorsByNameContains(ctx context.Context, db *gorm.DB, name string) ([]Floor, error)
	FindCategoryByName(ctx context.Context, db *gorm.DB, collection Collection, name string) (*Category, error)
	FindCategoriesByNameContains(ctx context.Context, db *gorm.DB, collection Collection, name string) ([]Category, error)

	FindEntityByUniqueID(ctx context.Context, db *gorm.DB, collection Collection, uniqueID string) (*Entity, error)
	CreateEntity(ctx context.Context, db *gorm.DB, collection Collection, entity *Entity) error
	UpdateEntity(ctx context.Context, db *gorm.DB, collection Collection, entity *Entity) error

	HasCategoryRelation(ctx context.Context, db *gorm.DB, collection Collection, parentID, categoryID int64) (bool, error)
	CreateCategoryRelation(ctx context.Context, db *gorm.DB, collection Collection, rel *CategoryRelation) error

	UpsertLocale(ctx context.Context, db *gorm.DB, collection Collection, entry *LocaleEntry) error
}
