package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	pkgdb "github.com/smallbiznis/tenantsync/pkg/db"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindFloorByName(ctx context.Context, db *gorm.DB, name string) (*domain.Floor, error) {
	var floor domain.Floor
	err := db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(name)).
		Take(&floor).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &floor, nil
}

func (r *repo) FindFloorsByNameContains(ctx context.Context, db *gorm.DB, name string) ([]domain.Floor, error) {
	var floors []domain.Floor
	err := db.WithContext(ctx).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Find(&floors).Error
	if err != nil {
		return nil, err
	}
	return floors, nil
}

func (r *repo) FindCategoryByName(ctx context.Context, db *gorm.DB, collection domain.Collection, name string) (*domain.Category, error) {
	var category domain.Category
	err := db.WithContext(ctx).
		Where("type = ? AND LOWER(name) = ?", string(collection), strings.ToLower(name)).
		Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *repo) FindCategoriesByNameContains(ctx context.Context, db *gorm.DB, collection domain.Collection, name string) ([]domain.Category, error) {
	var categories []domain.Category
	err := db.WithContext(ctx).
		Where("type = ? AND LOWER(name) LIKE ?", string(collection), "%"+strings.ToLower(name)+"%").
		Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *repo) FindEntityByUniqueID(ctx context.Context, db *gorm.DB, collection domain.Collection, uniqueID string) (*domain.Entity, error) {
	var entity domain.Entity
	err := db.WithContext(ctx).
		Table(collection.EntityTable()).
		Where("unique_id = ?", uniqueID).
		Take(&entity).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *repo) CreateEntity(ctx context.Context, db *gorm.DB, collection domain.Collection, entity *domain.Entity) error {
	if entity == nil {
		return domain.ErrInvalidEntity
	}
	err := db.WithContext(ctx).
		Table(collection.EntityTable()).
		Create(entity).Error
	if pkgdb.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateEntity
	}
	return err
}

// UpdateEntity writes the reconciled fields only. Status and slug are set at
// creation and never recomputed here.
func (r *repo) UpdateEntity(ctx context.Context, db *gorm.DB, collection domain.Collection, entity *domain.Entity) error {
	if entity == nil || entity.ID == 0 {
		return domain.ErrInvalidEntity
	}
	return db.WithContext(ctx).
		Table(collection.EntityTable()).
		Where("id = ?", entity.ID).
		Updates(map[string]any{
			"location_zone":                      entity.LocationZone,
			"opening_hours_same_hours_every_day": entity.OpeningHoursSameEveryDay,
			"opening_hours_open":                 entity.OpeningHoursOpen,
			"opening_hours_close":                entity.OpeningHoursClose,
			"floor_id":                           entity.FloorID,
			"sort_order":                         entity.SortOrder,
			"is_featured":                        entity.IsFeatured,
			"updated_at":                         entity.UpdatedAt,
		}).Error
}

func (r *repo) HasCategoryRelation(ctx context.Context, db *gorm.DB, collection domain.Collection, parentID, categoryID int64) (bool, error) {
	var count int64
	err := db.WithContext(ctx).
		Table(collection.RelationTable()).
		Where("parent_id = ? AND categories_id = ?", parentID, categoryID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repo) CreateCategoryRelation(ctx context.Context, db *gorm.DB, collection domain.Collection, rel *domain.CategoryRelation) error {
	if rel == nil {
		return domain.ErrInvalidEntity
	}
	return db.WithContext(ctx).
		Table(collection.RelationTable()).
		Create(rel).Error
}

// UpsertLocale inserts or updates the (parent_id, locale) row atomically.
func (r *repo) UpsertLocale(ctx context.Context, db *gorm.DB, collection domain.Collection, entry *domain.LocaleEntry) error {
	if entry == nil {
		return domain.ErrInvalidEntity
	}
	return db.WithContext(ctx).
		Table(collection.LocaleTable()).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "parent_id"}, {Name: "locale"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "subtitle", "description", "meta_title", "meta_description",
			}),
		}).
		Create(entry).Error
}
