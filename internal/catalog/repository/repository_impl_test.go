package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/smallbiznis/tenantsync/internal/catalog/catalogtest"
	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	"github.com/smallbiznis/tenantsync/internal/catalog/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEntity(id int64, uniqueID string) *domain.Entity {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return &domain.Entity{
		ID:        id,
		UniqueID:  uniqueID,
		Slug:      "alpha-T1",
		Status:    domain.StatusInactive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateEntityDuplicateUniqueID(t *testing.T) {
	db := catalogtest.Open(t)
	repo := repository.Provide()
	ctx := context.Background()

	require.NoError(t, repo.CreateEntity(ctx, db, domain.CollectionShops, newEntity(1, "U1")))

	err := repo.CreateEntity(ctx, db, domain.CollectionShops, newEntity(2, "U1"))
	assert.ErrorIs(t, err, domain.ErrDuplicateEntity)

	// The same unique_id is free in the other collection's table.
	require.NoError(t, repo.CreateEntity(ctx, db, domain.CollectionDinings, newEntity(3, "U1")))
}

func TestFindEntityByUniqueIDMissing(t *testing.T) {
	db := catalogtest.Open(t)
	repo := repository.Provide()

	entity, err := repo.FindEntityByUniqueID(context.Background(), db, domain.CollectionShops, "nope")
	require.NoError(t, err)
	assert.Nil(t, entity)
}

func TestUpdateEntityLeavesStatusAndSlug(t *testing.T) {
	db := catalogtest.Open(t)
	repo := repository.Provide()
	ctx := context.Background()

	entity := newEntity(1, "U1")
	require.NoError(t, repo.CreateEntity(ctx, db, domain.CollectionShops, entity))

	entity.LocationZone = "Zone B"
	entity.Slug = "changed"
	entity.Status = domain.StatusActive
	entity.UpdatedAt = entity.UpdatedAt.Add(time.Hour)
	require.NoError(t, repo.UpdateEntity(ctx, db, domain.CollectionShops, entity))

	stored, err := repo.FindEntityByUniqueID(ctx, db, domain.CollectionShops, "U1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Zone B", stored.LocationZone)
	assert.Equal(t, "alpha-T1", stored.Slug)
	assert.Equal(t, domain.StatusInactive, stored.Status)
}

func TestUpdateEntityRequiresID(t *testing.T) {
	db := catalogtest.Open(t)
	repo := repository.Provide()

	err := repo.UpdateEntity(context.Background(), db, domain.CollectionShops, &domain.Entity{})
	assert.ErrorIs(t, err, domain.ErrInvalidEntity)
}

func TestUpsertLocaleReplacesExistingRow(t *testing.T) {
	db := catalogtest.Open(t)
	repo := repository.Provide()
	ctx := context.Background()

	title1 := "Alpha"
	require.NoError(t, repo.UpsertLocale(ctx, db, domain.CollectionShops, &domain.LocaleEntry{
		ID: 1, ParentID: 100, Locale: domain.LocaleEn, Title: &title1,
	}))

	title2 := "Alpha Store"
	require.NoError(t, repo.UpsertLocale(ctx, db, domain.CollectionShops, &domain.LocaleEntry{
		ID: 2, ParentID: 100, Locale: domain.LocaleEn, Title: &title2,
	}))

	var rows []domain.LocaleEntry
	require.NoError(t, db.Table("shops_locales").Where("parent_id = ?", 100).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Title)
	assert.Equal(t, "Alpha Store", *rows[0].Title)
}

func TestCategoryRelationRoundTrip(t *testing.T) {
	db := catalogtest.Open(t)
	repo := repository.Provide()
	ctx := context.Background()

	exists, err := repo.HasCategoryRelation(ctx, db, domain.CollectionShops, 100, 10)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.CreateCategoryRelation(ctx, db, domain.CollectionShops, &domain.CategoryRelation{
		ID: 1, ParentID: 100, CategoryID: 10, Path: "/",
	}))

	exists, err = repo.HasCategoryRelation(ctx, db, domain.CollectionShops, 100, 10)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestFindFloorsByNameContains(t *testing.T) {
	db := catalogtest.Open(t)
	repo := repository.Provide()

	catalogtest.SeedFloor(t, db, 1, "1F")
	catalogtest.SeedFloor(t, db, 2, "11F")
	catalogtest.SeedFloor(t, db, 3, "GF")

	floors, err := repo.FindFloorsByNameContains(context.Background(), db, "1f")
	require.NoError(t, err)
	assert.Len(t, floors, 2)
}
