// Package catalogtest provides an in-memory store fixture shared by the
// resolver, reconciler and syncer tests.
package catalogtest

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	syncrundomain "github.com/smallbiznis/tenantsync/internal/syncrun/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Open returns an in-memory sqlite database with the catalog and sync
// bookkeeping schema. The pool is pinned to a single connection: in-memory
// sqlite does not tolerate concurrent writers, and the engine's correctness
// must not depend on store-side parallelism anyway.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&domain.Floor{}, &domain.Category{}))
	require.NoError(t, db.AutoMigrate(
		&syncrundomain.SyncRun{},
		&syncrundomain.ValidationIssue{},
		&syncrundomain.ProcessingError{},
	))

	for _, collection := range []domain.Collection{domain.CollectionShops, domain.CollectionDinings} {
		require.NoError(t, db.Table(collection.EntityTable()).AutoMigrate(&domain.Entity{}))
		require.NoError(t, db.Table(collection.LocaleTable()).AutoMigrate(&domain.LocaleEntry{}))
		require.NoError(t, db.Table(collection.RelationTable()).AutoMigrate(&domain.CategoryRelation{}))

		require.NoError(t, db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX ux_%s_unique_id ON %s (unique_id)",
			collection, collection.EntityTable(),
		)).Error)
		require.NoError(t, db.Exec(fmt.Sprintf(
			"CREATE UNIQUE INDEX ux_%s_parent_locale ON %s (parent_id, locale)",
			collection.LocaleTable(), collection.LocaleTable(),
		)).Error)
	}

	return db
}

// SeedFloor inserts a canonical floor and returns it.
func SeedFloor(t *testing.T, db *gorm.DB, id int64, name string) domain.Floor {
	t.Helper()
	floor := domain.Floor{ID: id, Name: name}
	require.NoError(t, db.Create(&floor).Error)
	return floor
}

// SeedCategory inserts a canonical category and returns it.
func SeedCategory(t *testing.T, db *gorm.DB, id int64, collection domain.Collection, name string) domain.Category {
	t.Helper()
	category := domain.Category{ID: id, Type: string(collection), Name: name}
	require.NoError(t, db.Create(&category).Error)
	return category
}
