package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantsync/internal/catalog/catalogtest"
	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/tenantsync/internal/catalog/repository"
	"github.com/smallbiznis/tenantsync/internal/clock"
	"github.com/smallbiznis/tenantsync/internal/feed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestReconciler(t *testing.T, db *gorm.DB) (*Reconciler, *clock.FakeClock) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewReconciler(db, zap.NewNop(), catalogrepo.Provide(), newTestResolver(t, db), node, clk), clk
}

func shopRecord() feed.Record {
	return feed.Record{
		UniqueID:       "SHOP-100",
		TenantID:       "T100",
		BrandNameEn:    "Louis Vuitton",
		BrandNameTh:    "หลุยส์ วิตตอง",
		ShopNameThai:   "หลุยส์",
		CategoryNameEn: "Fashion",
		Zone:           "Zone A",
		FloorRevised:   "1F",
		OpeningHours:   "10.00-22.00",
		DescriptionEn:  "Flagship store",
	}
}

func TestReconcileCreatesShop(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedFloor(t, db, 1, "1F")
	catalogtest.SeedCategory(t, db, 10, domain.CollectionShops, "Fashion")

	r, clk := newTestReconciler(t, db)
	rc := NewRunContext()

	result, err := r.Reconcile(context.Background(), rc, shopRecord())
	require.NoError(t, err)
	assert.True(t, result.WasCreated)
	assert.Equal(t, domain.CollectionShops, result.Collection)

	var entity domain.Entity
	require.NoError(t, db.Table("shops").Where("unique_id = ?", "SHOP-100").Take(&entity).Error)
	assert.Equal(t, "louis-vuitton-T100", entity.Slug)
	assert.Equal(t, domain.StatusInactive, entity.Status)
	assert.Equal(t, "Zone A", entity.LocationZone)
	assert.True(t, entity.OpeningHoursSameEveryDay)
	assert.Equal(t, "10:00", entity.OpeningHoursOpen)
	assert.Equal(t, "22:00", entity.OpeningHoursClose)
	require.NotNil(t, entity.FloorID)
	assert.Equal(t, int64(1), *entity.FloorID)
	assert.Equal(t, clk.Now(), entity.CreatedAt.UTC())

	var locales []domain.LocaleEntry
	require.NoError(t, db.Table("shops_locales").Where("parent_id = ?", entity.ID).Order("locale").Find(&locales).Error)
	require.Len(t, locales, 3)
	assert.Equal(t, "en", locales[0].Locale)
	require.NotNil(t, locales[0].Title)
	assert.Equal(t, "Louis Vuitton", *locales[0].Title)
	assert.Equal(t, "th", locales[1].Locale)
	require.NotNil(t, locales[1].Title)
	assert.Equal(t, "หลุยส์ วิตตอง", *locales[1].Title)
	assert.Equal(t, "zh", locales[2].Locale)
	require.NotNil(t, locales[2].Title)
	assert.Equal(t, "Louis Vuitton", *locales[2].Title)

	var rel domain.CategoryRelation
	require.NoError(t, db.Table("shops_rels").Where("parent_id = ?", entity.ID).Take(&rel).Error)
	assert.Equal(t, int64(10), rel.CategoryID)
	assert.Equal(t, "/", rel.Path)
	assert.Equal(t, 0, rel.Order)
}

func TestReconcileDecodesEncodedText(t *testing.T) {
	db := catalogtest.Open(t)

	r, _ := newTestReconciler(t, db)
	rc := NewRunContext()

	record := shopRecord()
	record.BrandNameEn = "Bath &amp; Body Works"
	record.DescriptionEn = `café style`

	_, err := r.Reconcile(context.Background(), rc, record)
	require.NoError(t, err)

	var entity domain.Entity
	require.NoError(t, db.Table("shops").Where("unique_id = ?", "SHOP-100").Take(&entity).Error)

	var locale domain.LocaleEntry
	require.NoError(t, db.Table("shops_locales").Where("parent_id = ? AND locale = ?", entity.ID, "en").Take(&locale).Error)
	require.NotNil(t, locale.Title)
	assert.Equal(t, "Bath & Body Works", *locale.Title)
	require.NotNil(t, locale.Description)
	assert.Equal(t, "café style", *locale.Description)
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedFloor(t, db, 1, "1F")
	catalogtest.SeedCategory(t, db, 10, domain.CollectionShops, "Fashion")

	r, _ := newTestReconciler(t, db)
	rc := NewRunContext()

	first, err := r.Reconcile(context.Background(), rc, shopRecord())
	require.NoError(t, err)
	assert.True(t, first.WasCreated)

	updated := shopRecord()
	updated.Zone = "Zone B"
	updated.BrandNameEn = "LV"

	second, err := r.Reconcile(context.Background(), rc, updated)
	require.NoError(t, err)
	assert.False(t, second.WasCreated)

	var count int64
	require.NoError(t, db.Table("shops").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var entity domain.Entity
	require.NoError(t, db.Table("shops").Where("unique_id = ?", "SHOP-100").Take(&entity).Error)
	// Slug and status are assigned at creation and never recomputed.
	assert.Equal(t, "louis-vuitton-T100", entity.Slug)
	assert.Equal(t, domain.StatusInactive, entity.Status)
	assert.Equal(t, "Zone B", entity.LocationZone)

	require.NoError(t, db.Table("shops_locales").Where("parent_id = ?", entity.ID).Count(&count).Error)
	assert.Equal(t, int64(3), count)

	var locale domain.LocaleEntry
	require.NoError(t, db.Table("shops_locales").Where("parent_id = ? AND locale = ?", entity.ID, "en").Take(&locale).Error)
	require.NotNil(t, locale.Title)
	assert.Equal(t, "LV", *locale.Title)

	require.NoError(t, db.Table("shops_rels").Where("parent_id = ?", entity.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestReconcileKeepsFloorWhenUnresolved(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedFloor(t, db, 1, "1F")

	r, _ := newTestReconciler(t, db)
	rc := NewRunContext()

	_, err := r.Reconcile(context.Background(), rc, shopRecord())
	require.NoError(t, err)

	moved := shopRecord()
	moved.FloorRevised = "Rooftop"

	_, err = r.Reconcile(context.Background(), rc, moved)
	require.NoError(t, err)

	var entity domain.Entity
	require.NoError(t, db.Table("shops").Where("unique_id = ?", "SHOP-100").Take(&entity).Error)
	require.NotNil(t, entity.FloorID)
	assert.Equal(t, int64(1), *entity.FloorID)
	assert.Equal(t, []string{"Rooftop"}, rc.UnresolvedFloors())
}

func TestReconcileClassifiesDining(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedCategory(t, db, 20, domain.CollectionDinings, "RESTAURANT")

	r, _ := newTestReconciler(t, db)
	rc := NewRunContext()

	record := shopRecord()
	record.UniqueID = "DINE-1"
	record.CategoryNameEn = "Food & Beverage"

	result, err := r.Reconcile(context.Background(), rc, record)
	require.NoError(t, err)
	assert.Equal(t, domain.CollectionDinings, result.Collection)

	var count int64
	require.NoError(t, db.Table("dinings").Where("unique_id = ?", "DINE-1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
	require.NoError(t, db.Table("shops").Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestReconcileRecordsValidationIssues(t *testing.T) {
	db := catalogtest.Open(t)

	r, _ := newTestReconciler(t, db)
	rc := NewRunContext()

	record := feed.Record{}
	_, err := r.Reconcile(context.Background(), rc, record)
	require.NoError(t, err)

	issues := rc.Issues()
	require.Len(t, issues, 3)
	descriptions := []string{issues[0].Description, issues[1].Description, issues[2].Description}
	assert.Contains(t, descriptions, "missing unique id")
	assert.Contains(t, descriptions, "no name found in any language")
	assert.Contains(t, descriptions, "missing tenant id")
}

func TestReconcileObservesTiming(t *testing.T) {
	db := catalogtest.Open(t)

	r, _ := newTestReconciler(t, db)
	rc := NewRunContext()

	_, err := r.Reconcile(context.Background(), rc, shopRecord())
	require.NoError(t, err)
	assert.Equal(t, 1, rc.recordCount)
}
