package syncer

import (
	"context"
	"testing"

	"github.com/smallbiznis/tenantsync/internal/catalog/catalogtest"
	catalogrepo "github.com/smallbiznis/tenantsync/internal/catalog/repository"
	"github.com/smallbiznis/tenantsync/internal/feed"
	"github.com/smallbiznis/tenantsync/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestResolver(t *testing.T, db *gorm.DB) *resolver.Resolver {
	t.Helper()
	return resolver.New(resolver.Params{
		DB:      db,
		Log:     zap.NewNop(),
		Repo:    catalogrepo.Provide(),
		Aliases: resolver.DefaultAliases(),
	})
}

func TestSplitMultiFloor(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedFloor(t, db, 1, "1F")
	catalogtest.SeedFloor(t, db, 2, "2F")
	catalogtest.SeedFloor(t, db, 3, "3F")

	s := NewSplitter(newTestResolver(t, db))
	rc := NewRunContext()

	record := feed.Record{UniqueID: "SHOP-1", TenantID: "T1", Floor: "2F,3F"}
	clones := s.Split(context.Background(), rc, record)

	require.Len(t, clones, 2)
	assert.Equal(t, "SHOP-1-2F", clones[0].UniqueID)
	assert.Equal(t, "2F", clones[0].Floor)
	assert.Equal(t, "2F", clones[0].FloorRevised)
	assert.Equal(t, "SHOP-1-3F", clones[1].UniqueID)
	assert.Equal(t, "3F", clones[1].Floor)
	assert.Equal(t, "T1", clones[1].TenantID)
}

func TestSplitDedupesSameFloor(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedFloor(t, db, 1, "1F")

	s := NewSplitter(newTestResolver(t, db))
	rc := NewRunContext()

	// Both tokens resolve to the same canonical floor.
	record := feed.Record{UniqueID: "SHOP-2", Floor: "1, 1F"}
	clones := s.Split(context.Background(), rc, record)

	require.Len(t, clones, 1)
	assert.Equal(t, "SHOP-2", clones[0].UniqueID)
	assert.Equal(t, "1F", clones[0].Floor)
	assert.Equal(t, "1F", clones[0].FloorRevised)
}

func TestSplitSingleFloorPassthrough(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedFloor(t, db, 1, "1F")

	s := NewSplitter(newTestResolver(t, db))
	rc := NewRunContext()

	record := feed.Record{UniqueID: "SHOP-3", Floor: "1F"}
	clones := s.Split(context.Background(), rc, record)

	require.Len(t, clones, 1)
	assert.Equal(t, record, clones[0])
}

func TestSplitUnresolvableFloorsKeepOriginal(t *testing.T) {
	db := catalogtest.Open(t)

	s := NewSplitter(newTestResolver(t, db))
	rc := NewRunContext()

	record := feed.Record{UniqueID: "SHOP-4", Floor: "X9,Y9"}
	clones := s.Split(context.Background(), rc, record)

	require.Len(t, clones, 1)
	assert.Equal(t, "SHOP-4", clones[0].UniqueID)
	assert.Equal(t, []string{"X9", "Y9"}, rc.UnresolvedFloors())
}

func TestSplitPrefersFloorRevised(t *testing.T) {
	db := catalogtest.Open(t)
	catalogtest.SeedFloor(t, db, 2, "2F")
	catalogtest.SeedFloor(t, db, 3, "3F")

	s := NewSplitter(newTestResolver(t, db))
	rc := NewRunContext()

	record := feed.Record{UniqueID: "SHOP-5", Floor: "GF", FloorRevised: "2F,3F"}
	clones := s.Split(context.Background(), rc, record)

	require.Len(t, clones, 2)
	assert.Equal(t, "SHOP-5-2F", clones[0].UniqueID)
	assert.Equal(t, "SHOP-5-3F", clones[1].UniqueID)
}
