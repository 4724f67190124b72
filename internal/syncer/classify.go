package syncer

import (
	"strings"

	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	"github.com/smallbiznis/tenantsync/internal/feed"
)

var diningKeywords = []string{
	"food",
	"beverage",
	"restaurant",
	"cafe",
	"bar",
	"take home",
}

// Classify decides which catalog collection a record belongs to from its
// English category text. Records with no category default to shops.
func Classify(record feed.Record) domain.Collection {
	categoryName := strings.ToLower(record.CategoryNameEn)
	for _, keyword := range diningKeywords {
		if strings.Contains(categoryName, keyword) {
			return domain.CollectionDinings
		}
	}
	return domain.CollectionShops
}
