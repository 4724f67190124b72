package syncer

import (
	"strings"

	gosimpleslug "github.com/gosimple/slug"
)

// GenerateSlug builds the public slug for a new catalog entity from its
// primary name, suffixed with the tenant id. Assigned once at creation and
// never recomputed on update.
func GenerateSlug(name, tenantID string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "shop-" + tenantID
	}
	return gosimpleslug.Make(name) + "-" + tenantID
}
