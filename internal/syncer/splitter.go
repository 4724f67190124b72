package syncer

import (
	"context"
	"strings"

	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	"github.com/smallbiznis/tenantsync/internal/feed"
	"github.com/smallbiznis/tenantsync/internal/resolver"
)

// Splitter expands a record whose floor field lists multiple floors into one
// logical record per distinct resolved floor.
type Splitter struct {
	resolver *resolver.Resolver
}

func NewSplitter(r *resolver.Resolver) *Splitter {
	return &Splitter{resolver: r}
}

// Split resolves each comma-separated floor token and dedupes by canonical
// floor identity. With two or more distinct floors it emits one clone per
// floor, rewriting uniqueId to "{original}-{floorCode}" so every clone maps
// to its own catalog entity. This is the only place uniqueId is derived
// rather than taken verbatim from the feed.
func (s *Splitter) Split(ctx context.Context, rc *RunContext, record feed.Record) []feed.Record {
	label := record.FloorLabel()
	if !strings.Contains(label, ",") {
		return []feed.Record{record}
	}

	var floors []*domain.Floor
	seen := make(map[int64]struct{})
	for _, token := range strings.Split(label, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		floor := s.resolver.ResolveFloor(ctx, rc, token)
		if floor == nil {
			continue
		}
		if _, ok := seen[floor.ID]; ok {
			continue
		}
		seen[floor.ID] = struct{}{}
		floors = append(floors, floor)
	}

	switch len(floors) {
	case 0:
		return []feed.Record{record}
	case 1:
		record.Floor = floors[0].Name
		record.FloorRevised = floors[0].Name
		return []feed.Record{record}
	}

	clones := make([]feed.Record, 0, len(floors))
	for _, floor := range floors {
		clone := record
		clone.Floor = floor.Name
		clone.FloorRevised = floor.Name
		clone.UniqueID = record.UniqueID + "-" + floor.Name
		clones = append(clones, clone)
	}
	return clones
}
