// Package resolver maps free-text floor and category labels from the
// upstream feed onto canonical catalog rows. Resolution runs three tiers in
// order: case-insensitive exact match, alias-table lookup, substring match.
// A total miss is recorded on the run and never fails the record.
package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Misses collects unresolved labels. Implemented by the run context so the
// accumulators stay run-scoped instead of process-global.
type Misses interface {
	UnresolvedFloor(label string)
	UnresolvedCategory(label string, collection domain.Collection)
}

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Repo    domain.Repository
	Aliases Aliases
}

type Resolver struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	aliases Aliases
}

func New(p Params) *Resolver {
	return &Resolver{
		db:      p.DB,
		log:     p.Log.Named("resolver"),
		repo:    p.Repo,
		aliases: p.Aliases,
	}
}

// ResolveFloor maps a raw floor label to a canonical floor row. Returns nil
// on a miss; the miss is recorded on misses. Store errors inside a tier are
// logged and treated as a miss for that tier.
func (r *Resolver) ResolveFloor(ctx context.Context, misses Misses, label string) *domain.Floor {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil
	}

	if floor := r.findFloorExact(ctx, label); floor != nil {
		return floor
	}

	if mapped, ok := r.aliases.Floors[strings.ToLower(label)]; ok {
		if floor := r.findFloorExact(ctx, mapped); floor != nil {
			r.log.Debug("floor resolved via alias",
				zap.String("label", label),
				zap.String("canonical", mapped),
			)
			return floor
		}
	}

	if floor := r.findFloorContains(ctx, label); floor != nil {
		return floor
	}

	r.log.Warn("floor not found", zap.String("label", label))
	misses.UnresolvedFloor(label)
	return nil
}

// ResolveCategory maps upstream category names to a canonical category of the
// given collection type. The English name is preferred as the search key; the
// same text resolves against a disjoint canonical set per type.
func (r *Resolver) ResolveCategory(ctx context.Context, misses Misses, nameEn, nameTh string, collection domain.Collection) *domain.Category {
	searchName := strings.TrimSpace(nameEn)
	if searchName == "" {
		searchName = strings.TrimSpace(nameTh)
	}
	if searchName == "" {
		return nil
	}

	if category := r.findCategoryExact(ctx, collection, searchName); category != nil {
		return category
	}

	if mapped, ok := r.aliases.Categories[strings.ToLower(searchName)]; ok {
		if category := r.findCategoryExact(ctx, collection, mapped); category != nil {
			r.log.Debug("category resolved via alias",
				zap.String("label", searchName),
				zap.String("canonical", mapped),
			)
			return category
		}
	}

	if category := r.findCategoryContains(ctx, collection, searchName); category != nil {
		return category
	}

	r.log.Warn("category not found",
		zap.String("label", searchName),
		zap.String("collection", string(collection)),
	)
	misses.UnresolvedCategory(searchName, collection)
	return nil
}

func (r *Resolver) findFloorExact(ctx context.Context, name string) *domain.Floor {
	floor, err := r.repo.FindFloorByName(ctx, r.db, name)
	if err != nil {
		r.log.Warn("floor lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	return floor
}

func (r *Resolver) findFloorContains(ctx context.Context, name string) *domain.Floor {
	candidates, err := r.repo.FindFloorsByNameContains(ctx, r.db, name)
	if err != nil {
		r.log.Warn("floor lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > 1 {
		r.log.Debug("ambiguous floor substring match",
			zap.String("label", name),
			zap.Int("candidates", len(candidates)),
		)
	}
	sortByNameLength(candidates, func(f domain.Floor) string { return f.Name })
	return &candidates[0]
}

func (r *Resolver) findCategoryExact(ctx context.Context, collection domain.Collection, name string) *domain.Category {
	category, err := r.repo.FindCategoryByName(ctx, r.db, collection, name)
	if err != nil {
		r.log.Warn("category lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	return category
}

func (r *Resolver) findCategoryContains(ctx context.Context, collection domain.Collection, name string) *domain.Category {
	candidates, err := r.repo.FindCategoriesByNameContains(ctx, r.db, collection, name)
	if err != nil {
		r.log.Warn("category lookup failed", zap.String("name", name), zap.Error(err))
		return nil
	}
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) > 1 {
		r.log.Debug("ambiguous category substring match",
			zap.String("label", name),
			zap.Int("candidates", len(candidates)),
		)
	}
	sortByNameLength(candidates, func(c domain.Category) string { return c.Name })
	return &candidates[0]
}

// sortByNameLength orders substring-match candidates deterministically:
// shortest canonical name first, ties broken lexicographically. The store's
// row order is never trusted as a tie-break.
func sortByNameLength[T any](items []T, name func(T) string) {
	sort.Slice(items, func(i, j int) bool {
		a, b := name(items[i]), name(items[j])
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return a < b
	})
}
