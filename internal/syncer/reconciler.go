package syncer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/tenantsync/internal/catalog/domain"
	"github.com/smallbiznis/tenantsync/internal/clock"
	"github.com/smallbiznis/tenantsync/internal/feed"
	"github.com/smallbiznis/tenantsync/internal/resolver"
	"github.com/smallbiznis/tenantsync/internal/textdecode"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Result reports a single reconciliation outcome. WasCreated is the only
// signal the batch layer uses to classify created vs updated counts.
type Result struct {
	Collection domain.Collection
	WasCreated bool
}

// Reconciler performs the idempotent create-or-update of one catalog entity,
// its localized text and its category relation.
type Reconciler struct {
	db       *gorm.DB
	log      *zap.Logger
	repo     domain.Repository
	resolver *resolver.Resolver
	genID    *snowflake.Node
	clock    clock.Clock
}

func NewReconciler(db *gorm.DB, log *zap.Logger, repo domain.Repository, r *resolver.Resolver, genID *snowflake.Node, clk clock.Clock) *Reconciler {
	return &Reconciler{
		db:       db,
		log:      log.Named("reconciler"),
		repo:     repo,
		resolver: r,
		genID:    genID,
		clock:    clk,
	}
}

// Reconcile syncs one upstream record into the catalog. Validation problems
// are recorded as issues and never block processing; a returned error means
// the record failed and is isolated by the caller.
func (r *Reconciler) Reconcile(ctx context.Context, rc *RunContext, record feed.Record) (*Result, error) {
	start := r.clock.Now()
	defer func() {
		rc.ObserveRecord(r.clock.Now().Sub(start))
	}()

	collection := Classify(record)
	r.validate(rc, record)

	floor := r.resolver.ResolveFloor(ctx, rc, record.FloorLabel())
	category := r.resolver.ResolveCategory(ctx, rc,
		strings.TrimSpace(record.CategoryNameEn),
		strings.TrimSpace(record.CategoryNameTh),
		collection,
	)
	hours := ParseOpeningHours(record.OpeningHours)

	existing, err := r.repo.FindEntityByUniqueID(ctx, r.db, collection, record.UniqueID)
	if err != nil {
		return nil, fmt.Errorf("lookup %s %q: %w", collection, record.UniqueID, err)
	}

	if existing != nil {
		if err := r.update(ctx, collection, existing, record, floor, hours, category); err != nil {
			return nil, err
		}
		return &Result{Collection: collection, WasCreated: false}, nil
	}

	created, err := r.create(ctx, collection, record, floor, hours, category)
	if err != nil {
		return nil, err
	}
	return &Result{Collection: collection, WasCreated: created}, nil
}

func (r *Reconciler) validate(rc *RunContext, record feed.Record) {
	uniqueID := record.UniqueID
	if uniqueID == "" {
		uniqueID = "unknown"
		rc.AddIssue(uniqueID, "missing unique id")
	}
	if record.BrandNameEn == "" && record.ShopNameEnglish == "" &&
		record.BrandNameTh == "" && record.ShopNameThai == "" {
		rc.AddIssue(uniqueID, "no name found in any language")
	}
	if record.TenantID == "" {
		rc.AddIssue(uniqueID, "missing tenant id")
	}
}

func (r *Reconciler) update(ctx context.Context, collection domain.Collection, existing *domain.Entity, record feed.Record, floor *domain.Floor, hours OpeningHours, category *domain.Category) error {
	existing.LocationZone = record.Zone
	existing.OpeningHoursSameEveryDay = hours.SameEveryDay
	existing.OpeningHoursOpen = hours.Open
	existing.OpeningHoursClose = hours.Close
	if floor != nil {
		existing.FloorID = &floor.ID
	}
	existing.UpdatedAt = r.clock.Now()

	if err := r.repo.UpdateEntity(ctx, r.db, collection, existing); err != nil {
		return fmt.Errorf("update %s %q: %w", collection, existing.UniqueID, err)
	}

	if err := r.ensureCategoryRelation(ctx, collection, existing.ID, category); err != nil {
		return err
	}
	if err := r.upsertLocales(ctx, collection, existing.ID, record); err != nil {
		return err
	}

	r.log.Info("updated entity",
		zap.String("collection", string(collection)),
		zap.String("unique_id", existing.UniqueID),
	)
	return nil
}

// create inserts the entity and its satellites. A duplicate-key failure means
// a concurrent reconciliation won the race for this unique_id; the record is
// retried as an update against the winner's row.
func (r *Reconciler) create(ctx context.Context, collection domain.Collection, record feed.Record, floor *domain.Floor, hours OpeningHours, category *domain.Category) (bool, error) {
	now := r.clock.Now()
	entity := &domain.Entity{
		ID:                       r.genID.Generate().Int64(),
		UniqueID:                 record.UniqueID,
		Slug:                     GenerateSlug(record.PrimaryName(), record.TenantID),
		Status:                   domain.StatusInactive,
		LocationZone:             record.Zone,
		OpeningHoursSameEveryDay: hours.SameEveryDay,
		OpeningHoursOpen:         hours.Open,
		OpeningHoursClose:        hours.Close,
		SortOrder:                0,
		IsFeatured:               false,
		CreatedAt:                now,
		UpdatedAt:                now,
	}
	if floor != nil {
		entity.FloorID = &floor.ID
	}

	err := r.repo.CreateEntity(ctx, r.db, collection, entity)
	if errors.Is(err, domain.ErrDuplicateEntity) {
		winner, findErr := r.repo.FindEntityByUniqueID(ctx, r.db, collection, record.UniqueID)
		if findErr != nil {
			return false, fmt.Errorf("lookup after duplicate %s %q: %w", collection, record.UniqueID, findErr)
		}
		if winner == nil {
			return false, fmt.Errorf("duplicate %s %q but row not found", collection, record.UniqueID)
		}
		return false, r.update(ctx, collection, winner, record, floor, hours, category)
	}
	if err != nil {
		return false, fmt.Errorf("create %s %q: %w", collection, record.UniqueID, err)
	}

	if err := r.ensureCategoryRelation(ctx, collection, entity.ID, category); err != nil {
		return false, err
	}
	if err := r.upsertLocales(ctx, collection, entity.ID, record); err != nil {
		return false, err
	}

	r.log.Info("created entity",
		zap.String("collection", string(collection)),
		zap.String("unique_id", entity.UniqueID),
		zap.String("slug", entity.Slug),
	)
	return true, nil
}

// ensureCategoryRelation creates the relation iff absent. Stale relations are
// never removed here.
func (r *Reconciler) ensureCategoryRelation(ctx context.Context, collection domain.Collection, parentID int64, category *domain.Category) error {
	if category == nil {
		return nil
	}

	exists, err := r.repo.HasCategoryRelation(ctx, r.db, collection, parentID, category.ID)
	if err != nil {
		return fmt.Errorf("check relation: %w", err)
	}
	if exists {
		return nil
	}

	rel := &domain.CategoryRelation{
		ID:         r.genID.Generate().Int64(),
		ParentID:   parentID,
		CategoryID: category.ID,
		Path:       "/",
		Order:      0,
	}
	if err := r.repo.CreateCategoryRelation(ctx, r.db, collection, rel); err != nil {
		return fmt.Errorf("create relation: %w", err)
	}
	return nil
}

func (r *Reconciler) upsertLocales(ctx context.Context, collection domain.Collection, parentID int64, record feed.Record) error {
	for _, entry := range r.localeEntries(parentID, record) {
		if err := r.repo.UpsertLocale(ctx, r.db, collection, entry); err != nil {
			return fmt.Errorf("upsert locale %s: %w", entry.Locale, err)
		}
	}
	return nil
}

// localeEntries assembles the en/th/zh rows. The feed has no Chinese source
// fields, so zh is populated from the English ones.
func (r *Reconciler) localeEntries(parentID int64, record feed.Record) []*domain.LocaleEntry {
	en := &domain.LocaleEntry{
		ID:              r.genID.Generate().Int64(),
		ParentID:        parentID,
		Locale:          domain.LocaleEn,
		Title:           decodePtr(record.PrimaryName()),
		Subtitle:        decodePtr(record.ShopNameThai),
		Description:     decodePtr(record.DescriptionEn),
		MetaTitle:       decodePtr(record.BrandNameEn),
		MetaDescription: decodePtr(record.DescriptionEn),
	}

	thTitle := record.BrandNameTh
	if thTitle == "" {
		thTitle = record.ShopNameThai
	}
	th := &domain.LocaleEntry{
		ID:              r.genID.Generate().Int64(),
		ParentID:        parentID,
		Locale:          domain.LocaleTh,
		Title:           decodePtr(thTitle),
		Subtitle:        decodePtr(record.ShopNameEnglish),
		Description:     decodePtr(record.DescriptionTh),
		MetaTitle:       decodePtr(record.BrandNameTh),
		MetaDescription: decodePtr(record.DescriptionTh),
	}

	zh := &domain.LocaleEntry{
		ID:              r.genID.Generate().Int64(),
		ParentID:        parentID,
		Locale:          domain.LocaleZh,
		Title:           en.Title,
		Subtitle:        en.Subtitle,
		Description:     en.Description,
		MetaTitle:       en.MetaTitle,
		MetaDescription: en.MetaDescription,
	}

	return []*domain.LocaleEntry{en, th, zh}
}

func decodePtr(s string) *string {
	if s == "" {
		return nil
	}
	decoded := textdecode.Decode(s)
	return &decoded
}
