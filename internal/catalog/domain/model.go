package domain

import "time"

// Collection selects which catalog table family a record lands in.
type Collection string

const (
	CollectionShops   Collection = "shops"
	CollectionDinings Collection = "dinings"
)

func (c Collection) EntityTable() string   { return string(c) }
func (c Collection) LocaleTable() string   { return string(c) + "_locales" }
func (c Collection) RelationTable() string { return string(c) + "_rels" }

// Entity statuses. New entities always start INACTIVE and go live through the
// CMS; the sync job never changes status after creation.
const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

const (
	LocaleEn = "en"
	LocaleTh = "th"
	LocaleZh = "zh"
)

// Floor is a canonical floor row. The resolver only looks these up.
type Floor struct {
	ID   int64  `gorm:"primaryKey"`
	Name string `gorm:"type:text;not null"`
}

func (Floor) TableName() string { return "floors" }

// Category is a canonical category row, scoped by the collection type it
// applies to. Looked up, never created.
type Category struct {
	ID   int64  `gorm:"primaryKey"`
	Type string `gorm:"type:text;not null"`
	Name string `gorm:"type:text;not null"`
}

func (Category) TableName() string { return "categories" }

// Entity is a shop or dining listing. The same shape is stored in two tables;
// Collection picks which one. unique_id is the idempotency key: at most one
// row per (collection, unique_id).
type Entity struct {
	ID                        int64  `gorm:"primaryKey"`
	UniqueID                  string `gorm:"column:unique_id;type:text;not null"`
	Slug                      string `gorm:"type:text;not null"`
	Status                    string `gorm:"type:text;not null"`
	LocationZone              string `gorm:"type:text"`
	OpeningHoursSameEveryDay  bool   `gorm:"column:opening_hours_same_hours_every_day"`
	OpeningHoursOpen          string `gorm:"type:text"`
	OpeningHoursClose         string `gorm:"type:text"`
	FloorID                   *int64
	SortOrder                 float64
	IsFeatured                bool
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// LocaleEntry is the localized text of an entity, one row per
// (parent_id, locale).
type LocaleEntry struct {
	ID              int64  `gorm:"primaryKey"`
	ParentID        int64  `gorm:"column:parent_id;not null"`
	Locale          string `gorm:"type:text;not null"`
	Title           *string `gorm:"type:text"`
	Subtitle        *string `gorm:"type:text"`
	Description     *string `gorm:"type:text"`
	MetaTitle       *string `gorm:"type:text"`
	MetaDescription *string `gorm:"type:text"`
}

// CategoryRelation links an entity to a canonical category. At most one row
// per (parent_id, categories_id); rows are never removed by the sync job.
type CategoryRelation struct {
	ID         int64  `gorm:"primaryKey"`
	ParentID   int64  `gorm:"column:parent_id;not null"`
	CategoryID int64  `gorm:"column:categories_id;not null"`
	Path       string `gorm:"type:text"`
	Order      int    `gorm:"column:order"`
}
