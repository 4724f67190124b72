package feed

import "strings"

// Record is one tenant listing from the upstream directory feed. The feed is
// the system of record; records are treated as immutable input and only the
// floor splitter produces derived copies.
type Record struct {
	UniqueID        string `json:"uniqueId"`
	TenantID        string `json:"tenantId"`
	SourceSystem    string `json:"sourceSystem"`
	Type            string `json:"type"`
	BrandNameEn     string `json:"brandNameEn"`
	BrandNameTh     string `json:"brandNameTh"`
	BuildingName    string `json:"buildingName"`
	BuildingCode    string `json:"buildingCode"`
	ShopNameEnglish string `json:"shopNameEnglish"`
	ShopNameThai    string `json:"shopNameThai"`
	Status          bool   `json:"status"`
	StatusRevised   string `json:"statusRevised"`
	CategoryNameEn  string `json:"categoryNameEn"`
	CategoryNameTh  string `json:"categoryNameTh"`
	SubCategoryEn   string `json:"subCategoryEn"`
	SubCategoryTh   string `json:"subCategoryTh"`
	Zone            string `json:"zone"`
	Floor           string `json:"floor"`
	FloorRevised    string `json:"floorRevised"`
	OpeningHours    string `json:"openingHours"`
	LastOrder       string `json:"lastOrder"`
	Unit            string `json:"unit"`
	Tel             string `json:"tel"`
	Website         string `json:"website"`
	DescriptionEn   string `json:"descriptionEn"`
	DescriptionTh   string `json:"descriptionTh"`
}

// FloorLabel returns the floor text the record should be resolved by.
// floorRevised wins over floor when both are present.
func (r Record) FloorLabel() string {
	if v := strings.TrimSpace(r.FloorRevised); v != "" {
		return v
	}
	return strings.TrimSpace(r.Floor)
}

// PrimaryName returns the best available English display name.
func (r Record) PrimaryName() string {
	if r.BrandNameEn != "" {
		return r.BrandNameEn
	}
	return r.ShopNameEnglish
}
