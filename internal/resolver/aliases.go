package resolver

import (
	"errors"

	"github.com/spf13/viper"
)

// Aliases maps common upstream spellings of floor and category labels to
// their canonical names. The tables are immutable once loaded; every resolver
// instance gets its own copy injected at construction.
type Aliases struct {
	Floors     map[string]string `mapstructure:"floors"`
	Categories map[string]string `mapstructure:"categories"`
}

// LoadAliases reads an optional aliases.yml over the built-in tables. File
// entries extend or override the defaults; keys are matched lower-cased.
func LoadAliases() (Aliases, error) {
	v := viper.New()

	v.SetConfigName("aliases")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/tenantsync")
	v.AddConfigPath(".")

	aliases := DefaultAliases()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Aliases{}, err
		}
		return aliases, nil
	}

	var fromFile Aliases
	if err := v.Unmarshal(&fromFile); err != nil {
		return Aliases{}, err
	}
	for label, canonical := range fromFile.Floors {
		aliases.Floors[label] = canonical
	}
	for label, canonical := range fromFile.Categories {
		aliases.Categories[label] = canonical
	}

	if err := validateAliases(aliases); err != nil {
		return Aliases{}, err
	}
	return aliases, nil
}

func validateAliases(a Aliases) error {
	if len(a.Floors) == 0 {
		return errors.New("aliases.floors cannot be empty")
	}
	if len(a.Categories) == 0 {
		return errors.New("aliases.categories cannot be empty")
	}
	return nil
}

// DefaultAliases returns the built-in alias tables, collected from the label
// variants the upstream feed has been observed to produce.
func DefaultAliases() Aliases {
	return Aliases{
		Floors: map[string]string{
			"basement 1":      "B1",
			"basement 2":      "B2",
			"ground floor":    "GF",
			"upper ground":    "UG",
			"mezzanine floor": "MF",
			"mezzanine":       "MF",
			"first floor":     "1F",
			"second floor":    "2F",
			"third floor":     "3F",
			"fourth floor":    "4F",
			"fifth floor":     "5F",
			"sixth floor":     "6F",
			"seventh floor":   "7F",
			"eighth floor":    "8F",
			"m":               "MF",
			"g":               "GF",
			"ga":              "GF",
			"bm1":             "B1",
			"bm2":             "B2",
			"1":               "1F",
			"2":               "2F",
			"3":               "3F",
			"4":               "4F",
			"5":               "5F",
			"6":               "6F",
			"7":               "7F",
			"8":               "8F",
			"b1 floor":        "B1",
			"b2 floor":        "B2",
			"gf floor":        "GF",
			"ug floor":        "UG",
			"mf floor":        "MF",
			"1f floor":        "1F",
			"2f floor":        "2F",
			"3f floor":        "3F",
			"4f floor":        "4F",
			"5f floor":        "5F",
			"6f floor":        "6F",
			"7f floor":        "7F",
			"8f floor":        "8F",
			"fl. 1":           "1F",
			"fl. 2":           "2F",
			"fl. 3":           "3F",
			"fl. 4":           "4F",
			"fl. 5":           "5F",
			"fl. 6":           "6F",
			"fl. 7":           "7F",
			"fl. g":           "GF",
			"fl. m":           "MF",
			"fl. u":           "UG",
			"fl. b1":          "B1",
			"fl. b2":          "B2",
			"fl. bm1":         "BM1",
			"fl. bm1,g":       "BM1",
			"fl. ga":          "GF",
			"fl. bf":          "BF",
			",1":              "1F",
			"2,3":             "2F",
			"7,8":             "7F",
			"7,7a,8a":         "7F",
			"7a":              "7F",
		},
		Categories: map[string]string{
			"international luxury":                  "LUXURY",
			"international luxury brands":           "LUXURY",
			"luxury international":                  "LUXURY",
			"premium luxury":                        "LUXURY",
			"high-end luxury":                       "LUXURY",
			"luxury brands":                         "LUXURY",
			"luxury fashion":                        "LUXURY",
			"fashion & accessories":                 "FASHION",
			"fashion&accessories":                   "FASHION",
			"fashion accessories":                   "FASHION",
			"international fashion":                 "FASHION",
			"premium fashion":                       "FASHION",
			"high-end fashion":                      "FASHION",
			"fashion brands":                        "FASHION",
			"health & beauty":                       "BEAUTY",
			"health beauty":                         "BEAUTY",
			"health&beauty":                         "BEAUTY",
			"beauty & wellness":                     "BEAUTY",
			"international beauty":                  "BEAUTY",
			"premium beauty":                        "BEAUTY",
			"beauty brands":                         "BEAUTY",
			"international cosmetics":               "BEAUTY",
			"premium cosmetics":                     "BEAUTY",
			"mobile, gadget, electronics":           "GADGET",
			"mobile gadget electronics":             "GADGET",
			"electronics & gadgets":                 "GADGET",
			"gadget electronics":                    "GADGET",
			"mobile electronics":                    "GADGET",
			"food & beverage":                       "RESTAURANT",
			"food beverage":                         "RESTAURANT",
			"food and beverage":                     "RESTAURANT",
			"grocery, lifestyle & department store": "HOME & LIVING",
			"grocery lifestyle department store":    "HOME & LIVING",
			"lifestyle department store":            "HOME & LIVING",
			"grocery lifestyle":                     "HOME & LIVING",
			"leisure and entertainment":             "CLUB & LOUNGE",
			"leisure entertainment":                 "CLUB & LOUNGE",
			"entertainment leisure":                 "CLUB & LOUNGE",
			"service":                               "GENERAL",
			"services":                              "GENERAL",
			"specialty":                             "GENERAL",
			"specialty items":                       "COSMETIC & FRAGRANCE",
			"cosmetic & fragrance":                  "COSMETIC & FRAGRANCE",
			"cosmetic fragrance":                    "COSMETIC & FRAGRANCE",
			"cosmetic & fragrances":                 "COSMETIC & FRAGRANCE",
			"cosmetic fragrances":                   "COSMETIC & FRAGRANCE",
			"cosmetics & fragrance":                 "COSMETIC & FRAGRANCE",
			"cosmetics fragrance":                   "COSMETIC & FRAGRANCE",
		},
	}
}
