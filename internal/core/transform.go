package core

import (
	"strings"

	"github.com/JonMunkholm/addresses/internal/config"
)

// Korean number prefixes.
const (
	KoMountainPrefix    = "산"
	KoUndergroundPrefix = "지하"
)

// Format controls the localized prefixes on building and lot numbers.
type Format struct {
	MountainPrefixKo    bool // 산 before a mountain lot number
	UndergroundPrefixKo bool // 지하 before an underground building number
	MountainWordEn      bool // "Mountain " before a mountain lot number
	UndergroundWordEn   bool // "Underground " before an underground building number
}

// DefaultFormat returns the registry's conventional formatting.
func DefaultFormat() Format {
	return Format{
		MountainPrefixKo:    true,
		UndergroundPrefixKo: true,
		MountainWordEn:      true,
		UndergroundWordEn:   false,
	}
}

// FormatFromConfig maps the ADDRESS_FORMAT_* settings.
func FormatFromConfig(c config.FormatConfig) Format {
	return Format{
		MountainPrefixKo:    c.MountainPrefixKo,
		UndergroundPrefixKo: c.UndergroundPrefixKo,
		MountainWordEn:      c.MountainWordEn,
		UndergroundWordEn:   c.UndergroundWordEn,
	}
}

// MakeNumber joins a main and sub number as "main-sub". A blank or "0" sub
// yields main alone; a blank main yields "".
func MakeNumber(main, sub string) string {
	if main == "" {
		return ""
	}
	if sub != "" && sub != "0" {
		return main + "-" + sub
	}
	return main
}

func joinParts(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

func prefixed(cond bool, prefix, value string) string {
	if cond && value != "" {
		return prefix + value
	}
	return value
}

func allPresent(values ...string) bool {
	for _, v := range values {
		if v == "" {
			return false
		}
	}
	return true
}

// Transform builds the document for one split building row. It reports
// false for rows missing the id, road code, local-area serial or building
// main number. English fields come only from the road dictionary.
func Transform(cols []string, idx RoadIndex, f Format) (*Document, bool) {
	row := parseBuildRow(cols)
	if !row.complete() {
		return nil, false
	}

	parcelNo := MakeNumber(row.parcelMainNo, row.parcelSubNo)
	buildingNo := MakeNumber(row.buildingMain, row.buildingSub)

	dict, _ := idx.Lookup(row.roadCode, row.areaSerial)

	roadKo := RoadLocale{
		Region1:  firstNonEmpty(dict.Ko.Region1, row.parcelRegion1),
		Region2:  firstNonEmpty(dict.Ko.Region2, row.parcelRegion2),
		Area:     firstNonEmpty(dict.Ko.Area, row.parcelRegion3),
		RoadName: firstNonEmpty(row.roadName, dict.Ko.RoadName),
	}
	roadEn := dict.En

	buildingNoKo := prefixed(row.underground && f.UndergroundPrefixKo, KoUndergroundPrefix, buildingNo)
	buildingNoEn := prefixed(row.underground && f.UndergroundWordEn, "Underground ", buildingNo)
	parcelNoKo := prefixed(row.mountainLot && f.MountainPrefixKo, KoMountainPrefix, parcelNo)
	parcelNoEn := prefixed(row.mountainLot && f.MountainWordEn, "Mountain ", parcelNo)

	roadFullKo := joinParts(roadKo.Region1, roadKo.Region2, roadKo.Area, roadKo.RoadName, buildingNoKo)

	var roadFullEn string
	if allPresent(roadEn.Region1, roadEn.Region2, roadEn.RoadName, buildingNoEn) {
		roadFullEn = joinParts(roadEn.Region1, roadEn.Region2, roadEn.Area, roadEn.RoadName, buildingNoEn)
	}

	parcelFullKo := joinParts(row.parcelRegion1, row.parcelRegion2, row.parcelRegion3, row.parcelRegion4, parcelNoKo)

	var parcelFullEn string
	if allPresent(roadEn.Region1, roadEn.Region2, roadEn.Area, parcelNoEn) {
		parcelFullEn = joinParts(roadEn.Region1, roadEn.Region2, roadEn.Area, parcelNoEn)
	}

	return &Document{
		ID: row.id,
		Display: Localized{
			Ko: firstNonEmpty(roadFullKo, parcelFullKo),
			En: firstNonEmpty(roadFullEn, parcelFullEn),
		},
		Road: Road{
			Ko: RoadAddress{
				Region1:       roadKo.Region1,
				Region2:       roadKo.Region2,
				Region3:       roadKo.Area,
				RoadName:      roadKo.RoadName,
				BuildingNo:    buildingNoKo,
				IsUnderground: row.underground,
				Full:          roadFullKo,
			},
			En: RoadAddress{
				Region1:       roadEn.Region1,
				Region2:       roadEn.Region2,
				Region3:       roadEn.Area,
				RoadName:      roadEn.RoadName,
				BuildingNo:    buildingNoEn,
				IsUnderground: row.underground,
				Full:          roadFullEn,
			},
			Codes: RoadCodes{
				RoadCode:        row.roadCode,
				LocalAreaSerial: row.areaSerial,
				PostalCode:      row.postalCode,
			},
			Building: Building{NameKo: row.buildingName},
		},
		Parcel: Parcel{
			Ko: ParcelAddress{
				Region1:       row.parcelRegion1,
				Region2:       row.parcelRegion2,
				Region3:       row.parcelRegion3,
				Region4:       row.parcelRegion4,
				IsMountainLot: row.mountainLot,
				MainNo:        row.parcelMainNo,
				SubNo:         row.parcelSubNo,
				ParcelNo:      parcelNoKo,
				Full:          parcelFullKo,
			},
			En: ParcelAddress{
				Region1:       roadEn.Region1,
				Region2:       roadEn.Region2,
				Region3:       roadEn.Area,
				IsMountainLot: row.mountainLot,
				MainNo:        row.parcelMainNo,
				SubNo:         row.parcelSubNo,
				ParcelNo:      parcelNoEn,
				Full:          parcelFullEn,
			},
			Codes: ParcelCodes{LegalAreaCode: row.legalAreaCode},
		},
		Search: Localized{
			Ko: strings.ToLower(joinParts(roadFullKo, parcelFullKo, row.postalCode, row.buildingName)),
			En: strings.ToLower(joinParts(roadFullEn, parcelFullEn, row.postalCode)),
		},
	}, true
}
