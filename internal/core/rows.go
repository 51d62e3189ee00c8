package core

import "strings"

const (
	buildRowColumns = 31

	// MinBuildColumns is the shortest building row that is transformed.
	MinBuildColumns = 16
)

// buildRow is a building file row with its columns named.
// Column positions are known only to parseBuildRow.
type buildRow struct {
	legalAreaCode string
	parcelRegion1 string
	parcelRegion2 string
	parcelRegion3 string
	parcelRegion4 string
	mountainLot   bool
	parcelMainNo  string
	parcelSubNo   string

	roadCode     string
	roadName     string
	underground  bool
	buildingMain string
	buildingSub  string
	id           string
	areaSerial   string
	postalCode   string
	buildingName string
}

func parseBuildRow(cols []string) buildRow {
	row := padColumns(cols, buildRowColumns)
	return buildRow{
		legalAreaCode: norm(row[0]),
		parcelRegion1: norm(row[1]),
		parcelRegion2: norm(row[2]),
		parcelRegion3: norm(row[3]),
		parcelRegion4: norm(row[4]),
		mountainLot:   norm(row[5]) == "1",
		parcelMainNo:  norm(row[6]),
		parcelSubNo:   norm(row[7]),
		roadCode:      norm(row[8]),
		roadName:      norm(row[9]),
		underground:   norm(row[10]) == "1",
		buildingMain:  norm(row[11]),
		buildingSub:   norm(row[12]),
		id:            norm(row[15]),
		areaSerial:    norm(row[16]),
		postalCode:    firstNonEmpty(norm(row[27]), norm(row[19])),
		buildingName:  firstNonEmpty(norm(row[25]), norm(row[13]), norm(row[14])),
	}
}

// complete reports whether the fields every document needs are present.
func (r buildRow) complete() bool {
	return r.id != "" && r.roadCode != "" && r.areaSerial != "" && r.buildingMain != ""
}

func padColumns(cols []string, n int) []string {
	if len(cols) >= n {
		return cols
	}
	padded := make([]string, n)
	copy(padded, cols)
	return padded
}

func norm(s string) string {
	return strings.TrimSpace(s)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
