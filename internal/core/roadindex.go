package core

import (
	"context"
	"strings"
)

const (
	roadRowColumns    = 20
	minRoadRowColumns = 5
)

// RoadLocale is one language block of a road dictionary entry.
// Empty strings mean the source column was blank.
type RoadLocale struct {
	Region1  string
	Region2  string
	Area     string
	RoadName string
}

// RoadEntry holds the localized road names for one road code and local area.
type RoadEntry struct {
	Ko RoadLocale
	En RoadLocale
}

// RoadIndex maps roadKey(roadCode, localAreaSerial) to dictionary entries.
type RoadIndex map[string]RoadEntry

func roadKey(roadCode, localAreaSerial string) string {
	return roadCode + "|" + localAreaSerial
}

// parseRoadRow reads one road dictionary row. It reports false when the
// district code, road number or local-area serial is blank.
func parseRoadRow(cols []string) (string, RoadEntry, bool) {
	row := padColumns(cols, roadRowColumns)

	district := norm(row[0])
	roadNo := norm(row[1])
	serial := norm(row[4])
	if district == "" || roadNo == "" || serial == "" {
		return "", RoadEntry{}, false
	}

	entry := RoadEntry{
		Ko: RoadLocale{
			Region1:  norm(row[5]),
			Region2:  norm(row[6]),
			Area:     norm(row[9]),
			RoadName: norm(row[2]),
		},
		En: RoadLocale{
			Region1:  norm(row[15]),
			Region2:  norm(row[16]),
			Area:     norm(row[17]),
			RoadName: norm(row[3]),
		},
	}
	return roadKey(district+roadNo, serial), entry, true
}

// Add indexes one split dictionary row. The first row seen for a key wins;
// Add reports whether the row was stored.
func (idx RoadIndex) Add(cols []string) bool {
	if len(cols) < minRoadRowColumns {
		return false
	}
	key, entry, ok := parseRoadRow(cols)
	if !ok {
		return false
	}
	if _, exists := idx[key]; exists {
		return false
	}
	idx[key] = entry
	return true
}

// Lookup returns the entry for a road code and local-area serial.
func (idx RoadIndex) Lookup(roadCode, localAreaSerial string) (RoadEntry, bool) {
	e, ok := idx[roadKey(roadCode, localAreaSerial)]
	return e, ok
}

// BuildRoadIndex reads every dictionary line from lr.
func BuildRoadIndex(ctx context.Context, lr *LineReader) (RoadIndex, error) {
	idx := make(RoadIndex)
	var n int
	for lr.Next() {
		n++
		if n%ContextCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		idx.Add(strings.Split(lr.Line(), "|"))
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	return idx, nil
}
