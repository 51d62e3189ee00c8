package core

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

type columnKind int

const (
	kindText columnKind = iota
	kindFloat
	kindBool
)

// arrayType is the Postgres array cast UNNEST expects for the kind.
func (k columnKind) arrayType() string {
	switch k {
	case kindFloat:
		return "float8[]"
	case kindBool:
		return "boolean[]"
	default:
		return "text[]"
	}
}

func (k columnKind) sqlType() string {
	switch k {
	case kindFloat:
		return "double precision"
	case kindBool:
		return "boolean"
	default:
		return "text"
	}
}

// addressColumn binds one table column to its field in Document.
// Exactly one accessor is set, matching kind. The accessors return pointers
// so the same table serves both the bulk writer and the search scanner.
type addressColumn struct {
	name  string
	kind  columnKind
	text  func(*Document) *string
	float func(*Document) **float64
	flag  func(*Document) *bool
}

func textColumn(name string, f func(*Document) *string) addressColumn {
	return addressColumn{name: name, kind: kindText, text: f}
}

func floatColumn(name string, f func(*Document) **float64) addressColumn {
	return addressColumn{name: name, kind: kindFloat, float: f}
}

func boolColumn(name string, f func(*Document) *bool) addressColumn {
	return addressColumn{name: name, kind: kindBool, flag: f}
}

func roadAddressColumns(prefix string, pick func(*Document) *RoadAddress) []addressColumn {
	return []addressColumn{
		textColumn(prefix+"region1", func(d *Document) *string { return &pick(d).Region1 }),
		textColumn(prefix+"region2", func(d *Document) *string { return &pick(d).Region2 }),
		textColumn(prefix+"region3", func(d *Document) *string { return &pick(d).Region3 }),
		textColumn(prefix+"road_name", func(d *Document) *string { return &pick(d).RoadName }),
		textColumn(prefix+"building_no", func(d *Document) *string { return &pick(d).BuildingNo }),
		boolColumn(prefix+"is_underground", func(d *Document) *bool { return &pick(d).IsUnderground }),
		textColumn(prefix+"full", func(d *Document) *string { return &pick(d).Full }),
	}
}

func parcelAddressColumns(prefix string, pick func(*Document) *ParcelAddress) []addressColumn {
	return []addressColumn{
		textColumn(prefix+"region1", func(d *Document) *string { return &pick(d).Region1 }),
		textColumn(prefix+"region2", func(d *Document) *string { return &pick(d).Region2 }),
		textColumn(prefix+"region3", func(d *Document) *string { return &pick(d).Region3 }),
		textColumn(prefix+"region4", func(d *Document) *string { return &pick(d).Region4 }),
		boolColumn(prefix+"is_mountain_lot", func(d *Document) *bool { return &pick(d).IsMountainLot }),
		textColumn(prefix+"main_no", func(d *Document) *string { return &pick(d).MainNo }),
		textColumn(prefix+"sub_no", func(d *Document) *string { return &pick(d).SubNo }),
		textColumn(prefix+"parcel_no", func(d *Document) *string { return &pick(d).ParcelNo }),
		textColumn(prefix+"full", func(d *Document) *string { return &pick(d).Full }),
	}
}

// addressColumns is the fixed column order of every generation table.
var addressColumns = buildAddressColumns()

func buildAddressColumns() []addressColumn {
	cols := []addressColumn{
		textColumn("id", func(d *Document) *string { return &d.ID }),
		floatColumn("x", func(d *Document) **float64 { return &d.X }),
		floatColumn("y", func(d *Document) **float64 { return &d.Y }),
		textColumn("display_ko", func(d *Document) *string { return &d.Display.Ko }),
		textColumn("display_en", func(d *Document) *string { return &d.Display.En }),
		textColumn("search_ko", func(d *Document) *string { return &d.Search.Ko }),
		textColumn("search_en", func(d *Document) *string { return &d.Search.En }),
	}
	cols = append(cols, roadAddressColumns("road_ko_", func(d *Document) *RoadAddress { return &d.Road.Ko })...)
	cols = append(cols, roadAddressColumns("road_en_", func(d *Document) *RoadAddress { return &d.Road.En })...)
	cols = append(cols,
		textColumn("road_code", func(d *Document) *string { return &d.Road.Codes.RoadCode }),
		textColumn("road_local_area_serial", func(d *Document) *string { return &d.Road.Codes.LocalAreaSerial }),
		textColumn("road_postal_code", func(d *Document) *string { return &d.Road.Codes.PostalCode }),
		textColumn("road_building_name_ko", func(d *Document) *string { return &d.Road.Building.NameKo }),
	)
	cols = append(cols, parcelAddressColumns("parcel_ko_", func(d *Document) *ParcelAddress { return &d.Parcel.Ko })...)
	cols = append(cols, parcelAddressColumns("parcel_en_", func(d *Document) *ParcelAddress { return &d.Parcel.En })...)
	cols = append(cols,
		textColumn("parcel_legal_area_code", func(d *Document) *string { return &d.Parcel.Codes.LegalAreaCode }),
	)
	return cols
}

func columnNames() []string {
	names := make([]string, len(addressColumns))
	for i, c := range addressColumns {
		names[i] = c.name
	}
	return names
}

// columnList returns the comma-separated column names in table order.
func columnList() string {
	return strings.Join(columnNames(), ", ")
}

// columnArrays builds one typed array per column for an UNNEST insert.
func columnArrays(docs []*Document) []any {
	args := make([]any, len(addressColumns))
	for i, c := range addressColumns {
		switch c.kind {
		case kindFloat:
			vals := make([]pgtype.Float8, len(docs))
			for j, d := range docs {
				vals[j] = ToPgFloat8(*c.float(d))
			}
			args[i] = vals
		case kindBool:
			vals := make([]bool, len(docs))
			for j, d := range docs {
				vals[j] = *c.flag(d)
			}
			args[i] = vals
		default:
			vals := make([]pgtype.Text, len(docs))
			for j, d := range docs {
				vals[j] = ToPgText(*c.text(d))
			}
			args[i] = vals
		}
	}
	return args
}

// scanTargets returns Scan destinations for one row in table order and a
// function that copies the scanned values into d.
func scanTargets(d *Document) ([]any, func()) {
	dest := make([]any, len(addressColumns))
	texts := make([]pgtype.Text, len(addressColumns))
	floats := make([]pgtype.Float8, len(addressColumns))
	flags := make([]pgtype.Bool, len(addressColumns))

	for i, c := range addressColumns {
		switch c.kind {
		case kindFloat:
			dest[i] = &floats[i]
		case kindBool:
			dest[i] = &flags[i]
		default:
			dest[i] = &texts[i]
		}
	}

	apply := func() {
		for i, c := range addressColumns {
			switch c.kind {
			case kindFloat:
				*c.float(d) = FromPgFloat8(floats[i])
			case kindBool:
				*c.flag(d) = flags[i].Bool
			default:
				*c.text(d) = FromPgText(texts[i])
			}
		}
	}
	return dest, apply
}
