package core

import (
	"reflect"
	"testing"
)

func TestMakeNumber(t *testing.T) {
	tests := []struct {
		main, sub string
		want      string
	}{
		{"10", "0", "10"},
		{"10", "2", "10-2"},
		{"10", "", "10"},
		{"", "5", ""},
		{"", "", ""},
	}

	for _, tt := range tests {
		if got := MakeNumber(tt.main, tt.sub); got != tt.want {
			t.Errorf("MakeNumber(%q, %q) = %q, want %q", tt.main, tt.sub, got, tt.want)
		}
	}
}

func TestTransform_WithDictionary(t *testing.T) {
	doc, ok := Transform(gangnamBuildRow("B1"), teheranIndex(), DefaultFormat())
	if !ok {
		t.Fatal("Transform() ok = false, want true")
	}

	checks := []struct {
		name, got, want string
	}{
		{"id", doc.ID, "B1"},
		{"road ko full", doc.Road.Ko.Full, "서울특별시 강남구 역삼동 테헤란로 152"},
		{"road en full", doc.Road.En.Full, "Seoul Gangnam-gu Yeoksam-dong Teheran-ro 152"},
		{"parcel ko full", doc.Parcel.Ko.Full, "서울특별시 강남구 역삼동 823"},
		{"parcel en full", doc.Parcel.En.Full, "Seoul Gangnam-gu Yeoksam-dong 823"},
		{"display ko", doc.Display.Ko, "서울특별시 강남구 역삼동 테헤란로 152"},
		{"display en", doc.Display.En, "Seoul Gangnam-gu Yeoksam-dong Teheran-ro 152"},
		{"postal", doc.Road.Codes.PostalCode, "06236"},
		{"building name", doc.Road.Building.NameKo, "강남파이낸스센터"},
		{"legal area", doc.Parcel.Codes.LegalAreaCode, "1168010100"},
		{"search ko", doc.Search.Ko, "서울특별시 강남구 역삼동 테헤란로 152 서울특별시 강남구 역삼동 823 06236 강남파이낸스센터"},
		{"search en", doc.Search.En, "seoul gangnam-gu yeoksam-dong teheran-ro 152 seoul gangnam-gu yeoksam-dong 823 06236"},
		{"parcel en region4", doc.Parcel.En.Region4, ""},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %q, want %q", c.name, c.got, c.want)
		}
	}

	if doc.X != nil || doc.Y != nil {
		t.Error("coordinates should be nil")
	}
}

func TestTransform_RequiredFields(t *testing.T) {
	required := map[string]int{
		"id":                15,
		"road code":         8,
		"local area serial": 16,
		"building main no":  11,
	}

	for name, col := range required {
		t.Run(name, func(t *testing.T) {
			cols := gangnamBuildRow("B1")
			cols[col] = "   "

			for i := 0; i < 2; i++ {
				doc, ok := Transform(cols, teheranIndex(), DefaultFormat())
				if ok || doc != nil {
					t.Fatalf("Transform() = %v, %v; want nil, false", doc, ok)
				}
			}
		})
	}
}

func TestTransform_Deterministic(t *testing.T) {
	a, _ := Transform(gangnamBuildRow("B1"), teheranIndex(), DefaultFormat())
	b, _ := Transform(gangnamBuildRow("B1"), teheranIndex(), DefaultFormat())
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Transform() not deterministic:\n%+v\n%+v", a, b)
	}
}

func TestTransform_WithoutDictionary(t *testing.T) {
	cols := gangnamBuildRow("B2")
	cols[9] = ""
	doc, ok := Transform(cols, RoadIndex{}, DefaultFormat())
	if !ok {
		t.Fatal("Transform() ok = false, want true")
	}

	if doc.Road.Ko.Region1 != "서울특별시" || doc.Road.Ko.Region2 != "강남구" || doc.Road.Ko.Region3 != "역삼동" {
		t.Errorf("road ko regions should fall back to parcel regions, got %+v", doc.Road.Ko)
	}
	if doc.Road.Ko.Full != "서울특별시 강남구 역삼동 152" {
		t.Errorf("road ko full = %q", doc.Road.Ko.Full)
	}
	if doc.Road.En.Full != "" || doc.Parcel.En.Full != "" || doc.Display.En != "" {
		t.Errorf("english fields should be empty without dictionary: %+v", doc.Road.En)
	}
	// Only the postal code is left for English search.
	if doc.Search.En != "06236" {
		t.Errorf("search en = %q, want %q", doc.Search.En, "06236")
	}
	if doc.Road.En.BuildingNo != "152" {
		t.Errorf("road en building no = %q, want 152", doc.Road.En.BuildingNo)
	}
}

func TestTransform_RowRoadNamePreferred(t *testing.T) {
	cols := gangnamBuildRow("B3")
	cols[9] = "강남대로"
	doc, _ := Transform(cols, teheranIndex(), DefaultFormat())
	if doc.Road.Ko.RoadName != "강남대로" {
		t.Errorf("road ko name = %q, want row value", doc.Road.Ko.RoadName)
	}

	cols[9] = ""
	doc, _ = Transform(cols, teheranIndex(), DefaultFormat())
	if doc.Road.Ko.RoadName != "테헤란로" {
		t.Errorf("road ko name = %q, want dictionary value", doc.Road.Ko.RoadName)
	}
}

func TestTransform_Prefixes(t *testing.T) {
	cols := gangnamBuildRow("B4")
	cols[5] = "1"  // mountain lot
	cols[7] = "3"  // parcel sub
	cols[10] = "1" // underground
	cols[12] = "2" // building sub

	tests := []struct {
		name       string
		format     Format
		buildingKo string
		buildingEn string
		parcelKo   string
		parcelEn   string
	}{
		{"defaults", DefaultFormat(), "지하152-2", "152-2", "산823-3", "Mountain 823-3"},
		{"all on", Format{true, true, true, true}, "지하152-2", "Underground 152-2", "산823-3", "Mountain 823-3"},
		{"all off", Format{}, "152-2", "152-2", "823-3", "823-3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, ok := Transform(cols, teheranIndex(), tt.format)
			if !ok {
				t.Fatal("Transform() ok = false")
			}
			if doc.Road.Ko.BuildingNo != tt.buildingKo {
				t.Errorf("building ko = %q, want %q", doc.Road.Ko.BuildingNo, tt.buildingKo)
			}
			if doc.Road.En.BuildingNo != tt.buildingEn {
				t.Errorf("building en = %q, want %q", doc.Road.En.BuildingNo, tt.buildingEn)
			}
			if doc.Parcel.Ko.ParcelNo != tt.parcelKo {
				t.Errorf("parcel ko = %q, want %q", doc.Parcel.Ko.ParcelNo, tt.parcelKo)
			}
			if doc.Parcel.En.ParcelNo != tt.parcelEn {
				t.Errorf("parcel en = %q, want %q", doc.Parcel.En.ParcelNo, tt.parcelEn)
			}
			if !doc.Road.Ko.IsUnderground || !doc.Parcel.En.IsMountainLot {
				t.Error("flags should be set")
			}
		})
	}
}

func TestTransform_Preferences(t *testing.T) {
	tests := []struct {
		name     string
		set      map[int]string
		postal   string
		building string
	}{
		{"new postal and main name", nil, "06236", "강남파이낸스센터"},
		{"old postal fallback", map[int]string{27: ""}, "135984", "강남파이낸스센터"},
		{"detailed name preferred", map[int]string{25: "GFC"}, "06236", "GFC"},
		{"sigungu name fallback", map[int]string{13: "", 14: "역삼빌딩"}, "06236", "역삼빌딩"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols := gangnamBuildRow("B5")
			for i, v := range tt.set {
				cols[i] = v
			}
			doc, _ := Transform(cols, teheranIndex(), DefaultFormat())
			if doc.Road.Codes.PostalCode != tt.postal {
				t.Errorf("postal = %q, want %q", doc.Road.Codes.PostalCode, tt.postal)
			}
			if doc.Road.Building.NameKo != tt.building {
				t.Errorf("building = %q, want %q", doc.Road.Building.NameKo, tt.building)
			}
		})
	}
}

func TestTransform_EnglishParcelNeedsArea(t *testing.T) {
	road := teheranRoadRow()
	road[17] = ""
	idx := make(RoadIndex)
	idx.Add(road)

	doc, _ := Transform(gangnamBuildRow("B6"), idx, DefaultFormat())
	if doc.Parcel.En.Full != "" {
		t.Errorf("parcel en full = %q, want empty without area", doc.Parcel.En.Full)
	}
	if doc.Road.En.Full != "Seoul Gangnam-gu Teheran-ro 152" {
		t.Errorf("road en full = %q", doc.Road.En.Full)
	}
}

func TestTransform_ShortRowPadded(t *testing.T) {
	values := gangnamBuildValues("B7")
	delete(values, 19)
	delete(values, 27)
	cols := columns(17, values)

	doc, ok := Transform(cols, teheranIndex(), DefaultFormat())
	if !ok {
		t.Fatal("Transform() ok = false for 17-column row")
	}
	if doc.Road.Codes.PostalCode != "" {
		t.Errorf("postal = %q, want empty", doc.Road.Codes.PostalCode)
	}
}

func TestTransform_EmptySearchStaysEmpty(t *testing.T) {
	cols := columns(31, map[int]string{8: "1", 11: "1", 15: "X", 16: "0"})
	doc, ok := Transform(cols, RoadIndex{}, Format{})
	if !ok {
		t.Fatal("Transform() ok = false")
	}
	if doc.Search.En != "" {
		t.Errorf("search en = %q, want empty", doc.Search.En)
	}
	if doc.Search.Ko != "1" {
		t.Errorf("search ko = %q, want building number only", doc.Search.Ko)
	}
}
