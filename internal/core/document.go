package core

// Document is one normalized address, as written to the addresses table.
// Empty strings stand for NULL; the loader converts them at the boundary.
type Document struct {
	ID      string    `json:"id"`
	X       *float64  `json:"x"`
	Y       *float64  `json:"y"`
	Display Localized `json:"display"`
	Road    Road      `json:"road"`
	Parcel  Parcel    `json:"parcel"`
	Search  Localized `json:"search"`
}

// Localized is a Korean/English string pair.
type Localized struct {
	Ko string `json:"ko,omitempty"`
	En string `json:"en,omitempty"`
}

// Road is the road-name address of a building.
type Road struct {
	Ko       RoadAddress `json:"ko"`
	En       RoadAddress `json:"en"`
	Codes    RoadCodes   `json:"codes"`
	Building Building    `json:"building"`
}

// RoadAddress is one language of a road-name address.
type RoadAddress struct {
	Region1       string `json:"region1,omitempty"`
	Region2       string `json:"region2,omitempty"`
	Region3       string `json:"region3,omitempty"`
	RoadName      string `json:"roadName,omitempty"`
	BuildingNo    string `json:"buildingNo,omitempty"`
	IsUnderground bool   `json:"isUnderground"`
	Full          string `json:"full,omitempty"`
}

// RoadCodes are the registry identifiers of a road-name address.
type RoadCodes struct {
	RoadCode        string `json:"roadCode,omitempty"`
	LocalAreaSerial string `json:"localAreaSerial,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
}

// Building holds building attributes.
type Building struct {
	NameKo string `json:"nameKo,omitempty"`
}

// Parcel is the lot-number address of a building.
type Parcel struct {
	Ko    ParcelAddress `json:"ko"`
	En    ParcelAddress `json:"en"`
	Codes ParcelCodes   `json:"codes"`
}

// ParcelAddress is one language of a lot-number address.
type ParcelAddress struct {
	Region1       string `json:"region1,omitempty"`
	Region2       string `json:"region2,omitempty"`
	Region3       string `json:"region3,omitempty"`
	Region4       string `json:"region4,omitempty"`
	IsMountainLot bool   `json:"isMountainLot"`
	MainNo        string `json:"mainNo,omitempty"`
	SubNo         string `json:"subNo,omitempty"`
	ParcelNo      string `json:"parcelNo,omitempty"`
	Full          string `json:"full,omitempty"`
}

// ParcelCodes are the registry identifiers of a lot-number address.
type ParcelCodes struct {
	LegalAreaCode string `json:"legalAreaCode,omitempty"`
}
