package core

import "strings"

// columns returns a pipe row of n blank columns with the given values set.
func columns(n int, values map[int]string) []string {
	cols := make([]string, n)
	for i, v := range values {
		cols[i] = v
	}
	return cols
}

func teheranRoadRow() []string {
	return columns(20, map[int]string{
		0:  "11680",
		1:  "3118005",
		2:  "테헤란로",
		3:  "Teheran-ro",
		4:  "00",
		5:  "서울특별시",
		6:  "강남구",
		9:  "역삼동",
		15: "Seoul",
		16: "Gangnam-gu",
		17: "Yeoksam-dong",
	})
}

func gangnamBuildValues(id string) map[int]string {
	return map[int]string{
		0:  "1168010100",
		1:  "서울특별시",
		2:  "강남구",
		3:  "역삼동",
		5:  "0",
		6:  "823",
		7:  "0",
		8:  "116803118005",
		9:  "테헤란로",
		10: "0",
		11: "152",
		12: "0",
		13: "강남파이낸스센터",
		15: id,
		16: "00",
		19: "135984",
		27: "06236",
	}
}

func gangnamBuildRow(id string) []string {
	return columns(31, gangnamBuildValues(id))
}

func teheranIndex() RoadIndex {
	idx := make(RoadIndex)
	idx.Add(teheranRoadRow())
	return idx
}

func pipeLine(cols []string) string {
	return strings.Join(cols, "|")
}
