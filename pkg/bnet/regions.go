package bnet

// Community API hosts by region id. Region 5 (China) is served from a
// separate gateway outside the *.api.blizzard.com namespace.
var regionHosts = map[int]string{
	1: "https://us.api.blizzard.com",
	2: "https://eu.api.blizzard.com",
	3: "https://kr.api.blizzard.com",
	5: "https://gateway.battlenet.com.cn",
}

var regionNames = map[int]string{
	1: "US",
	2: "EU",
	3: "KR",
	5: "CN",
}

// RegionName resolves a region id to its short server label.
// Unknown ids resolve to the empty string.
func RegionName(regionID int) string {
	return regionNames[regionID]
}
