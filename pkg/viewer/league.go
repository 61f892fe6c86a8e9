package viewer

import "strings"

// League orders the ranked ladder tiers from lowest to highest.
type League int

const (
	// LeagueNone is the zero value for unknown or absent league names.
	LeagueNone League = iota
	LeagueBronze
	LeagueSilver
	LeagueGold
	LeaguePlatinum
	LeagueDiamond
	LeagueMaster
	LeagueGrandmaster
)

var leagueOrder = map[string]League{
	"bronze":      LeagueBronze,
	"silver":      LeagueSilver,
	"gold":        LeagueGold,
	"platinum":    LeaguePlatinum,
	"diamond":     LeagueDiamond,
	"master":      LeagueMaster,
	"grandmaster": LeagueGrandmaster,
}

// LeagueFromName parses a league label case-insensitively. Unknown labels
// parse as LeagueNone.
func LeagueFromName(name string) League {
	return leagueOrder[strings.ToLower(strings.TrimSpace(name))]
}

// String returns the lower-cased league name, empty for LeagueNone.
func (l League) String() string {
	switch l {
	case LeagueBronze:
		return "bronze"
	case LeagueSilver:
		return "silver"
	case LeagueGold:
		return "gold"
	case LeaguePlatinum:
		return "platinum"
	case LeagueDiamond:
		return "diamond"
	case LeagueMaster:
		return "master"
	case LeagueGrandmaster:
		return "grandmaster"
	default:
		return ""
	}
}

// HighestLeague picks the better of the player's solo and team league
// labels and returns it lower-cased for the portrait frame. The solo
// league wins ties. Labels that parse as no league still come through
// lower-cased when they are the only one present, so an upstream label
// outside the known set degrades to itself rather than to nothing.
func HighestLeague(solo, team string) string {
	if LeagueFromName(team) > LeagueFromName(solo) {
		return strings.ToLower(team)
	}
	if solo != "" {
		return strings.ToLower(solo)
	}
	if team != "" {
		return strings.ToLower(team)
	}
	return ""
}
