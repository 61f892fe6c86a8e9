// Package viewer assembles per-player StarCraft II ladder profiles into the
// payloads the overlay frontend renders, and serves them through a
// read-through TTL cache so that repeated requests for the same broadcast
// channel cost no upstream calls.
package viewer

// Clan is the player's clan affiliation.
type Clan struct {
	Name string `json:"name"`
	Tag  string `json:"tag"`
}

// Player identifies the player in the overlay heading.
type Player struct {
	Clan   Clan   `json:"clan"`
	Name   string `json:"name"`
	Server string `json:"server"`
}

// Portrait is the player's avatar plus the league frame drawn around it.
// Frame is a lower-cased league name, empty when the player holds no
// current league.
type Portrait struct {
	URL   string `json:"url"`
	Frame string `json:"frame"`
}

// Heading is the top section of the overlay.
type Heading struct {
	Portrait Portrait `json:"portrait"`
	Player   Player   `json:"player"`
}

// LadderResult is the player's standing on one ladder.
type LadderResult struct {
	Mode            string   `json:"mode"`
	RankName        string   `json:"rankName"`
	Wins            int      `json:"wins"`
	Losses          int      `json:"losses"`
	Race            string   `json:"race"`
	MMR             int      `json:"mmr"`
	DivisionRank    int      `json:"divisionRank"`
	TeamMemberNames []string `json:"teamMemberNames"`
}

// MatchRecord is one recent non-custom match. Date is epoch milliseconds.
type MatchRecord struct {
	MapName string `json:"mapName"`
	Mode    string `json:"mode"`
	Result  string `json:"result"`
	Date    int64  `json:"date"`
}

// Stats summarizes the player's career and current season.
type Stats struct {
	TotalCareerGames           int    `json:"totalCareerGames"`
	TotalRankedGamesThisSeason int    `json:"totalRankedGamesThisSeason"`
	SeasonWinRatio             int    `json:"seasonWinRatio"`
	HighestSoloRank            string `json:"highestSoloRank"`
	HighestTeamRank            string `json:"highestTeamRank"`
}

// Details is the expandable lower section of the overlay.
type Details struct {
	Snapshot []LadderResult `json:"snapshot"`
	Stats    Stats          `json:"stats"`
	History  []MatchRecord  `json:"history"`
}

// Payload is one player's fully assembled overlay data.
type Payload struct {
	Heading Heading `json:"heading"`
	Details Details `json:"details"`
}

// ProfileResult is one slot of a channel's viewer collection: either an
// assembled payload or the error that prevented assembling it. A failed
// profile keeps its position so the collection stays aligned with the
// channel's configured profile list.
type ProfileResult struct {
	Viewer *Payload `json:"viewer,omitempty"`
	Error  string   `json:"error,omitempty"`
}

// Failed reports whether this slot carries a failure marker instead of a
// payload.
func (r ProfileResult) Failed() bool {
	return r.Error != ""
}

// envelope is the cached encoding of one channel's collection.
type envelope struct {
	Profiles []ProfileResult `json:"profiles"`
}
