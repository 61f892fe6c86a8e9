package bnet

// PlayerProfile identifies one player on the community API. Profile ids are
// kept as strings because ladder team members carry them as strings and the
// values can exceed 32 bits.
type PlayerProfile struct {
	RegionID  int    `json:"regionId"`
	RealmID   int    `json:"realmId"`
	ProfileID string `json:"profileId"`
}

// ProfileResponse is the profile summary endpoint payload, reduced to the
// fields the viewer needs.
type ProfileResponse struct {
	Summary struct {
		DisplayName string `json:"displayName"`
		ClanName    string `json:"clanName"`
		ClanTag     string `json:"clanTag"`
		Portrait    string `json:"portrait"`
	} `json:"summary"`
	Snapshot struct {
		SeasonSnapshot               map[string]SeasonModeSnapshot `json:"seasonSnapshot"`
		TotalRankedSeasonGamesPlayed int                           `json:"totalRankedSeasonGamesPlayed"`
	} `json:"snapshot"`
	Career struct {
		TerranWins                int        `json:"terranWins"`
		ZergWins                  int        `json:"zergWins"`
		ProtossWins               int        `json:"protossWins"`
		TotalCareerGames          int        `json:"totalCareerGames"`
		Current1v1LeagueName      string     `json:"current1v1LeagueName"`
		CurrentBestTeamLeagueName string     `json:"currentBestTeamLeagueName"`
		Best1v1Finish             BestFinish `json:"best1v1Finish"`
		BestTeamFinish            BestFinish `json:"bestTeamFinish"`
	} `json:"career"`
}

// SeasonModeSnapshot is the player's current season standing in one mode.
type SeasonModeSnapshot struct {
	Rank       int    `json:"rank"`
	LeagueName string `json:"leagueName"`
	TotalGames int    `json:"totalGames"`
	TotalWins  int    `json:"totalWins"`
}

// BestFinish records the best league a player ever reached in a bracket.
type BestFinish struct {
	LeagueName    string `json:"leagueName"`
	TimesAchieved int    `json:"timesAchieved"`
}

// MatchHistoryResponse is the legacy match history endpoint payload.
type MatchHistoryResponse struct {
	Matches []LegacyMatch `json:"matches"`
}

// LegacyMatch is one entry of the legacy match history. Date is epoch
// seconds as returned upstream.
type LegacyMatch struct {
	Map      string `json:"map"`
	Type     string `json:"type"`
	Decision string `json:"decision"`
	Speed    string `json:"speed"`
	Date     int64  `json:"date"`
}

// LadderSummaryResponse lists every ladder the player currently holds a
// position on.
type LadderSummaryResponse struct {
	AllLadderMemberships []LadderMembership `json:"allLadderMemberships"`
}

// LadderMembership is one ladder the player is ranked on.
type LadderMembership struct {
	LadderID          string `json:"ladderId"`
	LocalizedGameMode string `json:"localizedGameMode"`
	Rank              int    `json:"rank"`
}

// LadderResponse is the per-ladder detail payload.
type LadderResponse struct {
	CurrentLadderMembership struct {
		LadderID          string `json:"ladderId"`
		LocalizedGameMode string `json:"localizedGameMode"`
	} `json:"currentLadderMembership"`
	League        string        `json:"league"`
	RanksAndPools []RankAndPool `json:"ranksAndPools"`
	LadderTeams   []LadderTeam  `json:"ladderTeams"`
}

// RankAndPool carries the player's standing within the ladder division.
type RankAndPool struct {
	Rank      int `json:"rank"`
	MMR       int `json:"mmr"`
	BonusPool int `json:"bonusPool"`
}

// LadderTeam is one team's row on a ladder.
type LadderTeam struct {
	TeamMembers  []TeamMember `json:"teamMembers"`
	PreviousRank int          `json:"previousRank"`
	Points       int          `json:"points"`
	Wins         int          `json:"wins"`
	Losses       int          `json:"losses"`
	MMR          int          `json:"mmr"`
}

// TeamMember is one player on a ladder team.
type TeamMember struct {
	ID           string `json:"id"`
	Realm        int    `json:"realm"`
	Region       int    `json:"region"`
	DisplayName  string `json:"displayName"`
	ClanTag      string `json:"clanTag"`
	FavoriteRace string `json:"favoriteRace"`
}
