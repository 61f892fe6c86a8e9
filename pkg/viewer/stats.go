package viewer

import (
	"math"

	"github.com/sc2stream/ladderviewer/pkg/bnet"
)

// SeasonWinRatio computes the season win percentage rounded to the nearest
// whole number. A season with no ranked games is 0, not a division error.
func SeasonWinRatio(wins, rankedGames int) int {
	if rankedGames <= 0 {
		return 0
	}
	return int(math.Round(float64(wins) * 100 / float64(rankedGames)))
}

// buildStats derives the overlay stats block from a profile summary. Season
// wins are summed across every mode in the season snapshot; the best-finish
// labels pass through exactly as upstream reports them.
func buildStats(p *bnet.ProfileResponse) Stats {
	wins := 0
	for _, mode := range p.Snapshot.SeasonSnapshot {
		wins += mode.TotalWins
	}

	return Stats{
		TotalCareerGames:           p.Career.TotalCareerGames,
		TotalRankedGamesThisSeason: p.Snapshot.TotalRankedSeasonGamesPlayed,
		SeasonWinRatio:             SeasonWinRatio(wins, p.Snapshot.TotalRankedSeasonGamesPlayed),
		HighestSoloRank:            p.Career.Best1v1Finish.LeagueName,
		HighestTeamRank:            p.Career.BestTeamFinish.LeagueName,
	}
}
