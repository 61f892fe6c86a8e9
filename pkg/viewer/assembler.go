package viewer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sc2stream/ladderviewer/pkg/bnet"
)

// LadderAPI is the slice of the community API client the assembler needs.
type LadderAPI interface {
	Profile(ctx context.Context, p bnet.PlayerProfile) (*bnet.ProfileResponse, error)
	LegacyMatchHistory(ctx context.Context, p bnet.PlayerProfile) (*bnet.MatchHistoryResponse, error)
	LadderSummary(ctx context.Context, p bnet.PlayerProfile) (*bnet.LadderSummaryResponse, error)
	Ladder(ctx context.Context, p bnet.PlayerProfile, ladderID string) (*bnet.LadderResponse, error)
}

// Pacer delays dependent upstream calls by batch index.
type Pacer interface {
	Schedule(ctx context.Context, index int) error
}

// errNoTeamForProfile marks a ladder detail response in which no team
// lists the requested player.
var errNoTeamForProfile = errors.New("no ladder team lists the profile")

// Assembler builds one player's overlay payload from a sequence of
// community API calls.
type Assembler struct {
	api        LadderAPI
	pacer      Pacer
	regionName func(regionID int) string
	logger     zerolog.Logger
}

// NewAssembler creates an Assembler. regionName maps a region id to the
// server label shown in the heading.
func NewAssembler(api LadderAPI, pacer Pacer, regionName func(int) string, logger zerolog.Logger) *Assembler {
	return &Assembler{
		api:        api,
		pacer:      pacer,
		regionName: regionName,
		logger:     logger,
	}
}

// Assemble builds the payload for one player. index is the player's
// position in the batch and drives the pacing stagger. The first upstream
// failure aborts the whole assembly; a partial payload is never returned.
//
// Call order: profile summary, match history, ladder summary, then one
// ladder detail call per current ladder membership. Every call after the
// first waits on the pacer.
func (a *Assembler) Assemble(ctx context.Context, p bnet.PlayerProfile, index int) (*Payload, error) {
	prof, err := a.api.Profile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("profile summary: %w", err)
	}
	heading := buildHeading(prof, a.regionName(p.RegionID))

	if err := a.pacer.Schedule(ctx, index); err != nil {
		return nil, err
	}
	hist, err := a.api.LegacyMatchHistory(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("match history: %w", err)
	}
	history := toMatchRecords(hist.Matches)

	if err := a.pacer.Schedule(ctx, index); err != nil {
		return nil, err
	}
	summary, err := a.api.LadderSummary(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("ladder summary: %w", err)
	}

	snapshot := make([]LadderResult, 0, len(summary.AllLadderMemberships))
	for _, m := range summary.AllLadderMemberships {
		if err := a.pacer.Schedule(ctx, index); err != nil {
			return nil, err
		}
		lad, err := a.api.Ladder(ctx, p, m.LadderID)
		if err != nil {
			return nil, fmt.Errorf("ladder %s: %w", m.LadderID, err)
		}
		result, err := ladderResult(lad, p.ProfileID)
		if err != nil {
			return nil, fmt.Errorf("ladder %s: %w", m.LadderID, err)
		}
		snapshot = append(snapshot, result)
	}

	a.logger.Debug().
		Str("profile_id", p.ProfileID).
		Int("region_id", p.RegionID).
		Int("ladders", len(snapshot)).
		Int("matches", len(history)).
		Msg("profile assembled")

	return &Payload{
		Heading: heading,
		Details: Details{
			Snapshot: snapshot,
			Stats:    buildStats(prof),
			History:  history,
		},
	}, nil
}

// buildHeading derives the overlay heading. The portrait frame is the
// higher of the player's current solo and team leagues.
func buildHeading(p *bnet.ProfileResponse, server string) Heading {
	return Heading{
		Portrait: Portrait{
			URL:   p.Summary.Portrait,
			Frame: HighestLeague(p.Career.Current1v1LeagueName, p.Career.CurrentBestTeamLeagueName),
		},
		Player: Player{
			Clan:   Clan{Name: p.Summary.ClanName, Tag: p.Summary.ClanTag},
			Name:   p.Summary.DisplayName,
			Server: server,
		},
	}
}

// toMatchRecords converts legacy match history entries. Custom games are
// dropped, decisions are lower-cased, and dates go from epoch seconds to
// epoch milliseconds.
func toMatchRecords(matches []bnet.LegacyMatch) []MatchRecord {
	records := make([]MatchRecord, 0, len(matches))
	for _, m := range matches {
		if m.Type == "Custom" {
			continue
		}
		records = append(records, MatchRecord{
			MapName: m.Map,
			Mode:    m.Type,
			Result:  strings.ToLower(m.Decision),
			Date:    m.Date * 1000,
		})
	}
	return records
}

// ladderResult extracts the player's standing from a ladder detail
// response. The first team listing the player wins; a player rostered on
// several teams of one ladder does not happen upstream. The division rank
// prefers the live ranksAndPools value and falls back to the team's
// previous rank when the division block is empty.
func ladderResult(lad *bnet.LadderResponse, profileID string) (LadderResult, error) {
	for _, team := range lad.LadderTeams {
		for _, member := range team.TeamMembers {
			if member.ID != profileID {
				continue
			}

			names := make([]string, 0, len(team.TeamMembers))
			for _, tm := range team.TeamMembers {
				names = append(names, tm.DisplayName)
			}

			rank := team.PreviousRank
			if len(lad.RanksAndPools) > 0 {
				rank = lad.RanksAndPools[0].Rank
			}

			return LadderResult{
				Mode:            lad.CurrentLadderMembership.LocalizedGameMode,
				RankName:        lad.League,
				Wins:            team.Wins,
				Losses:          team.Losses,
				Race:            member.FavoriteRace,
				MMR:             team.MMR,
				DivisionRank:    rank,
				TeamMemberNames: names,
			}, nil
		}
	}

	return LadderResult{}, errNoTeamForProfile
}
