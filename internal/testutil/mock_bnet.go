// Package testutil provides testing utilities for the viewer service.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"
)

// MockResponse defines the behavior for one mocked endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable stand-in for the community API. Tests point
// the client's BaseURL at it and register responses per path.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	// Tracking
	RequestCount int
	PathCounts   map[string]int
}

// NewMockAPI creates a new mock community API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers:   make(map[string]func(w http.ResponseWriter, r *http.Request)),
		PathCounts: make(map[string]int),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.PathCounts[r.URL.Path]++
		mock.mu.Unlock()

		mock.mu.RLock()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.RUnlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PathCounts = make(map[string]int)
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}

		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPathCount returns the number of requests made to one path.
func (m *MockAPI) GetPathCount(path string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PathCounts[path]
}

// defaultHandler rejects unregistered paths so tests notice unexpected
// upstream calls.
func (m *MockAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error": "not found"}`))
}

// ProfilePath returns the profile summary endpoint path.
func ProfilePath(regionID, realmID int, profileID string) string {
	return fmt.Sprintf("/sc2/profile/%d/%d/%s", regionID, realmID, profileID)
}

// MatchesPath returns the legacy match history endpoint path.
func MatchesPath(regionID, realmID int, profileID string) string {
	return fmt.Sprintf("/sc2/legacy/profile/%d/%d/%s/matches", regionID, realmID, profileID)
}

// LadderSummaryPath returns the ladder summary endpoint path.
func LadderSummaryPath(regionID, realmID int, profileID string) string {
	return fmt.Sprintf("/sc2/profile/%d/%d/%s/ladder/summary", regionID, realmID, profileID)
}

// LadderPath returns the ladder detail endpoint path.
func LadderPath(regionID, realmID int, profileID, ladderID string) string {
	return fmt.Sprintf("/sc2/profile/%d/%d/%s/ladder/%s", regionID, realmID, profileID, ladderID)
}

// ProfileBody builds a profile summary payload. The season snapshot holds
// 30 wins over 50 ranked games (win ratio 60) and the career block reports
// 1234 career games with best finishes Master (solo) and Diamond (team).
func ProfileBody(displayName, portrait, soloLeague, teamLeague string) string {
	return fmt.Sprintf(`{
		"summary": {"displayName": %q, "clanName": "Alpha Squad", "clanTag": "ALPHA", "portrait": %q},
		"snapshot": {
			"seasonSnapshot": {
				"1v1": {"rank": 1, "leagueName": "diamond", "totalGames": 40, "totalWins": 25},
				"2v2": {"rank": 3, "leagueName": "platinum", "totalGames": 10, "totalWins": 5}
			},
			"totalRankedSeasonGamesPlayed": 50
		},
		"career": {
			"terranWins": 100, "zergWins": 900, "protossWins": 30,
			"totalCareerGames": 1234,
			"current1v1LeagueName": %q,
			"currentBestTeamLeagueName": %q,
			"best1v1Finish": {"leagueName": "Master", "timesAchieved": 2},
			"bestTeamFinish": {"leagueName": "Diamond", "timesAchieved": 1}
		}
	}`, displayName, portrait, soloLeague, teamLeague)
}

// MatchHistoryBody builds a legacy match history payload with one custom
// game (which the viewer drops), one 1v1 win, and one 2v2 loss.
func MatchHistoryBody() string {
	return `{
		"matches": [
			{"map": "Arena Royale", "type": "Custom", "decision": "Win", "speed": "faster", "date": 1700000300},
			{"map": "Babylon LE", "type": "1v1", "decision": "Win", "speed": "faster", "date": 1700000200},
			{"map": "Moondance LE", "type": "2v2", "decision": "Loss", "speed": "faster", "date": 1700000100}
		]
	}`
}

// LadderSummaryBody builds a ladder summary payload listing the given
// ladder ids, all in 1v1 mode.
func LadderSummaryBody(ladderIDs ...string) string {
	memberships := ""
	for i, id := range ladderIDs {
		if i > 0 {
			memberships += ","
		}
		memberships += fmt.Sprintf(`{"ladderId": %q, "localizedGameMode": "1v1", "rank": %d}`, id, i+1)
	}
	return fmt.Sprintf(`{"allLadderMemberships": [%s]}`, memberships)
}

// LadderBody builds a ladder detail payload with a single team whose first
// member is the given profile.
func LadderBody(ladderID, mode, league, profileID, memberName, race string, wins, losses, mmr, divisionRank int) string {
	return fmt.Sprintf(`{
		"currentLadderMembership": {"ladderId": %q, "localizedGameMode": %q},
		"league": %q,
		"ranksAndPools": [{"rank": %d, "mmr": %d, "bonusPool": 500}],
		"ladderTeams": [
			{
				"teamMembers": [
					{"id": %q, "realm": 1, "region": 2, "displayName": %q, "clanTag": "ALPHA", "favoriteRace": %q}
				],
				"previousRank": 99, "points": 1500, "wins": %d, "losses": %d, "mmr": %d
			}
		]
	}`, ladderID, mode, league, divisionRank, mmr, profileID, memberName, race, wins, losses, mmr)
}
