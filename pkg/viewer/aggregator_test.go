package viewer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sc2stream/ladderviewer/pkg/bnet"
)

// memCache is an in-memory Cache that records the operations applied to it.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
	ops  []string

	setErr    error
	expireErr error
}

func newMemCache() *memCache {
	return &memCache{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (c *memCache) Exists(ctx context.Context, key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, "exists")
	_, ok := c.data[key]
	return ok
}

func (c *memCache) Get(ctx context.Context, key string) []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, "get")
	return c.data[key]
}

func (c *memCache) Set(ctx context.Context, key string, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, "set")
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = data
	return nil
}

func (c *memCache) Expire(ctx context.Context, key string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ops = append(c.ops, "expire")
	if c.expireErr != nil {
		return c.expireErr
	}
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) operations() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.ops...)
}

// batchAPI serves a distinct display name per profile id and lets single
// profiles be marked as failing.
func batchAPI(failing ...string) *fakeAPI {
	bad := make(map[string]bool, len(failing))
	for _, id := range failing {
		bad[id] = true
	}

	api := &fakeAPI{}
	api.profile = func(p bnet.PlayerProfile) (*bnet.ProfileResponse, error) {
		if bad[p.ProfileID] {
			return nil, errors.New("boom")
		}
		return testProfileResponse("Player-"+p.ProfileID, "Diamond", ""), nil
	}
	api.history = func(p bnet.PlayerProfile) (*bnet.MatchHistoryResponse, error) {
		return testMatchHistoryResponse(), nil
	}
	api.summary = func(p bnet.PlayerProfile) (*bnet.LadderSummaryResponse, error) {
		return &bnet.LadderSummaryResponse{
			AllLadderMemberships: []bnet.LadderMembership{{LadderID: "301", LocalizedGameMode: "1v1"}},
		}, nil
	}
	api.ladder = func(p bnet.PlayerProfile, ladderID string) (*bnet.LadderResponse, error) {
		return testLadderResponse("1v1", "Diamond 2", p.ProfileID, "Player-"+p.ProfileID), nil
	}
	return api
}

func testBatch(ids ...string) []bnet.PlayerProfile {
	profiles := make([]bnet.PlayerProfile, len(ids))
	for i, id := range ids {
		profiles[i] = bnet.PlayerProfile{RegionID: 2, RealmID: 1, ProfileID: id}
	}
	return profiles
}

func TestAssembleAll_KeepsOrderWithFailureMarkers(t *testing.T) {
	api := batchAPI("666")
	asm := NewAssembler(api, &fakePacer{}, bnet.RegionName, zerolog.Nop())
	agg := NewAggregator(asm, newMemCache(), 5*time.Minute, 4, zerolog.Nop())

	results := agg.AssembleAll(context.Background(), testBatch("111", "666", "333"), "viewer-streamer")

	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if results[0].Failed() || results[0].Viewer.Heading.Player.Name != "Player-111" {
		t.Errorf("results[0] = %+v, want Player-111 payload", results[0])
	}
	if !results[1].Failed() {
		t.Fatalf("results[1] = %+v, want failure marker", results[1])
	}
	if !strings.Contains(results[1].Error, "profile summary") {
		t.Errorf("results[1].Error = %q, should name the failing step", results[1].Error)
	}
	if results[1].Viewer != nil {
		t.Error("failure marker carries a payload")
	}
	if results[2].Failed() || results[2].Viewer.Heading.Player.Name != "Player-333" {
		t.Errorf("results[2] = %+v, want Player-333 payload", results[2])
	}
}

func TestAssembleAll_WritesCacheWithTTL(t *testing.T) {
	cache := newMemCache()
	asm := NewAssembler(batchAPI(), &fakePacer{}, bnet.RegionName, zerolog.Nop())
	agg := NewAggregator(asm, cache, 2*time.Minute, 4, zerolog.Nop())

	agg.AssembleAll(context.Background(), testBatch("111", "222"), "viewer-streamer")

	data, ok := cache.data["viewer-streamer"]
	if !ok {
		t.Fatal("collection was not written to the cache")
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("cached collection does not decode: %v", err)
	}
	if len(env.Profiles) != 2 {
		t.Errorf("cached collection has %d profiles, want 2", len(env.Profiles))
	}
	if ttl := cache.ttls["viewer-streamer"]; ttl != 2*time.Minute {
		t.Errorf("cache TTL = %v, want 2m", ttl)
	}

	ops := cache.operations()
	if len(ops) != 2 || ops[0] != "set" || ops[1] != "expire" {
		t.Errorf("cache operations = %v, want [set expire]", ops)
	}
}

func TestAssembleAll_PartialFailureStillCached(t *testing.T) {
	cache := newMemCache()
	asm := NewAssembler(batchAPI("666"), &fakePacer{}, bnet.RegionName, zerolog.Nop())
	agg := NewAggregator(asm, cache, time.Minute, 4, zerolog.Nop())

	agg.AssembleAll(context.Background(), testBatch("111", "666"), "viewer-streamer")

	var env envelope
	if err := json.Unmarshal(cache.data["viewer-streamer"], &env); err != nil {
		t.Fatalf("cached collection does not decode: %v", err)
	}
	if len(env.Profiles) != 2 {
		t.Fatalf("cached collection has %d profiles, want 2", len(env.Profiles))
	}
	if !env.Profiles[1].Failed() {
		t.Error("failure marker was not cached in its slot")
	}
}

func TestAssembleAll_CacheWriteFailureIsSwallowed(t *testing.T) {
	cache := newMemCache()
	cache.setErr = errors.New("backend away")
	asm := NewAssembler(batchAPI(), &fakePacer{}, bnet.RegionName, zerolog.Nop())
	agg := NewAggregator(asm, cache, time.Minute, 4, zerolog.Nop())

	results := agg.AssembleAll(context.Background(), testBatch("111", "222"), "viewer-streamer")

	if len(results) != 2 || results[0].Failed() || results[1].Failed() {
		t.Errorf("results = %+v, want two payloads despite the failed write", results)
	}
	for _, op := range cache.operations() {
		if op == "expire" {
			t.Error("Expire called although Set failed")
		}
	}
}

func TestAssembleAll_RespectsConcurrencyLimit(t *testing.T) {
	var mu sync.Mutex
	current, maxSeen := 0, 0

	api := batchAPI()
	base := api.profile
	api.profile = func(p bnet.PlayerProfile) (*bnet.ProfileResponse, error) {
		mu.Lock()
		current++
		if current > maxSeen {
			maxSeen = current
		}
		mu.Unlock()

		time.Sleep(5 * time.Millisecond)

		mu.Lock()
		current--
		mu.Unlock()
		return base(p)
	}

	asm := NewAssembler(api, &fakePacer{}, bnet.RegionName, zerolog.Nop())
	agg := NewAggregator(asm, newMemCache(), time.Minute, 1, zerolog.Nop())

	agg.AssembleAll(context.Background(), testBatch("1", "2", "3", "4"), "viewer-streamer")

	mu.Lock()
	defer mu.Unlock()
	if maxSeen != 1 {
		t.Errorf("observed %d concurrent assemblies, want 1", maxSeen)
	}
}

func TestAssembleAll_EmptyBatch(t *testing.T) {
	asm := NewAssembler(batchAPI(), &fakePacer{}, bnet.RegionName, zerolog.Nop())
	agg := NewAggregator(asm, newMemCache(), time.Minute, 4, zerolog.Nop())

	results := agg.AssembleAll(context.Background(), nil, "viewer-streamer")
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}
