package viewer

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sc2stream/ladderviewer/pkg/bnet"
	"github.com/sc2stream/ladderviewer/pkg/cache"
)

func testService(api *fakeAPI, c Cache) *Service {
	asm := NewAssembler(api, &fakePacer{}, bnet.RegionName, zerolog.Nop())
	agg := NewAggregator(asm, c, 5*time.Minute, 4, zerolog.Nop())
	return NewService(c, agg, zerolog.Nop())
}

func preloadCollection(t *testing.T, c *memCache, channelID string, results []ProfileResult) {
	t.Helper()
	data, err := json.Marshal(envelope{Profiles: results})
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	c.data[cache.Key(channelID)] = data
}

func TestGetData_CacheHitSkipsUpstream(t *testing.T) {
	api := batchAPI()
	mem := newMemCache()

	cached := []ProfileResult{{Viewer: &Payload{
		Heading: Heading{Player: Player{Name: "CachedPlayer", Server: "EU"}},
	}}}
	preloadCollection(t, mem, "streamer", cached)

	svc := testService(api, mem)
	results := svc.GetData(context.Background(), "streamer", testBatch("111"))

	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(results))
	}
	if results[0].Viewer == nil || results[0].Viewer.Heading.Player.Name != "CachedPlayer" {
		t.Errorf("results[0] = %+v, want the cached payload", results[0])
	}
	if n := api.count("profile"); n != 0 {
		t.Errorf("upstream profile calls = %d, want 0 on a cache hit", n)
	}
}

func TestGetData_MissAssemblesAndCaches(t *testing.T) {
	api := batchAPI()
	mem := newMemCache()
	svc := testService(api, mem)

	results := svc.GetData(context.Background(), "streamer", testBatch("111"))

	if len(results) != 1 || results[0].Failed() {
		t.Fatalf("results = %+v, want one fresh payload", results)
	}
	if results[0].Viewer.Heading.Player.Name != "Player-111" {
		t.Errorf("Player.Name = %q, want Player-111", results[0].Viewer.Heading.Player.Name)
	}
	if n := api.count("profile"); n != 1 {
		t.Errorf("upstream profile calls = %d, want 1", n)
	}
	if _, ok := mem.data[cache.Key("streamer")]; !ok {
		t.Error("fresh collection was not cached")
	}
}

func TestGetData_UndecodableEntryAssemblesFresh(t *testing.T) {
	api := batchAPI()
	mem := newMemCache()
	mem.data[cache.Key("streamer")] = []byte("{not json")
	svc := testService(api, mem)

	results := svc.GetData(context.Background(), "streamer", testBatch("111"))

	if len(results) != 1 || results[0].Failed() {
		t.Fatalf("results = %+v, want one fresh payload", results)
	}
	if n := api.count("profile"); n != 1 {
		t.Errorf("upstream profile calls = %d, want 1 after discarding the bad entry", n)
	}

	var env envelope
	if err := json.Unmarshal(mem.data[cache.Key("streamer")], &env); err != nil {
		t.Errorf("cache entry was not replaced with a decodable collection: %v", err)
	}
}

// evictingCache reports a key as present but yields nothing on Get, the
// window where an entry ages out between the two calls.
type evictingCache struct{ *memCache }

func (c *evictingCache) Exists(ctx context.Context, key string) bool { return true }

func (c *evictingCache) Get(ctx context.Context, key string) []byte { return nil }

func TestGetData_EntryAgingOutMidReadAssemblesFresh(t *testing.T) {
	api := batchAPI()
	svc := testService(api, &evictingCache{newMemCache()})

	results := svc.GetData(context.Background(), "streamer", testBatch("111"))

	if len(results) != 1 || results[0].Failed() {
		t.Fatalf("results = %+v, want one fresh payload", results)
	}
	if n := api.count("profile"); n != 1 {
		t.Errorf("upstream profile calls = %d, want 1", n)
	}
}

func TestGetData_CachedFailureMarkersServedAsIs(t *testing.T) {
	api := batchAPI()
	mem := newMemCache()
	preloadCollection(t, mem, "streamer", []ProfileResult{
		{Viewer: &Payload{Heading: Heading{Player: Player{Name: "CachedPlayer"}}}},
		{Error: "profile summary: boom"},
	})

	svc := testService(api, mem)
	results := svc.GetData(context.Background(), "streamer", testBatch("111", "666"))

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if !results[1].Failed() || results[1].Error != "profile summary: boom" {
		t.Errorf("results[1] = %+v, want the cached failure marker", results[1])
	}
	if n := api.count("profile"); n != 0 {
		t.Errorf("upstream profile calls = %d, want 0", n)
	}
}
