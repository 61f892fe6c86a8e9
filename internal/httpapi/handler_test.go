package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/sc2stream/ladderviewer/internal/store"
	"github.com/sc2stream/ladderviewer/pkg/bnet"
	"github.com/sc2stream/ladderviewer/pkg/viewer"
)

type fakeViewerService struct {
	results      []viewer.ProfileResult
	calls        int
	lastChannel  string
	lastProfiles []bnet.PlayerProfile
}

func (f *fakeViewerService) GetData(ctx context.Context, channelID string, profiles []bnet.PlayerProfile) []viewer.ProfileResult {
	f.calls++
	f.lastChannel = channelID
	f.lastProfiles = profiles
	return f.results
}

type fakeChannelStore struct {
	saved   map[string][]bnet.PlayerProfile
	cfg     *store.ChannelConfig
	saveErr error
	getErr  error
}

func (f *fakeChannelStore) SaveChannel(ctx context.Context, channelID string, profiles []bnet.PlayerProfile) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if f.saved == nil {
		f.saved = make(map[string][]bnet.PlayerProfile)
	}
	f.saved[channelID] = profiles
	return nil
}

func (f *fakeChannelStore) GetChannel(ctx context.Context, channelID string) (*store.ChannelConfig, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.cfg, nil
}

func newTestHandler(svc *fakeViewerService, cs *fakeChannelStore) http.Handler {
	if svc == nil {
		svc = &fakeViewerService{}
	}
	if cs == nil {
		cs = &fakeChannelStore{}
	}
	return NewHandler(svc, cs, zerolog.Nop()).Routes()
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleViewer_ReturnsCollection(t *testing.T) {
	svc := &fakeViewerService{
		results: []viewer.ProfileResult{
			{Viewer: &viewer.Payload{Heading: viewer.Heading{Player: viewer.Player{Name: "Alice", Server: "EU"}}}},
			{Error: "profile summary: boom"},
		},
	}
	handler := newTestHandler(svc, nil)

	body := `{"channelId":"streamer","profiles":[{"regionId":2,"realmId":1,"profileId":"555"}]}`
	rec := doRequest(t, handler, http.MethodPost, "/api/viewer", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Profiles []viewer.ProfileResult `json:"profiles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Profiles) != 2 {
		t.Fatalf("len(Profiles) = %d, want 2", len(resp.Profiles))
	}
	if resp.Profiles[0].Viewer == nil || resp.Profiles[0].Viewer.Heading.Player.Name != "Alice" {
		t.Errorf("Profiles[0] = %+v, want Alice payload", resp.Profiles[0])
	}
	if resp.Profiles[1].Error != "profile summary: boom" {
		t.Errorf("Profiles[1].Error = %q, want the failure marker passed through", resp.Profiles[1].Error)
	}

	if svc.lastChannel != "streamer" {
		t.Errorf("service got channel %q, want streamer", svc.lastChannel)
	}
	want := []bnet.PlayerProfile{{RegionID: 2, RealmID: 1, ProfileID: "555"}}
	if !reflect.DeepEqual(svc.lastProfiles, want) {
		t.Errorf("service got profiles %v, want %v", svc.lastProfiles, want)
	}
}

func TestHandleViewer_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"invalid body", "{", "invalid request body"},
		{"missing channel id", `{"profiles":[]}`, "channelId is required"},
		{"empty channel id", `{"channelId":"","profiles":[]}`, "channelId is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeViewerService{}
			rec := doRequest(t, newTestHandler(svc, nil), http.MethodPost, "/api/viewer", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if !strings.Contains(rec.Body.String(), tt.wantErr) {
				t.Errorf("body = %s, want error %q", rec.Body.String(), tt.wantErr)
			}
			if svc.calls != 0 {
				t.Error("service called for a rejected request")
			}
		})
	}
}

func TestHandleViewer_MethodNotAllowed(t *testing.T) {
	rec := doRequest(t, newTestHandler(nil, nil), http.MethodGet, "/api/viewer", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestHandleSaveConfig_OK(t *testing.T) {
	cs := &fakeChannelStore{}
	handler := newTestHandler(nil, cs)

	body := `{"channelId":"streamer","profiles":[{"regionId":1,"realmId":1,"profileId":"111"}]}`
	rec := doRequest(t, handler, http.MethodPost, "/api/config", body)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Status int  `json:"status"`
		Saved  bool `json:"saved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Status != http.StatusOK || !resp.Saved {
		t.Errorf("response = %+v, want status 200 saved true", resp)
	}

	want := []bnet.PlayerProfile{{RegionID: 1, RealmID: 1, ProfileID: "111"}}
	if !reflect.DeepEqual(cs.saved["streamer"], want) {
		t.Errorf("stored profiles = %v, want %v", cs.saved["streamer"], want)
	}
}

func TestHandleSaveConfig_StoreError(t *testing.T) {
	cs := &fakeChannelStore{saveErr: errors.New("disk full")}
	rec := doRequest(t, newTestHandler(nil, cs), http.MethodPost, "/api/config",
		`{"channelId":"streamer","profiles":[]}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp struct {
		Status int  `json:"status"`
		Saved  bool `json:"saved"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Saved {
		t.Error("Saved = true, want false")
	}
}

func TestHandleGetConfig_OK(t *testing.T) {
	cs := &fakeChannelStore{cfg: &store.ChannelConfig{
		ChannelID: "streamer",
		Profiles:  []bnet.PlayerProfile{{RegionID: 3, RealmID: 1, ProfileID: "777"}},
		UpdatedAt: time.Now(),
	}}
	rec := doRequest(t, newTestHandler(nil, cs), http.MethodGet, "/api/config/streamer", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp struct {
		Status    int                  `json:"status"`
		ChannelID string               `json:"channelId"`
		Profiles  []bnet.PlayerProfile `json:"profiles"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.ChannelID != "streamer" {
		t.Errorf("ChannelID = %q, want streamer", resp.ChannelID)
	}
	if len(resp.Profiles) != 1 || resp.Profiles[0].ProfileID != "777" {
		t.Errorf("Profiles = %v, want the stored list", resp.Profiles)
	}
}

func TestHandleGetConfig_NotFound(t *testing.T) {
	cs := &fakeChannelStore{getErr: store.ErrNotFound}
	rec := doRequest(t, newTestHandler(nil, cs), http.MethodGet, "/api/config/nobody", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHandleGetConfig_EmptyListEncodesAsArray(t *testing.T) {
	cs := &fakeChannelStore{cfg: &store.ChannelConfig{ChannelID: "streamer"}}
	rec := doRequest(t, newTestHandler(nil, cs), http.MethodGet, "/api/config/streamer", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"profiles":[]`) {
		t.Errorf("body = %s, want profiles encoded as [] not null", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	rec := doRequest(t, newTestHandler(nil, nil), http.MethodGet, "/healthz", "")

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s, want status ok", rec.Body.String())
	}
}

func TestRequestID_EchoesProvidedID(t *testing.T) {
	handler := newTestHandler(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-abc-123" {
		t.Errorf("X-Request-ID = %q, want req-abc-123", got)
	}
}

func TestRequestID_GeneratedWhenAbsent(t *testing.T) {
	rec := doRequest(t, newTestHandler(nil, nil), http.MethodGet, "/healthz", "")

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestCORS_PreflightAllowed(t *testing.T) {
	handler := newTestHandler(nil, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/viewer", nil)
	req.Header.Set("Origin", "https://overlay.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code >= http.StatusMultipleChoices {
		t.Fatalf("preflight status = %d, want success", rec.Code)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
