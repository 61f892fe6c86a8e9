// Package httpapi exposes the viewer and channel-configuration endpoints
// consumed by the overlay frontend.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/sc2stream/ladderviewer/internal/store"
	"github.com/sc2stream/ladderviewer/pkg/bnet"
	"github.com/sc2stream/ladderviewer/pkg/viewer"
)

// ViewerService serves channel viewer collections.
type ViewerService interface {
	GetData(ctx context.Context, channelID string, profiles []bnet.PlayerProfile) []viewer.ProfileResult
}

// ChannelStore persists per-channel profile lists.
type ChannelStore interface {
	SaveChannel(ctx context.Context, channelID string, profiles []bnet.PlayerProfile) error
	GetChannel(ctx context.Context, channelID string) (*store.ChannelConfig, error)
}

// Handler carries the HTTP endpoints.
type Handler struct {
	service ViewerService
	store   ChannelStore
	logger  zerolog.Logger
}

// NewHandler creates a Handler.
func NewHandler(service ViewerService, channelStore ChannelStore, logger zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		store:   channelStore,
		logger:  logger,
	}
}

// Routes builds the routed handler wrapped in CORS, access logging, and
// request-id middleware. The overlay is served from a different origin,
// so CORS stays wide open.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/viewer", h.handleViewer)
	mux.HandleFunc("POST /api/config", h.handleSaveConfig)
	mux.HandleFunc("GET /api/config/{channelId}", h.handleGetConfig)
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	var handler http.Handler = corsHandler.Handler(mux)
	handler = AccessLog(h.logger)(handler)
	handler = RequestID(h.logger)(handler)
	return handler
}

type viewerRequest struct {
	ChannelID string               `json:"channelId"`
	Profiles  []bnet.PlayerProfile `json:"profiles"`

	// Refresh is decoded so overlay clients sending it get a stable
	// contract, but it does not bypass the cache yet.
	// TODO: decide cache-bypass semantics for refresh and honor it here.
	Refresh bool `json:"refresh"`
}

type viewerResponse struct {
	Profiles []viewer.ProfileResult `json:"profiles"`
}

type configRequest struct {
	ChannelID string               `json:"channelId"`
	Profiles  []bnet.PlayerProfile `json:"profiles"`
}

type saveResponse struct {
	Status int  `json:"status"`
	Saved  bool `json:"saved"`
}

type configResponse struct {
	Status    int                  `json:"status"`
	ChannelID string               `json:"channelId"`
	Profiles  []bnet.PlayerProfile `json:"profiles"`
}

type errorResponse struct {
	Status int    `json:"status"`
	Error  string `json:"error,omitempty"`
}

// handleViewer returns the viewer collection for a channel. The response
// is always 200 with one slot per requested profile; per-profile failures
// ride inside their slots.
func (h *Handler) handleViewer(w http.ResponseWriter, r *http.Request) {
	var req viewerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Status: http.StatusBadRequest, Error: "invalid request body"})
		return
	}
	if req.ChannelID == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Status: http.StatusBadRequest, Error: "channelId is required"})
		return
	}

	results := h.service.GetData(r.Context(), req.ChannelID, req.Profiles)
	h.writeJSON(w, http.StatusOK, viewerResponse{Profiles: results})
}

// handleSaveConfig stores a channel's profile list.
func (h *Handler) handleSaveConfig(w http.ResponseWriter, r *http.Request) {
	var req configRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Status: http.StatusBadRequest, Error: "invalid request body"})
		return
	}
	if req.ChannelID == "" {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Status: http.StatusBadRequest, Error: "channelId is required"})
		return
	}

	if err := h.store.SaveChannel(r.Context(), req.ChannelID, req.Profiles); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("channel_id", req.ChannelID).
			Msg("save channel configuration failed")
		h.writeJSON(w, http.StatusBadRequest, saveResponse{Status: http.StatusBadRequest, Saved: false})
		return
	}

	h.writeJSON(w, http.StatusOK, saveResponse{Status: http.StatusOK, Saved: true})
}

// handleGetConfig returns a channel's stored profile list.
func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	channelID := r.PathValue("channelId")

	cfg, err := h.store.GetChannel(r.Context(), channelID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.writeJSON(w, http.StatusNotFound, errorResponse{Status: http.StatusNotFound})
			return
		}
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Str("channel_id", channelID).
			Msg("load channel configuration failed")
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Status: http.StatusBadRequest})
		return
	}

	profiles := cfg.Profiles
	if profiles == nil {
		profiles = []bnet.PlayerProfile{}
	}
	h.writeJSON(w, http.StatusOK, configResponse{
		Status:    http.StatusOK,
		ChannelID: cfg.ChannelID,
		Profiles:  profiles,
	})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error().Err(err).Msg("encode response failed")
	}
}
