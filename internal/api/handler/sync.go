package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/nadavbarak14/hoopsync/internal/api/respond"
	"github.com/nadavbarak14/hoopsync/internal/cache"
)

type seasonSyncRequest struct {
	Source string `json:"source"`
	Season string `json:"season"`
	PBP    bool   `json:"pbp"`
}

type gameSyncRequest struct {
	Source string `json:"source"`
	GameID string `json:"game_id"`
	PBP    bool   `json:"pbp"`
}

type teamsSyncRequest struct {
	Source string `json:"source"`
	Season string `json:"season"`
}

type recentSyncRequest struct {
	Source string `json:"source"`
	Days   int    `json:"days"`
}

type playerInfoSyncRequest struct {
	TeamID   string `json:"team_id"`
	SeasonID string `json:"season_id"`
}

// PostSyncSeason triggers a full-season sync and blocks until it completes.
// @Summary Sync a season
// @Description Fetches every final game of a season not already tracked and syncs it.
// @Tags sync
// @Accept json
// @Produce json
// @Param body body seasonSyncRequest true "source + season external id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /sync/season [post]
func (h *Handler) PostSyncSeason(w http.ResponseWriter, r *http.Request) {
	var req seasonSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Source == "" || req.Season == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "source and season are required")
		return
	}

	result, err := h.manager.SyncSeason(r.Context(), req.Source, req.Season, req.PBP)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "SYNC_FAILED", "season sync failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// GetSyncSeasonStream streams per-game progress for a season sync as
// Server-Sent Events: an "event: <kind>" line and a "data: {...}" line per
// event, each event followed by a blank line, ending with the
// terminal "complete" event.
// @Summary Stream a season sync's progress
// @Tags sync
// @Produce text/event-stream
// @Param source query string true "winner or euroleague"
// @Param season query string true "Season external id"
// @Param pbp query bool false "Also sync play-by-play"
// @Router /sync/season/stream [get]
func (h *Handler) GetSyncSeasonStream(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	season := r.URL.Query().Get("season")
	pbp := r.URL.Query().Get("pbp") == "true"
	if source == "" || season == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "source and season query params are required")
		return
	}

	events, err := h.manager.SyncSeasonWithProgress(r.Context(), source, season, pbp)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "SYNC_FAILED", "could not start season sync", err.Error())
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.WriteError(w, http.StatusInternalServerError, "STREAMING_UNSUPPORTED", "response writer does not support flushing")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	bw := bufio.NewWriter(w)
	for ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		fmt.Fprintf(bw, "event: %s\ndata: %s\n\n", ev.Kind, payload)
		bw.Flush()
		flusher.Flush()

		select {
		case <-r.Context().Done():
			return
		default:
		}
	}
}

// PostSyncGame triggers a single-game sync by external id.
// @Summary Sync a single game
// @Tags sync
// @Accept json
// @Produce json
// @Param body body gameSyncRequest true "source + game external id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /sync/game [post]
func (h *Handler) PostSyncGame(w http.ResponseWriter, r *http.Request) {
	var req gameSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Source == "" || req.GameID == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "source and game_id are required")
		return
	}

	result, err := h.manager.SyncGame(r.Context(), req.Source, req.GameID, req.PBP)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "SYNC_FAILED", "game sync failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// PostSyncTeams triggers a teams-only sync for a season.
// @Summary Sync team rosters for a season
// @Tags sync
// @Accept json
// @Produce json
// @Param body body teamsSyncRequest true "source + season external id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /sync/teams [post]
func (h *Handler) PostSyncTeams(w http.ResponseWriter, r *http.Request) {
	var req teamsSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Source == "" || req.Season == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "source and season are required")
		return
	}

	result, err := h.manager.SyncTeams(r.Context(), req.Source, req.Season)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "SYNC_FAILED", "teams sync failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// PostSyncRecent triggers a sync of final games from the last N days.
// @Summary Sync recent games
// @Tags sync
// @Accept json
// @Produce json
// @Param body body recentSyncRequest true "source + days"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /sync/recent [post]
func (h *Handler) PostSyncRecent(w http.ResponseWriter, r *http.Request) {
	var req recentSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	if req.Source == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_FIELDS", "source is required")
		return
	}
	if req.Days <= 0 {
		req.Days = 3
	}

	result, err := h.manager.SyncRecent(r.Context(), req.Source, req.Days)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "SYNC_FAILED", "recent sync failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// PostSyncPlayerInfo refreshes biographical fields for a team's season
// roster from every configured player-info source.
// @Summary Refresh player biographical info for a roster
// @Tags sync
// @Accept json
// @Produce json
// @Param body body playerInfoSyncRequest true "team + season id"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /sync/player-info [post]
func (h *Handler) PostSyncPlayerInfo(w http.ResponseWriter, r *http.Request) {
	var req playerInfoSyncRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_BODY", err.Error())
		return
	}
	teamID, err := uuid.Parse(req.TeamID)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TEAM_ID", err.Error())
		return
	}
	seasonID, err := uuid.Parse(req.SeasonID)
	if err != nil {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_SEASON_ID", err.Error())
		return
	}

	result, err := h.manager.SyncPlayerInfo(r.Context(), teamID, seasonID)
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "SYNC_FAILED", "player-info sync failed", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, result)
}

// GetAvailableSeasons lists the season names a source currently exposes,
// cached since a source's season list rarely changes within a day.
// @Summary List a source's available seasons
// @Tags sync
// @Produce json
// @Param source query string true "winner or euroleague"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 404 {object} respond.ErrorResponse
// @Router /sync/seasons [get]
func (h *Handler) GetAvailableSeasons(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")
	if source == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_SOURCE", "source query parameter is required")
		return
	}
	a, ok := h.adapters[source]
	if !ok {
		respond.WriteError(w, http.StatusNotFound, "UNKNOWN_SOURCE", fmt.Sprintf("unknown source %q", source))
		return
	}

	cacheKey := "available_seasons:" + source
	if data, etag, hit := h.cache.Get(cacheKey); hit {
		respond.WriteJSON(w, data, etag, cache.TTLHistorical, true)
		return
	}

	seasons, err := a.GetAvailableSeasons(r.Context())
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "FETCH_FAILED", "could not fetch available seasons", err.Error())
		return
	}
	data, err := json.Marshal(map[string]interface{}{"source": source, "seasons": seasons})
	if err != nil {
		respond.WriteErrorDetail(w, http.StatusInternalServerError, "ENCODE_FAILED", "could not encode response", err.Error())
		return
	}
	etag := h.cache.Set(cacheKey, data, cache.TTLHistorical)
	respond.WriteJSON(w, data, etag, cache.TTLHistorical, false)
}
