package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/FieldMesh/noisemap/internal/noise"
	"github.com/FieldMesh/noisemap/internal/noisemap"
)

type Handler struct {
	mapManager *noisemap.Manager
}

func NewHandler(mapManager *noisemap.Manager) *Handler {
	return &Handler{
		mapManager: mapManager,
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"service":   "noisemap-api",
		"version":   "1.0.0",
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, response)
}

func (h *Handler) CreateMap(w http.ResponseWriter, r *http.Request) {
	var req noisemap.CreateMapRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.renderError(w, r, http.StatusBadRequest, "invalid request body", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	meta, err := h.mapManager.CreateMap(ctx, req)
	if err != nil {
		log.Error("failed to create map", "error", err)
		h.renderError(w, r, http.StatusBadRequest, "failed to create map", err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, meta)
}

func (h *Handler) ListMaps(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	maps, err := h.mapManager.ListMaps(ctx)
	if err != nil {
		log.Error("failed to list maps", "error", err)
		h.renderError(w, r, http.StatusInternalServerError, "failed to list maps", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"maps": maps,
	})
}

func (h *Handler) GetMap(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	meta, err := h.mapManager.GetMap(ctx, mapID)
	if err != nil {
		if errors.Is(err, noisemap.ErrMapNotFound) {
			h.renderError(w, r, http.StatusNotFound, "map not found", nil)
			return
		}
		log.Error("failed to get map", "error", err, "map_id", mapID)
		h.renderError(w, r, http.StatusInternalServerError, "failed to get map", err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, meta)
}

func (h *Handler) GetMapImage(w http.ResponseWriter, r *http.Request) {
	mapID := chi.URLParam(r, "mapId")

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	image, err := h.mapManager.GetMapImage(ctx, mapID)
	if err != nil {
		if errors.Is(err, noisemap.ErrMapNotFound) {
			h.renderError(w, r, http.StatusNotFound, "map not found", nil)
			return
		}
		log.Error("failed to get map image", "error", err, "map_id", mapID)
		h.renderError(w, r, http.StatusInternalServerError, "failed to get map image", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(image)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(image); err != nil {
		log.Error("failed to write map image", "error", err, "map_id", mapID)
	}
}

// SampleNoise evaluates a single noise value for ad-hoc inspection. Fractal
// parameters default to the engine defaults when omitted.
func (h *Handler) SampleNoise(w http.ResponseWriter, r *http.Request) {
	seedStr := chi.URLParam(r, "seed")
	seed, err := strconv.ParseInt(seedStr, 10, 64)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid seed", err)
		return
	}

	x, err := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid x coordinate", err)
		return
	}

	y, err := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if err != nil {
		h.renderError(w, r, http.StatusBadRequest, "invalid y coordinate", err)
		return
	}

	gen := noise.NewGenerator(uint32(seed & 0xFFFFFFFF))
	if v := r.URL.Query().Get("frequency"); v != "" {
		if frequency, err := strconv.ParseFloat(v, 64); err == nil {
			gen.SetFrequency(frequency)
		}
	}
	if v := r.URL.Query().Get("octaves"); v != "" {
		if octaves, err := strconv.Atoi(v); err == nil {
			gen.SetFractalOctaves(octaves)
		}
	}
	if v := r.URL.Query().Get("lacunarity"); v != "" {
		if lacunarity, err := strconv.ParseFloat(v, 64); err == nil {
			gen.SetFractalLacunarity(lacunarity)
		}
	}
	if v := r.URL.Query().Get("gain"); v != "" {
		if gain, err := strconv.ParseFloat(v, 64); err == nil {
			gen.SetFractalGain(gain)
		}
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, map[string]interface{}{
		"seed":  gen.GetSeed(),
		"x":     x,
		"y":     y,
		"value": gen.GetNoise(x, y),
	})
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, status int, message string, err error) {
	errorResponse := noisemap.ErrorResponse{
		Error:   message,
		Code:    status,
		Message: message,
	}

	if err != nil {
		log.Error("API error", "error", err, "message", message, "status", status)
		// Don't expose internal errors to the client
		if status >= 500 {
			errorResponse.Error = "Internal server error"
		}
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse)
}
