package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/Jamar-Mitchell/screen-blur-focus/internal/overlay"
)

// Status is the engine snapshot reported by /api/status.
type Status struct {
	Enabled       bool    `json:"enabled"`
	ActiveDisplay int     `json:"active_display"` // -1 when unknown
	Displays      int     `json:"displays"`
	Opacity       int     `json:"opacity"`
	Color         string  `json:"color"`
	PowerSave     bool    `json:"power_save"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// Engine is the slice of engine operations the API needs. Implementations
// marshal calls onto the run loop.
type Engine interface {
	Status() Status
	SetEnabled(enabled bool)
	SetOpacity(source string, percent int)
	SetColorName(name string) error
}

type Handler struct {
	engine Engine
	log    zerolog.Logger
}

func NewHandler(engine Engine, log zerolog.Logger) *Handler {
	return &Handler{engine: engine, log: log}
}

func (h *Handler) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/status", h.handleStatus)
	mux.HandleFunc("/api/enabled", h.handleEnabled)
	mux.HandleFunc("/api/opacity", h.handleOpacity)
	mux.HandleFunc("/api/color", h.handleColor)
	mux.HandleFunc("/api/colors", h.handleColors)

	mux.HandleFunc("/health", h.handleHealth)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, h.engine.Status())
}

func (h *Handler) handleEnabled(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Enabled bool `json:"enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	h.engine.SetEnabled(req.Enabled)
	respondJSON(w, h.engine.Status())
}

func (h *Handler) handleOpacity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Opacity int `json:"opacity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Opacity < 10 || req.Opacity > 90 {
		http.Error(w, "opacity must be between 10 and 90", http.StatusBadRequest)
		return
	}

	h.engine.SetOpacity("web", req.Opacity)
	respondJSON(w, h.engine.Status())
}

func (h *Handler) handleColor(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Color string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.engine.SetColorName(req.Color); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, h.engine.Status())
}

func (h *Handler) handleColors(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	respondJSON(w, map[string][]string{"colors": overlay.ColorNames()})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
