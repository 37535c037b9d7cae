package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ayusman/airsketch/internal/app"
)

// SettingsService reads and changes the brush and tool.
type SettingsService interface {
	Settings() app.Settings
	UpdateSettings(u app.SettingsUpdate) (app.Settings, error)
	ClearCanvas()
}

// SettingsHandler handles /api/settings.
type SettingsHandler struct {
	service SettingsService
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(s SettingsService) *SettingsHandler {
	return &SettingsHandler{service: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *SettingsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, h.service.Settings())
	case http.MethodPut:
		h.update(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// update handles PUT /api/settings. Omitted fields are left unchanged.
func (h *SettingsHandler) update(w http.ResponseWriter, r *http.Request) {
	var req app.SettingsUpdate
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	settings, err := h.service.UpdateSettings(req)
	if err != nil {
		if errors.Is(err, app.ErrInvalidSettings) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// ClearHandler handles POST /api/canvas/clear.
type ClearHandler struct {
	service SettingsService
}

// NewClearHandler creates a new ClearHandler.
func NewClearHandler(s SettingsService) *ClearHandler {
	return &ClearHandler{service: s}
}

// ServeHTTP implements the http.Handler interface.
func (h *ClearHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.service.ClearCanvas()
	w.WriteHeader(http.StatusNoContent)
}
