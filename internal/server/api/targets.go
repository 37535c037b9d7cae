package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ayusman/airsketch/internal/app"
	"github.com/ayusman/airsketch/internal/store"
)

// TargetLister describes the selectable toolbox.
type TargetLister interface {
	Targets() []app.TargetInfo
}

// TargetsHandler handles GET /api/targets.
type TargetsHandler struct {
	lister TargetLister
}

// NewTargetsHandler creates a new TargetsHandler.
func NewTargetsHandler(l TargetLister) *TargetsHandler {
	return &TargetsHandler{lister: l}
}

type listTargetsResponse struct {
	Targets []app.TargetInfo `json:"targets"`
}

// ServeHTTP implements the http.Handler interface.
func (h *TargetsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, listTargetsResponse{Targets: h.lister.Targets()})
}

// SelectionsHandler handles GET /api/selections and /api/selections/{id}.
type SelectionsHandler struct {
	store *store.Store
}

// NewSelectionsHandler creates a new SelectionsHandler with the given store.
func NewSelectionsHandler(s *store.Store) *SelectionsHandler {
	return &SelectionsHandler{store: s}
}

type selectionResponse struct {
	ID         string `json:"id"`
	TargetID   string `json:"target_id"`
	Label      string `json:"label"`
	SelectedAt string `json:"selected_at"`
}

type listSelectionsResponse struct {
	Selections []selectionResponse `json:"selections"`
}

func toSelectionResponse(s *store.Selection) selectionResponse {
	return selectionResponse{
		ID:         s.ID,
		TargetID:   s.TargetID,
		Label:      s.Label,
		SelectedAt: s.SelectedAt.Format(time.RFC3339Nano),
	}
}

// ServeHTTP implements the http.Handler interface.
func (h *SelectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, "/api/selections"), "/")
	if id != "" {
		h.get(w, id)
		return
	}
	h.list(w, r)
}

// list returns the most recent selections, newest first. The optional
// limit query parameter caps the count.
func (h *SelectionsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	selections, err := h.store.Selections().Recent(limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list selections")
		return
	}

	response := listSelectionsResponse{
		Selections: make([]selectionResponse, 0, len(selections)),
	}
	for _, s := range selections {
		response.Selections = append(response.Selections, toSelectionResponse(s))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *SelectionsHandler) get(w http.ResponseWriter, id string) {
	sel, err := h.store.Selections().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Selection not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get selection")
		return
	}
	writeJSON(w, http.StatusOK, toSelectionResponse(sel))
}
