package http

import (
	"net/http"
)

// GET /api/admin/events?limit=
func (a *API) ListEvents(w http.ResponseWriter, r *http.Request) {
	if a.Events == nil {
		writeJSON(w, http.StatusOK, map[string]any{"events": []any{}})
		return
	}
	events, err := a.Events.List(r.Context(), parseIntDefault(r.URL.Query().Get("limit"), 0))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
