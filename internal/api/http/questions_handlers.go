package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/ppl-mockexam/internal/bank"
)

// GET /api/sections
func (a *API) ListSections(w http.ResponseWriter, r *http.Request) {
	secs, err := a.Bank.Sections(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"sections": secs})
}

// GET /api/questions?sectionId=&limit=&offset=
func (a *API) ListQuestions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	qs, total, opts, err := a.Bank.List(r.Context(), bank.ListOpts{
		SectionID: strings.TrimSpace(q.Get("sectionId")),
		Limit:     parseIntDefault(q.Get("limit"), bank.DefaultListLimit),
		Offset:    parseIntDefault(q.Get("offset"), 0),
	})
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": qs,
		"total":     total,
		"limit":     opts.Limit,
		"offset":    opts.Offset,
	})
}

func (a *API) GetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := a.Bank.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"question": q})
}

func (a *API) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in bank.QuestionInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	q, err := a.Bank.Create(r.Context(), in)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "question": q})
}

func (a *API) UpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var p bank.QuestionPatch
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	q, err := a.Bank.Update(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "question": q})
}

func (a *API) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := a.Bank.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Question deleted successfully"})
}

// POST /api/questions/bulk  { "questions": [...], "source": "..." }
func (a *API) BulkSave(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Questions []bank.QuestionInput `json:"questions"`
		Source    string               `json:"source"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "No questions provided", "")
		return
	}
	res, err := a.Bank.BulkSave(r.Context(), req.Questions, req.Source)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse("Saved %d questions", res.Saved, res))
}
