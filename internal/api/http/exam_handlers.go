package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/ppl-mockexam/internal/auth"
)

// POST /api/exams  { "sectionId": "meteorology" }
func (a *API) StartExam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SectionID string `json:"sectionId"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	req.SectionID = strings.TrimSpace(req.SectionID)
	if req.SectionID == "" {
		writeError(w, http.StatusBadRequest, "sectionId is required", "")
		return
	}
	v, err := a.Exams.Start(r.Context(), req.SectionID, auth.SubjectFromContext(r.Context()))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

func (a *API) GetExam(w http.ResponseWriter, r *http.Request) {
	v, err := a.Exams.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// POST /api/exams/{id}/submit  { "answers": { "<questionId>": "B" } }
func (a *API) SubmitExam(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body", err.Error())
		return
	}
	v, err := a.Exams.Submit(r.Context(), chi.URLParam(r, "id"), req.Answers)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}
