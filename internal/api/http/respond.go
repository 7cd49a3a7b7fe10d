package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/mind-engage/ppl-mockexam/internal/aiextract"
	"github.com/mind-engage/ppl-mockexam/internal/bank"
	"github.com/mind-engage/ppl-mockexam/internal/exam"
)

type errorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg, details string) {
	writeJSON(w, code, errorBody{Error: msg, Details: details})
}

// statusFor maps domain errors to an HTTP status and a client message.
func statusFor(err error) (int, string, string) {
	switch {
	case errors.Is(err, bank.ErrNotFound):
		return http.StatusNotFound, "Question not found", ""
	case errors.Is(err, bank.ErrSectionNotFound):
		return http.StatusNotFound, err.Error(), ""
	case errors.Is(err, bank.ErrValidation):
		return http.StatusBadRequest, err.Error(), ""
	case errors.Is(err, exam.ErrNotFound):
		return http.StatusNotFound, "Exam not found", ""
	case errors.Is(err, exam.ErrNoQuestions):
		return http.StatusNotFound, "No questions available for this section", "Upload questions for this section first"
	case errors.Is(err, aiextract.ErrNotConfigured):
		return http.StatusInternalServerError, "OpenAI API key not configured", "Please set OPENAI_API_KEY environment variable"
	case errors.Is(err, aiextract.ErrTextTooLarge):
		return http.StatusBadRequest, "PDF too large",
			"The PDF contains too much text. Please split it into smaller files (under 25 pages)."
	}
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return http.StatusRequestEntityTooLarge, "File too large",
			"Uploads are limited to " + strconv.FormatInt(mbe.Limit>>20, 10) + " MiB"
	}
	return http.StatusInternalServerError, "Internal server error", err.Error()
}

func (a *API) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, msg, details := statusFor(err)
	if code >= 500 {
		a.log.Error("request failed", "path", r.URL.Path, "error", err)
	}
	writeError(w, code, msg, details)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	return dec.Decode(v)
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil && v >= 0 {
		return v
	}
	return def
}
