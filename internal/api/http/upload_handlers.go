package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/mind-engage/ppl-mockexam/internal/aiextract"
	"github.com/mind-engage/ppl-mockexam/internal/bank"
	"github.com/mind-engage/ppl-mockexam/internal/parser"
	"github.com/mind-engage/ppl-mockexam/internal/pdftext"
	"github.com/mind-engage/ppl-mockexam/internal/storage"
)

type upload struct {
	name string
	data []byte
	text string
}

func bulkResponse(format string, n int, res bank.BulkResult) map[string]any {
	return map[string]any{
		"success": true,
		"message": fmt.Sprintf(format, n),
		"saved":   res.Saved,
		"errors":  res.Errors,
		"details": map[string]any{
			"savedQuestions": res.Saved,
			"errors":         res.Messages,
		},
	}
}

// readUpload reads the multipart "file" field, archives it and extracts its
// text. It writes the error response itself and returns false on failure.
func (a *API) readUpload(w http.ResponseWriter, r *http.Request) (upload, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes)
	if err := r.ParseMultipartForm(a.MaxUploadBytes); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			a.fail(w, r, err)
			return upload{}, false
		}
		writeError(w, http.StatusBadRequest, "No file uploaded", err.Error())
		return upload{}, false
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return upload{}, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		a.fail(w, r, err)
		return upload{}, false
	}
	u := upload{name: filepath.Base(hdr.Filename), data: data}
	log := a.log.With("file", u.name, "bytes", len(data))

	if a.Blobs != nil {
		key := storage.UploadKey(u.name, a.now())
		if _, err := a.Blobs.Put(key, bytes.NewReader(data)); err != nil {
			log.Warn("archive upload failed", "key", key, "error", err)
		} else {
			log.Debug("upload archived", "key", key)
		}
	}

	if strings.EqualFold(filepath.Ext(u.name), ".txt") {
		u.text = string(data)
	} else {
		doc, err := pdftext.Extract(r.Context(), bytes.NewReader(data))
		if err != nil {
			log.Warn("pdf text extraction failed", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to extract text from PDF: "+err.Error(), "")
			return upload{}, false
		}
		u.text = doc.Text
		log.Info("pdf text extracted", "pages", doc.PageCount, "chars", len(doc.Text))
	}
	return u, true
}

// POST /api/upload-pdf  multipart: file, optional sectionId
func (a *API) UploadPDF(w http.ResponseWriter, r *http.Request) {
	if err := a.Bank.EnsureSections(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Database initialization failed: "+err.Error(), "")
		return
	}
	u, ok := a.readUpload(w, r)
	if !ok {
		return
	}

	parsed := parser.Parse(u.text, strings.TrimSpace(r.FormValue("sectionId")))
	a.log.Info("parsed upload", "file", u.name, "blocks", parsed.Blocks,
		"questions", len(parsed.Questions), "skipped", parsed.Skipped, "duplicates", parsed.Duplicates)

	res, err := a.Bank.ImportExtracted(r.Context(), parsed.Questions, u.name)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bulkResponse("Processed %d questions", len(parsed.Questions), res))
}

// POST /api/upload-pdf-ai  multipart: file. Questions are returned for
// review and saved later through /api/questions/bulk.
func (a *API) UploadPDFAI(w http.ResponseWriter, r *http.Request) {
	if !a.aiConfigured() {
		a.fail(w, r, aiextract.ErrNotConfigured)
		return
	}
	u, ok := a.readUpload(w, r)
	if !ok {
		return
	}
	qs, err := a.AI.Extract(r.Context(), u.text)
	switch {
	case errors.Is(err, aiextract.ErrTextTooLarge), errors.Is(err, aiextract.ErrNotConfigured):
		a.fail(w, r, err)
		return
	case err != nil:
		a.log.Error("ai extraction failed", "file", u.name, "error", err)
		writeError(w, http.StatusInternalServerError, "AI extraction failed: "+err.Error(), "")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   fmt.Sprintf("Extracted %d questions for review", len(qs)),
		"questions": qs,
		"source":    u.name,
	})
}

func (a *API) aiConfigured() bool {
	if a.AI == nil {
		return false
	}
	if c, ok := a.AI.(interface{ Configured() bool }); ok {
		return c.Configured()
	}
	return true
}
