// Package http exposes the question bank, uploads and mock exams as a JSON API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/ppl-mockexam/internal/aiextract"
	"github.com/mind-engage/ppl-mockexam/internal/audit"
	"github.com/mind-engage/ppl-mockexam/internal/auth"
	"github.com/mind-engage/ppl-mockexam/internal/bank"
	"github.com/mind-engage/ppl-mockexam/internal/exam"
	"github.com/mind-engage/ppl-mockexam/internal/logger"
	"github.com/mind-engage/ppl-mockexam/internal/rbac"
	"github.com/mind-engage/ppl-mockexam/internal/storage"
)

const DefaultMaxUploadBytes = 32 << 20

// AIExtractor turns exam text into questions for review.
type AIExtractor interface {
	Extract(ctx context.Context, text string) ([]aiextract.Question, error)
}

// EventLister reads the audit log.
type EventLister interface {
	List(ctx context.Context, limit int) ([]audit.Event, error)
}

type Deps struct {
	Bank       *bank.Service
	Exams      *exam.Service
	Events     EventLister
	Blobs      storage.BlobStore
	AI         AIExtractor
	Auth       *auth.AuthService
	Credential *auth.Credential
	Log        *logger.Logger

	MaxUploadBytes int64
	CORSOrigins    []string
	RequestTimeout time.Duration
}

type API struct {
	Deps
	log *logger.Logger
	now func() time.Time
}

func New(d Deps) *API {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if d.RequestTimeout <= 0 {
		d.RequestTimeout = 5 * time.Minute
	}
	return &API{Deps: d, log: d.Log.With("component", "api"), now: time.Now}
}

// Router mounts every route behind the shared middleware stack.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, RequestLogger(a.log), middleware.Recoverer)
	r.Use(middleware.Timeout(a.RequestTimeout))
	if len(a.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.CORSOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", auth.LoginHandler(a.Auth, a.Credential, a.log))

		api.Group(func(pr chi.Router) {
			pr.Use(auth.JWTMiddleware(a.Auth))

			pr.With(rbac.Require(rbac.PermQuestionRead)).Get("/sections", a.ListSections)
			pr.With(rbac.Require(rbac.PermQuestionRead)).Get("/questions", a.ListQuestions)
			pr.With(rbac.Require(rbac.PermQuestionRead)).Get("/questions/{id}", a.GetQuestion)

			pr.With(rbac.Require(rbac.PermQuestionWrite)).Post("/questions", a.CreateQuestion)
			pr.With(rbac.Require(rbac.PermQuestionWrite)).Put("/questions/{id}", a.UpdateQuestion)
			pr.With(rbac.Require(rbac.PermQuestionWrite)).Delete("/questions/{id}", a.DeleteQuestion)

			pr.With(rbac.Require(rbac.PermQuestionImport)).Post("/questions/bulk", a.BulkSave)
			pr.With(rbac.Require(rbac.PermQuestionImport)).Post("/upload-pdf", a.UploadPDF)
			pr.With(rbac.Require(rbac.PermQuestionImport)).Post("/upload-pdf-ai", a.UploadPDFAI)

			pr.With(rbac.Require(rbac.PermExamTake)).Post("/exams", a.StartExam)
			pr.With(rbac.Require(rbac.PermExamTake)).Get("/exams/{id}", a.GetExam)
			pr.With(rbac.Require(rbac.PermExamTake)).Post("/exams/{id}/submit", a.SubmitExam)

			pr.With(rbac.Require(rbac.PermQuestionWrite)).Get("/admin/events", a.ListEvents)
		})
	})
	return r
}
