package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mind-engage/ppl-mockexam/internal/aiextract"
	api "github.com/mind-engage/ppl-mockexam/internal/api/http"
	"github.com/mind-engage/ppl-mockexam/internal/audit"
	"github.com/mind-engage/ppl-mockexam/internal/auth"
	"github.com/mind-engage/ppl-mockexam/internal/bank"
	"github.com/mind-engage/ppl-mockexam/internal/config"
	"github.com/mind-engage/ppl-mockexam/internal/db"
	"github.com/mind-engage/ppl-mockexam/internal/exam"
	"github.com/mind-engage/ppl-mockexam/internal/logger"
	"github.com/mind-engage/ppl-mockexam/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// logger mode comes from config, so fall back to a dev logger here
		l, _ := logger.New("dev")
		l.Fatal("config", "error", err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	// --- DB ---
	openCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	dbh, err := db.Open(openCtx, db.Driver(cfg.DBDriver), cfg.DBDSN)
	cancel()
	if err != nil {
		log.Fatal("db open failed", "driver", cfg.DBDriver, "error", err)
	}
	defer dbh.Close()

	events := audit.NewEventRepo(dbh, log)
	bankSvc := bank.NewService(bank.NewSQLStore(dbh, cfg.DBDriver), events, log)
	if err := bankSvc.EnsureSections(context.Background()); err != nil {
		log.Fatal("seed sections", "error", err)
	}
	examSvc := exam.NewService(exam.NewSQLStore(dbh, cfg.DBDriver), bankSvc, cfg.ExamQuestionCount, events, log)

	blobs, err := storage.NewFSStore(cfg.BlobBasePath)
	if err != nil {
		log.Fatal("blob store", "path", cfg.BlobBasePath, "error", err)
	}

	// --- Auth ---
	cred, err := auth.NewCredential(cfg.AdminPassHash, cfg.AdminPassword)
	if err != nil {
		log.Fatal("admin credential", "error", err)
	}

	ai := aiextract.New(aiextract.Config{
		APIKey:     cfg.OpenAIAPIKey,
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      cfg.OpenAIModel,
		Timeout:    cfg.OpenAITimeout,
		MaxRetries: cfg.OpenAIMaxRetries,
	}, log)
	if !ai.Configured() {
		log.Warn("OPENAI_API_KEY not set; AI extraction disabled")
	}

	handler := api.New(api.Deps{
		Bank:           bankSvc,
		Exams:          examSvc,
		Events:         events,
		Blobs:          blobs,
		AI:             ai,
		Auth:           auth.NewAuthService(cfg.AuthHMACSecret),
		Credential:     cred,
		Log:            log,
		MaxUploadBytes: cfg.MaxUploadBytes,
		CORSOrigins:    cfg.CORSOrigins(),
		RequestTimeout: cfg.OpenAITimeout + 30*time.Second,
	}).Router()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	log.Info("listening", "addr", cfg.HTTPAddr, "mode", cfg.Mode, "db", cfg.DBDriver)

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn("shutdown", "error", err)
	}
}
