package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/ppl-mockexam/internal/logger"
	"github.com/mind-engage/ppl-mockexam/internal/rbac"
)

const AdminSubject = "admin"

// Credential holds the bcrypt hash of the admin password.
type Credential struct {
	hash []byte
}

// NewCredential prefers a precomputed bcrypt hash and otherwise hashes the
// plain password once at boot.
func NewCredential(passHash, password string) (*Credential, error) {
	if h := strings.TrimSpace(passHash); h != "" {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return nil, fmt.Errorf("admin password hash: %w", err)
		}
		return &Credential{hash: []byte(h)}, nil
	}
	if password == "" {
		return nil, errors.New("no admin password configured")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	return &Credential{hash: h}, nil
}

func (c *Credential) Check(password string) bool {
	return c != nil && password != "" && bcrypt.CompareHashAndPassword(c.hash, []byte(password)) == nil
}

// POST /api/auth/login  { "password": "..." }
func LoginHandler(a *AuthService, cred *Credential, log *logger.Logger) http.HandlerFunc {
	if log == nil {
		log = logger.Nop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if !cred.Check(req.Password) {
			log.Warn("admin login rejected", "remote", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "Invalid password")
			return
		}
		tok, err := a.IssueJWT(AdminSubject, rbac.RoleAdmin)
		if err != nil {
			log.Error("issue token", "error", err)
			writeError(w, http.StatusInternalServerError, "Failed to issue token")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"access_token": tok})
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
