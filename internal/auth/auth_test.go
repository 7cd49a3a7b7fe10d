package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/ppl-mockexam/internal/rbac"
)

func TestIssueParse(t *testing.T) {
	a := NewAuthService("secret")
	tok, err := a.IssueJWT("admin", rbac.RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}
	c, err := a.Parse(tok)
	if err != nil {
		t.Fatal(err)
	}
	if c.Subject != "admin" || c.Role != rbac.RoleAdmin {
		t.Errorf("claims = %+v", c)
	}
	if got := c.ExpiresAt.Sub(c.IssuedAt.Time); got != 8*time.Hour {
		t.Errorf("ttl = %v", got)
	}

	if _, err := NewAuthService("other").Parse(tok); err == nil {
		t.Error("token signed with another secret accepted")
	}

	later := NewAuthService("secret")
	later.now = func() time.Time { return time.Now().Add(9 * time.Hour) }
	if _, err := later.Parse(tok); err == nil {
		t.Error("expired token accepted")
	}
}

func TestCredential(t *testing.T) {
	c, err := NewCredential("", "admin123")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Check("admin123") || c.Check("admin") || c.Check("") {
		t.Error("plain password credential")
	}

	h, _ := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	c, err = NewCredential(string(h), "ignored")
	if err != nil {
		t.Fatal(err)
	}
	if !c.Check("s3cret") || c.Check("ignored") {
		t.Error("hash credential")
	}

	if _, err := NewCredential("not-a-hash", ""); err == nil {
		t.Error("bad hash accepted")
	}
	if _, err := NewCredential("", ""); err == nil {
		t.Error("empty credential accepted")
	}
}

func TestLoginHandler(t *testing.T) {
	a := NewAuthService("secret")
	cred, _ := NewCredential("", "admin123")
	h := LoginHandler(a, cred, nil)

	cases := []struct {
		body string
		want int
	}{
		{`{"password":"admin123"}`, http.StatusOK},
		{`{"password":"wrong"}`, http.StatusUnauthorized},
		{`not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body)))
		if rr.Code != tc.want {
			t.Errorf("%s: code = %d, want %d", tc.body, rr.Code, tc.want)
		}
		if tc.want == http.StatusOK && !strings.Contains(rr.Body.String(), "access_token") {
			t.Errorf("body = %s", rr.Body.String())
		}
	}
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("secret")
	tok, _ := a.IssueJWT("admin", rbac.RoleAdmin)

	var gotRole, gotSub string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = rbac.RoleFromContext(r.Context())
		gotSub = SubjectFromContext(r.Context())
	}))

	cases := []struct {
		header  string
		code    int
		role    string
		subject string
	}{
		{"", http.StatusOK, rbac.RoleGuest, ""},
		{"Bearer " + tok, http.StatusOK, rbac.RoleAdmin, "admin"},
		{"Bearer garbage", http.StatusUnauthorized, "", ""},
		{"Basic abc", http.StatusUnauthorized, "", ""},
	}
	for _, tc := range cases {
		gotRole, gotSub = "", ""
		req := httptest.NewRequest(http.MethodGet, "/api/sections", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tc.code || gotRole != tc.role || gotSub != tc.subject {
			t.Errorf("%q: code=%d role=%q sub=%q", tc.header, rr.Code, gotRole, gotSub)
		}
	}
}
