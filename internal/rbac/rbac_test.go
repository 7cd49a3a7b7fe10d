package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChecker_Has(t *testing.T) {
	c := NewChecker(map[string][]string{
		"editor": {"question:*", PermExamTake},
	})
	cases := []struct {
		role, perm string
		want       bool
	}{
		{"editor", PermQuestionWrite, true},
		{"editor", PermQuestionImport, true},
		{"editor", PermExamTake, true},
		{"editor", "admin:events", false},
		{"nobody", PermExamTake, false},
	}
	for _, tc := range cases {
		if got := c.Has(tc.role, tc.perm); got != tc.want {
			t.Errorf("Has(%s, %s) = %v", tc.role, tc.perm, got)
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	if !c.Has(RoleGuest, PermQuestionRead) || !c.Has(RoleGuest, PermExamTake) {
		t.Error("guest must read questions and take exams")
	}
	if c.Has(RoleGuest, PermQuestionWrite) || c.Has(RoleGuest, PermQuestionImport) {
		t.Error("guest must not change the bank")
	}
	if !c.Has(RoleAdmin, PermQuestionImport) {
		t.Error("admin must import")
	}
}

func TestRoleFromContext_DefaultsToGuest(t *testing.T) {
	if got := RoleFromContext(context.Background()); got != RoleGuest {
		t.Errorf("role = %q", got)
	}
	if got := RoleFromContext(WithRole(context.Background(), RoleAdmin)); got != RoleAdmin {
		t.Errorf("role = %q", got)
	}
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require(PermQuestionWrite)(ok)

	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{RoleAdmin, http.StatusNoContent},
		{"auditor", http.StatusForbidden},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/questions", nil)
		if tc.role != "" {
			req = req.WithContext(WithRole(req.Context(), tc.role))
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != tc.want {
			t.Errorf("role %q: code = %d, want %d", tc.role, rr.Code, tc.want)
		}
	}
}
