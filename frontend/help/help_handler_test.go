package help

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sessioncontext "godam/frontend/shared/context"
	"godam/infrastructure/rbac"
	"godam/models"
)

func TestHelpPageShowsAdminSectionOnlyToAdmins(t *testing.T) {
	tests := []struct {
		role      string
		wantAdmin bool
	}{
		{rbac.RoleAdmin, true},
		{rbac.RoleDispatcher, false},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			session := models.Session{User: models.User{Username: "u", Role: tt.role}}
			req := httptest.NewRequest(http.MethodGet, "/tasker/help", nil)
			req = req.WithContext(sessioncontext.NewContextWithSession(req.Context(), session))
			rec := httptest.NewRecorder()

			HelpPageQueryHandler()(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", rec.Code)
			}
			body := rec.Body.String()
			if !strings.Contains(body, `id="help-print"`) {
				t.Fatalf("print section missing")
			}
			if got := strings.Contains(body, `id="help-admin"`); got != tt.wantAdmin {
				t.Fatalf("admin section present = %v, want %v", got, tt.wantAdmin)
			}
		})
	}
}

func TestHelpPageRedirectsWithoutSession(t *testing.T) {
	rec := httptest.NewRecorder()
	HelpPageQueryHandler()(rec, httptest.NewRequest(http.MethodGet, "/tasker/help", nil))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
}
