package login

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/uptrace/bun"

	"godam/infrastructure/audit"
	"godam/infrastructure/cache"
	sessioncookie "godam/infrastructure/session"
	"godam/infrastructure/sqlite"
	"godam/models"
)

func openLoginTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.OpenDB(filepath.Join(t.TempDir(), "login.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func postLogin(h http.Handler, username, password string) *httptest.ResponseRecorder {
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginIssuesSessionAndAudits(t *testing.T) {
	db := openLoginTestDB(t)
	if err := UpsertUserPasswordHash(context.Background(), db, "Layla", "dispatcher", "Dispatch-2024x"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	sessions := cache.NewUserSessionCache()
	h := CreateLoginHandler(db, audit.NewService(), sessions, cache.NewUserCache(), true)

	rec := postLogin(h, "layla", "Dispatch-2024x")
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != HomePath {
		t.Fatalf("expected redirect home, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessioncookie.CookieName {
			cookie = c
		}
	}
	if cookie == nil || cookie.Value == "" || !cookie.Secure || !cookie.HttpOnly {
		t.Fatalf("expected secure session cookie, got %+v", cookie)
	}
	if _, ok := sessions.FindSessionBySessionToken(cookie.Value); !ok {
		t.Fatalf("expected session cached")
	}
	loaded, err := LoadSessionByToken(context.Background(), db, cookie.Value)
	if err != nil || loaded.User.Username != "Layla" {
		t.Fatalf("expected persisted session, got %+v err=%v", loaded, err)
	}

	var logins int
	err = db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		var err error
		logins, err = tx.NewSelect().Model((*models.AuditLog)(nil)).Where("action = ?", audit.ActionLogin).Count(ctx)
		return err
	})
	if err != nil || logins != 1 {
		t.Fatalf("expected one login audit entry, got %d err=%v", logins, err)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	db := openLoginTestDB(t)
	if err := UpsertUserPasswordHash(context.Background(), db, "layla", "dispatcher", "Dispatch-2024x"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	h := CreateLoginHandler(db, audit.NewService(), cache.NewUserSessionCache(), cache.NewUserCache(), false)

	rec := postLogin(h, "layla", "Wrong-password1")
	if !strings.Contains(rec.Header().Get("Location"), "invalid+username+or+password") {
		t.Fatalf("expected invalid credentials redirect, got %q", rec.Header().Get("Location"))
	}
	rec = postLogin(h, "nobody", "Dispatch-2024x")
	if !strings.Contains(rec.Header().Get("Location"), "invalid+username+or+password") {
		t.Fatalf("expected invalid credentials redirect for unknown user, got %q", rec.Header().Get("Location"))
	}
}

func TestUpsertUserRejectsUnknownRole(t *testing.T) {
	db := openLoginTestDB(t)
	if err := UpsertUserPasswordHash(context.Background(), db, "x", "client", "Dispatch-2024x"); err == nil {
		t.Fatalf("expected role error")
	}
}

func TestLogoutClearsSessionAndDraft(t *testing.T) {
	db := openLoginTestDB(t)
	sessions := cache.NewUserSessionCache()
	drafts := cache.NewDraftCache()
	sessions.AddSession(models.Session{ID: "tok"})
	drafts.Put("tok", []byte(`{}`))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: sessioncookie.CookieName, Value: "tok"})
	rec := httptest.NewRecorder()
	LogoutHandler(db, sessions, drafts, false).ServeHTTP(rec, req)

	if rec.Header().Get("Location") != "/login?status=signed-out" {
		t.Fatalf("expected redirect to login, got %q", rec.Header().Get("Location"))
	}
	if _, ok := sessions.FindSessionBySessionToken("tok"); ok {
		t.Fatalf("expected cached session removed")
	}
	if _, ok := drafts.Get("tok"); ok {
		t.Fatalf("expected staged draft removed")
	}
}

func TestLoginScreenShowsStatusNotice(t *testing.T) {
	rec := httptest.NewRecorder()
	GetLoginScreenHandler(rec, httptest.NewRequest(http.MethodGet, "/login?status=expired", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Your session expired") {
		t.Fatalf("expected expiry notice on login screen")
	}

	rec = httptest.NewRecorder()
	GetLoginScreenHandler(rec, httptest.NewRequest(http.MethodGet, "/login?status=%3Cscript%3E", nil))
	if strings.Contains(rec.Body.String(), "banner-info") {
		t.Fatalf("unknown status must not render a notice")
	}
}
