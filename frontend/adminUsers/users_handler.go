package adminusers

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"godam/frontend/shared/context"
	"godam/frontend/shared/nav"
	"godam/infrastructure/audit"
	"godam/infrastructure/cache"
	"godam/infrastructure/sqlite"
)

const usersPath = "/tasker/admin/users"

// UsersPageQueryHandler renders the admin users list page.
func UsersPageQueryHandler(db *sqlite.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}

		data, err := LoadUsersPageData(r.Context(), db)
		if err != nil {
			slog.Error("admin users: failed to load data", slog.Any("err", err))
			http.Error(w, "failed to load users", http.StatusInternalServerError)
			return
		}

		data.Status = r.URL.Query().Get("status")
		data.ErrorMessage = r.URL.Query().Get("error")
		data.Nav = nav.BuildTopNavData(session)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := UsersListPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render users page", http.StatusInternalServerError)
			return
		}
	}
}

// CreateUserCommandHandler creates a user from the admin form. Validation
// messages are safe to show and are passed back on the redirect.
func CreateUserCommandHandler(db *sqlite.DB, auditSvc *audit.Service, userCache *cache.UserCache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := context.GetSessionFromContext(r.Context())
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, usersPath+"?error="+url.QueryEscape("invalid form data"), http.StatusSeeOther)
			return
		}

		username := strings.TrimSpace(r.FormValue("username"))
		password := strings.TrimSpace(r.FormValue("password"))
		role := strings.TrimSpace(r.FormValue("role"))

		if err := CreateUser(r.Context(), db, auditSvc, session.UserID, username, password, role); err != nil {
			http.Redirect(w, r, usersPath+"?error="+url.QueryEscape(err.Error()), http.StatusSeeOther)
			return
		}
		userCache.Delete(username)

		http.Redirect(w, r, usersPath+"?status="+url.QueryEscape("user created"), http.StatusSeeOther)
	}
}
