package login

import (
	"net/http"

	"godam/infrastructure/cache"
	sessioncookie "godam/infrastructure/session"
	"godam/infrastructure/sqlite"
)

// LogoutHandler removes session state and clears cookie.
func LogoutHandler(db *sqlite.DB, sessionCache *cache.UserSessionCache, drafts *cache.DraftCache, secureCookie bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessioncookie.CookieName)
		if err == nil && cookie.Value != "" {
			sessionCache.DeleteSessionBySessionToken(cookie.Value)
			drafts.Delete(cookie.Value)
			_ = DeleteSessionByToken(r.Context(), db, cookie.Value)
		}
		http.SetCookie(w, sessioncookie.ClearCookie(secureCookie))
		http.Redirect(w, r, "/login?status=signed-out", http.StatusSeeOther)
	}
}
