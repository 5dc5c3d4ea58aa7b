package login

import (
	"log/slog"
	"net/http"
)

// Notices the login screen shows for ?status= values set by other handlers.
var loginNotices = map[string]string{
	"signed-out": "You have been signed out.",
	"expired":    "Your session expired. Sign in again to continue.",
}

// GetLoginScreenHandler renders the login screen.
func GetLoginScreenHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	data := LoginScreenData{
		Error:  q.Get("error"),
		Notice: loginNotices[q.Get("status")],
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := GetLoginScreen(data).Render(r.Context(), w); err != nil {
		slog.Error("login: render failed", slog.Any("err", err))
		http.Error(w, "failed to render login screen", http.StatusInternalServerError)
	}
}
