package session

import (
	"net/http"
	"time"
)

const CookieName = "X-Session-Token"

// Lifetime of a console login.
const Lifetime = 12 * time.Hour

func SessionCookie(value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
	}
}

// ClearCookie expires the session cookie in the browser.
func ClearCookie(secure bool) *http.Cookie {
	return SessionCookie("", -1, secure)
}

func DefaultExpiry() time.Time {
	return time.Now().Add(Lifetime)
}
