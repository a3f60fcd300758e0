package auth

import (
	"net/http"
	"time"

	"github.com/mwalczyk/webauth/internal/entities"
)

// SessionCookieName is the name of the session cookie.
const SessionCookieName = "session"

// SessionCookie serializes a session into its cookie. MaxAge tracks
// the remaining lifetime so browser and store expire together.
func (sm *SessionManager) SessionCookie(session *entities.Session) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// BlankSessionCookie produces a deletion cookie. MaxAge<0 serializes
// as Max-Age=0, which tells the browser to drop the cookie.
func (sm *SessionManager) BlankSessionCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   sm.secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ReadSessionCookie extracts the session ID from the request's cookie
// header. A missing or malformed cookie reads as "no session", never
// as an error.
func ReadSessionCookie(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
