package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mwalczyk/webauth/internal/api"
	"github.com/mwalczyk/webauth/internal/entities"
)

// Context keys for the resolved session state
const (
	ContextKeyUser    = "auth_user"
	ContextKeySession = "auth_session"
)

// Middleware resolves the session cookie on every request.
type Middleware struct {
	sessions *SessionManager
}

// NewMiddleware creates the session-resolving middleware.
func NewMiddleware(sessions *SessionManager) *Middleware {
	return &Middleware{sessions: sessions}
}

// Handler returns a Gin middleware that resolves the session cookie to
// a (session, user) pair in the request context. It never rejects a
// request; downstream handlers decide whether authentication is
// required.
//
// Cookie handling follows session state: an invalid or expired cookie
// is answered with an explicit deletion cookie, a fresh session gets a
// renewed cookie, anything else leaves the response headers alone.
func (m *Middleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := ReadSessionCookie(c.Request)
		if sessionID == "" {
			c.Next()
			return
		}

		session, user, fresh, err := m.sessions.ValidateSession(sessionID)
		if err != nil {
			api.Abort(c, err)
			return
		}

		if session == nil {
			http.SetCookie(c.Writer, m.sessions.BlankSessionCookie())
			c.Next()
			return
		}

		if fresh {
			http.SetCookie(c.Writer, m.sessions.SessionCookie(session))
		}

		c.Set(ContextKeyUser, user)
		c.Set(ContextKeySession, session)
		c.Next()
	}
}

// RequireLogin returns a guard middleware that rejects unauthenticated
// requests with 401. Pure gate, no side effects.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			api.Abort(c, api.Unauthorized("user is not logged in"))
			return
		}
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user from the context, or
// nil when the request carries no valid session.
func CurrentUser(c *gin.Context) *entities.User {
	if v, exists := c.Get(ContextKeyUser); exists {
		if user, ok := v.(*entities.User); ok {
			return user
		}
	}
	return nil
}

// CurrentSession retrieves the active session from the context, or nil.
func CurrentSession(c *gin.Context) *entities.Session {
	if v, exists := c.Get(ContextKeySession); exists {
		if session, ok := v.(*entities.Session); ok {
			return session
		}
	}
	return nil
}
