package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mwalczyk/webauth/internal/api"
)

func setupMiddlewareRouter(t *testing.T) (*gin.Engine, *SessionManager, uint) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	sm, _, user, _ := setupSessionManager(t)
	middleware := NewMiddleware(sm)

	router := gin.New()
	router.Use(api.ErrorHandler(true))
	router.Use(middleware.Handler())

	router.GET("/whoami", func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			c.JSON(http.StatusOK, gin.H{"username": nil})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": user.Username})
	})

	router.GET("/private", RequireLogin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	return router, sm, user.ID
}

func TestMiddleware_NoCookie(t *testing.T) {
	router, _, _ := setupMiddlewareRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"username":null`) {
		t.Errorf("expected anonymous context, got %s", w.Body.String())
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("no cookie should be set when none was sent")
	}
}

func TestMiddleware_InvalidCookie(t *testing.T) {
	router, _, _ := setupMiddlewareRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	// The invalid cookie must be answered with an explicit deletion
	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one blank cookie, got %d", len(cookies))
	}
	if cookies[0].Value != "" || cookies[0].MaxAge >= 0 {
		t.Errorf("expected deletion cookie, got value=%q maxage=%d", cookies[0].Value, cookies[0].MaxAge)
	}
}

func TestMiddleware_ValidNotFresh(t *testing.T) {
	router, sm, userID := setupMiddlewareRouter(t)

	session, err := sm.CreateSession(userID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"username":"testuser"`) {
		t.Errorf("expected authenticated context, got %s", w.Body.String())
	}
	if len(w.Result().Cookies()) != 0 {
		t.Error("cookie headers should be untouched for a non-fresh session")
	}
}

func TestMiddleware_ValidFresh(t *testing.T) {
	router, sm, userID := setupMiddlewareRouter(t)

	session, err := sm.CreateSession(userID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	// Age the session past the renewal threshold
	if err := sm.sessions.UpdateExpiry(session.ID, time.Now().Add(10*time.Minute)); err != nil {
		t.Fatalf("failed to age session: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if !strings.Contains(w.Body.String(), `"username":"testuser"`) {
		t.Errorf("expected authenticated context, got %s", w.Body.String())
	}

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected a renewed cookie, got %d cookies", len(cookies))
	}
	if cookies[0].Value != session.ID {
		t.Errorf("renewed cookie should keep the session id, got %q", cookies[0].Value)
	}
	if cookies[0].MaxAge < int((testLifetime - time.Minute).Seconds()) {
		t.Errorf("renewed cookie should carry a full lifetime, got MaxAge %d", cookies[0].MaxAge)
	}
}

func TestRequireLogin_Unauthenticated(t *testing.T) {
	router, _, _ := setupMiddlewareRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success":false`) {
		t.Errorf("expected error envelope, got %s", w.Body.String())
	}
}

func TestRequireLogin_Authenticated(t *testing.T) {
	router, sm, userID := setupMiddlewareRouter(t)

	session, err := sm.CreateSession(userID)
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}
