package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mwalczyk/webauth/internal/entities"
)

func TestSessionCookie(t *testing.T) {
	sm, _, user, _ := setupSessionManager(t)

	session := &entities.Session{
		ID:        "abc123",
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(time.Hour),
	}

	cookie := sm.SessionCookie(session)

	if cookie.Name != SessionCookieName {
		t.Errorf("expected cookie name %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Value != "abc123" {
		t.Errorf("expected cookie value abc123, got %q", cookie.Value)
	}
	if !cookie.HttpOnly {
		t.Error("session cookie must be HttpOnly")
	}
	if cookie.Path != "/" {
		t.Errorf("expected path /, got %q", cookie.Path)
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Errorf("expected SameSite=Lax, got %v", cookie.SameSite)
	}
	if cookie.MaxAge <= 0 || cookie.MaxAge > 3600 {
		t.Errorf("expected MaxAge within the remaining lifetime, got %d", cookie.MaxAge)
	}
	if cookie.Secure {
		t.Error("Secure should be off outside production")
	}
}

func TestSessionCookie_SecureInProduction(t *testing.T) {
	sm, _, _, _ := setupSessionManager(t)
	sm.secure = true

	session := &entities.Session{ID: "abc", ExpiresAt: time.Now().Add(time.Hour)}
	if !sm.SessionCookie(session).Secure {
		t.Error("Secure should be on in production")
	}
	if !sm.BlankSessionCookie().Secure {
		t.Error("blank cookie should also be Secure in production")
	}
}

func TestBlankSessionCookie(t *testing.T) {
	sm, _, _, _ := setupSessionManager(t)

	cookie := sm.BlankSessionCookie()

	if cookie.Value != "" {
		t.Errorf("blank cookie should have empty value, got %q", cookie.Value)
	}
	if cookie.MaxAge >= 0 {
		t.Errorf("blank cookie must force deletion, got MaxAge %d", cookie.MaxAge)
	}
	if !cookie.HttpOnly {
		t.Error("blank cookie must be HttpOnly")
	}
}

func TestReadSessionCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "session-id-value"})

	if got := ReadSessionCookie(r); got != "session-id-value" {
		t.Errorf("expected session-id-value, got %q", got)
	}
}

func TestReadSessionCookie_Missing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)

	if got := ReadSessionCookie(r); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestReadSessionCookie_Malformed(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Cookie", ";;;=garbage;")

	if got := ReadSessionCookie(r); got != "" {
		t.Errorf("malformed cookie header should read as no session, got %q", got)
	}
}
