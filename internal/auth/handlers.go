package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mwalczyk/webauth/internal/api"
	"github.com/mwalczyk/webauth/internal/config"
	"github.com/mwalczyk/webauth/internal/database/users"
)

// AuthController handles the authentication HTTP endpoints.
type AuthController struct {
	users    *users.Repository
	sessions *SessionManager
	config   config.Auth
}

// NewAuthController creates a new authentication controller.
func NewAuthController(userRepo *users.Repository, sessions *SessionManager, cfg config.Auth) *AuthController {
	return &AuthController{
		users:    userRepo,
		sessions: sessions,
		config:   cfg,
	}
}

// RegisterRoutes registers the authentication routes on the group.
func (ac *AuthController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/signup", ac.Signup)
	rg.POST("/login", ac.Login)
	rg.GET("/logout", ac.Logout)
	rg.GET("/user", RequireLogin(), ac.CurrentUser)
}

// Signup handles new user registration from a form-encoded body.
func (ac *AuthController) Signup(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	email := strings.TrimSpace(c.PostForm("email"))

	if err := validateUsername(username); err != nil {
		api.Abort(c, err)
		return
	}
	if err := validatePassword(password); err != nil {
		api.Abort(c, err)
		return
	}
	if err := validateEmail(email); err != nil {
		api.Abort(c, err)
		return
	}

	passwordHash, err := HashPassword(password, ac.config.BcryptCost)
	if err != nil {
		if errors.Is(err, ErrPasswordTooLong) {
			api.Abort(c, api.ValidationError(err.Error()))
			return
		}
		api.Abort(c, fmt.Errorf("failed to hash password: %w", err))
		return
	}

	var emailPtr *string
	if email != "" {
		emailPtr = &email
	}

	user, err := ac.users.Create(username, passwordHash, emailPtr)
	if err != nil {
		if errors.Is(err, users.ErrDuplicate) {
			api.Abort(c, api.Conflict("username already in use").AsForm())
			return
		}
		api.Abort(c, api.Internal("user creation failed"))
		return
	}

	if err := ac.issueSession(c, user.ID); err != nil {
		api.Abort(c, err)
		return
	}

	c.JSON(http.StatusCreated, api.SuccessResponse{
		Success: true,
		Message: "user has been created successfully",
	})
}

// Login handles credential verification and session issuance.
func (ac *AuthController) Login(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")

	if err := validateUsername(username); err != nil {
		api.Abort(c, err)
		return
	}
	if err := validatePassword(password); err != nil {
		api.Abort(c, err)
		return
	}

	user, err := ac.users.GetByUsername(username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			api.Abort(c, api.Unauthorized("user does not exist").AsForm())
			return
		}
		api.Abort(c, fmt.Errorf("failed to look up user: %w", err))
		return
	}

	if err := CheckPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, ErrInvalidPassword) {
			api.Abort(c, api.Unauthorized("password incorrect").AsForm())
			return
		}
		api.Abort(c, fmt.Errorf("failed to verify password: %w", err))
		return
	}

	if err := ac.issueSession(c, user.ID); err != nil {
		api.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, api.SuccessResponse{
		Success: true,
		Message: "logged in successfully",
	})
}

// Logout invalidates the active session, blanks the cookie, and
// redirects to the root. Without a session it just redirects.
func (ac *AuthController) Logout(c *gin.Context) {
	session := CurrentSession(c)
	if session == nil {
		c.Redirect(http.StatusFound, "/")
		return
	}

	if err := ac.sessions.InvalidateSession(session.ID); err != nil {
		api.Abort(c, fmt.Errorf("failed to invalidate session: %w", err))
		return
	}

	http.SetCookie(c.Writer, ac.sessions.BlankSessionCookie())
	c.Redirect(http.StatusFound, "/")
}

// CurrentUser returns the authenticated user's public attributes.
// Registered behind RequireLogin.
func (ac *AuthController) CurrentUser(c *gin.Context) {
	user := CurrentUser(c)

	c.JSON(http.StatusOK, api.SuccessResponse{
		Success: true,
		Data:    gin.H{"username": user.Username},
	})
}

// issueSession creates a session for the user and attaches its cookie.
func (ac *AuthController) issueSession(c *gin.Context, userID uint) error {
	session, err := ac.sessions.CreateSession(userID)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, ac.sessions.SessionCookie(session))
	return nil
}
