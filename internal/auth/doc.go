// Package auth implements username/password authentication with
// database-backed sessions.
//
// The session model is a sliding expiration: every session row stores
// an absolute expiry, and validation extends the expiry (and reissues
// the cookie) only once the session has passed half its lifetime. That
// bounds both idle-session lifetime and database churn.
//
// # Usage
//
// Wire the pieces in entrypoint:
//
//	manager := auth.NewSessionManager(userRepo, sessionRepo, cfg.Auth, cfg.IsProduction())
//	middleware := auth.NewMiddleware(manager)
//	router.Use(middleware.Handler())
//
// The middleware never rejects a request, it only populates the request
// context. Routes that need authentication add the guard:
//
//	group.GET("/user", auth.RequireLogin(), controller.CurrentUser)
package auth
