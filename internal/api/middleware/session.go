package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/liliang-cn/aichat/internal/auth"
	"github.com/liliang-cn/aichat/internal/domain"
	"github.com/liliang-cn/aichat/internal/service"
)

// Sessions ties the login cookie to the session store
type Sessions struct {
	authService *service.AuthService
	tokens      *auth.Tokens
	cookieName  string
	secure      bool
	logger      *zap.Logger
}

// NewSessions creates the session cookie manager
func NewSessions(authService *service.AuthService, tokens *auth.Tokens, cookieName string, secure bool, logger *zap.Logger) *Sessions {
	return &Sessions{
		authService: authService,
		tokens:      tokens,
		cookieName:  cookieName,
		secure:      secure,
		logger:      logger,
	}
}

// Load resolves the cookie into a session on the request context.
// Requests without a valid session pass through untouched.
func (s *Sessions) Load() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := c.Cookie(s.cookieName)
		if err != nil || raw == "" {
			c.Next()
			return
		}

		sessionID, err := s.tokens.Parse(raw)
		if err != nil {
			s.logger.Debug("Ignoring session cookie", zap.Error(err))
			c.Next()
			return
		}

		session, err := s.authService.Session(c.Request.Context(), sessionID)
		if err != nil {
			if !errors.Is(err, domain.ErrUnauthorized) {
				s.logger.Warn("Failed to load session", zap.String("session_id", sessionID), zap.Error(err))
			}
			c.Next()
			return
		}

		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

// RequirePage sends visitors without a session to the login page
func (s *Sessions) RequirePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.SessionFromContext(c.Request.Context()); !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAPI rejects API calls without a session
func (s *Sessions) RequireAPI() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.SessionFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// Start issues the cookie for a freshly opened session
func (s *Sessions) Start(c *gin.Context, session *domain.Session) error {
	token, err := s.tokens.Issue(session.ID)
	if err != nil {
		return err
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, token, int(s.tokens.TTL().Seconds()), "/", "", s.secure, true)
	return nil
}

// End logs out the current session, if any, and clears the cookie
func (s *Sessions) End(c *gin.Context) error {
	if session, ok := auth.SessionFromContext(c.Request.Context()); ok {
		if err := s.authService.Logout(c.Request.Context(), session.ID); err != nil {
			return err
		}
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(s.cookieName, "", -1, "/", "", s.secure, true)
	return nil
}
