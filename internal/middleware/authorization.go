package middleware

import (
	"crypto/subtle"
	"net/http"

	"questpath/internal/metrics"
	"questpath/internal/model"
	"questpath/internal/service"
	"questpath/pkg/auth"
	"questpath/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// UserKey is the gin context key holding the authenticated *model.UserProgress.
	UserKey = "user"

	// TokenQueryParam carries the session token on websocket upgrades,
	// where browsers cannot set an Authorization header.
	TokenQueryParam = "access_token"
)

type Authorization struct {
	session service.SessionServiceI
}

func NewAuthorization(session service.SessionServiceI) *Authorization {
	return &Authorization{
		session: session,
	}
}

// RequireSession rejects requests unless a session is active and the request
// presents its token as a bearer credential.
func (a *Authorization) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.Logger()

		user := a.session.CurrentUser()
		if user == nil {
			log.Info("request without an active session")
			reject(c, "no_session")
			return
		}

		token, ok := requestToken(c)
		if !ok {
			log.Info("request without a session token")
			reject(c, "missing_token")
			return
		}

		expected := a.session.Token()
		if expected == "" || subtle.ConstantTimeCompare([]byte(token), []byte(expected)) != 1 {
			log.Info("request with an invalid session token")
			reject(c, "invalid_token")
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

func requestToken(c *gin.Context) (string, bool) {
	if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
		return token, true
	}
	if websocket.IsWebSocketUpgrade(c.Request) {
		if token := c.Query(TokenQueryParam); token != "" {
			return token, true
		}
	}
	return "", false
}

func reject(c *gin.Context, reason string) {
	metrics.AuthRejections.WithLabelValues(reason).Inc()
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
}

// CurrentUser reads the user RequireSession stored on c.
func CurrentUser(c *gin.Context) (*model.UserProgress, bool) {
	v, exists := c.Get(UserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*model.UserProgress)
	return user, ok
}
