package api

import (
	"errors"
	"net/http"

	"questpath/internal/middleware"
	"questpath/internal/model"
	"questpath/internal/service"
	"questpath/pkg/auth"
	"questpath/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type authRoutes struct {
	session service.SessionServiceI
}

func NewAuthRoutes(handler *gin.RouterGroup, session service.SessionServiceI, authz *middleware.Authorization) {
	r := &authRoutes{session: session}

	h := handler.Group("/auth")
	{
		h.POST("/login", r.Login)
		h.POST("/logout", authz.RequireSession(), r.Logout)
	}

	handler.GET("/me", authz.RequireSession(), r.Me)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	IDToken  string `json:"id_token"`
}

// LoginResponse carries the bearer token later requests must present.
type LoginResponse struct {
	User        UserResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	Message     string       `json:"message"`
}

func (r *authRoutes) Login(c *gin.Context) {
	log := logger.Logger()

	var req LoginRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			log.Error("failed to bind request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
	}

	// a Firebase ID token may also arrive as a bearer header
	if req.IDToken == "" && req.Username == "" {
		if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
			req.IDToken = token
		}
	}

	user, err := r.session.Login(c.Request.Context(), model.Credentials{
		Username: req.Username,
		Password: req.Password,
		IDToken:  req.IDToken,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAuthentication):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrNetwork):
			c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
		default:
			log.Error("failed to log in", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		User:        newUserResponse(user),
		AccessToken: r.session.Token(),
		TokenType:   "bearer",
		Message:     "Logged in successfully",
	})
}

func (r *authRoutes) Logout(c *gin.Context) {
	if err := r.session.Logout(c.Request.Context()); err != nil {
		logger.Logger().Error("failed to log out", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *authRoutes) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, newUserResponse(*user))
}
