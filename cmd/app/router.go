package main

import (
	"fmt"
	"net/http"
	"time"

	"questpath/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// newRouter builds the engine with the shared middleware chain. X-Forwarded-For
// is honored only from cfg.TrustedProxies, so the rate limiter keys on the
// real peer otherwise.
func newRouter(cfg ServerConfig) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}
	router.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Monitor())

	if len(cfg.AllowedOrigins) > 0 {
		origins := middleware.Origins(cfg.AllowedOrigins)

		config := cors.DefaultConfig()
		config.AllowOriginFunc = origins.Allow
		config.AllowMethods = []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodDelete,
		}
		config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
		config.MaxAge = 12 * time.Hour

		router.Use(cors.New(config))
	}

	return router, nil
}
