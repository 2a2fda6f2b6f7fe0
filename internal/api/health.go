package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func NewHealthRoutes(router gin.IRoutes) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}
