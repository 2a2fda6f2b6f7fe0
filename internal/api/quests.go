package api

import (
	"errors"
	"net/http"
	"time"

	"questpath/internal/middleware"
	"questpath/internal/service"
	"questpath/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type questRoutes struct {
	qs service.QuestServiceI
}

func NewQuestRoutes(handler *gin.RouterGroup, qs service.QuestServiceI, authz *middleware.Authorization) {
	r := &questRoutes{qs: qs}

	h := handler.Group("/quests")
	h.Use(authz.RequireSession())
	{
		h.GET("", r.ListQuests)
		h.GET("/completed", r.GetCompletedQuests)
		h.POST("/:quest_id/complete", r.CompleteQuest)
	}
}

func (r *questRoutes) ListQuests(c *gin.Context) {
	log := logger.Logger()
	user, _ := middleware.CurrentUser(c)

	statuses, err := r.qs.ListQuests(c.Request.Context(), user.ID)
	if err != nil {
		log.Error("failed to list quests", zap.String("user_id", user.ID), zap.Error(err))
		writeServiceError(c, err)
		return
	}

	out := make([]QuestResponse, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, newQuestResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (r *questRoutes) CompleteQuest(c *gin.Context) {
	log := logger.Logger()
	user, _ := middleware.CurrentUser(c)
	questID := c.Param("quest_id")

	res, err := r.qs.CompleteQuest(c.Request.Context(), user.ID, questID)
	if err != nil {
		log.Error("failed to complete quest",
			zap.String("user_id", user.ID),
			zap.String("quest_id", questID),
			zap.Error(err))
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, newCompletionResponse(res))
}

type CompletedQuestResponse struct {
	QuestID     string `json:"quest_id"`
	CompletedAt string `json:"completed_at,omitempty"`
}

func (r *questRoutes) GetCompletedQuests(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	records := r.qs.Completions(user.ID)
	out := make([]CompletedQuestResponse, 0, len(records))
	for _, rec := range records {
		resp := CompletedQuestResponse{QuestID: rec.QuestID}
		if !rec.CompletedAt.IsZero() {
			resp.CompletedAt = rec.CompletedAt.UTC().Format(time.RFC3339)
		}
		out = append(out, resp)
	}
	c.JSON(http.StatusOK, out)
}

func writeServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrQuestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "quest not found"})
	case errors.Is(err, service.ErrAuthentication):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrLedgerReset):
		c.JSON(http.StatusConflict, gin.H{"error": "session ended while completing quest"})
	case errors.Is(err, service.ErrNetwork):
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
