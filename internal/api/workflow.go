package api

import (
	"net/http"

	"questpath/internal/middleware"
	"questpath/internal/service"

	"github.com/gin-gonic/gin"
)

type workflowRoutes struct {
	ws service.WorkflowServiceI
}

func NewWorkflowRoutes(handler *gin.RouterGroup, ws service.WorkflowServiceI, authz *middleware.Authorization) {
	r := &workflowRoutes{ws: ws}
	handler.GET("/workflow", authz.RequireSession(), r.GetWorkflow)
}

type WorkflowResponse struct {
	State     string         `json:"state"`
	StepIndex int            `json:"step_index"`
	Current   StepResponse   `json:"current"`
	Completed []StepResponse `json:"completed"`
	Upcoming  []StepResponse `json:"upcoming"`
}

func (r *workflowRoutes) GetWorkflow(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	state, class, err := r.ws.Current(c.Request.Context(), user.ID)
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, WorkflowResponse{
		State:     string(state),
		StepIndex: class.Index,
		Current:   newStepResponse(class.Current),
		Completed: newStepResponses(class.Completed),
		Upcoming:  newStepResponses(class.Upcoming),
	})
}
