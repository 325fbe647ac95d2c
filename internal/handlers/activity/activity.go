// internal/handlers/activity/activity.go
package activity

import (
	"errors"
	"net/http"

	"salespipe-service/internal/domain/activity"
	xerrors "salespipe-service/internal/pkg/errors"
	"salespipe-service/internal/pkg/response"
	service "salespipe-service/internal/service/activity"

	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	activityService *service.ActivityService
}

func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// SearchActivities returns a customer's activity history.
func (h *ActivityHandler) SearchActivities(c *gin.Context) {
	var req activity.ListActivitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "customer_id is required", err)
		return
	}

	result, err := h.activityService.ListActivities(c.Request.Context(), req.CustomerID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list activities", err)
		return
	}

	response.Success(c, http.StatusOK, "activities retrieved", result)
}

// CreateActivity appends an activity to a customer's log.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req activity.CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.activityService.AddActivity(c.Request.Context(), &req)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case xerrors.IsValidation(err):
			status = http.StatusBadRequest
		case errors.Is(err, xerrors.ErrNotFound):
			status = http.StatusNotFound
		}
		response.Error(c, status, "failed to record activity", err)
		return
	}

	response.Success(c, http.StatusCreated, "activity recorded", result)
}
