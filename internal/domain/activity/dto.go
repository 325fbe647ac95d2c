// internal/domain/activity/dto.go
package activity

import (
	xerrors "salespipe-service/internal/pkg/errors"
)

type CreateActivityRequest struct {
	CustomerID   string `json:"customer_id" binding:"required"`
	ActivityType string `json:"activity_type" binding:"required"`
	Description  string `json:"description"`
	CreatedBy    string `json:"created_by"`
}

// ToActivity validates the request and builds the entity to append.
func (r *CreateActivityRequest) ToActivity() (*Activity, error) {
	if r.CustomerID == "" {
		return nil, xerrors.NewValidation("customer_id", "required")
	}
	t, err := ParseType(r.ActivityType)
	if err != nil {
		return nil, xerrors.NewValidation("activity_type", err.Error())
	}
	return &Activity{
		CustomerID:   r.CustomerID,
		ActivityType: t,
		Description:  r.Description,
		CreatedBy:    r.CreatedBy,
	}, nil
}

type ListActivitiesRequest struct {
	CustomerID string `json:"customer_id" binding:"required"`
}

type ActivityListResponse struct {
	Activities []Activity `json:"activities"`
	Total      int        `json:"total"`
}
