// internal/service/activity/activity.go
package activity

import (
	"context"
	"fmt"

	"salespipe-service/internal/domain/activity"
	"salespipe-service/internal/domain/customer"

	"go.uber.org/zap"
)

// ActivityStore owns the append-only activity log.
type ActivityStore interface {
	Create(ctx context.Context, a *activity.Activity) error
	ListByCustomer(ctx context.Context, customerID string) ([]activity.Activity, error)
}

// CustomerFinder verifies the foreign reference at append time.
type CustomerFinder interface {
	FindByID(ctx context.Context, id string) (*customer.Customer, error)
}

type ActivityService struct {
	store     ActivityStore
	customers CustomerFinder
	logger    *zap.Logger
}

func NewActivityService(store ActivityStore, customers CustomerFinder, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		store:     store,
		customers: customers,
		logger:    logger,
	}
}

// AddActivity appends a log entry. The referenced customer must exist.
func (s *ActivityService) AddActivity(ctx context.Context, req *activity.CreateActivityRequest) (*activity.Activity, error) {
	a, err := req.ToActivity()
	if err != nil {
		return nil, err
	}

	if _, err := s.customers.FindByID(ctx, a.CustomerID); err != nil {
		return nil, err
	}

	if err := s.store.Create(ctx, a); err != nil {
		s.logger.Error("failed to create activity", zap.Error(err))
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	s.logger.Info("activity recorded",
		zap.String("activity_id", a.ID),
		zap.String("customer_id", a.CustomerID),
		zap.String("activity_type", string(a.ActivityType)),
	)
	return a, nil
}

// ListActivities returns a customer's history, newest first.
func (s *ActivityService) ListActivities(ctx context.Context, customerID string) (*activity.ActivityListResponse, error) {
	activities, err := s.store.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return &activity.ActivityListResponse{
		Activities: activities,
		Total:      len(activities),
	}, nil
}
