// internal/service/customer/customer.go
package customer

import (
	"context"
	"errors"
	"fmt"

	"salespipe-service/internal/domain/activity"
	"salespipe-service/internal/domain/customer"
	"salespipe-service/internal/pipeline"
	xerrors "salespipe-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// CustomerStore is the external collaborator owning the canonical records.
type CustomerStore interface {
	List(ctx context.Context, f *customer.FilterCriteria) ([]customer.Customer, error)
	FindByID(ctx context.Context, id string) (*customer.Customer, error)
	ExistsByNameAndContact(ctx context.Context, companyName, contactPerson string) (bool, error)
	Create(ctx context.Context, c *customer.Customer) error
	Update(ctx context.Context, id string, c *customer.Customer) error
}

// ActivityStore receives the system-authored log entry after each update.
type ActivityStore interface {
	Create(ctx context.Context, a *activity.Activity) error
}

// MetricsCache memoizes aggregate snapshots; misses and errors fall back to
// recomputation.
type MetricsCache interface {
	Get(ctx context.Context, f *customer.FilterCriteria) (*customer.Metrics, bool)
	Set(ctx context.Context, f *customer.FilterCriteria, m *customer.Metrics) error
	Invalidate(ctx context.Context) error
}

type CustomerService struct {
	store      CustomerStore
	activities ActivityStore
	metrics    MetricsCache
	logger     *zap.Logger
}

func NewCustomerService(store CustomerStore, activities ActivityStore, metrics MetricsCache, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		store:      store,
		activities: activities,
		metrics:    metrics,
		logger:     logger,
	}
}

// CreateCustomer validates a creation request and commits it to the store.
// An existing record with the same company name and contact person is a
// conflict.
func (s *CustomerService) CreateCustomer(ctx context.Context, req *customer.CreateCustomerRequest) (*customer.Customer, error) {
	c, err := req.ToCustomer()
	if err != nil {
		return nil, err
	}

	exists, err := s.store.ExistsByNameAndContact(ctx, c.CompanyName, c.ContactPerson)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing customer: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("customer %q / %q: %w", c.CompanyName, c.ContactPerson, xerrors.ErrConflict)
	}

	if err := s.store.Create(ctx, c); err != nil {
		s.logger.Error("failed to create customer", zap.Error(err))
		return nil, &xerrors.CommitError{Err: err}
	}

	s.invalidateMetrics(ctx)
	s.logger.Info("customer created",
		zap.String("customer_id", c.ID),
		zap.String("company_name", c.CompanyName),
	)
	return c, nil
}

// UpdateCustomer applies the provided fields to an existing record, then
// appends the mandated system activity. The append is best-effort: if it
// fails after the update succeeded, the update stands and the failure is
// logged as a warning.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req *customer.UpdateCustomerRequest) (*customer.Customer, error) {
	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := req.ApplyTo(c); err != nil {
		return nil, err
	}

	if err := s.store.Update(ctx, id, c); err != nil {
		s.logger.Error("failed to update customer", zap.Error(err))
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, err
		}
		return nil, &xerrors.CommitError{Err: err}
	}

	s.invalidateMetrics(ctx)
	s.logger.Info("customer updated", zap.String("customer_id", id))

	logEntry := &activity.Activity{
		CustomerID:   id,
		ActivityType: activity.TypeUpdate,
		Description:  "customer record updated",
		CreatedBy:    activity.SystemActor,
	}
	if err := s.activities.Create(ctx, logEntry); err != nil {
		s.logger.Warn("dependent activity append failed after update",
			zap.String("customer_id", id),
			zap.Error(err),
		)
	}

	return c, nil
}

// ListCustomers returns the filtered record set in display order.
func (s *CustomerService) ListCustomers(ctx context.Context, f *customer.FilterCriteria) (*customer.CustomerListResponse, error) {
	records, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}

	sortBy := "created_at"
	dir := pipeline.Descending
	if f != nil {
		if f.SortBy != "" {
			sortBy = f.SortBy
			dir = pipeline.Ascending
		}
		if f.SortOrder != "" {
			dir = pipeline.ParseDirection(f.SortOrder)
		}
	}
	records = pipeline.Sort(records, sortBy, dir)

	return &customer.CustomerListResponse{
		Customers: records,
		Total:     len(records),
	}, nil
}

// Snapshot returns the full current record set, used as the duplicate
// baseline for imports.
func (s *CustomerService) Snapshot(ctx context.Context) ([]customer.Customer, error) {
	return s.store.List(ctx, &customer.FilterCriteria{})
}

// PipelineMetrics aggregates the filtered snapshot, memoized per criteria.
func (s *CustomerService) PipelineMetrics(ctx context.Context, f *customer.FilterCriteria) (*customer.Metrics, error) {
	if s.metrics != nil {
		if m, ok := s.metrics.Get(ctx, f); ok {
			return m, nil
		}
	}

	records, err := s.store.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pipeline metrics: %w", err)
	}
	m := pipeline.Aggregate(records)

	if s.metrics != nil {
		if err := s.metrics.Set(ctx, f, &m); err != nil {
			s.logger.Warn("failed to cache pipeline metrics", zap.Error(err))
		}
	}
	return &m, nil
}

func (s *CustomerService) invalidateMetrics(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if err := s.metrics.Invalidate(ctx); err != nil {
		s.logger.Warn("failed to invalidate metrics cache", zap.Error(err))
	}
}
