// internal/repository/postgres/activity_repo.go
package postgres

import (
	"context"
	"crypto/rand"
	"fmt"
	"time"

	"salespipe-service/internal/domain/activity"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

type ActivityRepository struct {
	db *pgxpool.Pool
}

func NewActivityRepository(db *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an activity log entry. Entries are immutable once written.
func (r *ActivityRepository) Create(ctx context.Context, a *activity.Activity) error {
	now := time.Now().UTC()
	a.ID = ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	a.CreatedAt = now

	query := `
		INSERT INTO activities (id, customer_id, activity_type, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(ctx, query, a.ID, a.CustomerID, a.ActivityType, a.Description, a.CreatedBy, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create activity: %w", err)
	}
	return nil
}

// ListByCustomer retrieves a customer's activity history, newest first.
func (r *ActivityRepository) ListByCustomer(ctx context.Context, customerID string) ([]activity.Activity, error) {
	query := `
		SELECT id, customer_id, activity_type, description, created_by, created_at
		FROM activities
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	defer rows.Close()

	activities := []activity.Activity{}
	for rows.Next() {
		var a activity.Activity
		if err := rows.Scan(&a.ID, &a.CustomerID, &a.ActivityType, &a.Description, &a.CreatedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
