// internal/repository/postgres/customer_repo.go
package postgres

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"salespipe-service/internal/domain/customer"
	xerrors "salespipe-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
)

const customerColumns = `id, company_name, contact_person, email, phone, address,
	       status, priority, next_action, next_contact_date, notes,
	       estimated_value, probability, created_at, updated_at`

type CustomerRepository struct {
	db *pgxpool.Pool
}

func NewCustomerRepository(db *pgxpool.Pool) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer. The store assigns the ID and timestamps.
func (r *CustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	now := time.Now().UTC()
	c.ID = ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `
		INSERT INTO customers (
			id, company_name, contact_person, email, phone, address,
			status, priority, next_action, next_contact_date, notes,
			estimated_value, probability, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Exec(
		ctx, query,
		c.ID, c.CompanyName, c.ContactPerson, c.Email, c.Phone, c.Address,
		c.Status, c.Priority, c.NextAction, c.NextContactDate, c.Notes,
		c.EstimatedValue, c.Probability, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// ExistsByNameAndContact checks if a customer already exists with the same
// company name and contact person, compared case-insensitively.
func (r *CustomerRepository) ExistsByNameAndContact(ctx context.Context, companyName, contactPerson string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM customers
			WHERE company_name ILIKE $1 AND contact_person ILIKE $2
		)
	`

	var exists bool
	err := r.db.QueryRow(ctx, query, companyName, contactPerson).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check customer existence: %w", err)
	}
	return exists, nil
}

// FindByID retrieves a customer by ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*customer.Customer, error) {
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE id = $1`, customerColumns)

	var c customer.Customer
	err := r.db.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.CompanyName, &c.ContactPerson, &c.Email, &c.Phone, &c.Address,
		&c.Status, &c.Priority, &c.NextAction, &c.NextContactDate, &c.Notes,
		&c.EstimatedValue, &c.Probability, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find customer: %w", err)
	}
	return &c, nil
}

// Update writes the full record back and bumps updated_at.
func (r *CustomerRepository) Update(ctx context.Context, id string, c *customer.Customer) error {
	query := `
		UPDATE customers
		SET company_name = $1, contact_person = $2, email = $3, phone = $4,
		    address = $5, status = $6, priority = $7, next_action = $8,
		    next_contact_date = $9, notes = $10, estimated_value = $11,
		    probability = $12, updated_at = $13
		WHERE id = $14
	`

	c.UpdatedAt = time.Now().UTC()
	result, err := r.db.Exec(
		ctx, query,
		c.CompanyName, c.ContactPerson, c.Email, c.Phone,
		c.Address, c.Status, c.Priority, c.NextAction,
		c.NextContactDate, c.Notes, c.EstimatedValue,
		c.Probability, c.UpdatedAt, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

// List retrieves customers matching the filter criteria. The WHERE clause
// mirrors the filter evaluator's semantics: case-insensitive substring
// search over company/contact/email, exact status and priority, and an
// inclusive date range on the selected date field.
func (r *CustomerRepository) List(ctx context.Context, f *customer.FilterCriteria) ([]customer.Customer, error) {
	conditions := []string{"TRUE"}
	args := []interface{}{}
	argPos := 1

	if f != nil {
		if f.Search != "" {
			conditions = append(conditions, fmt.Sprintf(
				"(company_name ILIKE $%d OR contact_person ILIKE $%d OR email ILIKE $%d)",
				argPos, argPos, argPos,
			))
			args = append(args, "%"+f.Search+"%")
			argPos++
		}
		if f.Status != "" {
			conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
			args = append(args, f.Status)
			argPos++
		}
		if f.Priority != "" {
			conditions = append(conditions, fmt.Sprintf("priority = $%d", argPos))
			args = append(args, f.Priority)
			argPos++
		}
		if col, ok := dateColumn(f.DateField); ok {
			if start, err := time.Parse(customer.DateLayout, f.StartDate); err == nil {
				conditions = append(conditions, fmt.Sprintf("%s >= $%d", col, argPos))
				args = append(args, start)
				argPos++
			}
			if end, err := time.Parse(customer.DateLayout, f.EndDate); err == nil {
				// Inclusive through the end of the day.
				conditions = append(conditions, fmt.Sprintf("%s < $%d", col, argPos))
				args = append(args, end.AddDate(0, 0, 1))
				argPos++
			}
		}
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM customers
		WHERE %s
		ORDER BY created_at DESC
	`, customerColumns, strings.Join(conditions, " AND "))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	customers := []customer.Customer{}
	for rows.Next() {
		var c customer.Customer
		err := rows.Scan(
			&c.ID, &c.CompanyName, &c.ContactPerson, &c.Email, &c.Phone, &c.Address,
			&c.Status, &c.Priority, &c.NextAction, &c.NextContactDate, &c.Notes,
			&c.EstimatedValue, &c.Probability, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// dateColumn whitelists the sortable/filterable date attributes; anything
// else deactivates the range filter.
func dateColumn(field string) (string, bool) {
	switch field {
	case "next_contact_date", "created_at":
		return field, true
	}
	return "", false
}
