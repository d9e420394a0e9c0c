package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"partybus/internal/domain"
	"partybus/internal/repository"
)

// BusRepository is a PostgreSQL implementation of repository.BusRepository.
type BusRepository struct {
	q Querier
}

// NewBusRepository creates a new PostgreSQL bus repository.
func NewBusRepository(db *sql.DB) *BusRepository {
	return &BusRepository{q: db}
}

// NewBusRepositoryWithTx creates a bus repository using a transaction.
func NewBusRepositoryWithTx(tx *sql.Tx) *BusRepository {
	return &BusRepository{q: tx}
}

// Create persists a new bus.
func (r *BusRepository) Create(ctx context.Context, bus *domain.Bus) error {
	query := `
		INSERT INTO buses (id, operator_id, name, capacity, hourly_rate, minimum_hours, features, description, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		bus.ID,
		bus.OperatorID,
		bus.Name,
		bus.Capacity,
		bus.HourlyRate,
		bus.MinimumHours,
		pq.Array(bus.Features),
		bus.Description,
		bus.IsActive,
	)

	return err
}

// GetByID retrieves a bus by ID.
func (r *BusRepository) GetByID(ctx context.Context, id string) (*domain.Bus, error) {
	query := `
		SELECT id, operator_id, name, capacity, hourly_rate, minimum_hours, features, description, is_active
		FROM buses WHERE id = $1
	`

	var bus domain.Bus
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&bus.ID,
		&bus.OperatorID,
		&bus.Name,
		&bus.Capacity,
		&bus.HourlyRate,
		&bus.MinimumHours,
		pq.Array(&bus.Features),
		&bus.Description,
		&bus.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &bus, nil
}

// ListActive retrieves active buses belonging to approved operators.
func (r *BusRepository) ListActive(ctx context.Context) ([]*domain.BusListing, error) {
	query := `
		SELECT b.id, b.operator_id, b.name, b.capacity, b.hourly_rate, b.minimum_hours, b.features, b.description, b.is_active,
		       o.company_name, o.city
		FROM buses b
		JOIN operators o ON o.id = b.operator_id
		WHERE b.is_active = TRUE AND o.is_approved = TRUE
		ORDER BY b.hourly_rate ASC
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*domain.BusListing
	for rows.Next() {
		var listing domain.BusListing
		if err := rows.Scan(
			&listing.ID,
			&listing.OperatorID,
			&listing.Name,
			&listing.Capacity,
			&listing.HourlyRate,
			&listing.MinimumHours,
			pq.Array(&listing.Features),
			&listing.Description,
			&listing.IsActive,
			&listing.OperatorName,
			&listing.OperatorCity,
		); err != nil {
			return nil, err
		}
		listings = append(listings, &listing)
	}

	return listings, rows.Err()
}

// ListByOperator retrieves all buses owned by an operator.
func (r *BusRepository) ListByOperator(ctx context.Context, operatorID string) ([]*domain.Bus, error) {
	query := `
		SELECT id, operator_id, name, capacity, hourly_rate, minimum_hours, features, description, is_active
		FROM buses WHERE operator_id = $1 ORDER BY name
	`

	rows, err := r.q.QueryContext(ctx, query, operatorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buses []*domain.Bus
	for rows.Next() {
		var bus domain.Bus
		if err := rows.Scan(
			&bus.ID,
			&bus.OperatorID,
			&bus.Name,
			&bus.Capacity,
			&bus.HourlyRate,
			&bus.MinimumHours,
			pq.Array(&bus.Features),
			&bus.Description,
			&bus.IsActive,
		); err != nil {
			return nil, err
		}
		buses = append(buses, &bus)
	}

	return buses, rows.Err()
}

// Ensure BusRepository implements repository.BusRepository.
var _ repository.BusRepository = (*BusRepository)(nil)
