package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"partybus/internal/domain"
	"partybus/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `id, customer_id, bus_id, operator_id, starts_at, hours,
	pickup_location, dropoff_location, total_price, deposit_amount,
	approved_stops_total, status, created_at`

// Create persists a new booking.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.CustomerID,
		booking.BusID,
		booking.OperatorID,
		booking.StartsAt,
		booking.Hours,
		booking.PickupLocation,
		booking.DropoffLocation,
		booking.TotalPrice,
		booking.DepositAmount,
		booking.ApprovedStopsTotal,
		booking.Status,
		booking.CreatedAt,
	)

	return err
}

// GetByID retrieves a booking by ID.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// GetAll retrieves bookings, most recent first.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT 100`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// GetNextForBus retrieves the next confirmed booking for a bus starting after
// the given instant. Returns nil if none is scheduled.
func (r *BookingRepository) GetNextForBus(ctx context.Context, busID string, after time.Time) (*domain.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE bus_id = $1 AND status = $2 AND starts_at > $3
		ORDER BY starts_at ASC
		LIMIT 1
	`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, busID, domain.BookingStatusConfirmed, after))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return booking, nil
}

// AddApprovedStopTotal atomically increments the booking's approved-stop total.
func (r *BookingRepository) AddApprovedStopTotal(ctx context.Context, id string, amount float64) error {
	query := `
		UPDATE bookings
		SET approved_stops_total = approved_stops_total + $1
		WHERE id = $2
	`

	result, err := r.q.ExecContext(ctx, query, amount, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CustomerID,
		&booking.BusID,
		&booking.OperatorID,
		&booking.StartsAt,
		&booking.Hours,
		&booking.PickupLocation,
		&booking.DropoffLocation,
		&booking.TotalPrice,
		&booking.DepositAmount,
		&booking.ApprovedStopsTotal,
		&booking.Status,
		&booking.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
