package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"partybus/internal/domain"
	"partybus/internal/observability"
	"partybus/internal/repository"
	"partybus/internal/repository/postgres"
)

// BookingService handles booking operations.
type BookingService struct {
	db                  *sql.DB
	bookingRepo         repository.BookingRepository
	customerRepo        repository.CustomerRepository
	busRepo             repository.BusRepository
	operatorRepo        repository.OperatorRepository
	notificationService *NotificationService
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	customerRepo repository.CustomerRepository,
	busRepo repository.BusRepository,
	operatorRepo repository.OperatorRepository,
	notificationService *NotificationService,
) *BookingService {
	return &BookingService{
		db:                  db,
		bookingRepo:         bookingRepo,
		customerRepo:        customerRepo,
		busRepo:             busRepo,
		operatorRepo:        operatorRepo,
		notificationService: notificationService,
	}
}

// CreateBookingRequest contains the parameters for creating a booking.
type CreateBookingRequest struct {
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	BusID    string
	StartsAt time.Time
	Hours    int

	PickupLocation  string
	DropoffLocation string
}

// CreateBookingResponse contains the result of creating a booking.
type CreateBookingResponse struct {
	Booking  *domain.Booking
	Customer *domain.Customer
	Quote    BookingQuote
}

// CreateBooking prices and confirms a booking, creating the customer record
// on first contact. Bookings are auto-confirmed; payment capture happens
// out of band.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if err := validateCreateBooking(req); err != nil {
		return nil, err
	}

	bus, err := s.busRepo.GetByID(ctx, req.BusID)
	if err != nil {
		return nil, err
	}

	operator, err := s.operatorRepo.GetByID(ctx, bus.OperatorID)
	if err != nil {
		return nil, err
	}

	if !bus.IsActive || !operator.IsApproved {
		return nil, ErrBusNotBookable
	}

	if req.Hours < bus.MinimumHours {
		return nil, ErrBelowMinimumHours
	}

	// Find or create the customer by email.
	customer, err := s.customerRepo.GetByEmail(ctx, req.CustomerEmail)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	newCustomer := customer == nil
	if newCustomer {
		customer = &domain.Customer{
			ID:        uuid.New().String(),
			Name:      req.CustomerName,
			Email:     req.CustomerEmail,
			Phone:     req.CustomerPhone,
			CreatedAt: time.Now(),
		}
	}

	quote := QuoteBooking(bus.HourlyRate, req.Hours)

	booking := &domain.Booking{
		ID:              uuid.New().String(),
		CustomerID:      customer.ID,
		BusID:           bus.ID,
		OperatorID:      bus.OperatorID,
		StartsAt:        req.StartsAt,
		Hours:           req.Hours,
		PickupLocation:  req.PickupLocation,
		DropoffLocation: req.DropoffLocation,
		TotalPrice:      quote.TotalPrice,
		DepositAmount:   quote.DepositAmount,
		Status:          domain.BookingStatusConfirmed,
		CreatedAt:       time.Now(),
	}

	// Customer and booking land together or not at all.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txCustomerRepo := postgres.NewCustomerRepositoryWithTx(tx)
	txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)

	if newCustomer {
		if err = txCustomerRepo.Create(ctx, customer); err != nil {
			return nil, err
		}
	}

	if err = txBookingRepo.Create(ctx, booking); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	observability.BookingsCreatedTotal.Inc()

	if s.notificationService != nil {
		_ = s.notificationService.NotifyBookingConfirmed(ctx, booking, customer)
	}

	return &CreateBookingResponse{
		Booking:  booking,
		Customer: customer,
		Quote:    quote,
	}, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (*domain.Booking, error) {
	if bookingID == "" {
		return nil, ErrInvalidBookingID
	}

	return s.bookingRepo.GetByID(ctx, bookingID)
}

// GetAllBookings retrieves bookings, most recent first.
func (s *BookingService) GetAllBookings(ctx context.Context) ([]*domain.Booking, error) {
	return s.bookingRepo.GetAll(ctx)
}

func validateCreateBooking(req CreateBookingRequest) error {
	if strings.TrimSpace(req.CustomerName) == "" ||
		strings.TrimSpace(req.CustomerEmail) == "" ||
		strings.TrimSpace(req.CustomerPhone) == "" {
		return ErrMissingCustomerInfo
	}

	if req.BusID == "" {
		return ErrInvalidBusID
	}

	if req.Hours <= 0 {
		return ErrInvalidBookingHours
	}

	if req.StartsAt.IsZero() || req.StartsAt.Before(time.Now()) {
		return ErrInvalidBookingStart
	}

	return nil
}
