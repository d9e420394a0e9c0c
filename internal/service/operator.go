package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"partybus/internal/domain"
	"partybus/internal/redis"
	"partybus/internal/repository"
	"partybus/internal/repository/postgres"
)

// Defaults for an operator's first bus. Operators can adjust the rate once
// their listing is live.
const (
	defaultHourlyRate   = 200.0
	defaultMinimumHours = 4
)

// OperatorService handles operator registration and approval.
type OperatorService struct {
	db                  *sql.DB
	operatorRepo        repository.OperatorRepository
	busRepo             repository.BusRepository
	cacheStore          redis.CacheStoreInterface
	notificationService *NotificationService
}

// NewOperatorService creates a new OperatorService.
func NewOperatorService(
	db *sql.DB,
	operatorRepo repository.OperatorRepository,
	busRepo repository.BusRepository,
	cacheStore redis.CacheStoreInterface,
	notificationService *NotificationService,
) *OperatorService {
	return &OperatorService{
		db:                  db,
		operatorRepo:        operatorRepo,
		busRepo:             busRepo,
		cacheStore:          cacheStore,
		notificationService: notificationService,
	}
}

// RegisterOperatorRequest contains the parameters for registering an operator
// with their first bus.
type RegisterOperatorRequest struct {
	CompanyName string
	Email       string
	Phone       string
	City        string

	BusName     string
	BusCapacity int
}

// RegisterOperatorResponse contains the result of registering an operator.
type RegisterOperatorResponse struct {
	Operator *domain.Operator
	Bus      *domain.Bus
}

// RegisterOperator creates an operator and their first bus in one
// transaction. The operator stays off the marketplace until approved.
func (s *OperatorService) RegisterOperator(ctx context.Context, req RegisterOperatorRequest) (*RegisterOperatorResponse, error) {
	if strings.TrimSpace(req.CompanyName) == "" ||
		strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.BusName) == "" ||
		req.BusCapacity <= 0 {
		return nil, ErrMissingOperatorInfo
	}

	operator := &domain.Operator{
		ID:          uuid.New().String(),
		CompanyName: req.CompanyName,
		Email:       req.Email,
		Phone:       req.Phone,
		City:        req.City,
		IsApproved:  false,
		CreatedAt:   time.Now(),
	}

	bus := &domain.Bus{
		ID:           uuid.New().String(),
		OperatorID:   operator.ID,
		Name:         req.BusName,
		Capacity:     req.BusCapacity,
		HourlyRate:   defaultHourlyRate,
		MinimumHours: defaultMinimumHours,
		Features:     []string{},
		IsActive:     true,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	txOperatorRepo := postgres.NewOperatorRepositoryWithTx(tx)
	txBusRepo := postgres.NewBusRepositoryWithTx(tx)

	if err = txOperatorRepo.Create(ctx, operator); err != nil {
		return nil, err
	}

	if err = txBusRepo.Create(ctx, bus); err != nil {
		return nil, err
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}

	return &RegisterOperatorResponse{Operator: operator, Bus: bus}, nil
}

// ApproveOperator marks an operator as approved, which puts their active
// buses on the marketplace.
func (s *OperatorService) ApproveOperator(ctx context.Context, operatorID string) (*domain.Operator, error) {
	if operatorID == "" {
		return nil, ErrInvalidOperatorID
	}

	if err := s.operatorRepo.SetApproved(ctx, operatorID); err != nil {
		return nil, err
	}

	operator, err := s.operatorRepo.GetByID(ctx, operatorID)
	if err != nil {
		return nil, err
	}

	// Newly listable buses should show up without waiting for the cache
	// to expire.
	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateBusListings(ctx)
	}

	if s.notificationService != nil {
		_ = s.notificationService.NotifyOperatorApproved(ctx, operator)
	}

	return operator, nil
}

// GetAllOperators retrieves all operators with their buses.
func (s *OperatorService) GetAllOperators(ctx context.Context) ([]*OperatorWithBuses, error) {
	operators, err := s.operatorRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*OperatorWithBuses, 0, len(operators))
	for _, operator := range operators {
		buses, err := s.busRepo.ListByOperator(ctx, operator.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, &OperatorWithBuses{Operator: operator, Buses: buses})
	}

	return out, nil
}

// OperatorWithBuses pairs an operator with their fleet.
type OperatorWithBuses struct {
	Operator *domain.Operator
	Buses    []*domain.Bus
}
