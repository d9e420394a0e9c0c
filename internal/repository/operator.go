package repository

import (
	"context"

	"partybus/internal/domain"
)

// OperatorRepository defines the persistence operations for operators.
type OperatorRepository interface {
	// Create persists a new operator.
	Create(ctx context.Context, operator *domain.Operator) error

	// GetByID retrieves an operator by ID.
	GetByID(ctx context.Context, id string) (*domain.Operator, error)

	// GetAll retrieves all operators.
	GetAll(ctx context.Context) ([]*domain.Operator, error)

	// SetApproved marks an operator as approved.
	SetApproved(ctx context.Context, id string) error
}
