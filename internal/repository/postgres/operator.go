package postgres

import (
	"context"
	"database/sql"
	"errors"

	"partybus/internal/domain"
	"partybus/internal/repository"
)

// OperatorRepository is a PostgreSQL implementation of repository.OperatorRepository.
type OperatorRepository struct {
	q Querier
}

// NewOperatorRepository creates a new PostgreSQL operator repository.
func NewOperatorRepository(db *sql.DB) *OperatorRepository {
	return &OperatorRepository{q: db}
}

// NewOperatorRepositoryWithTx creates an operator repository using a transaction.
func NewOperatorRepositoryWithTx(tx *sql.Tx) *OperatorRepository {
	return &OperatorRepository{q: tx}
}

// Create persists a new operator.
func (r *OperatorRepository) Create(ctx context.Context, operator *domain.Operator) error {
	query := `
		INSERT INTO operators (id, company_name, email, phone, city, is_approved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		operator.ID,
		operator.CompanyName,
		operator.Email,
		operator.Phone,
		operator.City,
		operator.IsApproved,
		operator.CreatedAt,
	)

	return err
}

// GetByID retrieves an operator by ID.
func (r *OperatorRepository) GetByID(ctx context.Context, id string) (*domain.Operator, error) {
	query := `
		SELECT id, company_name, email, phone, city, is_approved, created_at
		FROM operators WHERE id = $1
	`

	var operator domain.Operator
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&operator.ID,
		&operator.CompanyName,
		&operator.Email,
		&operator.Phone,
		&operator.City,
		&operator.IsApproved,
		&operator.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &operator, nil
}

// GetAll retrieves all operators.
func (r *OperatorRepository) GetAll(ctx context.Context) ([]*domain.Operator, error) {
	query := `
		SELECT id, company_name, email, phone, city, is_approved, created_at
		FROM operators ORDER BY created_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var operators []*domain.Operator
	for rows.Next() {
		var operator domain.Operator
		if err := rows.Scan(
			&operator.ID,
			&operator.CompanyName,
			&operator.Email,
			&operator.Phone,
			&operator.City,
			&operator.IsApproved,
			&operator.CreatedAt,
		); err != nil {
			return nil, err
		}
		operators = append(operators, &operator)
	}

	return operators, rows.Err()
}

// SetApproved marks an operator as approved.
func (r *OperatorRepository) SetApproved(ctx context.Context, id string) error {
	query := `UPDATE operators SET is_approved = TRUE WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id)
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

// Ensure OperatorRepository implements repository.OperatorRepository.
var _ repository.OperatorRepository = (*OperatorRepository)(nil)
