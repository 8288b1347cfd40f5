package account

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
)

// Repository persists accounts in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const accountColumns = `id, name, email, password_hash, company_id, company_name, role, created_at, updated_at`

func scanAccount(row interface{ Scan(...any) error }) (Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CompanyID, &a.CompanyName, &a.Role, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

// Insert writes a new account.
func (r *Repository) Insert(ctx context.Context, a Account) (Account, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO accounts (id, name, email, password_hash, company_id, company_name, role)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING created_at, updated_at
	`, a.ID, a.Name, a.Email, a.PasswordHash, a.CompanyID, a.CompanyName, a.Role)
	if err := row.Scan(&a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return Account{}, ErrEmailTaken
		}
		return Account{}, err
	}
	return a, nil
}

// GetByEmail looks an account up by email, case-insensitively.
func (r *Repository) GetByEmail(ctx context.Context, email string) (Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE LOWER(email) = LOWER($1)
	`, email)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}

// GetByID looks an account up by primary key.
func (r *Repository) GetByID(ctx context.Context, id string) (Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts WHERE id = $1
	`, id)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Account{}, ErrNotFound
	}
	return a, err
}

// isUniqueViolation matches Postgres error 23505 without binding the repo to a
// concrete driver error type.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
