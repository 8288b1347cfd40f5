package directory

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository persists employees in Postgres. Every query is scoped by
// company id; there is no unscoped access path.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Insert writes a new employee.
func (r *Repository) Insert(ctx context.Context, e Employee) (Employee, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	enc, err := json.Marshal(e.Encoding)
	if err != nil {
		return Employee{}, err
	}
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO employees (id, name, email, company_id, employee_code, department, position, encoding)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING is_active, created_at
	`, e.ID, e.Name, e.Email, e.CompanyID, e.EmployeeCode, e.Department, e.Position, enc)
	if err := row.Scan(&e.IsActive, &e.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return Employee{}, ErrDuplicate
		}
		return Employee{}, err
	}
	return e, nil
}

// ExistsByEmail reports whether the company already has the email.
func (r *Repository) ExistsByEmail(ctx context.Context, companyID, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx, `
		SELECT EXISTS (SELECT 1 FROM employees WHERE company_id = $1 AND LOWER(email) = LOWER($2))
	`, companyID, email).Scan(&exists)
	return exists, err
}

// List returns the company's employees ordered by name. Encodings are loaded
// only when requested; they are large and sensitive.
func (r *Repository) List(ctx context.Context, companyID string, withEncodings bool) ([]Employee, error) {
	encodingCol := "NULL"
	if withEncodings {
		encodingCol = "encoding"
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email, company_id, employee_code, department, position, `+encodingCol+`, is_active, last_attendance, created_at
		FROM employees
		WHERE company_id = $1
		ORDER BY name
	`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}

// Get returns one employee. A row owned by another company is ErrNotFound.
func (r *Repository) Get(ctx context.Context, companyID, id string) (Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, email, company_id, employee_code, department, position, encoding, is_active, last_attendance, created_at
		FROM employees
		WHERE company_id = $1 AND id = $2
	`, companyID, id)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

// Update mutates the provided columns; nil fields are left untouched.
func (r *Repository) Update(ctx context.Context, companyID, id string, name, email, department, position *string) (Employee, error) {
	row := r.db.QueryRowContext(ctx, `
		UPDATE employees
		SET name = COALESCE($3, name),
		    email = COALESCE($4, email),
		    department = COALESCE($5, department),
		    position = COALESCE($6, position)
		WHERE company_id = $1 AND id = $2
		RETURNING id, name, email, company_id, employee_code, department, position, encoding, is_active, last_attendance, created_at
	`, companyID, id, name, email, department, position)
	e, err := scanEmployee(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	if isUniqueViolation(err) {
		return Employee{}, ErrDuplicate
	}
	return e, err
}

// Delete removes the employee permanently.
func (r *Repository) Delete(ctx context.Context, companyID, id string) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM employees WHERE company_id = $1 AND id = $2
	`, companyID, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetLastAttendance records when the employee was last marked present.
func (r *Repository) SetLastAttendance(ctx context.Context, companyID, id string, t time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE employees SET last_attendance = $3 WHERE company_id = $1 AND id = $2
	`, companyID, id, t)
	return err
}

func scanEmployee(row interface{ Scan(...any) error }) (Employee, error) {
	var (
		e   Employee
		enc []byte
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &e.CompanyID, &e.EmployeeCode, &e.Department, &e.Position, &enc, &e.IsActive, &e.LastAttendance, &e.CreatedAt); err != nil {
		return Employee{}, err
	}
	if len(enc) > 0 {
		if err := json.Unmarshal(enc, &e.Encoding); err != nil {
			return Employee{}, err
		}
	}
	return e, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
