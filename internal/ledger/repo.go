package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Repository persists attendance records in Postgres.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a repo.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// FindInWindow returns the employee's record with a date inside [start, end),
// or nil when none exists.
func (r *Repository) FindInWindow(ctx context.Context, companyID, employeeID string, start, end time.Time) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, employee_id, company_id, occurred_at, status
		FROM attendance_records
		WHERE company_id = $1 AND employee_id = $2 AND occurred_at >= $3 AND occurred_at < $4
		LIMIT 1
	`, companyID, employeeID, start, end)
	var rec Record
	if err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.CompanyID, &rec.Date, &rec.Status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

// Insert writes a new record. A collision on the per-day uniqueness index is
// reported as ErrDuplicateDay.
func (r *Repository) Insert(ctx context.Context, rec Record) (Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date.IsZero() {
		rec.Date = time.Now()
	}
	if rec.Status == "" {
		rec.Status = StatusPresent
	}
	// The day bucket is computed here, not in SQL, so it always matches the
	// service's local-midnight window.
	day, _ := DayWindow(rec.Date)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO attendance_records (id, employee_id, company_id, occurred_at, day, status)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, rec.ID, rec.EmployeeID, rec.CompanyID, rec.Date, day.Format("2006-01-02"), rec.Status)
	if err != nil {
		if isUniqueViolation(err) {
			return Record{}, ErrDuplicateDay
		}
		return Record{}, err
	}
	return rec, nil
}

const entryQuery = `
	SELECT a.id, a.employee_id, a.company_id, a.occurred_at, a.status,
	       e.id, e.name, e.email, e.department, e.position
	FROM attendance_records a
	JOIN employees e ON e.id = a.employee_id
`

// ListSince returns the company's records dated at or after since, oldest
// first, each joined with its employee.
func (r *Repository) ListSince(ctx context.Context, companyID string, since time.Time) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, entryQuery+`
		WHERE a.company_id = $1 AND a.occurred_at >= $2
		ORDER BY a.occurred_at
	`, companyID, since)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

// ListAll returns every record for the company, newest first.
func (r *Repository) ListAll(ctx context.Context, companyID string) ([]Entry, error) {
	rows, err := r.db.QueryContext(ctx, entryQuery+`
		WHERE a.company_id = $1
		ORDER BY a.occurred_at DESC
	`, companyID)
	if err != nil {
		return nil, err
	}
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()
	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.EmployeeID, &e.CompanyID, &e.Date, &e.Status,
			&e.Employee.ID, &e.Employee.Name, &e.Employee.Email, &e.Employee.Department, &e.Employee.Position); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "23505")
}
