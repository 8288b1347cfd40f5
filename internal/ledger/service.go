package ledger

import (
	"context"
	"time"

	"faceattend/internal/directory"
	"faceattend/internal/metrics"
)

// Store is the persistence surface the service needs.
type Store interface {
	FindInWindow(ctx context.Context, companyID, employeeID string, start, end time.Time) (*Record, error)
	Insert(ctx context.Context, rec Record) (Record, error)
	ListSince(ctx context.Context, companyID string, since time.Time) ([]Entry, error)
	ListAll(ctx context.Context, companyID string) ([]Entry, error)
}

// Employees resolves and touches directory entries. Implemented by
// directory.Service; resolving doubles as the tenant authorization check.
type Employees interface {
	Get(ctx context.Context, companyID, id string) (directory.Employee, error)
	Touch(ctx context.Context, companyID, id string, t time.Time) error
}

// Service enforces at-most-one attendance record per employee per calendar
// day.
type Service struct {
	store     Store
	employees Employees
	now       func() time.Time
}

// NewService creates a service.
func NewService(store Store, employees Employees) *Service {
	return &Service{store: store, employees: employees, now: time.Now}
}

// MarkResult is the outcome of a mark request. Already is true when the day
// already had a record; that is a success, not an error.
type MarkResult struct {
	Record  Record
	Already bool
}

// Mark records the employee present for today. The sequence is: resolve the
// employee within the caller's company (cross-tenant ids read as absent),
// look for an existing record inside today's window, and only then insert.
// A concurrent duplicate insert is caught by the storage uniqueness index
// and answered idempotently.
func (s *Service) Mark(ctx context.Context, companyID, employeeID string) (MarkResult, error) {
	if _, err := s.employees.Get(ctx, companyID, employeeID); err != nil {
		return MarkResult{}, err
	}

	now := s.now()
	start, end := DayWindow(now)

	existing, err := s.store.FindInWindow(ctx, companyID, employeeID, start, end)
	if err != nil {
		return MarkResult{}, err
	}
	if existing != nil {
		metrics.DuplicateMarksTotal.Inc()
		return MarkResult{Record: *existing, Already: true}, nil
	}

	rec, err := s.store.Insert(ctx, Record{
		EmployeeID: employeeID,
		CompanyID:  companyID,
		Date:       now,
		Status:     StatusPresent,
	})
	if err == ErrDuplicateDay {
		// Lost the race to a concurrent mark; surface the winner's record.
		existing, ferr := s.store.FindInWindow(ctx, companyID, employeeID, start, end)
		if ferr != nil || existing == nil {
			return MarkResult{}, err
		}
		metrics.DuplicateMarksTotal.Inc()
		return MarkResult{Record: *existing, Already: true}, nil
	}
	if err != nil {
		return MarkResult{}, err
	}

	// The record is durable at this point; a stale last-attendance stamp is
	// tolerable.
	_ = s.employees.Touch(ctx, companyID, employeeID, now)
	metrics.MarksTotal.Inc()
	return MarkResult{Record: rec}, nil
}

// ListToday returns the company's records since local midnight.
func (s *Service) ListToday(ctx context.Context, companyID string) ([]Entry, error) {
	start, _ := DayWindow(s.now())
	return s.store.ListSince(ctx, companyID, start)
}

// ListAll returns every record for the company, newest first.
func (s *Service) ListAll(ctx context.Context, companyID string) ([]Entry, error) {
	return s.store.ListAll(ctx, companyID)
}
