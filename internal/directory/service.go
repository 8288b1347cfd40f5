package directory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, e Employee) (Employee, error)
	ExistsByEmail(ctx context.Context, companyID, email string) (bool, error)
	List(ctx context.Context, companyID string, withEncodings bool) ([]Employee, error)
	Get(ctx context.Context, companyID, id string) (Employee, error)
	Update(ctx context.Context, companyID, id string, name, email, department, position *string) (Employee, error)
	Delete(ctx context.Context, companyID, id string) error
	SetLastAttendance(ctx context.Context, companyID, id string, t time.Time) error
}

// Service owns the tenant-scoped employee registry.
type Service struct {
	store Store
	now   func() time.Time
}

// NewService creates a service.
func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// RegisterInput carries the employee registration payload.
type RegisterInput struct {
	Name       string
	Email      string
	Department string
	Position   string
	Encoding   []float64
}

// Register validates the payload and creates the employee with a generated
// company-prefixed code.
func (s *Service) Register(ctx context.Context, companyID string, in RegisterInput) (Employee, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if companyID == "" {
		return Employee{}, fmt.Errorf("%w: company id is required", ErrInvalid)
	}
	if in.Name == "" || in.Email == "" {
		return Employee{}, fmt.Errorf("%w: name and email are required", ErrInvalid)
	}
	if len(in.Encoding) != EncodingLength {
		return Employee{}, ErrBadEncoding
	}

	exists, err := s.store.ExistsByEmail(ctx, companyID, in.Email)
	if err != nil {
		return Employee{}, err
	}
	if exists {
		return Employee{}, ErrDuplicate
	}

	dept := strings.TrimSpace(in.Department)
	if dept == "" {
		dept = "Unassigned"
	}
	pos := strings.TrimSpace(in.Position)
	if pos == "" {
		pos = "Employee"
	}

	return s.store.Insert(ctx, Employee{
		Name:         in.Name,
		Email:        in.Email,
		CompanyID:    companyID,
		EmployeeCode: s.generateCode(companyID),
		Department:   dept,
		Position:     pos,
		Encoding:     in.Encoding,
	})
}

// List returns the company's employees. Encodings are included only on
// explicit request.
func (s *Service) List(ctx context.Context, companyID string, withEncodings bool) ([]Employee, error) {
	return s.store.List(ctx, companyID, withEncodings)
}

// Get returns one employee without its encoding.
func (s *Service) Get(ctx context.Context, companyID, id string) (Employee, error) {
	e, err := s.store.Get(ctx, companyID, id)
	if err != nil {
		return Employee{}, err
	}
	e.Encoding = nil
	return e, nil
}

// UpdateInput carries a partial employee update. Only these four fields are
// mutable; the encoding and the code are fixed at registration.
type UpdateInput struct {
	Name       *string
	Email      *string
	Department *string
	Position   *string
}

// Update applies the provided fields.
func (s *Service) Update(ctx context.Context, companyID, id string, in UpdateInput) (Employee, error) {
	e, err := s.store.Update(ctx, companyID, id, in.Name, in.Email, in.Department, in.Position)
	if err != nil {
		return Employee{}, err
	}
	e.Encoding = nil
	return e, nil
}

// Delete removes the employee permanently.
func (s *Service) Delete(ctx context.Context, companyID, id string) error {
	return s.store.Delete(ctx, companyID, id)
}

// Touch updates the employee's last-attendance timestamp.
func (s *Service) Touch(ctx context.Context, companyID, id string, t time.Time) error {
	return s.store.SetLastAttendance(ctx, companyID, id, t)
}

// generateCode builds a human-readable employee code: a company prefix plus
// the trailing six digits of the current unix-milli clock.
func (s *Service) generateCode(companyID string) string {
	prefix := companyID
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	millis := strconv.FormatInt(s.now().UnixMilli(), 10)
	if len(millis) > 6 {
		millis = millis[len(millis)-6:]
	}
	return strings.ToUpper(prefix) + millis
}
