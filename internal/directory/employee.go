package directory

import (
	"errors"
	"time"
)

// EncodingLength is the only accepted face descriptor length. Descriptors are
// produced by the browser-side recognition model; anything else carries no
// usable biometric data.
const EncodingLength = 128

// Employee is a person registered for face recognition, scoped to a company.
type Employee struct {
	ID             string     `json:"_id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	CompanyID      string     `json:"companyId"`
	EmployeeCode   string     `json:"employeeId"`
	Department     string     `json:"department"`
	Position       string     `json:"position"`
	Encoding       []float64  `json:"encoding,omitempty"`
	IsActive       bool       `json:"isActive"`
	LastAttendance *time.Time `json:"lastAttendance"`
	CreatedAt      time.Time  `json:"createdAt"`
}

var (
	// ErrNotFound covers both absent rows and rows owned by another company;
	// cross-tenant existence is never revealed.
	ErrNotFound = errors.New("directory: employee not found")

	// ErrDuplicate means the company already has an employee with the email
	// or employee code.
	ErrDuplicate = errors.New("directory: employee already exists")

	// ErrBadEncoding rejects descriptors that are not exactly EncodingLength
	// numbers.
	ErrBadEncoding = errors.New("directory: face encoding must have length 128")

	// ErrInvalid marks validation failures; wrap with detail.
	ErrInvalid = errors.New("directory: invalid input")
)
