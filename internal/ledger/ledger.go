package ledger

import (
	"errors"
	"time"
)

// Statuses an attendance record can carry. Marking always writes present;
// absent exists for imported or corrected data.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Record marks one employee present on one calendar day.
type Record struct {
	ID         string    `json:"_id"`
	EmployeeID string    `json:"employeeId"`
	CompanyID  string    `json:"companyId"`
	Date       time.Time `json:"date"`
	Status     string    `json:"status"`
}

// Subject is the employee summary joined onto listed records.
type Subject struct {
	ID         string `json:"_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// Entry is a record resolved with its employee for list responses.
type Entry struct {
	Record
	Employee Subject `json:"employee"`
}

// ErrDuplicateDay is returned by the store when an insert collides with an
// existing record for the same employee and day. The service treats it as
// "already marked", never as a failure.
var ErrDuplicateDay = errors.New("ledger: attendance already recorded for this day")

// DayWindow returns the half-open local calendar day [start, end) containing t.
func DayWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.Add(24 * time.Hour)
}
