package account

import (
	"errors"
	"strings"
	"time"
)

// Account is a login-capable user. Employees tracked for attendance live in
// the directory package; accounts only operate the system.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CompanyID    string    `json:"companyId"`
	CompanyName  string    `json:"companyName"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

var (
	// ErrNotFound means the account does not exist.
	ErrNotFound = errors.New("account: not found")

	// ErrEmailTaken means another account already uses the email.
	ErrEmailTaken = errors.New("account: email already registered")

	// ErrInvalidCredentials covers unknown email and wrong password alike.
	ErrInvalidCredentials = errors.New("account: invalid credentials")

	// ErrInvalid marks validation failures; wrap with detail.
	ErrInvalid = errors.New("account: invalid input")
)

// DeriveCompanyID returns a company identifier from an email domain:
// "a@acme.com" yields "acme". Used only when the caller omits a company id.
func DeriveCompanyID(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return "default"
	}
	domain := email[at+1:]
	if dot := strings.Index(domain, "."); dot > 0 {
		domain = domain[:dot]
	}
	if domain == "" {
		return "default"
	}
	return strings.ToLower(domain)
}

// DeriveCompanyName title-cases a company id: "acme" yields "Acme".
func DeriveCompanyName(companyID string) string {
	if companyID == "" {
		return "Default Company"
	}
	return strings.ToUpper(companyID[:1]) + companyID[1:]
}
