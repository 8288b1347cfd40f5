package account

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, a Account) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	GetByID(ctx context.Context, id string) (Account, error)
}

// Service implements registration, login and lookup for accounts.
type Service struct {
	store       Store
	roles       map[string]struct{}
	defaultRole string
}

// NewService creates a service. roles is the closed set of roles this
// deployment accepts; the default role is "student" when present, otherwise
// the first configured role.
func NewService(store Store, roles []string) *Service {
	if len(roles) == 0 {
		roles = []string{"student"}
	}
	set := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	def := roles[0]
	if _, ok := set["student"]; ok {
		def = "student"
	}
	return &Service{store: store, roles: set, defaultRole: def}
}

// RegisterInput carries the registration payload. CompanyID, CompanyName and
// Role are optional; missing company fields are derived from the email.
type RegisterInput struct {
	Name        string
	Email       string
	Password    string
	CompanyID   string
	CompanyName string
	Role        string
}

// Register validates input, hashes the password and creates the account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return Account{}, fmt.Errorf("%w: name, email and password are required", ErrInvalid)
	}
	if len(in.Name) < 2 {
		return Account{}, fmt.Errorf("%w: name must be at least 2 characters", ErrInvalid)
	}
	if !emailPattern.MatchString(in.Email) {
		return Account{}, fmt.Errorf("%w: invalid email format", ErrInvalid)
	}
	if len(in.Password) < 6 {
		return Account{}, fmt.Errorf("%w: password must be at least 6 characters", ErrInvalid)
	}
	role := in.Role
	if role == "" {
		role = s.defaultRole
	}
	if _, ok := s.roles[role]; !ok {
		return Account{}, fmt.Errorf("%w: %q is not a valid role", ErrInvalid, role)
	}

	if _, err := s.store.GetByEmail(ctx, in.Email); err == nil {
		return Account{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return Account{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	companyID := strings.TrimSpace(in.CompanyID)
	if companyID == "" {
		companyID = DeriveCompanyID(in.Email)
	}
	companyName := strings.TrimSpace(in.CompanyName)
	if companyName == "" {
		companyName = DeriveCompanyName(companyID)
	}

	return s.store.Insert(ctx, Account{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		CompanyID:    companyID,
		CompanyName:  companyName,
		Role:         role,
	})
}

// Login checks credentials. Unknown email and wrong password are not
// distinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Account, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return Account{}, fmt.Errorf("%w: email and password are required", ErrInvalid)
	}
	a, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return Account{}, ErrInvalidCredentials
	}
	if err != nil {
		return Account{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

// Get returns an account by id.
func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.store.GetByID(ctx, id)
}
