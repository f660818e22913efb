package identity

import (
	"net/mail"
	"regexp"
	"strings"

	"github.com/mfgerp/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the coarse permission level of a user
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleManager  Role = "MANAGER"
	RoleOperator Role = "OPERATOR"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleOperator:
		return true
	}
	return false
}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,50}$`)

// ErrInvalidCredentials hides whether the username or the password was wrong
var ErrInvalidCredentials = shared.NewDomainError(shared.ErrUnauthorized.Code, "Invalid username or password")

// User is an account allowed to operate the system
type User struct {
	shared.BaseAggregateRoot
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
}

// NewUser validates the input and hashes the password with bcrypt
func NewUser(username, email, password string, role Role) (*User, error) {
	username = strings.TrimSpace(username)
	if !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must be 3-50 letters, digits, '.', '_' or '-'")
	}
	email = strings.TrimSpace(email)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Invalid email address")
	}
	if role == "" {
		role = RoleOperator
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Invalid role")
	}
	u := &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          username,
		Email:             strings.ToLower(email),
		Role:              role,
		IsActive:          true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// VerifyPassword checks a plaintext password against the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// Deactivate blocks future logins
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}
