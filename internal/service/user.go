package service

import (
	"errors"

	"vidjot/internal/auth"
	"vidjot/internal/models"
	"vidjot/internal/store"

	"github.com/rs/zerolog/log"
)

// CredentialVerifier compares a stored hash against a supplied password.
// Pluggable so tests and future strategies can swap the comparison.
type CredentialVerifier func(hash, password string) bool

// UserService implements registration, login and profile updates.
type UserService struct {
	users  store.UserStore
	verify CredentialVerifier
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users, verify: auth.VerifyPassword}
}

// WithVerifier swaps the credential-verification strategy.
func (s *UserService) WithVerifier(v CredentialVerifier) *UserService {
	s.verify = v
	return s
}

// validatePassword applies the shared password rules for registration and
// password reset.
func validatePassword(password, confirm string) *ValidationError {
	var msgs []string
	if password != confirm {
		msgs = append(msgs, "Passwords do not match")
	}
	if len(password) < 4 {
		msgs = append(msgs, "Password must be at least 4 characters")
	}
	if len(msgs) > 0 {
		return &ValidationError{Messages: msgs}
	}
	return nil
}

// Register validates the form, rejects duplicate emails and creates the
// account with a bcrypt-hashed password.
func (s *UserService) Register(name, email, password, confirm string) (*models.User, error) {
	if verr := validatePassword(password, confirm); verr != nil {
		return nil, verr
	}
	exists, err := s.users.EmailExists(email)
	if err != nil {
		return nil, &PersistenceError{Op: "check email", Err: err}
	}
	if exists {
		return nil, ErrDuplicateAccount
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, &PersistenceError{Op: "hash password", Err: err}
	}
	u := models.User{Name: name, Email: email, PasswordHash: hash}
	if err := s.users.Create(&u); err != nil {
		return nil, &PersistenceError{Op: "create user", Err: err}
	}
	return &u, nil
}

// Login resolves the account and checks the password. Unknown user and
// wrong password both come back as ErrInvalidCredentials so responses
// cannot be used to enumerate accounts.
func (s *UserService) Login(email, password string) (*models.User, error) {
	u, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug().Str("email", email).Msg("login: no such user")
			return nil, ErrInvalidCredentials
		}
		return nil, &PersistenceError{Op: "find user", Err: err}
	}
	if !s.verify(u.PasswordHash, password) {
		log.Debug().Uint("user_id", u.ID).Msg("login: password mismatch")
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// UpdateProfile writes name and email in a single transactional update.
// The id comes from the submitted form, never from ambient state.
func (s *UserService) UpdateProfile(id uint, name, email string) error {
	if err := s.users.UpdateProfile(id, name, email); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return &PersistenceError{Op: "update profile", Err: err}
	}
	return nil
}
