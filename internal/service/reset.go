package service

import (
	"errors"
	"fmt"
	"time"

	"vidjot/internal/auth"
	"vidjot/internal/mailer"
	"vidjot/internal/models"
	"vidjot/internal/store"

	"github.com/rs/zerolog/log"
)

// ResetService implements the stateless password-reset flow. Tokens are
// never stored: the signing key folds in the current password hash, so a
// password change invalidates everything issued before it.
type ResetService struct {
	users   store.UserStore
	mail    mailer.Mailer
	secret  string
	baseURL string
	ttl     time.Duration
}

func NewResetService(users store.UserStore, mail mailer.Mailer, secret, baseURL string, ttl time.Duration) *ResetService {
	return &ResetService{users: users, mail: mail, secret: secret, baseURL: baseURL, ttl: ttl}
}

// RequestReset issues a reset link for the account behind email. Unknown
// emails fail with ErrNotFound; the caller turns that into a flash message
// and nothing else reaches the network peer.
func (s *ResetService) RequestReset(email string) error {
	u, err := s.users.ByEmail(email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Info().Str("email", email).Msg("reset request for unknown email")
			return ErrNotFound
		}
		return &PersistenceError{Op: "find user", Err: err}
	}
	key := auth.ResetKey(s.secret, u.PasswordHash)
	token, err := auth.SignResetToken(u.Email, u.ID, key, s.ttl)
	if err != nil {
		return &PersistenceError{Op: "sign reset token", Err: err}
	}
	link := fmt.Sprintf("%s/user/reset-password/%d/%s", s.baseURL, u.ID, token)
	if err := s.mail.SendResetLink(u.Email, link); err != nil {
		return &PersistenceError{Op: "send reset link", Err: err}
	}
	return nil
}

// VerifyReset checks a reset link and returns the account it is scoped to.
// A missing user is ErrNotFound; any token failure is
// ErrInvalidOrExpiredToken, surfaced to the caller, never swallowed.
func (s *ResetService) VerifyReset(userID uint, token string) (*models.User, error) {
	u, err := s.users.ByID(userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "find user", Err: err}
	}
	key := auth.ResetKey(s.secret, u.PasswordHash)
	claims, err := auth.VerifyResetToken(token, key)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}
	if claims.UserID != u.ID {
		return nil, ErrInvalidOrExpiredToken
	}
	return u, nil
}

// SubmitReset re-verifies the token, validates the new password like
// Register does, and writes the new hash. The hash change retires every
// token issued before this one was consumed.
func (s *ResetService) SubmitReset(userID uint, token, password, confirm string) error {
	u, err := s.VerifyReset(userID, token)
	if err != nil {
		return err
	}
	if verr := validatePassword(password, confirm); verr != nil {
		return verr
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return &PersistenceError{Op: "hash password", Err: err}
	}
	if err := s.users.UpdatePassword(u.ID, hash); err != nil {
		return &PersistenceError{Op: "update password", Err: err}
	}
	return nil
}
