// Package mailer is the seam for outbound mail. The app only needs reset
// links delivered; swapping LogMailer for an SMTP implementation is the
// production path.
package mailer

import "github.com/rs/zerolog/log"

type Mailer interface {
	SendResetLink(email, link string) error
}

// LogMailer writes the reset link to the log instead of sending mail.
// Dev-only stand-in.
type LogMailer struct{}

func (LogMailer) SendResetLink(email, link string) error {
	log.Info().Str("email", email).Str("link", link).Msg("password reset link")
	return nil
}
