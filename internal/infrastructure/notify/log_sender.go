package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

// LogSender records welcome messages in the log instead of sending them.
// Used when no mail provider is configured.
type LogSender struct {
	log      zerolog.Logger
	loginURL string
}

func NewLogSender(log zerolog.Logger, loginURL string) *LogSender {
	return &LogSender{log: log, loginURL: loginURL}
}

func (s *LogSender) SendWelcome(_ context.Context, a domain.Account) error {
	s.log.Info().
		Str("account_id", a.ID).
		Str("email", a.Email).
		Str("login_url", s.loginURL).
		Msg("welcome message (mail delivery disabled)")
	return nil
}
