package ports

import (
	"context"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

// WelcomeNotifier hands a welcome message off for delivery. It must return
// immediately; delivery failures are never reported to the caller.
type WelcomeNotifier interface {
	NotifyWelcome(account domain.Account)
}

// MailSender performs the actual delivery of a welcome message.
type MailSender interface {
	SendWelcome(ctx context.Context, account domain.Account) error
}
