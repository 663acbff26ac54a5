// Package notify delivers welcome messages to newly provisioned accounts.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/learnhub/enrollment-pipeline/internal/core/domain"
)

const welcomeSubject = "Welcome to LearnHub"

var welcomeHTML = template.Must(template.New("welcome").Parse(
	`<p>Hi {{.Name}},</p><p>Your LearnHub account for <strong>{{.Email}}</strong> is ready. ` +
		`<a href="{{.LoginURL}}">Sign in</a> and choose a password to get started.</p>`))

// Sender identifies the From address and the login page linked in messages.
type Sender struct {
	Address  string
	Name     string
	LoginURL string
}

type sendClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender delivers welcome messages through the SendGrid v3 API.
type SendGridSender struct {
	client sendClient
	from   Sender
}

func NewSendGridSender(apiKey string, from Sender) *SendGridSender {
	return &SendGridSender{client: sendgrid.NewSendClient(apiKey), from: from}
}

func (s *SendGridSender) SendWelcome(ctx context.Context, a domain.Account) error {
	plain, html, err := welcomeBody(a, s.from.LoginURL)
	if err != nil {
		return err
	}
	msg := mail.NewSingleEmail(
		mail.NewEmail(s.from.Name, s.from.Address),
		welcomeSubject,
		mail.NewEmail(a.DisplayName, a.Email),
		plain,
		html,
	)

	resp, err := s.client.SendWithContext(ctx, msg)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid send: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// welcomeBody never contains a credential: accounts are created with a
// random one that the learner must reset on first login. Buyer-supplied
// fields are escaped in the HTML part.
func welcomeBody(a domain.Account, loginURL string) (plain, html string, err error) {
	plain = fmt.Sprintf(
		"Hi %s,\n\nYour LearnHub account for %s is ready. "+
			"Sign in at %s and choose a password to get started.\n",
		a.DisplayName, a.Email, loginURL)

	var buf bytes.Buffer
	err = welcomeHTML.Execute(&buf, struct{ Name, Email, LoginURL string }{
		Name:     a.DisplayName,
		Email:    a.Email,
		LoginURL: loginURL,
	})
	if err != nil {
		return "", "", fmt.Errorf("render welcome body: %w", err)
	}
	return plain, buf.String(), nil
}
