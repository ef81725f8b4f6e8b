package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charter-leads/internal/leads"

	"github.com/mailgun/mailgun-go/v5"
	"github.com/wneessen/go-mail"
)

// Email is a rendered plain-text message.
type Email struct {
	From    string
	To      string
	Subject string
	Text    string
}

// EmailSender delivers a rendered message through some provider.
type EmailSender interface {
	SendEmail(ctx context.Context, e Email) error
}

// EmailChannel renders the lead summary and hands it to an EmailSender.
type EmailChannel struct {
	sender   EmailSender
	from     string
	to       string
	brand    string
	location *time.Location
}

func NewEmailChannel(sender EmailSender, from, to, brand string) *EmailChannel {
	return &EmailChannel{sender: sender, from: from, to: to, brand: brand, location: time.UTC}
}

func (c *EmailChannel) Name() string { return "email" }

func (c *EmailChannel) Send(ctx context.Context, l leads.Lead) error {
	if c.sender == nil {
		return errors.New("notify: email sender not configured")
	}
	return c.sender.SendEmail(ctx, Email{
		From:    c.from,
		To:      c.to,
		Subject: EmailSubject(c.brand, l),
		Text:    EmailBody(l, c.location),
	})
}

// MailgunSender sends through the Mailgun messages API.
type MailgunSender struct {
	send func(ctx context.Context, e Email) (string, error)
}

func NewMailgunSender(apiKey, domain, apiBase string) *MailgunSender {
	mg := mailgun.NewMailgun(apiKey)
	if apiBase != "" {
		mg.SetAPIBase(apiBase)
	}
	return &MailgunSender{send: func(ctx context.Context, e Email) (string, error) {
		m := mailgun.NewMessage(domain, e.From, e.Subject, e.Text, e.To)
		resp, err := mg.Send(ctx, m)
		if err != nil {
			return "", err
		}
		return resp.ID, nil
	}}
}

func (s *MailgunSender) SendEmail(ctx context.Context, e Email) error {
	if _, err := s.send(ctx, e); err != nil {
		return fmt.Errorf("notify: mailgun send: %w", err)
	}
	return nil
}

// SMTPSender sends through a plain SMTP relay.
type SMTPSender struct {
	client *mail.Client
}

func NewSMTPSender(host string, port int, username, password string) (*SMTPSender, error) {
	opts := []mail.Option{mail.WithPort(port), mail.WithTimeout(15 * time.Second)}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	c, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, fmt.Errorf("notify: smtp client: %w", err)
	}
	return &SMTPSender{client: c}, nil
}

func (s *SMTPSender) SendEmail(ctx context.Context, e Email) error {
	m := mail.NewMsg()
	if err := m.From(e.From); err != nil {
		return fmt.Errorf("notify: smtp from: %w", err)
	}
	if err := m.To(e.To); err != nil {
		return fmt.Errorf("notify: smtp to: %w", err)
	}
	m.Subject(e.Subject)
	m.SetBodyString(mail.TypeTextPlain, e.Text)
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("notify: smtp send: %w", err)
	}
	return nil
}
