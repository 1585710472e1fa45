package mailer

import (
	"errors"
	"fmt"

	"gopkg.in/gomail.v2"
)

var ErrNoRecipients = errors.New("no recipients specified")

// Sender delivers a single email.
type Sender interface {
	Send(email Email) error
}

// Mailer sends email over SMTP.
type Mailer struct {
	from   string
	dialer dialer
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Email represents an email message.
type Email struct {
	To       []string
	Subject  string
	Body     string
	HTMLBody string
}

// Config holds SMTP configuration for sending emails.
type Config struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"     envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// Validate checks that every SMTP setting is present.
func (c Config) Validate() error {
	switch {
	case c.Host == "":
		return fmt.Errorf("missing SMTP_HOST environment variable")
	case c.Port == 0:
		return fmt.Errorf("missing SMTP_PORT environment variable")
	case c.Username == "":
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	case c.Password == "":
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	case c.From == "":
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}

// NewMailer creates a Mailer for an already validated Config.
func NewMailer(cfg Config) *Mailer {
	return &Mailer{
		from:   cfg.From,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

// Send sends a single email.
func (m *Mailer) Send(email Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	return m.dialer.DialAndSend(msg)
}

// SendSimple sends a plain text email.
func (m *Mailer) SendSimple(to []string, subject, body string) error {
	return m.Send(Email{
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}
