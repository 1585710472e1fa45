package notifier

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/linkshort-api/shared/auth"
	"github.com/vasapolrittideah/linkshort-api/shared/mailer"
)

// VerificationSender issues verification tokens and delivers them by email.
type VerificationSender interface {
	// SendVerificationToken signs a verification token for the account and
	// mails a confirmation link to email. Delivery is best effort: a failed
	// send is logged and the token is still returned. An error is returned
	// only when no token could be issued.
	SendVerificationToken(ctx context.Context, accountID, email string) (string, error)
}

const verificationSubject = "SIGN UP VERIFICATION"

type emailVerificationSender struct {
	jwtAuth         auth.JWTAuthenticator
	mailer          mailer.Sender
	confirmationURL string
	logger          *zerolog.Logger
}

// NewEmailVerificationSender creates a VerificationSender that mails
// confirmationURL?token=<token> links.
func NewEmailVerificationSender(
	jwtAuth auth.JWTAuthenticator,
	sender mailer.Sender,
	confirmationURL string,
	logger *zerolog.Logger,
) VerificationSender {
	return &emailVerificationSender{
		jwtAuth:         jwtAuth,
		mailer:          sender,
		confirmationURL: confirmationURL,
		logger:          logger,
	}
}

func (s *emailVerificationSender) SendVerificationToken(
	ctx context.Context,
	accountID string,
	email string,
) (string, error) {
	token, err := s.jwtAuth.Sign(auth.PurposeVerification, &auth.VerificationClaims{AccountID: accountID})
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}

	link, err := s.link(token)
	if err != nil {
		return "", err
	}

	if err := s.mailer.Send(mailer.Email{
		To:      []string{email},
		Subject: verificationSubject,
		Body:    link,
	}); err != nil {
		s.logger.Warn().
			Err(err).
			Str("account_id", accountID).
			Msg("failed to deliver verification email")
	}

	return token, nil
}

func (s *emailVerificationSender) link(token string) (string, error) {
	u, err := url.Parse(s.confirmationURL)
	if err != nil {
		return "", fmt.Errorf("invalid confirmation url: %w", err)
	}

	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()

	return u.String(), nil
}
