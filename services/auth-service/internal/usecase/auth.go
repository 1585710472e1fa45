package usecase

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/notifier"
	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/linkshort-api/shared/auth"
	"github.com/vasapolrittideah/linkshort-api/shared/metrics"
	"github.com/vasapolrittideah/linkshort-api/shared/security"
)

// AuthUsecase defines the credential and session lifecycle of an account.
type AuthUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*AuthResult, error)
	Login(ctx context.Context, params LoginParams) (*AuthResult, error)

	// Logout revokes refreshToken. An empty token is a no-op. Presenting a
	// token the account does not hold revokes all of its refresh tokens.
	Logout(ctx context.Context, refreshToken string) error

	// Verify consumes a verification token. A token can be used once.
	Verify(ctx context.Context, verificationToken string) error

	// SendVerification issues and mails a new verification token, replacing
	// any outstanding one. It returns an empty token for verified accounts.
	SendVerification(ctx context.Context, accountID string) (string, error)

	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ChangePassword(ctx context.Context, token, newPassword string) error
}

// RegisterParams defines the parameters for account registration.
type RegisterParams struct {
	Email     string
	Username  string
	Password  string
	Firstname string
	Lastname  string
}

// LoginParams defines the parameters for login. Identifier is matched against
// email first, then username. RefreshToken, when set, is retired.
type LoginParams struct {
	Identifier   string
	Password     string
	RefreshToken string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	Email        string
	Username     string
	Firstname    string
	Lastname     string
}

type authUsecase struct {
	accountRepo  repository.AccountRepository
	verification notifier.VerificationSender
	jwtAuth      auth.JWTAuthenticator
	logger       *zerolog.Logger
}

func NewAuthUsecase(
	accountRepo repository.AccountRepository,
	verification notifier.VerificationSender,
	jwtAuth auth.JWTAuthenticator,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		accountRepo:  accountRepo,
		verification: verification,
		jwtAuth:      jwtAuth,
		logger:       logger,
	}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (result *AuthResult, err error) {
	defer observe("register", &err)

	if exists, err := u.exists(ctx, u.accountRepo.GetAccountByEmail, params.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAccountAlreadyExists
	}

	if exists, err := u.exists(ctx, u.accountRepo.GetAccountByUsername, params.Username); err != nil {
		return nil, err
	} else if exists {
		return nil, ErrAccountAlreadyExists
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, err
	}

	account, err := u.accountRepo.CreateAccount(ctx, &model.Account{
		Email:         params.Email,
		Username:      params.Username,
		Firstname:     params.Firstname,
		Lastname:      params.Lastname,
		PasswordHash:  passwordHash,
		Roles:         []model.Role{model.RoleUser},
		RefreshTokens: []string{},
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAccountAlreadyExists
		}

		return nil, err
	}

	accountID := account.ID.Hex()

	var (
		g                 errgroup.Group
		tokens            *tokenPair
		verificationToken string
	)

	g.Go(func() error {
		var err error
		tokens, err = u.createAuthTokens(accountID, account.RoleNames())
		return err
	})

	g.Go(func() error {
		token, err := u.verification.SendVerificationToken(ctx, accountID, account.Email)
		if err != nil {
			u.logger.Warn().Err(err).Str("account_id", accountID).Msg("failed to issue verification token")
			return nil
		}
		verificationToken = token
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := u.accountRepo.UpdateAccount(ctx, account.ID, repository.UpdateAccountParams{
		AddRefreshToken:   &tokens.refreshToken,
		VerificationToken: &verificationToken,
	}); err != nil {
		return nil, err
	}

	return newAuthResult(account, tokens), nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (result *AuthResult, err error) {
	defer observe("login", &err)

	account, err := u.findByIdentifier(ctx, params.Identifier)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if ok, err := security.VerifyPassword(params.Password, account.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	if params.RefreshToken != "" {
		if _, err := u.accountRepo.RemoveRefreshToken(ctx, account.ID, params.RefreshToken); err != nil {
			return nil, err
		}
	}

	tokens, err := u.createAuthTokens(account.ID.Hex(), account.RoleNames())
	if err != nil {
		return nil, err
	}

	if err := u.accountRepo.UpdateAccount(ctx, account.ID, repository.UpdateAccountParams{
		AddRefreshToken: &tokens.refreshToken,
	}); err != nil {
		return nil, err
	}

	return newAuthResult(account, tokens), nil
}

func (u *authUsecase) Logout(ctx context.Context, refreshToken string) (err error) {
	if refreshToken == "" {
		return nil
	}

	defer observe("logout", &err)

	// Only the account id is read here; ownership is decided by membership in
	// the account's refresh-token set, not by the signature or expiry.
	var claims auth.RefreshClaims
	if err := auth.Decode(refreshToken, &claims); err != nil {
		return ErrInvalidRefreshToken
	}

	accountID, err := bson.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	if _, err := u.accountRepo.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidRefreshToken
		}

		return err
	}

	removed, err := u.accountRepo.RemoveRefreshToken(ctx, accountID, refreshToken)
	if err != nil {
		return err
	}

	if !removed {
		if err := u.accountRepo.ClearRefreshTokens(ctx, accountID); err != nil {
			return err
		}

		metrics.RefreshTokenRevocations.Inc()
		u.logger.Warn().
			Str("account_id", claims.AccountID).
			Msg("refresh token not on file, revoked all refresh tokens of account")

		return ErrInvalidRefreshToken
	}

	return nil
}

func (u *authUsecase) Verify(ctx context.Context, verificationToken string) (err error) {
	defer observe("verify", &err)

	var claims auth.VerificationClaims
	if err := u.jwtAuth.Verify(auth.PurposeVerification, verificationToken, &claims); err != nil {
		return ErrInvalidVerificationToken
	}

	accountID, err := bson.ObjectIDFromHex(claims.AccountID)
	if err != nil {
		return ErrInvalidVerificationToken
	}

	matched, err := u.accountRepo.MarkVerified(ctx, accountID, verificationToken)
	if err != nil {
		return err
	}

	if !matched {
		return ErrInvalidVerificationToken
	}

	return nil
}

func (u *authUsecase) SendVerification(ctx context.Context, accountID string) (token string, err error) {
	defer observe("send_verification", &err)

	objectID, err := bson.ObjectIDFromHex(accountID)
	if err != nil {
		return "", ErrInvalidAccountID
	}

	account, err := u.accountRepo.GetAccount(ctx, objectID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidAccountID
		}

		return "", err
	}

	if account.Verified {
		empty := ""
		if err := u.accountRepo.UpdateAccount(ctx, objectID, repository.UpdateAccountParams{
			VerificationToken: &empty,
		}); err != nil {
			return "", err
		}

		return "", nil
	}

	token, err = u.verification.SendVerificationToken(ctx, accountID, account.Email)
	if err != nil {
		return "", err
	}

	if err := u.accountRepo.UpdateAccount(ctx, objectID, repository.UpdateAccountParams{
		VerificationToken: &token,
	}); err != nil {
		return "", err
	}

	return token, nil
}

func (u *authUsecase) Refresh(context.Context, string) (*AuthResult, error) {
	return nil, ErrNotImplemented
}

func (u *authUsecase) ForgotPassword(context.Context, string) error {
	return ErrNotImplemented
}

func (u *authUsecase) ChangePassword(context.Context, string, string) error {
	return ErrNotImplemented
}

type tokenPair struct {
	accessToken  string
	refreshToken string
}

func (u *authUsecase) createAuthTokens(accountID string, roles []string) (*tokenPair, error) {
	accessToken, err := u.jwtAuth.Sign(auth.PurposeAccess, &auth.AccessClaims{
		AccountID: accountID,
		Roles:     roles,
	})
	if err != nil {
		return nil, err
	}

	refreshClaims := &auth.RefreshClaims{
		AccountID: accountID,
		Roles:     roles,
	}
	refreshClaims.ID = uuid.NewString()

	refreshToken, err := u.jwtAuth.Sign(auth.PurposeRefresh, refreshClaims)
	if err != nil {
		return nil, err
	}

	return &tokenPair{accessToken: accessToken, refreshToken: refreshToken}, nil
}

func (u *authUsecase) findByIdentifier(ctx context.Context, identifier string) (*model.Account, error) {
	account, err := u.accountRepo.GetAccountByEmail(ctx, identifier)
	if err == nil || !errors.Is(err, mongo.ErrNoDocuments) {
		return account, err
	}

	return u.accountRepo.GetAccountByUsername(ctx, identifier)
}

func (u *authUsecase) exists(
	ctx context.Context,
	find func(context.Context, string) (*model.Account, error),
	value string,
) (bool, error) {
	if _, err := find(ctx, value); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}

		return false, err
	}

	return true, nil
}

func newAuthResult(account *model.Account, tokens *tokenPair) *AuthResult {
	return &AuthResult{
		AccessToken:  tokens.accessToken,
		RefreshToken: tokens.refreshToken,
		Email:        account.Email,
		Username:     account.Username,
		Firstname:    account.Firstname,
		Lastname:     account.Lastname,
	}
}

func observe(operation string, err *error) {
	metrics.AuthOperations.WithLabelValues(operation, resultLabel(*err)).Inc()
}

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrBadRequest):
		return "bad_request"
	default:
		return "error"
	}
}
