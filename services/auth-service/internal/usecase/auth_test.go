package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/linkshort-api/shared/auth"
)

func registerParams() RegisterParams {
	return RegisterParams{
		Email:     "ada@example.com",
		Username:  "ada",
		Password:  "correct horse",
		Firstname: "Ada",
		Lastname:  "Lovelace",
	}
}

func accountIDOf(t *testing.T, _ *testEnv, refreshToken string) string {
	t.Helper()

	var claims auth.RefreshClaims
	require.NoError(t, auth.Decode(refreshToken, &claims))
	return claims.AccountID
}

func TestRegister(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	result, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	assert.NotEmpty(t, result.AccessToken)
	assert.NotEmpty(t, result.RefreshToken)
	assert.Equal(t, "ada@example.com", result.Email)
	assert.Equal(t, "ada", result.Username)
	assert.Equal(t, "Ada", result.Firstname)
	assert.Equal(t, "Lovelace", result.Lastname)

	account := env.repo.snapshot(accountIDOf(t, env, result.RefreshToken))
	require.NotNil(t, account)
	assert.Equal(t, []string{result.RefreshToken}, account.RefreshTokens)
	assert.False(t, account.Verified)
	assert.NotEmpty(t, account.VerificationToken)
	assert.Equal(t, []string{"user"}, account.RoleNames())
	assert.NotEqual(t, "correct horse", account.PasswordHash)
	assert.Equal(t, 1, env.sender.callCount())

	var access auth.AccessClaims
	require.NoError(t, env.jwtAuth.Validate(auth.PurposeAccess, result.AccessToken, &access))
	assert.Equal(t, account.ID.Hex(), access.AccountID)
	assert.Equal(t, []string{"user"}, access.Roles)
}

func TestRegisterConflict(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*RegisterParams)
	}{
		{name: "same email", mutate: func(p *RegisterParams) { p.Username = "other" }},
		{name: "same username", mutate: func(p *RegisterParams) { p.Email = "other@example.com" }},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newTestEnv()
			ctx := context.Background()

			_, err := env.usecase.Register(ctx, registerParams())
			require.NoError(t, err)

			params := registerParams()
			test.mutate(&params)

			_, err = env.usecase.Register(ctx, params)
			require.ErrorIs(t, err, ErrAccountAlreadyExists)
			assert.ErrorIs(t, err, ErrConflict)
			assert.Len(t, env.repo.accounts, 1)
		})
	}
}

func TestRegisterSucceedsWhenVerificationFails(t *testing.T) {
	env := newTestEnv()
	env.sender.err = errors.New("smtp down")

	result, err := env.usecase.Register(context.Background(), registerParams())
	require.NoError(t, err)

	account := env.repo.snapshot(accountIDOf(t, env, result.RefreshToken))
	require.NotNil(t, account)
	assert.Empty(t, account.VerificationToken)
	assert.Equal(t, []string{result.RefreshToken}, account.RefreshTokens)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		password   string
		wantErr    error
	}{
		{name: "by email", identifier: "ada@example.com", password: "correct horse"},
		{name: "by username", identifier: "ada", password: "correct horse"},
		{name: "wrong password", identifier: "ada", password: "wrong", wantErr: ErrInvalidCredentials},
		{name: "unknown identifier", identifier: "grace", password: "correct horse", wantErr: ErrInvalidCredentials},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newTestEnv()
			ctx := context.Background()

			registered, err := env.usecase.Register(ctx, registerParams())
			require.NoError(t, err)

			result, err := env.usecase.Login(ctx, LoginParams{
				Identifier: test.identifier,
				Password:   test.password,
			})
			if test.wantErr != nil {
				require.ErrorIs(t, err, test.wantErr)
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, registered.RefreshToken, result.RefreshToken)

			account := env.repo.snapshot(accountIDOf(t, env, result.RefreshToken))
			assert.ElementsMatch(t, []string{registered.RefreshToken, result.RefreshToken}, account.RefreshTokens)
		})
	}
}

func TestConcurrentLoginsKeepEveryRefreshToken(t *testing.T) {
	const logins = 8

	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		tokens = []string{registered.RefreshToken}
		errs   = make(chan error, logins)
	)
	for range logins {
		wg.Add(1)
		go func() {
			defer wg.Done()

			result, err := env.usecase.Login(ctx, LoginParams{Identifier: "ada", Password: "correct horse"})
			if err != nil {
				errs <- err
				return
			}

			mu.Lock()
			tokens = append(tokens, result.RefreshToken)
			mu.Unlock()
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	account := env.repo.snapshot(accountIDOf(t, env, registered.RefreshToken))
	require.NotNil(t, account)
	assert.Len(t, account.RefreshTokens, logins+1)
	assert.ElementsMatch(t, tokens, account.RefreshTokens)
}

func TestLoginRotatesPresentedRefreshToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	result, err := env.usecase.Login(ctx, LoginParams{
		Identifier:   "ada",
		Password:     "correct horse",
		RefreshToken: registered.RefreshToken,
	})
	require.NoError(t, err)

	account := env.repo.snapshot(accountIDOf(t, env, result.RefreshToken))
	assert.Equal(t, []string{result.RefreshToken}, account.RefreshTokens)
}

func TestLogout(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	second, err := env.usecase.Login(ctx, LoginParams{Identifier: "ada", Password: "correct horse"})
	require.NoError(t, err)

	require.NoError(t, env.usecase.Logout(ctx, registered.RefreshToken))

	account := env.repo.snapshot(accountIDOf(t, env, second.RefreshToken))
	assert.Equal(t, []string{second.RefreshToken}, account.RefreshTokens)
}

func TestLogoutEmptyTokenIsNoop(t *testing.T) {
	env := newTestEnv()

	require.NoError(t, env.usecase.Logout(context.Background(), ""))
	assert.Empty(t, env.repo.updates)
}

func TestLogoutUnknownTokenRevokesAll(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)
	_, err = env.usecase.Login(ctx, LoginParams{Identifier: "ada", Password: "correct horse"})
	require.NoError(t, err)

	accountID := accountIDOf(t, env, registered.RefreshToken)

	stale := &auth.RefreshClaims{AccountID: accountID, Roles: []string{"user"}}
	stale.ID = "not-on-file"
	staleToken, err := env.jwtAuth.Sign(auth.PurposeRefresh, stale)
	require.NoError(t, err)

	err = env.usecase.Logout(ctx, staleToken)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	assert.Empty(t, env.repo.snapshot(accountID).RefreshTokens)
}

func TestLogoutForeignSignedTokenRevokesAll(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	accountID := accountIDOf(t, env, registered.RefreshToken)

	foreign := auth.NewJWTAuthenticator("linkshort", "linkshort", map[auth.TokenPurpose]auth.TokenKey{
		auth.PurposeRefresh: {Secret: "someone-else-secret-someone-else", ExpiresIn: time.Hour},
	})
	forged, err := foreign.Sign(auth.PurposeRefresh, &auth.RefreshClaims{AccountID: accountID})
	require.NoError(t, err)

	err = env.usecase.Logout(ctx, forged)
	require.ErrorIs(t, err, ErrInvalidRefreshToken)

	assert.Empty(t, env.repo.snapshot(accountID).RefreshTokens)
}

func TestLogoutRejectsMalformedTokens(t *testing.T) {
	tests := []struct {
		name  string
		token func(t *testing.T, env *testEnv) string
	}{
		{
			name:  "not a token",
			token: func(*testing.T, *testEnv) string { return "garbage" },
		},
		{
			name: "account id is not an object id",
			token: func(t *testing.T, env *testEnv) string {
				token, err := env.jwtAuth.Sign(auth.PurposeRefresh, &auth.RefreshClaims{AccountID: "1"})
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "unknown account",
			token: func(t *testing.T, env *testEnv) string {
				token, err := env.jwtAuth.Sign(auth.PurposeRefresh, &auth.RefreshClaims{
					AccountID: bson.NewObjectID().Hex(),
				})
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			env := newTestEnv()

			err := env.usecase.Logout(context.Background(), test.token(t, env))
			require.ErrorIs(t, err, ErrInvalidRefreshToken)
		})
	}
}

func TestVerifyIsSingleUse(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	accountID := accountIDOf(t, env, registered.RefreshToken)
	token := env.repo.snapshot(accountID).VerificationToken
	require.NotEmpty(t, token)

	require.NoError(t, env.usecase.Verify(ctx, token))

	account := env.repo.snapshot(accountID)
	assert.True(t, account.Verified)
	assert.Empty(t, account.VerificationToken)

	err = env.usecase.Verify(ctx, token)
	require.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestVerifyRejectsSupersededToken(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	accountID := accountIDOf(t, env, registered.RefreshToken)
	first := env.repo.snapshot(accountID).VerificationToken

	replacement := &auth.VerificationClaims{AccountID: accountID}
	replacement.ID = "replacement"
	second, err := env.jwtAuth.Sign(auth.PurposeVerification, replacement)
	require.NoError(t, err)

	id, err := bson.ObjectIDFromHex(accountID)
	require.NoError(t, err)
	env.repo.accounts[id].VerificationToken = second

	require.ErrorIs(t, env.usecase.Verify(ctx, first), ErrInvalidVerificationToken)
	require.NoError(t, env.usecase.Verify(ctx, second))
}

func TestVerifyRejectsForeignTokens(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	// A refresh token is signed with a different secret and purpose.
	err = env.usecase.Verify(ctx, registered.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidVerificationToken)

	err = env.usecase.Verify(ctx, "garbage")
	require.ErrorIs(t, err, ErrInvalidVerificationToken)
}

func TestSendVerification(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	accountID := accountIDOf(t, env, registered.RefreshToken)

	token, err := env.usecase.SendVerification(ctx, accountID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, token, env.repo.snapshot(accountID).VerificationToken)
	assert.Equal(t, 2, env.sender.callCount())
}

func TestSendVerificationOnVerifiedAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	registered, err := env.usecase.Register(ctx, registerParams())
	require.NoError(t, err)

	accountID := accountIDOf(t, env, registered.RefreshToken)
	require.NoError(t, env.usecase.Verify(ctx, env.repo.snapshot(accountID).VerificationToken))

	calls := env.sender.callCount()

	token, err := env.usecase.SendVerification(ctx, accountID)
	require.NoError(t, err)
	assert.Empty(t, token)
	assert.Empty(t, env.repo.snapshot(accountID).VerificationToken)
	assert.Equal(t, calls, env.sender.callCount())
}

func TestSendVerificationInvalidAccount(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.usecase.SendVerification(ctx, "not-hex")
	require.ErrorIs(t, err, ErrInvalidAccountID)

	_, err = env.usecase.SendVerification(ctx, bson.NewObjectID().Hex())
	require.ErrorIs(t, err, ErrInvalidAccountID)
	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestNotImplementedOperations(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	_, err := env.usecase.Refresh(ctx, "token")
	assert.ErrorIs(t, err, ErrNotImplemented)
	assert.ErrorIs(t, env.usecase.ForgotPassword(ctx, "ada@example.com"), ErrNotImplemented)
	assert.ErrorIs(t, env.usecase.ChangePassword(ctx, "token", "new"), ErrNotImplemented)
}

func TestResultLabel(t *testing.T) {
	assert.Equal(t, "ok", resultLabel(nil))
	assert.Equal(t, "conflict", resultLabel(ErrAccountAlreadyExists))
	assert.Equal(t, "unauthorized", resultLabel(ErrInvalidCredentials))
	assert.Equal(t, "bad_request", resultLabel(ErrInvalidAccountID))
	assert.Equal(t, "error", resultLabel(errors.New("boom")))
}
