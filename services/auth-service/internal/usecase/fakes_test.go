package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/linkshort-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/linkshort-api/shared/auth"
)

// fakeAccountRepository is an in-memory AccountRepository with the same
// matching rules as the MongoDB implementation.
type fakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[bson.ObjectID]*model.Account
	updates  []repository.UpdateAccountParams
	getErr   error
}

func newFakeAccountRepository() *fakeAccountRepository {
	return &fakeAccountRepository{accounts: make(map[bson.ObjectID]*model.Account)}
}

func clone(a *model.Account) *model.Account {
	c := *a
	c.Roles = slices.Clone(a.Roles)
	c.RefreshTokens = slices.Clone(a.RefreshTokens)
	return &c
}

func (r *fakeAccountRepository) CreateAccount(_ context.Context, account *model.Account) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	account.ID = bson.NewObjectID()
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	r.accounts[account.ID] = clone(account)
	return account, nil
}

func (r *fakeAccountRepository) GetAccount(_ context.Context, id bson.ObjectID) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.accounts[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return clone(a), nil
}

func (r *fakeAccountRepository) find(match func(*model.Account) bool) (*model.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range r.accounts {
		if match(a) {
			return clone(a), nil
		}
	}
	return nil, mongo.ErrNoDocuments
}

func (r *fakeAccountRepository) GetAccountByEmail(_ context.Context, email string) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return a.Email == email })
}

func (r *fakeAccountRepository) GetAccountByUsername(_ context.Context, username string) (*model.Account, error) {
	return r.find(func(a *model.Account) bool { return a.Username == username })
}

func (r *fakeAccountRepository) UpdateAccount(
	_ context.Context,
	id bson.ObjectID,
	params repository.UpdateAccountParams,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.updates = append(r.updates, params)
	a, ok := r.accounts[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	if params.VerificationToken != nil {
		a.VerificationToken = *params.VerificationToken
	}
	if params.Verified != nil {
		a.Verified = *params.Verified
	}
	if params.AddRefreshToken != nil && !slices.Contains(a.RefreshTokens, *params.AddRefreshToken) {
		a.RefreshTokens = append(a.RefreshTokens, *params.AddRefreshToken)
	}
	return nil
}

func (r *fakeAccountRepository) RemoveRefreshToken(_ context.Context, id bson.ObjectID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok || !slices.Contains(a.RefreshTokens, token) {
		return false, nil
	}
	a.RefreshTokens = slices.DeleteFunc(a.RefreshTokens, func(t string) bool { return t == token })
	return true, nil
}

func (r *fakeAccountRepository) ClearRefreshTokens(_ context.Context, id bson.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.accounts[id]; ok {
		a.RefreshTokens = []string{}
	}
	return nil
}

func (r *fakeAccountRepository) MarkVerified(_ context.Context, id bson.ObjectID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.accounts[id]
	if !ok || a.VerificationToken != token {
		return false, nil
	}
	a.Verified = true
	a.VerificationToken = ""
	return true, nil
}

// snapshot returns the stored state of an account, bypassing getErr.
func (r *fakeAccountRepository) snapshot(id string) *model.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	a, ok := r.accounts[objectID]
	if !ok {
		return nil
	}
	return clone(a)
}

// fakeVerificationSender signs real verification tokens and records calls.
type fakeVerificationSender struct {
	mu      sync.Mutex
	jwtAuth auth.JWTAuthenticator
	calls   []string
	err     error
}

func (s *fakeVerificationSender) SendVerificationToken(_ context.Context, accountID, email string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls = append(s.calls, email)
	if s.err != nil {
		return "", s.err
	}
	return s.jwtAuth.Sign(auth.PurposeVerification, &auth.VerificationClaims{AccountID: accountID})
}

func (s *fakeVerificationSender) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestJWTAuth() auth.JWTAuthenticator {
	return auth.NewJWTAuthenticator("linkshort", "linkshort", map[auth.TokenPurpose]auth.TokenKey{
		auth.PurposeAccess:       {Secret: "access-secret-access-secret-0000", ExpiresIn: 15 * time.Minute},
		auth.PurposeRefresh:      {Secret: "refresh-secret-refresh-secret-00", ExpiresIn: 24 * time.Hour},
		auth.PurposeVerification: {Secret: "verify-secret-verify-secret-0000", ExpiresIn: time.Hour},
	})
}

type testEnv struct {
	repo     *fakeAccountRepository
	sender   *fakeVerificationSender
	jwtAuth  auth.JWTAuthenticator
	usecase  AuthUsecase
	identity IdentityUsecase
}

func newTestEnv() *testEnv {
	jwtAuth := newTestJWTAuth()
	repo := newFakeAccountRepository()
	sender := &fakeVerificationSender{jwtAuth: jwtAuth}
	logger := zerolog.Nop()

	return &testEnv{
		repo:     repo,
		sender:   sender,
		jwtAuth:  jwtAuth,
		usecase:  NewAuthUsecase(repo, sender, jwtAuth, &logger),
		identity: NewIdentityUsecase(repo),
	}
}
