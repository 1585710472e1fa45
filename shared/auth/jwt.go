package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose selects the secret and lifetime used for a token.
type TokenPurpose string

const (
	PurposeAccess       TokenPurpose = "access"
	PurposeRefresh      TokenPurpose = "refresh"
	PurposeVerification TokenPurpose = "verification"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnknownPurpose = errors.New("unknown token purpose")
)

// TokenKey is the secret and lifetime configured for one token purpose.
type TokenKey struct {
	Secret    string
	ExpiresIn time.Duration
}

// JWTAuthenticator represents a JWT based authenticator.
type JWTAuthenticator struct {
	audience string
	issuer   string
	keys     map[TokenPurpose]TokenKey
	now      func() time.Time
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance. Every purpose
// the caller signs or verifies must have an entry in keys.
func NewJWTAuthenticator(audience, issuer string, keys map[TokenPurpose]TokenKey) JWTAuthenticator {
	copied := make(map[TokenPurpose]TokenKey, len(keys))
	for purpose, key := range keys {
		copied[purpose] = key
	}

	return JWTAuthenticator{
		audience: audience,
		issuer:   issuer,
		keys:     copied,
		now:      time.Now,
	}
}

// Sign stamps the registered claims (issuer, audience, issued-at, expiry from
// the purpose's lifetime) and returns the HS256 signed token.
func (a *JWTAuthenticator) Sign(purpose TokenPurpose, claims Claims) (string, error) {
	key, err := a.key(purpose)
	if err != nil {
		return "", err
	}

	now := a.now()
	registered := claims.registered()
	registered.Issuer = a.issuer
	registered.Audience = jwt.ClaimStrings{a.audience}
	registered.IssuedAt = jwt.NewNumericDate(now)
	registered.NotBefore = jwt.NewNumericDate(now)
	registered.ExpiresAt = jwt.NewNumericDate(now.Add(key.ExpiresIn))
	claims.stamp(purpose)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(key.Secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// Verify checks the signature and structure of a token against the purpose's
// secret and decodes it into claims. Time based claims are not checked, so an
// expired but authentic token verifies.
func (a *JWTAuthenticator) Verify(purpose TokenPurpose, tokenString string, claims Claims) error {
	return a.parse(purpose, tokenString, claims, jwt.WithoutClaimsValidation())
}

// Validate is Verify plus expiry, not-before, issuer and audience checks. It
// is the check used for per-request access tokens.
func (a *JWTAuthenticator) Validate(purpose TokenPurpose, tokenString string, claims Claims) error {
	return a.parse(purpose, tokenString, claims,
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
	)
}

// Decode parses a token without verifying its signature. The result must only
// be used to locate state that the caller checks independently.
func Decode(tokenString string, claims Claims) error {
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	return nil
}

func (a *JWTAuthenticator) parse(
	purpose TokenPurpose,
	tokenString string,
	claims Claims,
	opts ...jwt.ParserOption,
) error {
	key, err := a.key(purpose)
	if err != nil {
		return err
	}

	opts = append(opts, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(key.Secret), nil
	}, opts...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return ErrInvalidToken
	}

	if claims.purpose() != purpose {
		return fmt.Errorf("%w: token purpose %q, want %q", ErrInvalidToken, claims.purpose(), purpose)
	}

	return nil
}

func (a *JWTAuthenticator) key(purpose TokenPurpose) (TokenKey, error) {
	key, ok := a.keys[purpose]
	if !ok || key.Secret == "" {
		return TokenKey{}, fmt.Errorf("%w: %s", ErrUnknownPurpose, purpose)
	}

	return key, nil
}
