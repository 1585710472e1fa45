package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// ClaimsVersion is the layout version written into every token this package signs.
const ClaimsVersion = 1

// Claims is implemented by the fixed claim layouts below.
type Claims interface {
	jwt.Claims
	registered() *jwt.RegisteredClaims
	stamp(purpose TokenPurpose)
	purpose() TokenPurpose
}

type header struct {
	Version int          `json:"ver"`
	Purpose TokenPurpose `json:"pur"`
}

// AccessClaims asserts an account identity and its roles to peer services.
type AccessClaims struct {
	header
	AccountID string   `json:"account_id"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims is carried by refresh tokens. ID (jti) is random so that two
// tokens issued in the same second to the same account never collide.
type RefreshClaims struct {
	header
	AccountID string   `json:"account_id"`
	Roles     []string `json:"roles"`
	jwt.RegisteredClaims
}

// VerificationClaims proves control of an account's email address.
type VerificationClaims struct {
	header
	AccountID string `json:"account_id"`
	jwt.RegisteredClaims
}

func (c *AccessClaims) registered() *jwt.RegisteredClaims       { return &c.RegisteredClaims }
func (c *RefreshClaims) registered() *jwt.RegisteredClaims      { return &c.RegisteredClaims }
func (c *VerificationClaims) registered() *jwt.RegisteredClaims { return &c.RegisteredClaims }

func (h *header) stamp(purpose TokenPurpose) {
	h.Version = ClaimsVersion
	h.Purpose = purpose
}

func (h *header) purpose() TokenPurpose { return h.Purpose }
