package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/example/grantmatch/config"
)

var (
	// ErrInvalidToken is returned for any token that fails decoding.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned when the token's exp has passed. It wraps
	// ErrInvalidToken.
	ErrExpiredToken = fmt.Errorf("token has expired: %w", ErrInvalidToken)
	// ErrUnsupportedAlgorithm is returned by NewTokenCodec for non-HMAC algorithms.
	ErrUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

// TokenType is the "type" claim.
type TokenType string

const (
	TokenAccess    TokenType = "access"
	TokenRefresh   TokenType = "refresh"
	TokenAnonymous TokenType = "anonymous"
)

// Claims is the token payload. Registered claims exp, iat, nbf and iss are
// filled in by the codec.
type Claims struct {
	Type     TokenType `json:"type"`
	DeviceID string    `json:"device_id,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies compact JWS tokens with a server secret.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

// NewTokenCodec builds a codec from the JWT configuration. A nil clock
// means time.Now.
func NewTokenCodec(cfg config.JWTConfig, clock func() time.Time) (*TokenCodec, error) {
	var method jwt.SigningMethod
	switch cfg.Algorithm {
	case "", "HS256":
		method = jwt.SigningMethodHS256
	case "HS384":
		method = jwt.SigningMethodHS384
	case "HS512":
		method = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, cfg.Algorithm)
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("jwt secret key is empty")
	}
	if clock == nil {
		clock = time.Now
	}
	return &TokenCodec{
		secret: []byte(cfg.SecretKey),
		method: method,
		issuer: cfg.Issuer,
		now:    clock,
	}, nil
}

// Algorithm returns the signing algorithm name.
func (c *TokenCodec) Algorithm() string {
	return c.method.Alg()
}

// Encode signs claims with an expiry of ttl from the codec clock. Any
// caller-provided exp, iat, nbf or iss is overwritten.
func (c *TokenCodec) Encode(claims Claims, ttl time.Duration) (string, time.Time, error) {
	now := c.now().Truncate(time.Second)
	expiresAt := now.Add(ttl)

	claims.Issuer = c.issuer
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.NotBefore = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(expiresAt)

	token, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Decode verifies the signature, algorithm and expiry of token and returns
// its claims.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, c.key,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ExpiresAt returns the exp claim of a validly signed token without
// enforcing it. Used to size ledger entries.
func (c *TokenCodec) ExpiresAt(token string) (time.Time, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, c.key,
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, ErrInvalidToken
	}
	return claims.ExpiresAt.Time, nil
}

// newRegisteredClaims returns claims for subject with a fresh token ID, so
// two tokens minted in the same second for the same subject still differ.
func newRegisteredClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{Subject: subject, ID: uuid.NewString()}
}

func (c *TokenCodec) key(*jwt.Token) (any, error) {
	return c.secret, nil
}
