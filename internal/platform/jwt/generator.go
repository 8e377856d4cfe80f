package jwtmw

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"booking_backend/internal/feature/auth/domain/entity"
)

// ErrTokenInvalid is returned for every verification failure.
// Malformed, forged, expired and wrong-issuer tokens all share it.
var ErrTokenInvalid = errors.New("invalid token")

// Config holds everything the issuer needs. It is built once at startup and
// passed in explicitly so tests can use their own secret.
type Config struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// Identity is the authenticated principal carried by a token.
type Identity struct {
	UserID uint
	Email  string
	Role   entity.Role
}

// Claims is the JWT payload.
type Claims struct {
	UserID uint        `json:"id"`
	Email  string      `json:"email"`
	Role   entity.Role `json:"role"`
	jwt.RegisteredClaims
}

// Issuer mints and verifies HS256 session tokens.
type Issuer struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewIssuer creates an Issuer from cfg. An empty secret is rejected.
func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if cfg.Expiration <= 0 {
		return nil, fmt.Errorf("jwt expiration must be positive, got %s", cfg.Expiration)
	}
	return &Issuer{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}, nil
}

// Issue creates a signed token for the given user.
func (i *Issuer) Issue(userID uint, email string, role entity.Role) (string, error) {
	now := i.now()
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(userID), 10),
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses tokenStr and returns the identity it carries.
// Any failure yields ErrTokenInvalid.
func (i *Issuer) Verify(tokenStr string) (Identity, error) {
	opts := []jwt.ParserOption{
		// Only HMAC-SHA256 is accepted; this also rejects "none".
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	}
	if i.issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.issuer))
	}

	var claims Claims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (any, error) {
		return i.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Identity{}, ErrTokenInvalid
	}
	if claims.UserID == 0 || !claims.Role.Valid() {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{UserID: claims.UserID, Email: claims.Email, Role: claims.Role}, nil
}
