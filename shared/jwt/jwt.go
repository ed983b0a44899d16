package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/repospector/repospector/shared/domain"
)

// ErrUnauthenticated covers every verification failure: missing, malformed,
// badly signed or expired tokens all look the same to callers.
var ErrUnauthenticated = errors.New("authentication required")

type JwtService interface {
	NewToken(user domain.User) (string, error)
	Verify(tokenString string) (Identity, error)
	TTL() time.Duration
}

// Identity is what a verified session credential asserts.
type Identity struct {
	UserId domain.UserId
	Admin  bool
}

type claims struct {
	UserId string `json:"userId"`
	Admin  bool   `json:"admin,omitempty"`
	jwt.RegisteredClaims
}

type Jwt struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func New(secretKey string, ttl time.Duration) *Jwt {
	return &Jwt{secretKey: []byte(secretKey), ttl: ttl, now: time.Now}
}

func (j *Jwt) TTL() time.Duration {
	return j.ttl
}

func (j *Jwt) NewToken(user domain.User) (string, error) {
	now := j.now()
	c := claims{
		UserId: user.Id.String(),
		Admin:  user.Admin,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(j.secretKey)
	if err != nil {
		return "", fmt.Errorf("can't sign token: %w", err)
	}
	return signed, nil
}

func (j *Jwt) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrUnauthenticated
	}

	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c,
		func(*jwt.Token) (any, error) { return j.secretKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil || !token.Valid {
		return Identity{}, ErrUnauthenticated
	}

	uid, err := uuid.Parse(c.UserId)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{UserId: uid, Admin: c.Admin}, nil
}
