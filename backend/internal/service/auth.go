package service

import (
	"context"
	"strings"

	"github.com/repospector/repospector/shared/domain"
	"github.com/repospector/repospector/shared/errors"
	"github.com/repospector/repospector/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Login(ctx context.Context, creds domain.Credentials) (string, error)
	CreateUser(ctx context.Context, user domain.User, password domain.Password) (domain.UserId, error)
}

type AuthStorage interface {
	SaveUser(ctx context.Context, user domain.User) (domain.UserId, error)
	User(ctx context.Context, email domain.Email) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage AuthStorage
	email   EmailValidator
	jwt     Jwt
}

// EmailValidator checks address syntax before any store access.
type EmailValidator interface {
	IsCorrect(email domain.Email) error
}

func NewAuth(storage AuthStorage, email EmailValidator, jwt Jwt) *Auth {
	return &Auth{storage: storage, email: email, jwt: jwt}
}

var errInvalidCredentials = errors.Unauthorized("Invalid credentials")

// Login returns a signed session token. Unknown users and wrong passwords
// produce the same error.
func (a *Auth) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if err := a.email.IsCorrect(email); err != nil {
		return "", err
	}

	user, err := a.storage.User(ctx, email)
	if err != nil {
		if errors.IsNotFound(err) {
			return "", errInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(creds.Password)); err != nil {
		return "", errInvalidCredentials
	}

	token, err := a.jwt.NewToken(user)
	if err != nil {
		logger.Log.Error("failed to issue session token", "user_id", user.Id, "error", err)
		return "", err
	}
	return token, nil
}

// CreateUser registers an account. Used by the create-user tool.
func (a *Auth) CreateUser(ctx context.Context, user domain.User, password domain.Password) (domain.UserId, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := a.email.IsCorrect(user.Email); err != nil {
		return domain.UserId{}, err
	}
	if err := validatePassword(password); err != nil {
		return domain.UserId{}, err
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return domain.UserId{}, err
	}
	user.PassHash = string(passHash)
	return a.storage.SaveUser(ctx, user)
}

// bcrypt ignores everything past 72 bytes
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

func validatePassword(password domain.Password) error {
	if len(password) < minPasswordLen {
		return errors.Validation("Password must be at least 8 characters")
	}
	if len(password) > maxPasswordLen {
		return errors.Validation("Password must be at most 72 bytes")
	}
	return nil
}
