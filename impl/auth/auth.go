package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"edumov/entity"
)

// Database is the slice of the user store the identity provider needs.
type Database interface {
	GetUser(id string) (*entity.User, error)
}

// Auth resolves bearer tokens to accounts and owns password hashing.
// Tokens are HS256 JWTs whose subject is the user id.
type Auth struct {
	db       Database
	secret   []byte
	tokenTTL time.Duration
}

func New(db Database, secret string, tokenTTL time.Duration) (*Auth, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth: empty signing secret")
	}
	if tokenTTL <= 0 {
		tokenTTL = 7 * 24 * time.Hour
	}
	return &Auth{
		db:       db,
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}, nil
}

func (a *Auth) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func (a *Auth) CheckPassword(hash, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return entity.ErrUnauthorized
	}
	return nil
}

// Token issues a signed bearer token for the given user id.
func (a *Auth) Token(userId string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userId,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// UserByToken verifies a bearer token and loads the account it names.
// Any verification failure collapses to ErrUnauthorized; the middleware
// does not leak why a token was rejected.
func (a *Auth) UserByToken(token string) (*entity.User, error) {
	if a.db == nil {
		return nil, fmt.Errorf("database not connected")
	}
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}))
	parsed, err := parser.ParseWithClaims(token, claims, func(_ *jwt.Token) (interface{}, error) {
		return a.secret, nil
	})
	if err != nil || !parsed.Valid || claims.Subject == "" {
		return nil, entity.ErrUnauthorized
	}
	user, err := a.db.GetUser(claims.Subject)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, entity.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
