package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"edumov/entity"
	"edumov/lib/sl"
)

// emailDomain backs the derived account emails; the clients log kids in
// with CPF, so the address only has to be unique, not deliverable.
const emailDomain = "edumov.app"

// Register creates an account and returns it with a fresh bearer token.
// A cpf may register once per role (one student and one teacher account).
func (c *Core) Register(reg *entity.Registration) (*entity.Session, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	existing, err := c.db.FindUserByCPF(reg.CPF, reg.UserType)
	if err != nil && !errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("check cpf: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: a %s with this CPF already exists", entity.ErrDuplicate, reg.UserType)
	}

	password := reg.Password
	if password == "" {
		password = reg.CPF
	}
	hash, err := c.auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Id:        uuid.NewString(),
		FullName:  reg.FullName,
		Email:     fmt.Sprintf("%s_%s@%s", reg.CPF, reg.UserType, emailDomain),
		Password:  hash,
		CPF:       reg.CPF,
		BirthDate: reg.BirthDate,
		UserType:  reg.UserType,
		Rank:      entity.DefaultRank,
		CreatedAt: time.Now(),
	}
	if err := c.db.CreateUser(user); err != nil {
		if errors.Is(err, entity.ErrDuplicate) {
			return nil, fmt.Errorf("%w: a %s with this CPF already exists", entity.ErrDuplicate, reg.UserType)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := c.auth.Token(user.Id)
	if err != nil {
		return nil, err
	}
	c.log.Info("user registered", sl.User(user.Id))
	return &entity.Session{User: user, Token: token}, nil
}

// Login checks credentials and returns the account with a fresh token.
// Unknown email and wrong password are deliberately the same error.
func (c *Core) Login(creds *entity.Credentials) (*entity.Session, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	user, err := c.db.GetUserByEmail(creds.Email)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: invalid credentials", entity.ErrUnauthorized)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := c.auth.CheckPassword(user.Password, creds.Password); err != nil {
		return nil, fmt.Errorf("%w: invalid credentials", entity.ErrUnauthorized)
	}
	token, err := c.auth.Token(user.Id)
	if err != nil {
		return nil, err
	}
	c.log.Info("user logged in", sl.User(user.Id))
	return &entity.Session{User: user, Token: token}, nil
}

// VerifyIdentity confirms that an account matching cpf and birth date
// exists, the first step of the password reset flow.
func (c *Core) VerifyIdentity(check *entity.IdentityCheck) error {
	_, err := c.db.FindUserByIdentity(check.CPF, check.BirthDate)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("%w: no user matches the given data", entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("verify identity: %w", err)
	}
	return nil
}

// ResetPassword rehashes and stores a new password for the account
// identified by cpf and birth date.
func (c *Core) ResetPassword(reset *entity.PasswordReset) error {
	if c.auth == nil {
		return fmt.Errorf("auth service not connected")
	}
	user, err := c.db.FindUserByIdentity(reset.CPF, reset.BirthDate)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("%w: no user matches the given data", entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	hash, err := c.auth.HashPassword(reset.NewPassword)
	if err != nil {
		return err
	}
	if err := c.db.UpdatePassword(user.Id, hash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	c.log.Info("password reset", sl.User(user.Id))
	return nil
}
