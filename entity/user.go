package entity

import (
	"net/http"
	"time"

	"edumov/lib/validate"
)

// UserType controls what a user may do on the platform.
// The role is fixed at registration and never changes afterwards.
type UserType string

const (
	RoleStudent UserType = "aluno"
	RoleTeacher UserType = "professor"
)

const DefaultRank = "Iniciante"

// User is a platform account. Password holds the bcrypt hash and never
// leaves the server.
type User struct {
	Id        string    `json:"id" bson:"_id"`
	FullName  string    `json:"nomeCompleto" bson:"full_name"`
	Email     string    `json:"email" bson:"email"`
	Password  string    `json:"-" bson:"password"`
	CPF       string    `json:"cpf" bson:"cpf"`
	BirthDate string    `json:"dataNascimento" bson:"birth_date"`
	UserType  UserType  `json:"userType" bson:"user_type"`
	Score     int       `json:"score" bson:"score"`
	Rank      string    `json:"rank" bson:"rank"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

func (u *User) IsTeacher() bool {
	return u.UserType == RoleTeacher
}

func (u *User) IsStudent() bool {
	return u.UserType == RoleStudent
}

// Registration is the sign-up request body. Password is optional; when
// absent the CPF is used as the initial password, as the mobile clients
// expect for child accounts.
type Registration struct {
	FullName  string   `json:"nomeCompleto" validate:"required"`
	CPF       string   `json:"cpf" validate:"required"`
	UserType  UserType `json:"userType" validate:"required,oneof=aluno professor"`
	BirthDate string   `json:"dataNascimento" validate:"required"`
	Password  string   `json:"password" validate:"omitempty,min=4"`
}

func (reg *Registration) Bind(_ *http.Request) error {
	return validate.Struct(reg)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Bind(_ *http.Request) error {
	return validate.Struct(c)
}

// IdentityCheck verifies account ownership for the password reset flow.
type IdentityCheck struct {
	CPF       string `json:"cpf" validate:"required"`
	BirthDate string `json:"dataNascimento" validate:"required"`
}

func (ic *IdentityCheck) Bind(_ *http.Request) error {
	return validate.Struct(ic)
}

type PasswordReset struct {
	CPF         string `json:"cpf" validate:"required"`
	BirthDate   string `json:"dataNascimento" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=4"`
}

func (pr *PasswordReset) Bind(_ *http.Request) error {
	return validate.Struct(pr)
}

// Session is the register/login response: the account plus its bearer token.
type Session struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
