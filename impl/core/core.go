package core

import (
	"fmt"
	"log/slog"
	"time"

	"edumov/entity"
	"edumov/lib/sl"
)

// Database is everything the business layer needs from a backing store.
// Mongo, MySQL and the in-memory store all satisfy it.
type Database interface {
	UserStore
	CodeStore
	RelationStore
	QuestionStore
	CommentStore
	ChatStore
}

type UserStore interface {
	// CreateUser returns entity.ErrDuplicate when the email is taken.
	CreateUser(user *entity.User) error
	GetUser(id string) (*entity.User, error)
	GetUserByEmail(email string) (*entity.User, error)
	FindUserByCPF(cpf string, userType entity.UserType) (*entity.User, error)
	FindUserByIdentity(cpf, birthDate string) (*entity.User, error)
	UpdatePassword(id, passwordHash string) error
}

type CodeStore interface {
	// UpsertCode replaces the teacher's current code so that at most one
	// outstanding code per teacher exists. Returns entity.ErrDuplicate when
	// the generated code string collides with another teacher's code.
	UpsertCode(code *entity.TeacherCode) error
	// ActiveCode returns the teacher's valid (unredeemed, unexpired) code
	// or entity.ErrNotFound.
	ActiveCode(teacherId string, now time.Time) (*entity.TeacherCode, error)
	// RedeemCode binds a valid code to the student in one conditional
	// update and returns the updated record. An expired, consumed or
	// unknown code is entity.ErrNotFound; the store must make these
	// outcomes indistinguishable.
	RedeemCode(code, studentId string, now time.Time) (*entity.TeacherCode, error)
}

type RelationStore interface {
	// CreateRelation returns entity.ErrDuplicate when the
	// (teacher, student) pair is already linked.
	CreateRelation(rel *entity.Relation) error
	GetRelation(id string) (*entity.Relation, error)
	// Listings are ordered newest-first by joined_at.
	RelationsByTeacher(teacherId string) ([]entity.Relation, error)
	RelationsByStudent(studentId string) ([]entity.Relation, error)
	DeleteRelation(id string) error
}

type QuestionStore interface {
	CreateQuestion(q *entity.Question) error
	GetQuestion(id string) (*entity.Question, error)
	// Questions filters by visibility; the zero value returns everything.
	Questions(visibility entity.Visibility) ([]entity.Question, error)
	UpdateQuestionVisibility(id string, visibility entity.Visibility) error
	DeleteQuestion(id string) error
}

type CommentStore interface {
	CreateComment(comment *entity.Comment) error
	GetComment(id string) (*entity.Comment, error)
	// CommentsByQuestion returns every comment of the question, replies
	// included, oldest first.
	CommentsByQuestion(questionId string) ([]entity.Comment, error)
}

type ChatStore interface {
	CreateMessage(msg *entity.ChatMessage) error
	// Conversation returns both directions between the two users, oldest
	// first, capped at limit.
	Conversation(userA, userB string, limit int) ([]entity.ChatMessage, error)
}

// AuthService is the identity provider boundary: token issue/verify and
// password hashing.
type AuthService interface {
	HashPassword(password string) (string, error)
	CheckPassword(hash, password string) error
	Token(userId string) (string, error)
	UserByToken(token string) (*entity.User, error)
}

type Core struct {
	db   Database
	auth AuthService
	log  *slog.Logger
}

func New(db Database, auth AuthService, log *slog.Logger) *Core {
	if db == nil {
		panic("core: database is nil")
	}
	return &Core{
		db:   db,
		auth: auth,
		log:  log.With(sl.Module("core")),
	}
}

func (c *Core) AuthenticateByToken(token string) (*entity.User, error) {
	if c.auth == nil {
		return nil, fmt.Errorf("auth service not connected")
	}
	return c.auth.UserByToken(token)
}

// requireRole is the single authorization guard in front of every
// role-gated operation.
func (c *Core) requireRole(caller *entity.User, role entity.UserType) error {
	if caller == nil || caller.Id == "" {
		return entity.ErrUnauthorized
	}
	if caller.UserType != role {
		return fmt.Errorf("%w: operation requires role %q", entity.ErrForbidden, role)
	}
	return nil
}
