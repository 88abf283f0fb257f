package entity

import (
	"net/http"
	"time"

	"edumov/lib/validate"
)

// Comment is a message on a question thread. Top-level comments carry an
// empty ParentId; replies point at their parent. Author and question data
// are denormalized at write time so threads survive later edits.
type Comment struct {
	Id            string    `json:"id" bson:"_id"`
	QuestionId    string    `json:"question_id" bson:"question_id"`
	UserId        string    `json:"user_id" bson:"user_id"`
	UserName      string    `json:"user_name" bson:"user_name"`
	UserType      UserType  `json:"user_type" bson:"user_type"`
	Message       string    `json:"message" bson:"message"`
	ParentId      string    `json:"parent_comment_id,omitempty" bson:"parent_id,omitempty"`
	QuestionTheme string    `json:"question_theme" bson:"question_theme"`
	QuestionText  string    `json:"question_text" bson:"question_text"`
	CreatedAt     time.Time `json:"createdAt" bson:"created_at"`
	Responses     []Comment `json:"responses,omitempty" bson:"-"`
}

type CommentInput struct {
	QuestionId string `json:"questionId" validate:"required"`
	Message    string `json:"message" validate:"required"`
}

func (ci *CommentInput) Bind(_ *http.Request) error {
	return validate.Struct(ci)
}

type ReplyInput struct {
	ParentCommentId string `json:"parentCommentId" validate:"required"`
	Message         string `json:"message" validate:"required"`
}

func (ri *ReplyInput) Bind(_ *http.Request) error {
	return validate.Struct(ri)
}
