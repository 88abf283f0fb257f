package entity

import (
	"net/http"
	"strings"
	"time"

	"edumov/lib/validate"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "public"
	VisibilityPrivate Visibility = "private"
)

// Feedback is shown to a student after answering a question.
type Feedback struct {
	Title        string `json:"title" bson:"title" validate:"required"`
	Text         string `json:"text" bson:"text" validate:"required"`
	Illustration string `json:"illustration,omitempty" bson:"illustration,omitempty" validate:"omitempty"`
}

// Question is a quiz entry in the question bank. Private questions are
// visible to teachers only.
type Question struct {
	Id            string     `json:"id" bson:"_id"`
	Theme         string     `json:"theme" bson:"theme"`
	Text          string     `json:"question" bson:"question_text"`
	Options       []string   `json:"options" bson:"options"`
	CorrectOption int        `json:"correctOptionIndex" bson:"correct_option_index"`
	Feedback      Feedback   `json:"feedback" bson:"feedback"`
	CreatedBy     string     `json:"createdBy" bson:"created_by"`
	Visibility    Visibility `json:"visibility" bson:"visibility"`
	CreatedAt     time.Time  `json:"createdAt" bson:"created_at"`
}

type QuestionInput struct {
	Theme         string     `json:"theme" validate:"required"`
	Text          string     `json:"question" validate:"required"`
	Options       []string   `json:"options" validate:"required,min=2,dive,required"`
	CorrectOption int        `json:"correctOptionIndex" validate:"gte=0"`
	Feedback      Feedback   `json:"feedback" validate:"required"`
	Visibility    Visibility `json:"visibility" validate:"omitempty,oneof=public private"`
}

func (qi *QuestionInput) Bind(_ *http.Request) error {
	if err := validate.Struct(qi); err != nil {
		return err
	}
	qi.Theme = strings.ToLower(strings.TrimSpace(qi.Theme))
	if qi.Visibility == "" {
		qi.Visibility = VisibilityPublic
	}
	return nil
}

type VisibilityUpdate struct {
	Visibility Visibility `json:"visibility" validate:"required,oneof=public private"`
}

func (vu *VisibilityUpdate) Bind(_ *http.Request) error {
	return validate.Struct(vu)
}
