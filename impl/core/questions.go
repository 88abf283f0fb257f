package core

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"edumov/entity"
)

// AddQuestion stores a new quiz question authored by the calling teacher.
func (c *Core) AddQuestion(caller *entity.User, in *entity.QuestionInput) (*entity.Question, error) {
	if err := c.requireRole(caller, entity.RoleTeacher); err != nil {
		return nil, err
	}
	if in.CorrectOption >= len(in.Options) {
		return nil, fmt.Errorf("%w: correctOptionIndex out of range", entity.ErrInvalidInput)
	}
	q := &entity.Question{
		Id:            uuid.NewString(),
		Theme:         in.Theme,
		Text:          in.Text,
		Options:       in.Options,
		CorrectOption: in.CorrectOption,
		Feedback:      in.Feedback,
		CreatedBy:     caller.Id,
		Visibility:    in.Visibility,
		CreatedAt:     time.Now(),
	}
	if err := c.db.CreateQuestion(q); err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	c.log.Info("question added", slog.String("question", q.Id), slog.String("theme", q.Theme))
	return q, nil
}

// Questions returns the bank as visible to the caller: teachers see
// everything, students only public entries.
func (c *Core) Questions(caller *entity.User) ([]entity.Question, error) {
	if caller == nil || caller.Id == "" {
		return nil, entity.ErrUnauthorized
	}
	visibility := entity.VisibilityPublic
	if caller.IsTeacher() {
		visibility = ""
	}
	questions, err := c.db.Questions(visibility)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	return questions, nil
}

// DeleteQuestion removes a question from the bank.
func (c *Core) DeleteQuestion(caller *entity.User, questionId string) error {
	if err := c.requireRole(caller, entity.RoleTeacher); err != nil {
		return err
	}
	if questionId == "" {
		return fmt.Errorf("%w: question id is required", entity.ErrInvalidInput)
	}
	if err := c.db.DeleteQuestion(questionId); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return fmt.Errorf("%w: question not found", entity.ErrNotFound)
		}
		return fmt.Errorf("delete question: %w", err)
	}
	c.log.Info("question deleted", slog.String("question", questionId))
	return nil
}

// SetQuestionVisibility flips a question between public and private.
func (c *Core) SetQuestionVisibility(caller *entity.User, questionId string, visibility entity.Visibility) error {
	if err := c.requireRole(caller, entity.RoleTeacher); err != nil {
		return err
	}
	if questionId == "" {
		return fmt.Errorf("%w: question id is required", entity.ErrInvalidInput)
	}
	if visibility != entity.VisibilityPublic && visibility != entity.VisibilityPrivate {
		return fmt.Errorf("%w: visibility must be public or private", entity.ErrInvalidInput)
	}
	if err := c.db.UpdateQuestionVisibility(questionId, visibility); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return fmt.Errorf("%w: question not found", entity.ErrNotFound)
		}
		return fmt.Errorf("update visibility: %w", err)
	}
	c.log.Info("question visibility changed",
		slog.String("question", questionId), slog.String("visibility", string(visibility)))
	return nil
}
