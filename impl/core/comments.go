package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"edumov/entity"
)

// AddComment posts a top-level comment on a question.
func (c *Core) AddComment(caller *entity.User, in *entity.CommentInput) (*entity.Comment, error) {
	if caller == nil || caller.Id == "" {
		return nil, entity.ErrUnauthorized
	}
	q, err := c.db.GetQuestion(in.QuestionId)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: question not found", entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get question: %w", err)
	}
	comment := &entity.Comment{
		Id:            uuid.NewString(),
		QuestionId:    q.Id,
		UserId:        caller.Id,
		UserName:      caller.FullName,
		UserType:      caller.UserType,
		Message:       in.Message,
		QuestionTheme: q.Theme,
		QuestionText:  q.Text,
		CreatedAt:     time.Now(),
	}
	if err := c.db.CreateComment(comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return comment, nil
}

// AddReply posts a reply under an existing comment, inheriting the
// parent's question context.
func (c *Core) AddReply(caller *entity.User, in *entity.ReplyInput) (*entity.Comment, error) {
	if caller == nil || caller.Id == "" {
		return nil, entity.ErrUnauthorized
	}
	parent, err := c.db.GetComment(in.ParentCommentId)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: parent comment not found", entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	reply := &entity.Comment{
		Id:            uuid.NewString(),
		QuestionId:    parent.QuestionId,
		UserId:        caller.Id,
		UserName:      caller.FullName,
		UserType:      caller.UserType,
		Message:       in.Message,
		ParentId:      parent.Id,
		QuestionTheme: parent.QuestionTheme,
		QuestionText:  parent.QuestionText,
		CreatedAt:     time.Now(),
	}
	if err := c.db.CreateComment(reply); err != nil {
		return nil, fmt.Errorf("create reply: %w", err)
	}
	return reply, nil
}

// QuestionThread returns the top-level comments of a question, oldest
// first, each with its replies attached in posting order.
func (c *Core) QuestionThread(questionId string) ([]entity.Comment, error) {
	if questionId == "" {
		return nil, fmt.Errorf("%w: question id is required", entity.ErrInvalidInput)
	}
	all, err := c.db.CommentsByQuestion(questionId)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}

	replies := make(map[string][]entity.Comment)
	for _, comment := range all {
		if comment.ParentId != "" {
			replies[comment.ParentId] = append(replies[comment.ParentId], comment)
		}
	}
	thread := make([]entity.Comment, 0, len(all))
	for _, comment := range all {
		if comment.ParentId != "" {
			continue
		}
		comment.Responses = replies[comment.Id]
		thread = append(thread, comment)
	}
	return thread, nil
}
