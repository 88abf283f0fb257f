package core

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"edumov/entity"
)

// conversationLimit caps how many messages one fetch returns.
const conversationLimit = 100

// SendMessage stores a direct message from the caller to another user.
func (c *Core) SendMessage(caller *entity.User, in *entity.MessageInput) (*entity.ChatMessage, error) {
	if caller == nil || caller.Id == "" {
		return nil, entity.ErrUnauthorized
	}
	if _, err := c.db.GetUser(in.ReceiverId); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("%w: receiver not found", entity.ErrNotFound)
		}
		return nil, fmt.Errorf("get receiver: %w", err)
	}
	msg := &entity.ChatMessage{
		Id:         uuid.NewString(),
		SenderId:   caller.Id,
		ReceiverId: in.ReceiverId,
		SenderName: caller.FullName,
		SenderType: caller.UserType,
		Message:    in.Message,
		CreatedAt:  time.Now(),
	}
	if err := c.db.CreateMessage(msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// Conversation returns the message history between the caller and another
// user, oldest first.
func (c *Core) Conversation(caller *entity.User, otherUserId string) ([]entity.ChatMessage, error) {
	if caller == nil || caller.Id == "" {
		return nil, entity.ErrUnauthorized
	}
	if otherUserId == "" {
		return nil, fmt.Errorf("%w: other user id is required", entity.ErrInvalidInput)
	}
	messages, err := c.db.Conversation(caller.Id, otherUserId, conversationLimit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}
