package entity

import (
	"net/http"
	"time"

	"edumov/lib/validate"
)

// ChatMessage is a direct message between two users. Sender name and type
// are snapshots taken at send time.
type ChatMessage struct {
	Id         string    `json:"id" bson:"_id"`
	SenderId   string    `json:"sender_id" bson:"sender_id"`
	ReceiverId string    `json:"receiver_id" bson:"receiver_id"`
	SenderName string    `json:"sender_name" bson:"sender_name"`
	SenderType UserType  `json:"sender_type" bson:"sender_type"`
	Message    string    `json:"message" bson:"message"`
	CreatedAt  time.Time `json:"createdAt" bson:"created_at"`
}

type MessageInput struct {
	ReceiverId string `json:"receiverId" validate:"required"`
	Message    string `json:"message" validate:"required"`
}

func (mi *MessageInput) Bind(_ *http.Request) error {
	return validate.Struct(mi)
}
