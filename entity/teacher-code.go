package entity

import (
	"net/http"
	"time"

	"edumov/lib/validate"
)

// TeacherCode is a short-lived, single-use pairing code. A teacher owns at
// most one document at a time: issuing a new code overwrites the previous
// one. UsedBy is nil while the code is unredeemed; redemption sets UsedBy
// and UsedAt in a single conditional update so that two students can never
// both consume the same code.
type TeacherCode struct {
	Code      string     `json:"code" bson:"code"`
	TeacherId string     `json:"teacherId" bson:"teacher_id"`
	IssuedAt  time.Time  `json:"issuedAt" bson:"issued_at"`
	ExpiresAt time.Time  `json:"expiresAt" bson:"expires_at"`
	UsedBy    *string    `json:"usedBy,omitempty" bson:"used_by"`
	UsedAt    *time.Time `json:"usedAt,omitempty" bson:"used_at,omitempty"`
}

// Valid reports whether the code can still be redeemed at the given moment.
func (tc *TeacherCode) Valid(now time.Time) bool {
	return tc.UsedBy == nil && now.Before(tc.ExpiresAt)
}

// CodeGrant is the response to a code request.
type CodeGrant struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// LinkRequest is the body a student sends to redeem a code.
type LinkRequest struct {
	Code string `json:"code" validate:"required"`
}

func (lr *LinkRequest) Bind(_ *http.Request) error {
	return validate.Struct(lr)
}
