package auth

import (
	"errors"
	"testing"
	"time"

	"edumov/entity"
)

type fakeDb map[string]*entity.User

func (f fakeDb) GetUser(id string) (*entity.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, entity.ErrNotFound
}

func TestNewRequiresSecret(t *testing.T) {
	if _, err := New(fakeDb{}, "", time.Hour); err == nil {
		t.Error("empty secret accepted")
	}
}

func TestPasswordHashing(t *testing.T) {
	a, err := New(fakeDb{}, "secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	hash, err := a.HashPassword("s3nh4")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3nh4" {
		t.Fatal("password stored in plain text")
	}
	if err := a.CheckPassword(hash, "s3nh4"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := a.CheckPassword(hash, "wrong"); !errors.Is(err, entity.ErrUnauthorized) {
		t.Errorf("wrong password: got %v, want ErrUnauthorized", err)
	}
}

func TestTokenRoundTrip(t *testing.T) {
	db := fakeDb{"u1": {Id: "u1", FullName: "Ana", UserType: entity.RoleStudent}}
	a, err := New(db, "secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := a.Token("u1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	user, err := a.UserByToken(token)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if user.Id != "u1" {
		t.Errorf("resolved %q, want u1", user.Id)
	}
}

func TestTokenRejections(t *testing.T) {
	db := fakeDb{"u1": {Id: "u1"}}
	a, err := New(db, "secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := a.UserByToken("garbage"); !errors.Is(err, entity.ErrUnauthorized) {
		t.Errorf("garbage token: got %v, want ErrUnauthorized", err)
	}

	// signed with a different secret
	other, err := New(db, "other-secret", time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	forged, err := other.Token("u1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, err := a.UserByToken(forged); !errors.Is(err, entity.ErrUnauthorized) {
		t.Errorf("wrong signature: got %v, want ErrUnauthorized", err)
	}

	// valid signature, subject no longer exists
	gone, err := a.Token("deleted")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if _, err := a.UserByToken(gone); !errors.Is(err, entity.ErrUnauthorized) {
		t.Errorf("unknown subject: got %v, want ErrUnauthorized", err)
	}
}

func TestExpiredToken(t *testing.T) {
	db := fakeDb{"u1": {Id: "u1"}}
	a, err := New(db, "secret", time.Millisecond)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	token, err := a.Token("u1")
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	time.Sleep(5 * time.Millisecond)

	if _, err := a.UserByToken(token); !errors.Is(err, entity.ErrUnauthorized) {
		t.Errorf("expired token: got %v, want ErrUnauthorized", err)
	}
}
