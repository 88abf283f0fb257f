// Package memdb is a mutex-guarded in-memory store. It backs the local
// environment when no database is configured and doubles as the store
// used by the service tests. Semantics, error values included, mirror the
// Mongo and MySQL stores.
package memdb

import (
	"sync"

	"edumov/entity"
)

type Store struct {
	mu        sync.RWMutex
	users     map[string]*entity.User        // by user id
	codes     map[string]*entity.TeacherCode // by teacher id, at most one each
	relations map[string]*entity.Relation    // by relation id
	questions map[string]*entity.Question    // by question id
	qOrder    []string
	comments  []*entity.Comment
	messages  []*entity.ChatMessage
}

func New() *Store {
	return &Store{
		users:     make(map[string]*entity.User),
		codes:     make(map[string]*entity.TeacherCode),
		relations: make(map[string]*entity.Relation),
		questions: make(map[string]*entity.Question),
	}
}
