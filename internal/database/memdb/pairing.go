package memdb

import (
	"sort"
	"time"

	"edumov/entity"
)

func (s *Store) UpsertCode(code *entity.TeacherCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Same uniqueness the Mongo index enforces: no two teachers may hold
	// the same code string at once.
	for teacherId, tc := range s.codes {
		if teacherId != code.TeacherId && tc.Code == code.Code {
			return entity.ErrDuplicate
		}
	}
	cp := *code
	s.codes[code.TeacherId] = &cp
	return nil
}

func (s *Store) ActiveCode(teacherId string, now time.Time) (*entity.TeacherCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tc, ok := s.codes[teacherId]
	if !ok || !tc.Valid(now) {
		return nil, entity.ErrNotFound
	}
	cp := *tc
	return &cp, nil
}

// RedeemCode is the check-and-set: validity test and consumption happen
// under one lock, so concurrent redeemers see exactly one success.
func (s *Store) RedeemCode(code, studentId string, now time.Time) (*entity.TeacherCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tc := range s.codes {
		if tc.Code != code || !tc.Valid(now) {
			continue
		}
		usedAt := now
		tc.UsedBy = &studentId
		tc.UsedAt = &usedAt
		cp := *tc
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (s *Store) CreateRelation(rel *entity.Relation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.relations {
		if r.TeacherId == rel.TeacherId && r.StudentId == rel.StudentId {
			return entity.ErrDuplicate
		}
	}
	cp := *rel
	s.relations[rel.Id] = &cp
	return nil
}

func (s *Store) GetRelation(id string) (*entity.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.relations[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (s *Store) RelationsByTeacher(teacherId string) ([]entity.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rels []entity.Relation
	for _, r := range s.relations {
		if r.TeacherId == teacherId {
			rels = append(rels, *r)
		}
	}
	sortNewestFirst(rels)
	return rels, nil
}

func (s *Store) RelationsByStudent(studentId string) ([]entity.Relation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var rels []entity.Relation
	for _, r := range s.relations {
		if r.StudentId == studentId {
			rels = append(rels, *r)
		}
	}
	sortNewestFirst(rels)
	return rels, nil
}

func (s *Store) DeleteRelation(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.relations[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.relations, id)
	return nil
}

func sortNewestFirst(rels []entity.Relation) {
	sort.SliceStable(rels, func(i, j int) bool {
		return rels[i].JoinedAt.After(rels[j].JoinedAt)
	})
}
