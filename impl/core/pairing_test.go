package core

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"edumov/entity"
	"edumov/internal/database/memdb"
)

func newTestCore(t *testing.T) (*Core, *memdb.Store) {
	t.Helper()
	db := memdb.New()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(db, nil, log), db
}

func seedUser(t *testing.T, db *memdb.Store, id, name string, role entity.UserType) *entity.User {
	t.Helper()
	user := &entity.User{
		Id:        id,
		FullName:  name,
		Email:     id + "@example.com",
		CPF:       "cpf-" + id,
		UserType:  role,
		Rank:      entity.DefaultRank,
		CreatedAt: time.Now(),
	}
	if err := db.CreateUser(user); err != nil {
		t.Fatalf("seed user %s: %v", id, err)
	}
	return user
}

func TestRequestCodeRoleGate(t *testing.T) {
	c, db := newTestCore(t)
	student := seedUser(t, db, "s1", "Ana", entity.RoleStudent)

	if _, err := c.RequestCode(student); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("student request: got %v, want ErrForbidden", err)
	}
	if _, err := c.RequestCode(nil); !errors.Is(err, entity.ErrUnauthorized) {
		t.Errorf("nil caller: got %v, want ErrUnauthorized", err)
	}
}

func TestRequestCodeReplacesPrevious(t *testing.T) {
	c, db := newTestCore(t)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)
	student := seedUser(t, db, "s1", "Ana", entity.RoleStudent)

	first, err := c.RequestCode(teacher)
	if err != nil {
		t.Fatalf("first code: %v", err)
	}
	second, err := c.RequestCode(teacher)
	if err != nil {
		t.Fatalf("second code: %v", err)
	}
	if first.Code == second.Code {
		t.Fatalf("reissue returned the same code %q", first.Code)
	}

	if err := c.LinkStudent(student, first.Code); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("old code redemption: got %v, want ErrNotFound", err)
	}
	if err := c.LinkStudent(student, second.Code); err != nil {
		t.Errorf("current code redemption: %v", err)
	}
}

func TestActiveCode(t *testing.T) {
	c, db := newTestCore(t)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)

	if _, err := c.ActiveCode(teacher); !errors.Is(err, entity.ErrNotFound) {
		t.Fatalf("no code yet: got %v, want ErrNotFound", err)
	}

	grant, err := c.RequestCode(teacher)
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	active, err := c.ActiveCode(teacher)
	if err != nil {
		t.Fatalf("active code: %v", err)
	}
	if active.Code != grant.Code {
		t.Errorf("active code = %q, want %q", active.Code, grant.Code)
	}
	if len(active.Code) != 6 {
		t.Errorf("code length = %d, want 6", len(active.Code))
	}
}

func TestLinkStudentRequiresCode(t *testing.T) {
	c, db := newTestCore(t)
	student := seedUser(t, db, "s1", "Ana", entity.RoleStudent)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)

	if err := c.LinkStudent(student, ""); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("empty code: got %v, want ErrInvalidInput", err)
	}
	if err := c.LinkStudent(teacher, "ABC123"); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("teacher caller: got %v, want ErrForbidden", err)
	}
	if err := c.LinkStudent(student, "NOSUCH"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("unknown code: got %v, want ErrNotFound", err)
	}
}

func TestLinkStudentExpiredCode(t *testing.T) {
	c, db := newTestCore(t)
	seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)
	student := seedUser(t, db, "s1", "Ana", entity.RoleStudent)

	stale := &entity.TeacherCode{
		Code:      "OLD001",
		TeacherId: "t1",
		IssuedAt:  time.Now().Add(-48 * time.Hour),
		ExpiresAt: time.Now().Add(-24 * time.Hour),
	}
	if err := db.UpsertCode(stale); err != nil {
		t.Fatalf("seed code: %v", err)
	}

	if err := c.LinkStudent(student, "OLD001"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expired code: got %v, want ErrNotFound", err)
	}
}

func TestLinkStudentConsumesCodeOnce(t *testing.T) {
	c, db := newTestCore(t)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)
	first := seedUser(t, db, "s1", "Ana", entity.RoleStudent)
	second := seedUser(t, db, "s2", "Bia", entity.RoleStudent)

	grant, err := c.RequestCode(teacher)
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	if err := c.LinkStudent(first, grant.Code); err != nil {
		t.Fatalf("first redemption: %v", err)
	}
	if err := c.LinkStudent(second, grant.Code); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("second redemption: got %v, want ErrNotFound", err)
	}

	students, err := c.Students(teacher)
	if err != nil {
		t.Fatalf("students: %v", err)
	}
	if len(students) != 1 || students[0].Id != first.Id {
		t.Errorf("students = %+v, want exactly %s", students, first.Id)
	}
}

func TestLinkStudentDuplicatePairSucceeds(t *testing.T) {
	c, db := newTestCore(t)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)
	student := seedUser(t, db, "s1", "Ana", entity.RoleStudent)

	grant, err := c.RequestCode(teacher)
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	if err := c.LinkStudent(student, grant.Code); err != nil {
		t.Fatalf("first link: %v", err)
	}

	// A fresh code redeemed by an already linked student must not fail or
	// create a second relation.
	grant, err = c.RequestCode(teacher)
	if err != nil {
		t.Fatalf("second code: %v", err)
	}
	if err := c.LinkStudent(student, grant.Code); err != nil {
		t.Fatalf("repeat link: %v", err)
	}

	students, err := c.Students(teacher)
	if err != nil {
		t.Fatalf("students: %v", err)
	}
	if len(students) != 1 {
		t.Errorf("got %d relations, want 1", len(students))
	}
}

func TestConcurrentRedemption(t *testing.T) {
	c, db := newTestCore(t)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)

	const redeemers = 20
	students := make([]*entity.User, redeemers)
	for i := range students {
		students[i] = seedUser(t, db, fmt.Sprintf("s%d", i), fmt.Sprintf("Student %d", i), entity.RoleStudent)
	}

	grant, err := c.RequestCode(teacher)
	if err != nil {
		t.Fatalf("request code: %v", err)
	}

	var wg sync.WaitGroup
	results := make(chan error, redeemers)
	for _, student := range students {
		wg.Add(1)
		go func(s *entity.User) {
			defer wg.Done()
			results <- c.LinkStudent(s, grant.Code)
		}(student)
	}
	wg.Wait()
	close(results)

	succeeded := 0
	for err := range results {
		if err == nil {
			succeeded++
		} else if !errors.Is(err, entity.ErrNotFound) {
			t.Errorf("unexpected redemption error: %v", err)
		}
	}
	if succeeded != 1 {
		t.Errorf("%d redemptions succeeded, want exactly 1", succeeded)
	}
}

func TestStudentsAndTeachersListings(t *testing.T) {
	c, db := newTestCore(t)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)
	older := seedUser(t, db, "s1", "Ana", entity.RoleStudent)
	newer := seedUser(t, db, "s2", "Bia", entity.RoleStudent)

	now := time.Now()
	relations := []entity.Relation{
		{Id: "r1", TeacherId: teacher.Id, StudentId: older.Id, JoinedAt: now.Add(-time.Hour)},
		{Id: "r2", TeacherId: teacher.Id, StudentId: newer.Id, JoinedAt: now},
	}
	for i := range relations {
		if err := db.CreateRelation(&relations[i]); err != nil {
			t.Fatalf("seed relation: %v", err)
		}
	}

	students, err := c.Students(teacher)
	if err != nil {
		t.Fatalf("students: %v", err)
	}
	if len(students) != 2 {
		t.Fatalf("got %d students, want 2", len(students))
	}
	if students[0].Id != newer.Id || students[1].Id != older.Id {
		t.Errorf("students not newest-first: %s, %s", students[0].Id, students[1].Id)
	}
	if students[0].Rank != entity.DefaultRank {
		t.Errorf("student rank = %q, want %q", students[0].Rank, entity.DefaultRank)
	}

	teachers, err := c.Teachers(older)
	if err != nil {
		t.Fatalf("teachers: %v", err)
	}
	if len(teachers) != 1 || teachers[0].Id != teacher.Id {
		t.Errorf("teachers = %+v, want exactly %s", teachers, teacher.Id)
	}
	if teachers[0].RelationId != "r1" {
		t.Errorf("relation id = %q, want r1", teachers[0].RelationId)
	}

	if _, err := c.Students(older); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("student listing students: got %v, want ErrForbidden", err)
	}
	if _, err := c.Teachers(teacher); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("teacher listing teachers: got %v, want ErrForbidden", err)
	}
}

func TestUnlink(t *testing.T) {
	c, db := newTestCore(t)
	teacher := seedUser(t, db, "t1", "Marcos", entity.RoleTeacher)
	student := seedUser(t, db, "s1", "Ana", entity.RoleStudent)
	outsider := seedUser(t, db, "s2", "Bia", entity.RoleStudent)

	rel := &entity.Relation{Id: "r1", TeacherId: teacher.Id, StudentId: student.Id, JoinedAt: time.Now()}
	if err := db.CreateRelation(rel); err != nil {
		t.Fatalf("seed relation: %v", err)
	}

	if err := c.Unlink(outsider, "r1"); !errors.Is(err, entity.ErrForbidden) {
		t.Errorf("outsider unlink: got %v, want ErrForbidden", err)
	}
	if err := c.Unlink(student, ""); !errors.Is(err, entity.ErrInvalidInput) {
		t.Errorf("empty relation id: got %v, want ErrInvalidInput", err)
	}
	if err := c.Unlink(student, "r1"); err != nil {
		t.Fatalf("participant unlink: %v", err)
	}
	if err := c.Unlink(student, "r1"); !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("repeat unlink: got %v, want ErrNotFound", err)
	}

	students, err := c.Students(teacher)
	if err != nil {
		t.Fatalf("students: %v", err)
	}
	if len(students) != 0 {
		t.Errorf("got %d students after unlink, want 0", len(students))
	}
}
