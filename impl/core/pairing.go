package core

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"edumov/entity"
	"edumov/lib/codegen"
	"edumov/lib/sl"
)

// codeTTL is the fixed lifetime of a pairing code.
const codeTTL = 24 * time.Hour

// issueAttempts bounds regeneration when a fresh code collides with an
// outstanding one.
const issueAttempts = 5

// RequestCode issues a fresh pairing code for the calling teacher,
// replacing any previous outstanding code.
func (c *Core) RequestCode(caller *entity.User) (*entity.CodeGrant, error) {
	if err := c.requireRole(caller, entity.RoleTeacher); err != nil {
		return nil, err
	}
	now := time.Now()
	for i := 0; i < issueAttempts; i++ {
		code, err := codegen.New(codegen.CodeLength)
		if err != nil {
			return nil, err
		}
		tc := &entity.TeacherCode{
			Code:      code,
			TeacherId: caller.Id,
			IssuedAt:  now,
			ExpiresAt: now.Add(codeTTL),
		}
		err = c.db.UpsertCode(tc)
		if errors.Is(err, entity.ErrDuplicate) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("issue code: %w", err)
		}
		c.log.Info("pairing code issued", sl.User(caller.Id), slog.Time("expires_at", tc.ExpiresAt))
		return &entity.CodeGrant{Code: code, ExpiresAt: tc.ExpiresAt}, nil
	}
	return nil, fmt.Errorf("issue code: gave up after %d collisions", issueAttempts)
}

// ActiveCode returns the caller's currently valid code, if any.
func (c *Core) ActiveCode(caller *entity.User) (*entity.TeacherCode, error) {
	if err := c.requireRole(caller, entity.RoleTeacher); err != nil {
		return nil, err
	}
	tc, err := c.db.ActiveCode(caller.Id, time.Now())
	if errors.Is(err, entity.ErrNotFound) {
		return nil, fmt.Errorf("%w: no active code", entity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get active code: %w", err)
	}
	return tc, nil
}

// LinkStudent redeems a pairing code for the calling student and creates
// the teacher-student relation. Redemption consumes the code exactly once;
// if the pair is already linked the duplicate is suppressed and the call
// still succeeds.
func (c *Core) LinkStudent(caller *entity.User, code string) error {
	if err := c.requireRole(caller, entity.RoleStudent); err != nil {
		return err
	}
	if code == "" {
		return fmt.Errorf("%w: code is required", entity.ErrInvalidInput)
	}

	tc, err := c.db.RedeemCode(code, caller.Id, time.Now())
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("%w: invalid or expired code", entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("redeem code: %w", err)
	}

	teacherName := ""
	teacher, err := c.db.GetUser(tc.TeacherId)
	if err != nil {
		c.log.Warn("code owner not found", sl.User(tc.TeacherId), sl.Err(err))
	} else {
		teacherName = teacher.FullName
	}

	rel := &entity.Relation{
		Id:          uuid.NewString(),
		TeacherId:   tc.TeacherId,
		StudentId:   caller.Id,
		TeacherName: teacherName,
		StudentName: caller.FullName,
		JoinedAt:    time.Now(),
	}
	err = c.db.CreateRelation(rel)
	if errors.Is(err, entity.ErrDuplicate) {
		c.log.Debug("pair already linked",
			slog.String("teacher", tc.TeacherId), slog.String("student", caller.Id))
		return nil
	}
	if err != nil {
		// The code is already consumed at this point. The student has no
		// self-service recovery other than asking for a fresh code, so
		// this must be loud enough to monitor.
		c.log.Error("code consumed but relation not created",
			sl.Secret("code", code),
			slog.String("teacher", tc.TeacherId),
			slog.String("student", caller.Id),
			sl.Err(err))
		return fmt.Errorf("create relation: %w", err)
	}
	c.log.Info("student linked",
		slog.String("teacher", tc.TeacherId), slog.String("student", caller.Id))
	return nil
}

// Students lists the caller's linked students joined with their profiles.
func (c *Core) Students(caller *entity.User) ([]entity.LinkedStudent, error) {
	if err := c.requireRole(caller, entity.RoleTeacher); err != nil {
		return nil, err
	}
	rels, err := c.db.RelationsByTeacher(caller.Id)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	students := make([]entity.LinkedStudent, 0, len(rels))
	for _, rel := range rels {
		student, err := c.db.GetUser(rel.StudentId)
		if err != nil {
			c.log.Warn("linked student not found", sl.User(rel.StudentId), sl.Err(err))
			continue
		}
		students = append(students, entity.LinkedStudent{
			Id:         student.Id,
			FullName:   student.FullName,
			Email:      student.Email,
			UserType:   student.UserType,
			Score:      student.Score,
			Rank:       student.Rank,
			CPF:        student.CPF,
			BirthDate:  student.BirthDate,
			RelationId: rel.Id,
			JoinedAt:   rel.JoinedAt,
		})
	}
	return students, nil
}

// Teachers lists the caller's linked teachers joined with their profiles.
func (c *Core) Teachers(caller *entity.User) ([]entity.LinkedTeacher, error) {
	if err := c.requireRole(caller, entity.RoleStudent); err != nil {
		return nil, err
	}
	rels, err := c.db.RelationsByStudent(caller.Id)
	if err != nil {
		return nil, fmt.Errorf("list relations: %w", err)
	}
	teachers := make([]entity.LinkedTeacher, 0, len(rels))
	for _, rel := range rels {
		teacher, err := c.db.GetUser(rel.TeacherId)
		if err != nil {
			c.log.Warn("linked teacher not found", sl.User(rel.TeacherId), sl.Err(err))
			continue
		}
		teachers = append(teachers, entity.LinkedTeacher{
			Id:         teacher.Id,
			FullName:   teacher.FullName,
			Email:      teacher.Email,
			UserType:   teacher.UserType,
			RelationId: rel.Id,
			JoinedAt:   rel.JoinedAt,
		})
	}
	return teachers, nil
}

// Unlink severs a relation. Either participant may do it unilaterally.
func (c *Core) Unlink(caller *entity.User, relationId string) error {
	if caller == nil || caller.Id == "" {
		return entity.ErrUnauthorized
	}
	if relationId == "" {
		return fmt.Errorf("%w: relation id is required", entity.ErrInvalidInput)
	}
	rel, err := c.db.GetRelation(relationId)
	if errors.Is(err, entity.ErrNotFound) {
		return fmt.Errorf("%w: relation not found", entity.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("get relation: %w", err)
	}
	if !rel.Participant(caller.Id) {
		return fmt.Errorf("%w: only participants can unlink", entity.ErrForbidden)
	}
	if err := c.db.DeleteRelation(relationId); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return fmt.Errorf("%w: relation not found", entity.ErrNotFound)
		}
		return fmt.Errorf("delete relation: %w", err)
	}
	c.log.Info("relation unlinked", slog.String("relation", relationId), sl.User(caller.Id))
	return nil
}
