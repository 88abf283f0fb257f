package mysqldb

import (
	"database/sql"
	"fmt"
	"time"

	"edumov/entity"
)

// UpsertCode replaces the teacher's current code row. Delete-then-insert
// runs in one transaction; a collision on the global code unique key rolls
// back and reports ErrDuplicate so the caller can regenerate.
func (s *MySql) UpsertCode(code *entity.TeacherCode) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err = tx.Exec(`DELETE FROM teacher_codes WHERE teacher_id = ?`, code.TeacherId); err != nil {
		return storeErr(err)
	}
	_, err = tx.Exec(
		`INSERT INTO teacher_codes (teacher_id, code, issued_at, expires_at, used_by, used_at)
		 VALUES (?, ?, ?, ?, NULL, NULL)`,
		code.TeacherId, code.Code, code.IssuedAt, code.ExpiresAt,
	)
	if err != nil {
		return storeErr(err)
	}
	if err = tx.Commit(); err != nil {
		return storeErr(err)
	}
	return nil
}

func (s *MySql) ActiveCode(teacherId string, now time.Time) (*entity.TeacherCode, error) {
	row := s.db.QueryRow(
		`SELECT teacher_id, code, issued_at, expires_at, used_by, used_at
		   FROM teacher_codes
		  WHERE teacher_id = ? AND used_by IS NULL AND expires_at > ?`,
		teacherId, now,
	)
	return scanCode(row)
}

// RedeemCode performs the check-and-set as a single conditional UPDATE:
// the validity predicate lives in the WHERE clause, so of two concurrent
// redeemers exactly one sees an affected row.
func (s *MySql) RedeemCode(code, studentId string, now time.Time) (*entity.TeacherCode, error) {
	result, err := s.db.Exec(
		`UPDATE teacher_codes SET used_by = ?, used_at = ?
		  WHERE code = ? AND used_by IS NULL AND expires_at > ?`,
		studentId, now, code, now,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, storeErr(err)
	}
	if affected == 0 {
		return nil, entity.ErrNotFound
	}
	row := s.db.QueryRow(
		`SELECT teacher_id, code, issued_at, expires_at, used_by, used_at
		   FROM teacher_codes WHERE code = ? AND used_by = ?`,
		code, studentId,
	)
	return scanCode(row)
}

func (s *MySql) CreateRelation(rel *entity.Relation) error {
	_, err := s.db.Exec(
		`INSERT INTO teacher_students (id, teacher_id, student_id, teacher_name, student_name, joined_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rel.Id, rel.TeacherId, rel.StudentId, rel.TeacherName, rel.StudentName, rel.JoinedAt,
	)
	return storeErr(err)
}

func (s *MySql) GetRelation(id string) (*entity.Relation, error) {
	row := s.db.QueryRow(
		`SELECT id, teacher_id, student_id, teacher_name, student_name, joined_at
		   FROM teacher_students WHERE id = ?`, id)
	var rel entity.Relation
	err := row.Scan(&rel.Id, &rel.TeacherId, &rel.StudentId, &rel.TeacherName, &rel.StudentName, &rel.JoinedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	return &rel, nil
}

func (s *MySql) RelationsByTeacher(teacherId string) ([]entity.Relation, error) {
	return s.relations(`teacher_id`, teacherId)
}

func (s *MySql) RelationsByStudent(studentId string) ([]entity.Relation, error) {
	return s.relations(`student_id`, studentId)
}

func (s *MySql) relations(column, id string) ([]entity.Relation, error) {
	query := fmt.Sprintf(
		`SELECT id, teacher_id, student_id, teacher_name, student_name, joined_at
		   FROM teacher_students WHERE %s = ? ORDER BY joined_at DESC`, column)
	rows, err := s.db.Query(query, id)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var rels []entity.Relation
	for rows.Next() {
		var rel entity.Relation
		if err = rows.Scan(&rel.Id, &rel.TeacherId, &rel.StudentId,
			&rel.TeacherName, &rel.StudentName, &rel.JoinedAt); err != nil {
			return nil, storeErr(err)
		}
		rels = append(rels, rel)
	}
	return rels, storeErr(rows.Err())
}

func (s *MySql) DeleteRelation(id string) error {
	result, err := s.db.Exec(`DELETE FROM teacher_students WHERE id = ?`, id)
	if err != nil {
		return storeErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func scanCode(row *sql.Row) (*entity.TeacherCode, error) {
	var tc entity.TeacherCode
	var usedBy sql.NullString
	var usedAt sql.NullTime
	err := row.Scan(&tc.TeacherId, &tc.Code, &tc.IssuedAt, &tc.ExpiresAt, &usedBy, &usedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	if usedBy.Valid {
		tc.UsedBy = &usedBy.String
	}
	if usedAt.Valid {
		tc.UsedAt = &usedAt.Time
	}
	return &tc, nil
}
