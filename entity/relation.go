package entity

import "time"

// Relation is a confirmed teacher-student link. The display names are
// snapshots taken at redemption time and are not kept in sync with later
// profile changes.
type Relation struct {
	Id          string    `json:"relationId" bson:"_id"`
	TeacherId   string    `json:"teacher_id" bson:"teacher_id"`
	StudentId   string    `json:"student_id" bson:"student_id"`
	TeacherName string    `json:"teacher_name" bson:"teacher_name"`
	StudentName string    `json:"student_name" bson:"student_name"`
	JoinedAt    time.Time `json:"joined_at" bson:"joined_at"`
}

// Participant reports whether the given user is one of the two sides of
// the relation. Only participants may sever it.
func (r *Relation) Participant(userId string) bool {
	return r.TeacherId == userId || r.StudentId == userId
}

// LinkedStudent is a student profile joined with its relation row, as
// returned to teachers.
type LinkedStudent struct {
	Id         string    `json:"id"`
	FullName   string    `json:"nomeCompleto"`
	Email      string    `json:"email"`
	UserType   UserType  `json:"userType"`
	Score      int       `json:"score"`
	Rank       string    `json:"rank"`
	CPF        string    `json:"cpf"`
	BirthDate  string    `json:"dataNascimento"`
	RelationId string    `json:"relationId"`
	JoinedAt   time.Time `json:"joined_at"`
}

// LinkedTeacher is a teacher profile joined with its relation row, as
// returned to students.
type LinkedTeacher struct {
	Id         string    `json:"id"`
	FullName   string    `json:"nomeCompleto"`
	Email      string    `json:"email"`
	UserType   UserType  `json:"userType"`
	RelationId string    `json:"relationId"`
	JoinedAt   time.Time `json:"joined_at"`
}
