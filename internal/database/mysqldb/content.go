package mysqldb

import (
	"database/sql"
	"encoding/json"

	"edumov/entity"
)

const questionColumns = `id, theme, question_text, options_json, correct_option_index,
	feedback_title, feedback_text, feedback_illustration, created_by, visibility, created_at`

func (s *MySql) CreateQuestion(q *entity.Question) error {
	optionsJson, err := json.Marshal(q.Options)
	if err != nil {
		return storeErr(err)
	}
	_, err = s.db.Exec(
		`INSERT INTO questions (`+questionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.Id, q.Theme, q.Text, optionsJson, q.CorrectOption,
		q.Feedback.Title, q.Feedback.Text, q.Feedback.Illustration,
		q.CreatedBy, q.Visibility, q.CreatedAt,
	)
	return storeErr(err)
}

func (s *MySql) GetQuestion(id string) (*entity.Question, error) {
	row := s.db.QueryRow(`SELECT `+questionColumns+` FROM questions WHERE id = ?`, id)
	var q entity.Question
	var optionsJson []byte
	err := row.Scan(&q.Id, &q.Theme, &q.Text, &optionsJson, &q.CorrectOption,
		&q.Feedback.Title, &q.Feedback.Text, &q.Feedback.Illustration,
		&q.CreatedBy, &q.Visibility, &q.CreatedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	if err = json.Unmarshal(optionsJson, &q.Options); err != nil {
		return nil, storeErr(err)
	}
	return &q, nil
}

func (s *MySql) Questions(visibility entity.Visibility) ([]entity.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions ORDER BY created_at`
	args := []any{}
	if visibility != "" {
		query = `SELECT ` + questionColumns + ` FROM questions WHERE visibility = ? ORDER BY created_at`
		args = append(args, visibility)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var questions []entity.Question
	for rows.Next() {
		var q entity.Question
		var optionsJson []byte
		if err = rows.Scan(&q.Id, &q.Theme, &q.Text, &optionsJson, &q.CorrectOption,
			&q.Feedback.Title, &q.Feedback.Text, &q.Feedback.Illustration,
			&q.CreatedBy, &q.Visibility, &q.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		if err = json.Unmarshal(optionsJson, &q.Options); err != nil {
			return nil, storeErr(err)
		}
		questions = append(questions, q)
	}
	return questions, storeErr(rows.Err())
}

func (s *MySql) UpdateQuestionVisibility(id string, visibility entity.Visibility) error {
	result, err := s.db.Exec(`UPDATE questions SET visibility = ? WHERE id = ?`, visibility, id)
	if err != nil {
		return storeErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if affected == 0 {
		if _, err := s.GetQuestion(id); err != nil {
			return err
		}
	}
	return nil
}

func (s *MySql) DeleteQuestion(id string) error {
	result, err := s.db.Exec(`DELETE FROM questions WHERE id = ?`, id)
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

const commentColumns = `id, question_id, user_id, user_name, user_type, message,
	parent_id, question_theme, question_text, created_at`

func (s *MySql) CreateComment(comment *entity.Comment) error {
	_, err := s.db.Exec(
		`INSERT INTO comments (`+commentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		comment.Id, comment.QuestionId, comment.UserId, comment.UserName, comment.UserType,
		comment.Message, comment.ParentId, comment.QuestionTheme, comment.QuestionText,
		comment.CreatedAt,
	)
	return storeErr(err)
}

func (s *MySql) GetComment(id string) (*entity.Comment, error) {
	row := s.db.QueryRow(`SELECT `+commentColumns+` FROM comments WHERE id = ?`, id)
	var c entity.Comment
	err := row.Scan(&c.Id, &c.QuestionId, &c.UserId, &c.UserName, &c.UserType,
		&c.Message, &c.ParentId, &c.QuestionTheme, &c.QuestionText, &c.CreatedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	return &c, nil
}

func (s *MySql) CommentsByQuestion(questionId string) ([]entity.Comment, error) {
	rows, err := s.db.Query(
		`SELECT `+commentColumns+` FROM comments WHERE question_id = ? ORDER BY created_at`,
		questionId,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var comments []entity.Comment
	for rows.Next() {
		var c entity.Comment
		if err = rows.Scan(&c.Id, &c.QuestionId, &c.UserId, &c.UserName, &c.UserType,
			&c.Message, &c.ParentId, &c.QuestionTheme, &c.QuestionText, &c.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		comments = append(comments, c)
	}
	return comments, storeErr(rows.Err())
}

func (s *MySql) CreateMessage(msg *entity.ChatMessage) error {
	_, err := s.db.Exec(
		`INSERT INTO chat_messages (id, sender_id, receiver_id, sender_name, sender_type, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		msg.Id, msg.SenderId, msg.ReceiverId, msg.SenderName, msg.SenderType, msg.Message, msg.CreatedAt,
	)
	return storeErr(err)
}

func (s *MySql) Conversation(userA, userB string, limit int) ([]entity.ChatMessage, error) {
	rows, err := s.db.Query(
		`SELECT id, sender_id, receiver_id, sender_name, sender_type, message, created_at
		   FROM chat_messages
		  WHERE (sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)
		  ORDER BY created_at LIMIT ?`,
		userA, userB, userB, userA, limit,
	)
	if err != nil {
		return nil, storeErr(err)
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var messages []entity.ChatMessage
	for rows.Next() {
		var m entity.ChatMessage
		if err = rows.Scan(&m.Id, &m.SenderId, &m.ReceiverId, &m.SenderName,
			&m.SenderType, &m.Message, &m.CreatedAt); err != nil {
			return nil, storeErr(err)
		}
		messages = append(messages, m)
	}
	return messages, storeErr(rows.Err())
}
