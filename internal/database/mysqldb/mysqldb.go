package mysqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"

	"edumov/entity"
	"edumov/internal/config"
)

type MySql struct {
	db *sql.DB
}

func New(conf *config.Config) (*MySql, error) {
	if !conf.MySql.Enabled {
		return nil, fmt.Errorf("mysql is disabled in configuration")
	}
	connectionURI := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true",
		conf.MySql.User, conf.MySql.Password, conf.MySql.Host, conf.MySql.Port, conf.MySql.Database)
	db, err := sql.Open("mysql", connectionURI)
	if err != nil {
		return nil, fmt.Errorf("sql connect: %w", err)
	}

	// try to ping three times with a 30-second interval; wait for a database to start
	for i := 0; i < 3; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		if i == 2 {
			return nil, fmt.Errorf("ping database: %w", err)
		}
		time.Sleep(30 * time.Second)
	}

	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(time.Hour)

	sdb := &MySql{db: db}
	if err = sdb.ensureSchema(); err != nil {
		return nil, err
	}
	return sdb, nil
}

func (s *MySql) Close() {
	_ = s.db.Close()
}

// ensureSchema creates the tables on first start. The unique keys carry
// the pairing invariants: one code row per teacher, globally unique code
// strings, one relation row per pair.
func (s *MySql) ensureSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			full_name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL,
			password VARCHAR(255) NOT NULL,
			cpf VARCHAR(32) NOT NULL,
			birth_date VARCHAR(32) NOT NULL,
			user_type VARCHAR(16) NOT NULL,
			score INT NOT NULL DEFAULT 0,
			user_rank VARCHAR(64) NOT NULL DEFAULT '',
			created_at DATETIME(3) NOT NULL,
			UNIQUE KEY uq_users_email (email),
			UNIQUE KEY uq_users_cpf_type (cpf, user_type)
		)`,
		`CREATE TABLE IF NOT EXISTS teacher_codes (
			teacher_id VARCHAR(36) NOT NULL PRIMARY KEY,
			code VARCHAR(16) NOT NULL,
			issued_at DATETIME(3) NOT NULL,
			expires_at DATETIME(3) NOT NULL,
			used_by VARCHAR(36) NULL,
			used_at DATETIME(3) NULL,
			UNIQUE KEY uq_codes_code (code)
		)`,
		`CREATE TABLE IF NOT EXISTS teacher_students (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			teacher_id VARCHAR(36) NOT NULL,
			student_id VARCHAR(36) NOT NULL,
			teacher_name VARCHAR(255) NOT NULL DEFAULT '',
			student_name VARCHAR(255) NOT NULL DEFAULT '',
			joined_at DATETIME(3) NOT NULL,
			UNIQUE KEY uq_pair (teacher_id, student_id)
		)`,
		`CREATE TABLE IF NOT EXISTS questions (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			theme VARCHAR(128) NOT NULL,
			question_text TEXT NOT NULL,
			options_json TEXT NOT NULL,
			correct_option_index INT NOT NULL,
			feedback_title VARCHAR(255) NOT NULL,
			feedback_text TEXT NOT NULL,
			feedback_illustration VARCHAR(512) NOT NULL DEFAULT '',
			created_by VARCHAR(36) NOT NULL,
			visibility VARCHAR(16) NOT NULL DEFAULT 'public',
			created_at DATETIME(3) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS comments (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			question_id VARCHAR(36) NOT NULL,
			user_id VARCHAR(36) NOT NULL,
			user_name VARCHAR(255) NOT NULL,
			user_type VARCHAR(16) NOT NULL,
			message TEXT NOT NULL,
			parent_id VARCHAR(36) NOT NULL DEFAULT '',
			question_theme VARCHAR(128) NOT NULL,
			question_text TEXT NOT NULL,
			created_at DATETIME(3) NOT NULL,
			KEY idx_comments_question (question_id)
		)`,
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			sender_id VARCHAR(36) NOT NULL,
			receiver_id VARCHAR(36) NOT NULL,
			sender_name VARCHAR(255) NOT NULL,
			sender_type VARCHAR(16) NOT NULL,
			message TEXT NOT NULL,
			created_at DATETIME(3) NOT NULL,
			KEY idx_chat_pair (sender_id, receiver_id)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}

// storeErr folds driver errors into the service taxonomy.
func storeErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return entity.ErrNotFound
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return entity.ErrDuplicate
	}
	return fmt.Errorf("mysql: %w", err)
}
