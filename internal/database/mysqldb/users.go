package mysqldb

import (
	"database/sql"

	"edumov/entity"
)

const userColumns = "id, full_name, email, password, cpf, birth_date, user_type, score, user_rank, created_at"

func (s *MySql) CreateUser(user *entity.User) error {
	_, err := s.db.Exec(
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Id, user.FullName, user.Email, user.Password, user.CPF,
		user.BirthDate, user.UserType, user.Score, user.Rank, user.CreatedAt,
	)
	return storeErr(err)
}

func (s *MySql) GetUser(id string) (*entity.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (s *MySql) GetUserByEmail(email string) (*entity.User, error) {
	row := s.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

func (s *MySql) FindUserByCPF(cpf string, userType entity.UserType) (*entity.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE cpf = ? AND user_type = ?`, cpf, userType)
	return scanUser(row)
}

func (s *MySql) FindUserByIdentity(cpf, birthDate string) (*entity.User, error) {
	row := s.db.QueryRow(
		`SELECT `+userColumns+` FROM users WHERE cpf = ? AND birth_date = ?`, cpf, birthDate)
	return scanUser(row)
}

func (s *MySql) UpdatePassword(id, passwordHash string) error {
	result, err := s.db.Exec(`UPDATE users SET password = ? WHERE id = ?`, passwordHash, id)
	if err != nil {
		return storeErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storeErr(err)
	}
	if affected == 0 {
		// RowsAffected is also zero when the stored hash already equals
		// the new one; confirm the user exists before reporting not-found.
		if _, err := s.GetUser(id); err != nil {
			return err
		}
	}
	return nil
}

func scanUser(row *sql.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(&user.Id, &user.FullName, &user.Email, &user.Password, &user.CPF,
		&user.BirthDate, &user.UserType, &user.Score, &user.Rank, &user.CreatedAt)
	if err != nil {
		return nil, storeErr(err)
	}
	return &user, nil
}
