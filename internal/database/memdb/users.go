package memdb

import "edumov/entity"

func (s *Store) CreateUser(user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Email == user.Email {
			return entity.ErrDuplicate
		}
	}
	cp := *user
	s.users[user.Id] = &cp
	return nil
}

func (s *Store) GetUser(id string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (s *Store) GetUserByEmail(email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *Store) FindUserByCPF(cpf string, userType entity.UserType) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.CPF == cpf && u.UserType == userType {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *Store) FindUserByIdentity(cpf, birthDate string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.CPF == cpf && u.BirthDate == birthDate {
			cp := *u
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *Store) UpdatePassword(id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return entity.ErrNotFound
	}
	u.Password = passwordHash
	return nil
}
