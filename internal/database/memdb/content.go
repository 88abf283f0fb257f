package memdb

import "edumov/entity"

func (s *Store) CreateQuestion(q *entity.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *q
	s.questions[q.Id] = &cp
	s.qOrder = append(s.qOrder, q.Id)
	return nil
}

func (s *Store) GetQuestion(id string) (*entity.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if q, ok := s.questions[id]; ok {
		cp := *q
		return &cp, nil
	}
	return nil, entity.ErrNotFound
}

func (s *Store) Questions(visibility entity.Visibility) ([]entity.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	questions := make([]entity.Question, 0, len(s.qOrder))
	for _, id := range s.qOrder {
		q, ok := s.questions[id]
		if !ok {
			continue
		}
		if visibility != "" && q.Visibility != visibility {
			continue
		}
		questions = append(questions, *q)
	}
	return questions, nil
}

func (s *Store) UpdateQuestionVisibility(id string, visibility entity.Visibility) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.questions[id]
	if !ok {
		return entity.ErrNotFound
	}
	q.Visibility = visibility
	return nil
}

func (s *Store) DeleteQuestion(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[id]; !ok {
		return entity.ErrNotFound
	}
	delete(s.questions, id)
	return nil
}

func (s *Store) CreateComment(comment *entity.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *comment
	s.comments = append(s.comments, &cp)
	return nil
}

func (s *Store) GetComment(id string) (*entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.comments {
		if c.Id == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *Store) CommentsByQuestion(questionId string) ([]entity.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var comments []entity.Comment
	for _, c := range s.comments {
		if c.QuestionId == questionId {
			comments = append(comments, *c)
		}
	}
	return comments, nil
}

func (s *Store) CreateMessage(msg *entity.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *msg
	s.messages = append(s.messages, &cp)
	return nil
}

func (s *Store) Conversation(userA, userB string, limit int) ([]entity.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messages []entity.ChatMessage
	for _, m := range s.messages {
		if (m.SenderId == userA && m.ReceiverId == userB) ||
			(m.SenderId == userB && m.ReceiverId == userA) {
			messages = append(messages, *m)
		}
		if limit > 0 && len(messages) == limit {
			break
		}
	}
	return messages, nil
}
