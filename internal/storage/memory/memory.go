// Package memory реализует хранилище учётных записей в памяти процесса.
// Записи индексируются по логину для O(1) поиска; вторичный индекс по UID
// позволяет переложить запись под новый логин при переименовании.
// Используется как эталонная реализация и в тестах; данные не переживают
// перезапуск.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/users-administration/internal/models"
)

// Storage хранит учётные записи в двух map-индексах под общим мьютексом.
// Атомарность гарантируется только в пределах одного вызова.
type Storage struct {
	mu      sync.RWMutex
	byLogin map[string]*models.User
	byUID   map[string]*models.User
}

// New создает пустое хранилище.
func New() *Storage {
	return &Storage{
		byLogin: make(map[string]*models.User),
		byUID:   make(map[string]*models.User),
	}
}

// Insert сохраняет новую учётную запись.
func (s *Storage) Insert(_ context.Context, u models.User) error {
	const op = "storage.memory.Insert"

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byLogin[u.Login]; ok {
		return fmt.Errorf("%s: login %q already exists", op, u.Login)
	}
	stored := u
	s.byLogin[u.Login] = &stored
	s.byUID[u.UID] = &stored
	return nil
}

// GetByLogin возвращает копию записи по логину или (nil, nil), если её нет.
func (s *Storage) GetByLogin(_ context.Context, login string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byLogin[login]
	if !ok {
		return nil, nil
	}
	copied := *u
	return &copied, nil
}

// GetAll возвращает копии всех записей, включая отозванные.
func (s *Storage) GetAll(_ context.Context) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*models.User, 0, len(s.byLogin))
	for _, u := range s.byLogin {
		copied := *u
		result = append(result, &copied)
	}
	return result, nil
}

// Update заменяет запись с тем же UID. При смене логина запись
// перекладывается под новый ключ индекса.
func (s *Storage) Update(_ context.Context, u models.User) error {
	const op = "storage.memory.Update"

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.byUID[u.UID]
	if !ok {
		return fmt.Errorf("%s: user %q does not exist", op, u.UID)
	}

	if current.Login != u.Login {
		if _, taken := s.byLogin[u.Login]; taken {
			return fmt.Errorf("%s: login %q already exists", op, u.Login)
		}
		delete(s.byLogin, current.Login)
	}

	stored := u
	s.byLogin[u.Login] = &stored
	s.byUID[u.UID] = &stored
	return nil
}

// Remove удаляет запись по логину, true — если запись существовала.
func (s *Storage) Remove(_ context.Context, login string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byLogin[login]
	if !ok {
		return false, nil
	}
	delete(s.byLogin, login)
	delete(s.byUID, u.UID)
	return true, nil
}
