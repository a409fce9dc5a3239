// Пакет memdb реализует контракт хранилища в памяти,
// для тестов и запуска без диска.
package memdb

import (
	"context"
	"sync"

	"github.com/rtemka/menu/domain"
)

type MemDB struct {
	mu   sync.Mutex
	data map[string][]byte

	// ошибки, которые вернут Load и Save, если заданы
	loadErr error
	saveErr error
	saves   int
}

func New() *MemDB { return &MemDB{data: make(map[string][]byte)} }

// FailLoad заставляет Load возвращать err.
func (m *MemDB) FailLoad(err error) {
	m.mu.Lock()
	m.loadErr = err
	m.mu.Unlock()
}

// FailSave заставляет Save возвращать err.
func (m *MemDB) FailSave(err error) {
	m.mu.Lock()
	m.saveErr = err
	m.mu.Unlock()
}

// Saves возвращает количество успешных записей.
func (m *MemDB) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Load возвращает значение по ключу.
func (m *MemDB) Load(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loadErr != nil {
		return nil, m.loadErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Save записывает значение по ключу.
func (m *MemDB) Save(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.saveErr != nil {
		return m.saveErr
	}
	m.data[key] = append([]byte(nil), value...)
	m.saves++
	return nil
}

// Close ничего не делает.
func (m *MemDB) Close() error { return nil }
