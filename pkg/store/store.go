// Пакет store хранит меню в памяти и зеркалирует
// каждое изменение в хранилище ключ-значение.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rtemka/menu/domain"
)

type item = domain.MenuItem
type gateway = domain.Gateway

// сколько ждем хранилище при чтении и записи
const gatewayTimeout = 5 * time.Second

// snapshot копия меню, поставленная в очередь на запись.
type snapshot struct {
	seq   uint64
	items []item
}

// Store единственный владелец меню. Изменения видны
// сразу, запись в хранилище идет в фоне и ошибки
// записи только логируются.
type Store struct {
	mu     sync.RWMutex
	data   []item
	gw     gateway
	key    string
	logger *log.Logger

	subs    map[int]func([]item)
	nextSub int

	pending chan snapshot // не больше одного незаписанного снимка
	seq     uint64        // номер последнего поставленного снимка
	stopped bool

	flushMu sync.Mutex
	flushed *sync.Cond
	written uint64 // номер последнего записанного (или брошенного) снимка
}

// New возвращает новое хранилище меню. Фоновая запись
// работает, пока не отменен ctx.
func New(ctx context.Context, gw gateway, key string, logger *log.Logger) *Store {
	s := Store{
		gw:      gw,
		key:     key,
		logger:  logger,
		data:    []item{},
		subs:    make(map[int]func([]item)),
		pending: make(chan snapshot, 1),
	}
	s.flushed = sync.NewCond(&s.flushMu)

	go s.persister(ctx) // горутина для записи в хранилище.

	return &s
}

// Initialize загружает сохраненное меню. Если в хранилище
// ничего нет или чтение не удалось, меню остается пустым.
func (s *Store) Initialize(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, gatewayTimeout)
	defer cancel()

	b, err := s.gw.Load(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Printf("no saved menu under key %q, starting empty", s.key)
		return
	}
	if err != nil {
		s.logger.Printf("load menu: %v", err)
		return
	}
	items, err := domain.Decode(b)
	if err != nil {
		s.logger.Println(err)
		return
	}

	s.mu.Lock()
	s.data = items
	s.mu.Unlock()

	s.logger.Printf("loaded %d menu items", len(items))
	s.notify()
}

// all возвращает полную копию меню, вызывается под блокировкой.
func (s *Store) all() []item {
	var out = make([]item, len(s.data))
	_ = copy(out, s.data)
	return out
}

// Snapshot возвращает копию меню в порядке добавления.
func (s *Store) Snapshot() []item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.all()
}

// Len возвращает количество позиций.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// index ищет первую позицию с именем name за линейное время.
func (s *Store) index(name string) int {
	for i := range s.data {
		if s.data[i].Name == name {
			return i
		}
	}
	return -1
}

// Get возвращает первую позицию с именем name.
func (s *Store) Get(name string) (item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.index(name); i >= 0 {
		return s.data[i], true
	}
	return item{}, false
}

// Add добавляет позицию в конец меню. Имена
// не проверяются на уникальность.
func (s *Store) Add(it item) error {
	if err := domain.Validate(it); err != nil {
		return err
	}

	s.mu.Lock()
	s.data = append(s.data, it)
	n := len(s.data)
	s.schedule()
	s.mu.Unlock()

	s.logger.Printf("added %q, total items: %d", it.Name, n)
	s.notify()
	return nil
}

// Update заменяет первую позицию с именем name на it
// целиком. Возвращает false, если такой позиции нет.
func (s *Store) Update(name string, it item) (bool, error) {
	if err := domain.Validate(it); err != nil {
		return false, err
	}

	s.mu.Lock()
	i := s.index(name)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	s.data[i] = it
	s.schedule()
	s.mu.Unlock()

	s.logger.Printf("updated %q", name)
	s.notify()
	return true, nil
}

// Delete удаляет первую позицию, совпадающую с it по всем полям.
func (s *Store) Delete(it item) bool {
	s.mu.Lock()
	i := -1
	for j := range s.data {
		if s.data[j] == it {
			i = j
			break
		}
	}
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	n := s.remove(i)
	s.mu.Unlock()

	s.logger.Printf("deleted %q, total items: %d", it.Name, n)
	s.notify()
	return true
}

// DeleteByName удаляет первую позицию с именем name.
func (s *Store) DeleteByName(name string) bool {
	s.mu.Lock()
	i := s.index(name)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	n := s.remove(i)
	s.mu.Unlock()

	s.logger.Printf("deleted %q, total items: %d", name, n)
	s.notify()
	return true
}

// remove вырезает позицию i, вызывается под блокировкой.
func (s *Store) remove(i int) int {
	data := make([]item, 0, len(s.data)-1)
	data = append(data, s.data[:i]...)
	s.data = append(data, s.data[i+1:]...)
	s.schedule()
	return len(s.data)
}

// ReplaceAll заменяет меню целиком.
func (s *Store) ReplaceAll(items []item) error {
	for i := range items {
		if err := domain.Validate(items[i]); err != nil {
			return fmt.Errorf("item %d: %w", i, err)
		}
	}

	s.mu.Lock()
	s.data = make([]item, len(items))
	_ = copy(s.data, items)
	s.schedule()
	s.mu.Unlock()

	s.logger.Printf("replaced menu, total items: %d", len(items))
	s.notify()
	return nil
}

// Subscribe регистрирует fn, которая получает копию меню
// после каждого изменения. Возвращает функцию отписки.
func (s *Store) Subscribe(fn func([]item)) (cancel func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// notify вызывает подписчиков вне блокировки.
func (s *Store) notify() {
	s.mu.RLock()
	fns := make([]func([]item), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	data := s.all()
	s.mu.RUnlock()

	for _, fn := range fns {
		out := make([]item, len(data))
		_ = copy(out, data)
		fn(out)
	}
}
