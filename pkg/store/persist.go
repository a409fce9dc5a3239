package store

import (
	"context"

	"github.com/rtemka/menu/domain"
)

// schedule ставит текущее меню в очередь на запись,
// вызывается под блокировкой на запись. Незаписанный
// снимок заменяется новым: каждый снимок содержит меню
// целиком, поэтому старый уже не нужен.
func (s *Store) schedule() {
	if s.stopped {
		s.logger.Println("store is stopped, change is not persisted")
		return
	}
	s.seq++
	select {
	case <-s.pending:
	default:
	}
	s.pending <- snapshot{seq: s.seq, items: s.all()}
}

// persister пишет снимки в хранилище по одному в порядке
// их появления. После отмены ctx дописывает последний
// снимок и останавливается.
func (s *Store) persister(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.mu.Lock()
			s.stopped = true
			var last *snapshot
			select {
			case snap := <-s.pending:
				last = &snap
			default:
			}
			s.mu.Unlock()

			if last != nil {
				s.save(ctx, *last)
			}
			return
		case snap := <-s.pending:
			s.save(ctx, snap)
		}
	}
}

// save записывает снимок, ошибка логируется.
func (s *Store) save(ctx context.Context, snap snapshot) {
	defer s.markWritten(snap.seq)

	// запись не должна обрываться отменой контекста приложения
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), gatewayTimeout)
	defer cancel()

	b, err := domain.Encode(snap.items)
	if err != nil {
		s.logger.Printf("encode menu: %v", err)
		return
	}
	if err := s.gw.Save(ctx, s.key, b); err != nil {
		s.logger.Printf("save menu: %v", err)
		return
	}
}

func (s *Store) markWritten(seq uint64) {
	s.flushMu.Lock()
	if seq > s.written {
		s.written = seq
	}
	s.flushMu.Unlock()
	s.flushed.Broadcast()
}

// Flush ждет, пока все поставленные в очередь изменения
// будут записаны (или брошены из-за ошибки).
func (s *Store) Flush() {
	s.mu.RLock()
	seq := s.seq
	s.mu.RUnlock()

	s.flushMu.Lock()
	for s.written < seq {
		s.flushed.Wait()
	}
	s.flushMu.Unlock()
}
