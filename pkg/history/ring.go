package history

import "sync"

// DefaultCapacity размер буфера, если в конфиге не указан
const DefaultCapacity = 500

// Ring потокобезопасный кольцевой буфер ограниченного размера.
// При переполнении самые старые записи перезаписываются.
type Ring[T any] struct {
	mu    sync.RWMutex
	items []T
	next  int
	full  bool
}

// NewRing создаёт буфер; capacity <= 0 заменяется на DefaultCapacity
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push добавляет запись
func (r *Ring[T]) Push(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[r.next] = item
	r.next = (r.next + 1) % len(r.items)
	if r.next == 0 {
		r.full = true
	}
}

// Len количество записей в буфере
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.len()
}

// Cap ёмкость буфера
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// Latest возвращает до limit последних записей, начиная с самой новой,
// для которых match возвращает true (nil означает все записи).
// limit <= 0 означает без ограничения.
func (r *Ring[T]) Latest(limit int, match func(T) bool) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := r.len()
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]T, 0, limit)
	for i := 0; i < n && len(out) < limit; i++ {
		idx := (r.next - 1 - i + len(r.items)) % len(r.items)
		item := r.items[idx]
		if match == nil || match(item) {
			out = append(out, item)
		}
	}
	return out
}

func (r *Ring[T]) len() int {
	if r.full {
		return len(r.items)
	}
	return r.next
}
