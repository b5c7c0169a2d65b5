package client

import "sync"

// List is the client-held copy of one page's rows. It is reset from each
// page load and otherwise changed only through Prepend, Replace and Remove.
type List[E any] struct {
	mu    sync.RWMutex
	id    func(E) int64
	items []E
}

func NewList[E any](id func(E) int64) *List[E] {
	return &List[E]{id: id}
}

func (l *List[E]) Reset(items []E) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]E(nil), items...)
}

// Items returns a copy in display order.
func (l *List[E]) Items() []E {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]E(nil), l.items...)
}

func (l *List[E]) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

func (l *List[E]) Get(id int64) (E, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, item := range l.items {
		if l.id(item) == id {
			return item, true
		}
	}
	var zero E
	return zero, false
}

func (l *List[E]) Prepend(item E) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append([]E{item}, l.items...)
}

// Replace swaps the row with item's id. It reports whether one was found.
func (l *List[E]) Replace(item E) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.id(item)
	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items[i] = item
			return true
		}
	}
	return false
}

func (l *List[E]) Remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.items {
		if l.id(l.items[i]) == id {
			l.items = append(l.items[:i], l.items[i+1:]...)
			return true
		}
	}
	return false
}
