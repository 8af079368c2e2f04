package common

import (
	"sync"
)

// SubManager tracks subscriber channels. Unsubscribe closes the channel, so
// a subscriber must not close it itself.
type SubManager[T any] struct {
	subscribers    map[chan<- T]struct{}
	subscriptionMu sync.RWMutex
}

func NewSubManager[T any]() *SubManager[T] {
	return &SubManager[T]{
		subscribers: make(map[chan<- T]struct{}),
	}
}

func (m *SubManager[T]) Subscribe(subscriber chan<- T) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	if _, ok := m.subscribers[subscriber]; !ok {
		m.subscribers[subscriber] = struct{}{}
	}
}

func (m *SubManager[T]) Unsubscribe(subscriber chan<- T) {
	m.subscriptionMu.Lock()
	defer m.subscriptionMu.Unlock()

	// only act on the subscribed channels
	if _, ok := m.subscribers[subscriber]; !ok {
		return
	}
	delete(m.subscribers, subscriber)
	close(subscriber)
}

func (m *SubManager[T]) UnsubscribeAll() {
	for _, subscriber := range m.snapshot() {
		m.Unsubscribe(subscriber)
	}
}

func (m *SubManager[T]) Len() int {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()
	return len(m.subscribers)
}

// OnSubscribers runs do on a copy of the subscriber set, since do may
// unsubscribe while we iterate.
func (m *SubManager[T]) OnSubscribers(do func(chan<- T)) {
	for _, subscriber := range m.snapshot() {
		do(subscriber)
	}
}

func (m *SubManager[T]) snapshot() []chan<- T {
	m.subscriptionMu.RLock()
	defer m.subscriptionMu.RUnlock()

	subs := make([]chan<- T, 0, len(m.subscribers))
	for subscriber := range m.subscribers {
		subs = append(subs, subscriber)
	}
	return subs
}
