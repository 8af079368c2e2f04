package memory

import (
	"context"
	"sync"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
)

// subscriber is an unbounded mailbox: writers never block on a slow reader
// and events leave in the order they were pushed.
type subscriber struct {
	ctx        context.Context
	collection string
	where      []filter.Where

	mu     sync.Mutex
	queue  []database.SnapshotEvent
	wake   chan struct{}
	out    chan database.SnapshotEvent
	done   chan struct{}
	doneMu sync.Once
}

func newSubscriber(ctx context.Context, collection string, where []filter.Where) *subscriber {
	return &subscriber{
		ctx:        ctx,
		collection: collection,
		where:      where,
		wake:       make(chan struct{}, 1),
		out:        make(chan database.SnapshotEvent),
		done:       make(chan struct{}),
	}
}

func (s *subscriber) push(e database.SnapshotEvent) {
	s.mu.Lock()
	s.queue = append(s.queue, e)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) stop() {
	s.doneMu.Do(func() { close(s.done) })
}

func (s *subscriber) stopped() bool {
	if s.ctx.Err() != nil {
		return true
	}
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *subscriber) run() {
	defer close(s.out)
	defer s.stop()

	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.mu.Unlock()
			select {
			case <-s.ctx.Done():
				return
			case <-s.done:
				return
			case <-s.wake:
			}
			continue
		}
		e := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- e:
		case <-s.ctx.Done():
			return
		case <-s.done:
			return
		}
	}
}
