// Package notification keeps the unread-notification count of the current
// identity in sync with the store and signals when it goes up.
package notification

import (
	"context"
	"sync"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/eventpublisher"
	"github.com/NischalAcharya060/GearZone-sub001/internal/identity"
	notificationRepository "github.com/NischalAcharya060/GearZone-sub001/internal/repository/notification"

	"github.com/rs/zerolog/log"
)

type Kind string

const (
	// Count carries the unread count after every snapshot or reset.
	Count Kind = "count"
	// Increase fires once per snapshot whose count is above the held one.
	Increase Kind = "increase"
)

type Signal struct {
	Kind     Kind   `json:"kind"`
	Identity string `json:"identity"`
	Unread   int    `json:"unread"`
}

// State is a read-only snapshot of the watcher.
type State struct {
	Identity    string `json:"identity"`
	UnreadCount int    `json:"unreadCount"`
	Subscribed  bool   `json:"subscribed"`
}

type subscription struct {
	identity string
	stop     database.Unsubscribe
	done     chan struct{}
	once     sync.Once
}

// close stops the stream and waits for the consumer goroutine to exit.
func (s *subscription) close() {
	s.once.Do(func() {
		s.stop()
		<-s.done
	})
}

// Watcher is Idle or Subscribed to exactly one identity's unread
// notifications. Transitions are serialized and tear the old subscription
// down completely before the next one is opened.
type Watcher struct {
	repo        notificationRepository.IRepository
	broadcaster *eventpublisher.Broadcaster[Signal]

	ctx    context.Context
	cancel context.CancelFunc

	transitionMu sync.Mutex

	mu         sync.RWMutex
	identity   string
	unread     int
	generation uint64
	sub        *subscription
	closed     bool
}

var _ eventpublisher.Publisher[Signal] = (*Watcher)(nil)

func New(repo notificationRepository.IRepository) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		repo:        repo,
		broadcaster: eventpublisher.NewBroadcaster[Signal]("notification"),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (w *Watcher) Subscribe(ch chan<- Signal) {
	w.broadcaster.Subscribe(ch)
}

func (w *Watcher) Unsubscribe(ch chan<- Signal) {
	w.broadcaster.Unsubscribe(ch)
}

func (w *Watcher) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return State{
		Identity:    w.identity,
		UnreadCount: w.unread,
		Subscribed:  w.sub != nil,
	}
}

// SetIdentity moves the watcher to id. The same id while subscribed is a
// no-op; an empty id closes any subscription and resets the count to 0.
func (w *Watcher) SetIdentity(ctx context.Context, id string) {
	w.transitionMu.Lock()
	defer w.transitionMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	previous := w.sub
	if previous != nil && previous.identity == id {
		w.mu.Unlock()
		return
	}
	if previous == nil && id == "" && w.identity == "" {
		w.mu.Unlock()
		return
	}

	// events of the previous subscription that are still in flight carry
	// the old generation and are discarded
	w.generation++
	generation := w.generation
	w.sub = nil
	w.identity = id
	w.unread = 0
	w.mu.Unlock()

	if previous != nil {
		previous.close()
		log.Debug().Str("userId", previous.identity).Msg("notification subscription closed")
	}

	if id == "" {
		w.broadcaster.Broadcast(ctx, Signal{Kind: Count})
		return
	}

	w.open(id, generation)
	log.Debug().Str("userId", id).Msg("notification subscription opened")
}

// open subscribes to id's unread notifications. The subscription is
// recorded before its consumer starts. Callers hold transitionMu.
func (w *Watcher) open(id string, generation uint64) {
	events, stop := w.repo.WatchUnread(w.ctx, id)
	sub := &subscription{
		identity: id,
		stop:     stop,
		done:     make(chan struct{}),
	}

	w.mu.Lock()
	w.sub = sub
	w.mu.Unlock()

	go func() {
		defer close(sub.done)
		for e := range events {
			w.apply(id, generation, e)
		}
		w.ended(sub, generation)
	}()
}

// ended runs when the store closes a stream the watcher did not ask to stop.
// The dead subscription is dropped so the next SetIdentity reopens it.
func (w *Watcher) ended(sub *subscription, generation uint64) {
	w.mu.Lock()
	if w.generation != generation || w.sub != sub {
		w.mu.Unlock()
		return
	}
	w.sub = nil
	w.mu.Unlock()

	sub.once.Do(sub.stop)
	log.Warn().Str("userId", sub.identity).Msg("notification stream ended, keeping last unread count")
}

func (w *Watcher) apply(id string, generation uint64, e notificationRepository.UnreadEvent) {
	if e.Err != nil {
		w.mu.RLock()
		current := w.generation == generation
		w.mu.RUnlock()
		if !current {
			return
		}

		err := &ierr.SubscriptionError{Identity: id, Err: e.Err}
		log.Error().Err(err).Bool("transient", database.IsTransient(e.Err)).
			Msg("notification stream failed, keeping last unread count")
		return
	}

	count := e.Size

	w.mu.Lock()
	if w.generation != generation {
		w.mu.Unlock()
		return
	}
	increased := count > w.unread
	w.unread = count
	w.mu.Unlock()

	if increased {
		w.broadcaster.Broadcast(w.ctx, Signal{Kind: Increase, Identity: id, Unread: count})
	}
	w.broadcaster.Broadcast(w.ctx, Signal{Kind: Count, Identity: id, Unread: count})
}

// Run follows the provider's identity until ctx is done, then closes the
// watcher.
func (w *Watcher) Run(ctx context.Context, provider identity.Provider) error {
	changes := make(chan identity.Change, 16)
	provider.Subscribe(changes)
	defer provider.Unsubscribe(changes)
	defer w.Close()

	w.SetIdentity(ctx, provider.Current())

	for {
		select {
		case <-ctx.Done():
			return nil
		case change, ok := <-changes:
			if !ok {
				return nil
			}
			w.SetIdentity(ctx, change.Current)
		}
	}
}

// Close tears down the subscription and unsubscribes every listener. It is
// safe to call more than once.
func (w *Watcher) Close() {
	w.transitionMu.Lock()
	defer w.transitionMu.Unlock()

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.generation++
	sub := w.sub
	w.sub = nil
	w.mu.Unlock()

	w.cancel()
	if sub != nil {
		sub.close()
	}
	w.broadcaster.Close()
}
