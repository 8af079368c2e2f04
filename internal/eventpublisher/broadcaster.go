package eventpublisher

import (
	"context"
	"errors"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/eventpublisher/common"

	"github.com/rs/zerolog/log"
)

const (
	writeTimeout          = time.Second
	writeFailureThreshold = 3
)

// Broadcaster delivers every event to each subscriber in publish order.
// A subscriber that keeps timing out is unsubscribed (and its channel closed).
type Broadcaster[T any] struct {
	name       string
	submanager *common.SubManager[T]
	publisher  *common.PublisherWithFailureThreshold[T]
}

var _ Publisher[struct{}] = (*Broadcaster[struct{}])(nil)

func NewBroadcaster[T any](name string) *Broadcaster[T] {
	return NewBroadcasterWithTimeout[T](name, writeTimeout)
}

func NewBroadcasterWithTimeout[T any](name string, timeout time.Duration) *Broadcaster[T] {
	return &Broadcaster[T]{
		name:       name,
		submanager: common.NewSubManager[T](),
		publisher:  common.NewPublisherWithFailureThreshold[T](timeout, writeFailureThreshold),
	}
}

func (b *Broadcaster[T]) Subscribe(subscriber chan<- T) {
	b.submanager.Subscribe(subscriber)
}

func (b *Broadcaster[T]) Unsubscribe(subscriber chan<- T) {
	b.submanager.Unsubscribe(subscriber)
	b.publisher.Forget(subscriber)
}

func (b *Broadcaster[T]) Subscribers() int {
	return b.submanager.Len()
}

// Broadcast blocks until every subscriber took the event, timed out or ctx is done.
func (b *Broadcaster[T]) Broadcast(ctx context.Context, e T) {
	b.submanager.OnSubscribers(func(subscriber chan<- T) {
		err := b.publisher.Publish(ctx, subscriber, e)
		if errors.Is(err, common.ErrWriteFailure) {
			log.Warn().Str("publisher", b.name).Msg("dropping unresponsive subscriber")
			b.Unsubscribe(subscriber)
		}
	})
}

func (b *Broadcaster[T]) Close() {
	b.submanager.UnsubscribeAll()
}
