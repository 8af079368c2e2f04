package common

import (
	"context"
	"fmt"
	"sync"
	"time"
)

var ErrWriteFailure = fmt.Errorf("write failure threshold exceeded")

// PublisherWithFailureThreshold writes to a subscriber with a timeout and
// gives up on a subscriber after writeFailureThreshold timed out writes.
type PublisherWithFailureThreshold[T any] struct {
	writeTimeout          time.Duration
	writeFailureThreshold int
	failureCount          map[chan<- T]int
	failureMu             sync.Mutex
}

func NewPublisherWithFailureThreshold[T any](writeTimeout time.Duration, writeFailureThreshold int) *PublisherWithFailureThreshold[T] {
	return &PublisherWithFailureThreshold[T]{
		writeTimeout:          writeTimeout,
		writeFailureThreshold: writeFailureThreshold,
		failureCount:          make(map[chan<- T]int),
	}
}

// Publish returns ctx.Err() when the caller gave up, ErrWriteFailure once the
// subscriber crossed the threshold, and nil otherwise (a single slow write is
// dropped, not fatal).
func (p *PublisherWithFailureThreshold[T]) Publish(ctx context.Context, subscriber chan<- T, e T) (err error) {

	defer func() {
		// The subscriber channel may be closed by an Unsubscribe racing this
		// write; that panic is recovered as a write failure.
		if r := recover(); r != nil {
			err = ErrWriteFailure
		}
	}()

	timer := time.NewTimer(p.writeTimeout)
	defer timer.Stop()

	select {
	case subscriber <- e:
		p.failureMu.Lock()
		delete(p.failureCount, subscriber)
		p.failureMu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		p.failureMu.Lock()
		count := p.failureCount[subscriber] + 1
		p.failureCount[subscriber] = count
		p.failureMu.Unlock()

		if count >= p.writeFailureThreshold {
			return ErrWriteFailure
		}
		return nil
	}
}

func (p *PublisherWithFailureThreshold[T]) Forget(subscriber chan<- T) {
	p.failureMu.Lock()
	defer p.failureMu.Unlock()
	delete(p.failureCount, subscriber)
}
