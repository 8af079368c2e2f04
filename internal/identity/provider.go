package identity

import (
	"context"
	"sync"

	"github.com/NischalAcharya060/GearZone-sub001/internal/eventpublisher"

	"github.com/rs/zerolog/log"
)

// Change is published whenever the signed-in identity transitions. An empty
// id means nobody is signed in.
type Change struct {
	Previous string
	Current  string
}

type Provider interface {
	eventpublisher.Publisher[Change]
	Current() string
}

// Holder is the in-process identity provider: the API sets it on sign-in and
// sign-out, the notification watcher follows its changes.
type Holder struct {
	mu          sync.RWMutex
	current     string
	broadcaster *eventpublisher.Broadcaster[Change]
}

var _ Provider = (*Holder)(nil)

func NewHolder() *Holder {
	return &Holder{
		broadcaster: eventpublisher.NewBroadcaster[Change]("identity"),
	}
}

func (h *Holder) Current() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Set records id as the current identity and notifies subscribers when it
// differs from the previous one. Changes are published while holding the
// write lock so subscribers observe them in order.
func (h *Holder) Set(ctx context.Context, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.current == id {
		return
	}

	change := Change{Previous: h.current, Current: id}
	h.current = id
	log.Info().Str("previous", change.Previous).Str("current", change.Current).Msg("identity changed")
	h.broadcaster.Broadcast(ctx, change)
}

func (h *Holder) Subscribe(ch chan<- Change) {
	h.broadcaster.Subscribe(ch)
}

func (h *Holder) Unsubscribe(ch chan<- Change) {
	h.broadcaster.Unsubscribe(ch)
}

func (h *Holder) Close() {
	h.broadcaster.Close()
}
