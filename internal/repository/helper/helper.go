package helper

import (
	"context"
	"encoding/json"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"

	"github.com/rs/zerolog/log"
)

// Decode converts every document into a T, skipping (and logging) the ones
// that do not decode. withID stamps the document id onto the record.
func Decode[T any](collection string, docs []database.Document, withID func(*T, string)) []T {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := doc.DataTo(&v); err != nil {
			log.Error().Err(err).Str("collection", collection).Str("id", doc.ID).Msg("failed to convert doc")
			continue
		}
		if withID != nil {
			withID(&v, doc.ID)
		}
		out = append(out, v)
	}
	return out
}

// NonblockingWrite is a generic function that can write any type of event to any channel type.
// T is the type parameter for the event.
func NonblockingWrite[T any](ctx context.Context, timeout time.Duration, ch chan<- T, event T) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func Clone(src, dst interface{}) error {
	data, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dst)
}
