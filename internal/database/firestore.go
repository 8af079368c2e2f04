package database

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type snapEvent struct {
	snap *firestore.QuerySnapshot
	err  error
}

type snapCh chan snapEvent

type FirestoreClient struct {
	*firestore.Client
	writeTimeout time.Duration
	// listener errors tolerated before a subscription gives up
	errToleranceCap int
}

var _ Client = FirestoreClient{}

func New(client *firestore.Client, writeTimeout time.Duration) FirestoreClient {
	if writeTimeout == 0 {
		writeTimeout = time.Second * 30
	}
	return FirestoreClient{
		Client:          client,
		writeTimeout:    writeTimeout,
		errToleranceCap: 20,
	}
}

func (c FirestoreClient) query(collection string, where []filter.Where, orderBy []filter.OrderBy, limit int) firestore.Query {
	query := c.Collection(collection).Query
	for _, w := range where {
		query = query.Where(w.Path, w.Op, w.Value)
	}
	for _, o := range orderBy {
		dir := firestore.Asc
		if o.Direction == filter.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(o.Path, dir)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	return query
}

func (c FirestoreClient) Query(ctx context.Context, collection string, where []filter.Where, orderBy []filter.OrderBy, limit int) ([]Document, error) {
	iter := c.query(collection, where, orderBy, limit).Documents(ctx)
	defer iter.Stop()

	docs := []Document{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		docs = append(docs, toDocument(doc))
	}
}

// Subscribe opens a snapshot listener and forwards every snapshot in delivery
// order. The circuit breaker caps the listener errors it tolerates; past the
// cap the last error is delivered and the channel is closed.
func (c FirestoreClient) Subscribe(ctx context.Context, collection string, where []filter.Where) (<-chan SnapshotEvent, Unsubscribe) {
	ctx, cancel := context.WithCancel(ctx)
	var once sync.Once
	stop := func() { once.Do(cancel) }

	ch := make(chan SnapshotEvent)
	it := c.query(collection, where, nil, 0).Snapshots(ctx)

	go func() {
		defer close(ch)

		errCnt := 0
		for event := range registerEventListener(ctx, it) {
			if event.err != nil {
				if IsCanceled(event.err) {
					return
				}

				log.Error().Err(event.err).Str("collection", collection).Msg("error reading snapshots")
				errCnt++
				if errCnt < c.errToleranceCap && IsTransient(event.err) {
					continue
				}
				deliver(ctx, ch, SnapshotEvent{Err: event.err})
				return
			}

			snapshot, err := toSnapshot(event.snap)
			if err != nil {
				deliver(ctx, ch, SnapshotEvent{Err: err})
				continue
			}
			if !deliver(ctx, ch, SnapshotEvent{Snapshot: snapshot}) {
				return
			}
		}
	}()

	return ch, stop
}

func deliver(ctx context.Context, ch chan<- SnapshotEvent, e SnapshotEvent) bool {
	select {
	case ch <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

// registerEventListener keeps the listener open until context is cancelled
func registerEventListener(ctx context.Context, it *firestore.QuerySnapshotIterator) <-chan snapEvent {
	c := make(snapCh)
	go func() {
		defer close(c)
		defer it.Stop()

		for {
			snap, err := it.Next()
			if err == iterator.Done {
				return
			}

			select {
			case <-ctx.Done():
				return
			case c <- snapEvent{snap, err}:
			}
		}
	}()

	return c
}

func toSnapshot(snap *firestore.QuerySnapshot) (Snapshot, error) {
	docs, err := snap.Documents.GetAll()
	if err != nil {
		return Snapshot{}, fmt.Errorf("read snapshot documents: %w", err)
	}

	out := Snapshot{Documents: make([]Document, 0, len(docs)), ReadTime: snap.ReadTime}
	for _, doc := range docs {
		out.Documents = append(out.Documents, toDocument(doc))
	}
	return out, nil
}

func toDocument(doc *firestore.DocumentSnapshot) Document {
	return Document{ID: doc.Ref.ID, Data: doc.Data()}
}

func (c FirestoreClient) Get(ctx context.Context, collection, id string) (Document, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docSnapshot, err := c.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return Document{}, ierr.NotFound
		}
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}

	if !docSnapshot.Exists() {
		return Document{}, ierr.NotFound
	}

	return toDocument(docSnapshot), nil
}

// Set writes data under id, or under a generated id when id is empty.
func (c FirestoreClient) Set(ctx context.Context, collection, id string, data interface{}) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	docRef := c.docRef(collection, id)
	if _, err := docRef.Set(ctx, data); err != nil {
		return "", fmt.Errorf("set %s/%s: %w", collection, docRef.ID, err)
	}
	return docRef.ID, nil
}

func (c FirestoreClient) SetAll(ctx context.Context, collection string, data []DataBatch) error {
	if len(data) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	batch := c.Client.Batch()
	for _, item := range data {
		batch.Set(c.docRef(collection, item.ID), item.Data)
	}

	if _, err := batch.Commit(ctx); err != nil {
		return fmt.Errorf("batch set %s: %w", collection, err)
	}
	return nil
}

func (c FirestoreClient) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.writeTimeout)
	defer cancel()

	updates := make([]firestore.Update, 0, len(fields))
	for path, value := range fields {
		updates = append(updates, firestore.Update{Path: path, Value: value})
	}

	if _, err := c.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return ierr.NotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (c FirestoreClient) docRef(collection, id string) *firestore.DocumentRef {
	if id == "" {
		return c.Collection(collection).NewDoc()
	}
	return c.Collection(collection).Doc(id)
}

// IsCanceled reports listener shutdown rather than a real failure.
func IsCanceled(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	code := status.Code(err)
	return code == codes.Canceled || code == codes.DeadlineExceeded
}

// IsTransient reports errors a listener is expected to recover from.
func IsTransient(err error) bool {
	switch status.Code(err) {
	case codes.Unavailable, codes.ResourceExhausted, codes.Aborted, codes.Internal:
		return true
	}
	return false
}
