// Package memory is an in-process database.Client. It backs the service when
// DATABASE_DRIVER=memory and is the store used by the package tests.
package memory

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/helper"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/ops"

	"github.com/google/uuid"
)

// QueryHook lets callers inject failures; a non-nil error fails the query.
type QueryHook func(collection string, where []filter.Where) error

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]interface{}
	subscribers map[*subscriber]struct{}
	queryHook   QueryHook
}

var _ database.Client = (*Store)(nil)

func New() *Store {
	return &Store{
		collections: make(map[string]map[string]map[string]interface{}),
		subscribers: make(map[*subscriber]struct{}),
	}
}

func (s *Store) SetQueryHook(hook QueryHook) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queryHook = hook
}

func (s *Store) Query(ctx context.Context, collection string, where []filter.Where, orderBy []filter.OrderBy, limit int) ([]database.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	hook := s.queryHook
	docs := s.match(collection, where)
	s.mu.RUnlock()

	if hook != nil {
		if err := hook(collection, where); err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
	}

	// Like Firestore, documents without an ordered field are left out.
	for _, o := range orderBy {
		kept := docs[:0]
		for _, d := range docs {
			if _, ok := d.Data[o.Path]; ok {
				kept = append(kept, d)
			}
		}
		docs = kept
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, o := range orderBy {
			c := compare(docs[i].Data[o.Path], docs[j].Data[o.Path])
			if c == 0 {
				continue
			}
			if o.Direction == filter.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})

	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	return docs, nil
}

// match returns the matching documents ordered by id. Callers hold s.mu.
func (s *Store) match(collection string, where []filter.Where) []database.Document {
	coll := s.collections[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	docs := []database.Document{}
	for _, id := range ids {
		data := coll[id]
		if !matches(data, where) {
			continue
		}
		docs = append(docs, database.Document{ID: id, Data: copyData(data)})
	}
	return docs
}

func (s *Store) Subscribe(ctx context.Context, collection string, where []filter.Where) (<-chan database.SnapshotEvent, database.Unsubscribe) {
	ctx, cancel := context.WithCancel(ctx)
	sub := newSubscriber(ctx, collection, where)

	s.mu.Lock()
	s.subscribers[sub] = struct{}{}
	sub.push(database.SnapshotEvent{Snapshot: s.snapshot(collection, where)})
	s.mu.Unlock()

	go func() {
		sub.run()
		s.mu.Lock()
		delete(s.subscribers, sub)
		s.mu.Unlock()
	}()

	var once sync.Once
	return sub.out, func() { once.Do(cancel) }
}

// EmitError pushes a stream error to every live subscription on collection.
func (s *Store) EmitError(collection string, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for sub := range s.subscribers {
		if sub.collection == collection {
			sub.push(database.SnapshotEvent{Err: err})
		}
	}
}

// Subscriptions returns the number of live subscriptions on collection.
func (s *Store) Subscriptions(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for sub := range s.subscribers {
		if sub.collection == collection && !sub.stopped() {
			n++
		}
	}
	return n
}

func (s *Store) snapshot(collection string, where []filter.Where) database.Snapshot {
	return database.Snapshot{Documents: s.match(collection, where), ReadTime: time.Now().UTC()}
}

// notify pushes a fresh snapshot to the subscriptions of collection. Callers hold s.mu.
func (s *Store) notify(collection string) {
	for sub := range s.subscribers {
		if sub.collection == collection {
			sub.push(database.SnapshotEvent{Snapshot: s.snapshot(collection, sub.where)})
		}
	}
}

func (s *Store) Get(ctx context.Context, collection, id string) (database.Document, error) {
	if err := ctx.Err(); err != nil {
		return database.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return database.Document{}, ierr.NotFound
	}
	return database.Document{ID: id, Data: copyData(data)}, nil
}

func (s *Store) Set(ctx context.Context, collection, id string, data interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fields := map[string]interface{}{}
	if err := helper.Clone(data, &fields); err != nil {
		return "", fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	if id == "" {
		id = uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.put(collection, id, fields)
	s.notify(collection)
	return id, nil
}

func (s *Store) SetAll(ctx context.Context, collection string, data []database.DataBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rows := make([]map[string]interface{}, len(data))
	for i, item := range data {
		rows[i] = map[string]interface{}{}
		if err := helper.Clone(item.Data, &rows[i]); err != nil {
			return fmt.Errorf("batch set %s: %w", collection, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, item := range data {
		id := item.ID
		if id == "" {
			id = uuid.NewString()
		}
		s.put(collection, id, rows[i])
	}
	s.notify(collection)
	return nil
}

func (s *Store) Update(ctx context.Context, collection, id string, fields map[string]interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	values := map[string]interface{}{}
	if err := helper.Clone(fields, &values); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.collections[collection][id]
	if !ok {
		return ierr.NotFound
	}
	for k, v := range values {
		data[k] = v
	}
	s.notify(collection)
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sub := range s.subscribers {
		sub.stop()
	}
	return nil
}

func (s *Store) put(collection, id string, data map[string]interface{}) {
	coll, ok := s.collections[collection]
	if !ok {
		coll = make(map[string]map[string]interface{})
		s.collections[collection] = coll
	}
	coll[id] = data
}

func matches(data map[string]interface{}, where []filter.Where) bool {
	for _, w := range where {
		value, ok := data[w.Path]
		if !ok {
			return false
		}
		c := compare(value, normalize(w.Value))
		switch w.Op {
		case ops.Equal:
			if c != 0 {
				return false
			}
		case ops.NotEqual:
			if c == 0 {
				return false
			}
		case ops.Greater:
			if c <= 0 {
				return false
			}
		case ops.GreaterEqual:
			if c < 0 {
				return false
			}
		case ops.Less:
			if c >= 0 {
				return false
			}
		case ops.LessEqual:
			if c > 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// normalize gives a filter value the shape stored documents have after their
// JSON round trip.
func normalize(v interface{}) interface{} {
	var out interface{}
	if err := helper.Clone(map[string]interface{}{"v": v}, &out); err != nil {
		return v
	}
	if m, ok := out.(map[string]interface{}); ok {
		return m["v"]
	}
	return v
}

// compare orders two stored values. Strings that both read as timestamps are
// compared chronologically.
func compare(a, b interface{}) int {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case string:
		if y, ok := b.(string); ok {
			tx, ty := model.ParseTimestamp(x), model.ParseTimestamp(y)
			if tx != 0 && ty != 0 {
				return compare(float64(tx), float64(ty))
			}
			return strings.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	if reflect.DeepEqual(a, b) {
		return 0
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func copyData(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
