package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
)

// Document is a store record decoupled from the underlying database technology.
type Document struct {
	ID   string
	Data map[string]interface{}
}

// DataTo decodes the document into v through its JSON form, so store-native
// values (timestamps in particular) arrive in the shape the model expects.
func (d Document) DataTo(v interface{}) error {
	if d.Data == nil {
		return fmt.Errorf("doc %q has no data", d.ID)
	}

	b, err := json.Marshal(d.Data)
	if err != nil {
		return err
	}

	return json.Unmarshal(b, v)
}

// Snapshot is the full result set of a live query at ReadTime.
type Snapshot struct {
	Documents []Document
	ReadTime  time.Time
}

func (s Snapshot) Size() int {
	return len(s.Documents)
}

type SnapshotEvent struct {
	Snapshot Snapshot
	Err      error
}

type DataBatch struct {
	ID   string
	Data interface{}
}

// Unsubscribe stops a live query. It is safe to call more than once.
type Unsubscribe func()

type Client interface {
	Query(ctx context.Context, collection string, where []filter.Where, orderBy []filter.OrderBy, limit int) ([]Document, error)
	Subscribe(ctx context.Context, collection string, where []filter.Where) (<-chan SnapshotEvent, Unsubscribe)
	Get(ctx context.Context, collection, id string) (Document, error)
	Set(ctx context.Context, collection, id string, data interface{}) (string, error)
	SetAll(ctx context.Context, collection string, data []DataBatch) error
	Update(ctx context.Context, collection, id string, fields map[string]interface{}) error
	Close() error
}
