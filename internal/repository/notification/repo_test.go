package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database/memory"
	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

func receive(t *testing.T, ch <-chan UnreadEvent) UnreadEvent {
	t.Helper()
	select {
	case e, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed")
		}
		return e
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out")
	}
	return UnreadEvent{}
}

func TestWatchUnread(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	repo := New(db)

	ch, stop := repo.WatchUnread(ctx, "u1")
	if e := receive(t, ch); len(e.Notifications) != 0 {
		t.Fatalf("expected empty initial snapshot")
	}

	id, err := repo.Create(ctx, model.Notification{UserID: "u1", Title: "Order shipped"})
	if err != nil {
		t.Fatal(err)
	}
	e := receive(t, ch)
	if len(e.Notifications) != 1 || e.Notifications[0].ID != id {
		t.Fatalf("unexpected unread %+v", e.Notifications)
	}

	// another user's notification still triggers a snapshot, but not a match
	if _, err := repo.Create(ctx, model.Notification{UserID: "u2"}); err != nil {
		t.Fatal(err)
	}
	if e := receive(t, ch); len(e.Notifications) != 1 {
		t.Fatalf("foreign notification must not count, got %d", len(e.Notifications))
	}

	if err := repo.MarkRead(ctx, id); err != nil {
		t.Fatal(err)
	}
	if e := receive(t, ch); len(e.Notifications) != 0 {
		t.Fatalf("read notification must drop out, got %d", len(e.Notifications))
	}

	stop()
	for range ch {
	}
}

func TestMarkReadNotFound(t *testing.T) {
	repo := New(memory.New())
	if err := repo.MarkRead(context.Background(), "nope"); !errors.Is(err, ierr.NotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
	if _, err := repo.Create(context.Background(), model.Notification{}); !ierr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestWatchUnreadSizeCountsUndecodableDocuments(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	repo := New(db)

	for _, title := range []interface{}{"Order shipped", "Price drop", 42} {
		if _, err := db.Set(ctx, "notifications", "", map[string]interface{}{
			"userId": "u1",
			"read":   false,
			"title":  title,
		}); err != nil {
			t.Fatal(err)
		}
	}

	ch, stop := repo.WatchUnread(ctx, "u1")
	defer stop()

	e := receive(t, ch)
	if len(e.Notifications) != 2 || e.Size != 3 {
		t.Fatalf("expected 2 decoded of 3 unread, got %d of %d", len(e.Notifications), e.Size)
	}
}
