package notification

import (
	"context"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

type UnreadEvent struct {
	Notifications []model.Notification
	// Size is the number of unread documents in the snapshot, including
	// those that failed to decode into Notifications.
	Size int
	Err  error
}

type IRepository interface {
	// WatchUnread streams the unread notifications of userID. The returned
	// channel closes once the subscription is stopped.
	WatchUnread(ctx context.Context, userID string) (<-chan UnreadEvent, database.Unsubscribe)
	Create(ctx context.Context, data model.Notification) (string, error)
	MarkRead(ctx context.Context, id string) error
}
