package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/NischalAcharya060/GearZone-sub001/internal/database"
	ierr "github.com/NischalAcharya060/GearZone-sub001/internal/errors"
	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/filter"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/helper"
	"github.com/NischalAcharya060/GearZone-sub001/internal/repository/ops"

	"github.com/rs/zerolog/log"
)

type NotificationRepository struct {
	db database.Client
}

var _ IRepository = NotificationRepository{}

func New(db database.Client) NotificationRepository {
	return NotificationRepository{
		db: db,
	}
}

func (r NotificationRepository) WatchUnread(ctx context.Context, userID string) (<-chan UnreadEvent, database.Unsubscribe) {
	where := []filter.Where{
		{Path: UserIdFieldPath, Op: ops.Equal, Value: userID},
		{Path: ReadFieldPath, Op: ops.Equal, Value: false},
	}

	ctx, cancel := context.WithCancel(ctx)
	events, stop := r.db.Subscribe(ctx, notificationNode, where)

	ch := make(chan UnreadEvent)
	go func() {
		defer close(ch)

		for e := range events {
			if e.Err != nil {
				log.Error().Err(e.Err).Str("userId", userID).Msg("notification repo: failed to read events")
				helper.NonblockingWrite[UnreadEvent](ctx, channelWriteTimeout, ch, UnreadEvent{Err: e.Err})
				continue
			}

			unread := helper.Decode(notificationNode, e.Snapshot.Documents, func(n *model.Notification, id string) {
				n.ID = id
			})

			select {
			case ch <- UnreadEvent{Notifications: unread, Size: e.Snapshot.Size()}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return ch, func() {
		stop()
		cancel()
	}
}

func (r NotificationRepository) Create(ctx context.Context, data model.Notification) (string, error) {
	if data.UserID == "" {
		return "", fmt.Errorf("create notification: %w", ierr.Invalid("userId", "must not be empty"))
	}
	if data.CreatedAt == 0 {
		data.CreatedAt = model.TimestampOf(time.Now().UTC())
	}

	id, err := r.db.Set(ctx, notificationNode, data.ID, map[string]interface{}{
		UserIdFieldPath:    data.UserID,
		TitleFieldPath:     data.Title,
		BodyFieldPath:      data.Body,
		ReadFieldPath:      data.Read,
		CreatedAtFieldPath: data.CreatedAt.Time(),
	})
	if err != nil {
		return "", fmt.Errorf("create notification: %w, userId: %s", err, data.UserID)
	}
	return id, nil
}

func (r NotificationRepository) MarkRead(ctx context.Context, id string) error {
	err := r.db.Update(ctx, notificationNode, id, map[string]interface{}{ReadFieldPath: true})
	if errors.Is(err, ierr.NotFound) {
		return ierr.NotFound
	}
	if err != nil {
		return fmt.Errorf("mark notification read: %w, id: %s", err, id)
	}
	return nil
}
