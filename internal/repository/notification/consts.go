package notification

import "time"

const (
	// collection name
	notificationNode string = "notifications"

	// Fields' name and path
	UserIdFieldPath    string = "userId"
	TitleFieldPath     string = "title"
	BodyFieldPath      string = "body"
	ReadFieldPath      string = "read"
	CreatedAtFieldPath string = "createdAt"

	// Only stream errors go through the timed write; snapshots wait for the reader.
	channelWriteTimeout time.Duration = time.Second * 3
)
