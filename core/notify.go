package core

import "context"

// Notifier delivers in-app notifications to a single user.
// Delivery mechanics (push, polling) are up to the implementation.
type Notifier interface {
	Notify(ctx context.Context, userID, title, message, link string) error
}
