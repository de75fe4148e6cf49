package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/announcement"
)

type announcementRepository struct {
	announcements docTable
	notifications docTable
}

var _ announcement.Repository = (*announcementRepository)(nil)

func NewAnnouncementRepository(db *sql.DB) announcement.Repository {
	return &announcementRepository{
		announcements: newDocTable(db, "announcements", "date", "title", "type"),
		notifications: newDocTable(db, "notifications", "created_at"),
	}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	if err := repo.announcements.insert(ctx, a.ID, a); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "creating announcement")
	}
	return a, nil
}

func (repo *announcementRepository) GetAnnouncementByID(ctx context.Context, id string) (announcement.Announcement, error) {
	var a announcement.Announcement
	if err := repo.announcements.get(ctx, id, &a); err != nil {
		if err == sql.ErrNoRows {
			return announcement.Announcement{}, announcement.ErrNotFound
		}
		return announcement.Announcement{}, errors.Wrap(err, "getting announcement")
	}
	return a, nil
}

func (repo *announcementRepository) QueryAllAnnouncements(ctx context.Context, orderings ...core.DBOrdering) ([]announcement.Announcement, error) {
	docs, err := repo.announcements.list(ctx, "", "", orderings...)
	if err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}

	anns := make([]announcement.Announcement, 0, len(docs))
	for _, raw := range docs {
		var a announcement.Announcement
		if err = json.Unmarshal(raw, &a); err != nil {
			return nil, errors.Wrap(err, "unmarshaling announcement document")
		}
		anns = append(anns, a)
	}
	return anns, nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	if err := repo.announcements.upsert(ctx, a.ID, a); err != nil {
		return announcement.Announcement{}, errors.Wrap(err, "updating announcement")
	}
	return a, nil
}

func (repo *announcementRepository) DeleteAnnouncementsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.announcements.delete(ctx, ids...), "deleting announcements")
}

func (repo *announcementRepository) CreateNotification(ctx context.Context, n announcement.Notification) (announcement.Notification, error) {
	if err := repo.notifications.insert(ctx, n.ID, n); err != nil {
		return announcement.Notification{}, errors.Wrap(err, "creating notification")
	}
	return n, nil
}

func (repo *announcementRepository) GetNotificationByID(ctx context.Context, id string) (announcement.Notification, error) {
	var n announcement.Notification
	if err := repo.notifications.get(ctx, id, &n); err != nil {
		if err == sql.ErrNoRows {
			return announcement.Notification{}, announcement.ErrNotFound
		}
		return announcement.Notification{}, errors.Wrap(err, "getting notification")
	}
	return n, nil
}

func (repo *announcementRepository) FilterNotifications(ctx context.Context, userID string) ([]announcement.Notification, error) {
	docs, err := repo.notifications.list(ctx, "user_id", userID, core.DBOrdering{Field: "created_at"})
	if err != nil {
		return nil, errors.Wrap(err, "querying notifications")
	}

	notifs := make([]announcement.Notification, 0, len(docs))
	for _, raw := range docs {
		var n announcement.Notification
		if err = json.Unmarshal(raw, &n); err != nil {
			return nil, errors.Wrap(err, "unmarshaling notification document")
		}
		notifs = append(notifs, n)
	}
	return notifs, nil
}

func (repo *announcementRepository) UpdateNotification(ctx context.Context, n announcement.Notification) (announcement.Notification, error) {
	if err := repo.notifications.upsert(ctx, n.ID, n); err != nil {
		return announcement.Notification{}, errors.Wrap(err, "updating notification")
	}
	return n, nil
}
