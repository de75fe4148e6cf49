package dummydb

import (
	"context"
	"sort"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/announcement"
)

type announcementRepository struct {
	announcements *table
	notifications *table
}

var _ announcement.Repository = (*announcementRepository)(nil) // interface compliance check

func NewAnnouncementRepository(db *DB) announcement.Repository {
	return &announcementRepository{announcements: db.announcement, notifications: db.notification}
}

func (repo *announcementRepository) CreateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.announcements.Lock()
	defer repo.announcements.Unlock()

	repo.announcements.docs[a.ID] = &a
	return a, nil
}

func (repo *announcementRepository) GetAnnouncementByID(ctx context.Context, id string) (announcement.Announcement, error) {
	repo.announcements.RLock()
	defer repo.announcements.RUnlock()

	if doc, ok := repo.announcements.docs[id]; ok {
		return *(doc.(*announcement.Announcement)), nil
	}
	return announcement.Announcement{}, announcement.ErrNotFound
}

func (repo *announcementRepository) QueryAllAnnouncements(ctx context.Context, orderings ...core.DBOrdering) ([]announcement.Announcement, error) {
	repo.announcements.RLock()
	defer repo.announcements.RUnlock()

	anns := repo.announcements.announcements()
	sort.Slice(anns, func(i, j int) bool { return anns[i].Date.After(anns[j].Date) })
	return anns, nil
}

func (repo *announcementRepository) UpdateAnnouncement(ctx context.Context, a announcement.Announcement) (announcement.Announcement, error) {
	repo.announcements.Lock()
	defer repo.announcements.Unlock()

	if _, ok := repo.announcements.docs[a.ID]; !ok {
		return announcement.Announcement{}, announcement.ErrNotFound
	}
	repo.announcements.docs[a.ID] = &a
	return a, nil
}

func (repo *announcementRepository) DeleteAnnouncementsByID(ctx context.Context, ids ...string) error {
	repo.announcements.Lock()
	defer repo.announcements.Unlock()

	for _, id := range ids {
		delete(repo.announcements.docs, id)
	}
	return nil
}

func (repo *announcementRepository) CreateNotification(ctx context.Context, n announcement.Notification) (announcement.Notification, error) {
	repo.notifications.Lock()
	defer repo.notifications.Unlock()

	repo.notifications.docs[n.ID] = &n
	return n, nil
}

func (repo *announcementRepository) GetNotificationByID(ctx context.Context, id string) (announcement.Notification, error) {
	repo.notifications.RLock()
	defer repo.notifications.RUnlock()

	if doc, ok := repo.notifications.docs[id]; ok {
		return *(doc.(*announcement.Notification)), nil
	}
	return announcement.Notification{}, announcement.ErrNotFound
}

func (repo *announcementRepository) FilterNotifications(ctx context.Context, userID string) ([]announcement.Notification, error) {
	repo.notifications.RLock()
	defer repo.notifications.RUnlock()

	var notifs []announcement.Notification
	for _, n := range repo.notifications.notifications() {
		if n.UserID == userID {
			notifs = append(notifs, n)
		}
	}
	sort.Slice(notifs, func(i, j int) bool { return notifs[i].CreatedAt.After(notifs[j].CreatedAt) })
	return notifs, nil
}

func (repo *announcementRepository) UpdateNotification(ctx context.Context, n announcement.Notification) (announcement.Notification, error) {
	repo.notifications.Lock()
	defer repo.notifications.Unlock()

	if _, ok := repo.notifications.docs[n.ID]; !ok {
		return announcement.Notification{}, announcement.ErrNotFound
	}
	repo.notifications.docs[n.ID] = &n
	return n, nil
}
