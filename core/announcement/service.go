package announcement

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("announcement not found")
)

type (
	Repository interface {
		CreateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		GetAnnouncementByID(ctx context.Context, id string) (Announcement, error)
		QueryAllAnnouncements(ctx context.Context, orderings ...core.DBOrdering) ([]Announcement, error)
		UpdateAnnouncement(ctx context.Context, a Announcement) (Announcement, error)
		DeleteAnnouncementsByID(ctx context.Context, ids ...string) error

		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		GetNotificationByID(ctx context.Context, id string) (Notification, error)
		FilterNotifications(ctx context.Context, userID string) ([]Notification, error)
		UpdateNotification(ctx context.Context, n Notification) (Notification, error)
	}

	Service interface {
		core.Notifier

		Create(ctx context.Context, authorID string, na NewAnnouncement) (Announcement, error)
		// QueryVisible resolves targeting and drops expired announcements.
		QueryVisible(ctx context.Context, usr user.User) ([]Announcement, error)
		MarkRead(ctx context.Context, id, userID string) (Announcement, error)
		Delete(ctx context.Context, ids ...string) error

		UserNotifications(ctx context.Context, userID string) ([]Notification, error)
		MarkNotificationRead(ctx context.Context, id, userID string) (Notification, error)
	}

	service struct {
		repo   Repository
		usrSvc user.Service
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service) Service {
	return &service{repo: repo, usrSvc: usrSvc}
}

func (svc *service) Create(ctx context.Context, authorID string, na NewAnnouncement) (Announcement, error) {
	ann, err := svc.repo.CreateAnnouncement(ctx, Announcement{
		ID:         uuid.New().String(),
		Title:      na.Title,
		Content:    na.Content,
		Type:       na.Type,
		TargetType: na.TargetType,
		Audience:   na.Audience,
		TargetID:   na.TargetID,
		AuthorID:   authorID,
		ReadBy:     []string{},
		ExpiresAt:  na.ExpiresAt,
		Date:       time.Now().UTC(),
	})
	if err != nil {
		return Announcement{}, err
	}

	svc.fanOut(ctx, ann)
	return ann, nil
}

// fanOut notifies every targeted user except the author.
func (svc *service) fanOut(ctx context.Context, ann Announcement) {
	if svc.usrSvc == nil {
		return
	}
	targets, err := svc.targetUsers(ctx, ann)
	if err != nil {
		return
	}

	preview := ann.Content
	// truncate on runes; content is Portuguese and slicing bytes can cut
	// an accented character in half
	if runes := []rune(preview); len(runes) > 50 {
		preview = string(runes[:50]) + "..."
	}
	for _, usr := range targets {
		if usr.ID == ann.AuthorID {
			continue
		}
		_ = svc.Notify(ctx, usr.ID, "Novo Comunicado: "+ann.Title, preview, "/announcements")
	}
}

func (svc *service) targetUsers(ctx context.Context, ann Announcement) ([]user.User, error) {
	switch ann.TargetType {
	case TargetCourse:
		return svc.usrSvc.Query(ctx, user.QueryFilter{CourseID: ann.TargetID})
	case TargetClass:
		return svc.usrSvc.Query(ctx, user.QueryFilter{ClassID: ann.TargetID})
	case TargetUser:
		usr, err := svc.usrSvc.GetByID(ctx, ann.TargetID)
		if err != nil {
			return nil, err
		}
		return []user.User{usr}, nil
	default: // GLOBAL
		return svc.usrSvc.Query(ctx, user.QueryFilter{})
	}
}

func (svc *service) QueryVisible(ctx context.Context, usr user.User) ([]Announcement, error) {
	all, err := svc.repo.QueryAllAnnouncements(ctx)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	visible := make([]Announcement, 0, len(all))
	for _, ann := range all {
		if ann.Expired(now) {
			continue
		}
		if ann.VisibleTo(usr) {
			visible = append(visible, ann)
		}
	}
	return visible, nil
}

func (svc *service) MarkRead(ctx context.Context, id, userID string) (Announcement, error) {
	ann, err := svc.repo.GetAnnouncementByID(ctx, id)
	if err != nil {
		return Announcement{}, err
	}
	if ann.ReadByUser(userID) {
		return ann, nil
	}
	ann.ReadBy = append(ann.ReadBy, userID)
	return svc.repo.UpdateAnnouncement(ctx, ann)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteAnnouncementsByID(ctx, ids...)
}

// Notify implements core.Notifier.
func (svc *service) Notify(ctx context.Context, userID, title, message, link string) error {
	_, err := svc.repo.CreateNotification(ctx, Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Link:      link,
		CreatedAt: time.Now().UTC(),
	})
	return err
}

func (svc *service) UserNotifications(ctx context.Context, userID string) ([]Notification, error) {
	return svc.repo.FilterNotifications(ctx, userID)
}

func (svc *service) MarkNotificationRead(ctx context.Context, id, userID string) (Notification, error) {
	n, err := svc.repo.GetNotificationByID(ctx, id)
	if err != nil {
		return Notification{}, err
	}
	// notifications are private
	if n.UserID != userID {
		return Notification{}, ErrNotFound
	}
	n.Read = true
	return svc.repo.UpdateNotification(ctx, n)
}
