package agenda

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tmbureta/academia/core/user"
)

type (
	Repository interface {
		CreateEvent(ctx context.Context, e Event) (Event, error)
		QueryAllEvents(ctx context.Context) ([]Event, error)
		DeleteEventsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, ne NewEvent) (Event, error)
		// QueryVisible resolves targeting and returns events in
		// chronological order.
		QueryVisible(ctx context.Context, usr user.User) ([]Event, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ne NewEvent) (Event, error) {
	return svc.repo.CreateEvent(ctx, Event{
		ID:          uuid.New().String(),
		Title:       ne.Title,
		Date:        ne.Date,
		Type:        ne.Type,
		TargetType:  ne.TargetType,
		TargetID:    ne.TargetID,
		Description: ne.Description,
		CreatedAt:   time.Now().UTC(),
	})
}

func (svc *service) QueryVisible(ctx context.Context, usr user.User) ([]Event, error) {
	all, err := svc.repo.QueryAllEvents(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]Event, 0, len(all))
	for _, e := range all {
		if e.VisibleTo(usr) {
			visible = append(visible, e)
		}
	}
	// YYYY-MM-DD sorts lexicographically
	sort.Slice(visible, func(i, j int) bool { return visible[i].Date < visible[j].Date })
	return visible, nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteEventsByID(ctx, ids...)
}
