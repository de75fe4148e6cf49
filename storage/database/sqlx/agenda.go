package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core/agenda"
)

type agendaRepository struct {
	events docTable
}

var _ agenda.Repository = (*agendaRepository)(nil)

func NewAgendaRepository(db *sql.DB) agenda.Repository {
	return &agendaRepository{events: newDocTable(db, "events", "date")}
}

func (repo *agendaRepository) CreateEvent(ctx context.Context, e agenda.Event) (agenda.Event, error) {
	if err := repo.events.insert(ctx, e.ID, e); err != nil {
		return agenda.Event{}, errors.Wrap(err, "creating event")
	}
	return e, nil
}

func (repo *agendaRepository) QueryAllEvents(ctx context.Context) ([]agenda.Event, error) {
	docs, err := repo.events.list(ctx, "", "")
	if err != nil {
		return nil, errors.Wrap(err, "querying events")
	}

	events := make([]agenda.Event, 0, len(docs))
	for _, raw := range docs {
		var e agenda.Event
		if err = json.Unmarshal(raw, &e); err != nil {
			return nil, errors.Wrap(err, "unmarshaling event document")
		}
		events = append(events, e)
	}
	return events, nil
}

func (repo *agendaRepository) DeleteEventsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.events.delete(ctx, ids...), "deleting events")
}
