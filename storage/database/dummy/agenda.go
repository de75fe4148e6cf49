package dummydb

import (
	"context"

	"github.com/tmbureta/academia/core/agenda"
)

type agendaRepository struct {
	events *table
}

var _ agenda.Repository = (*agendaRepository)(nil) // interface compliance check

func NewAgendaRepository(db *DB) agenda.Repository {
	return &agendaRepository{events: db.event}
}

func (repo *agendaRepository) CreateEvent(ctx context.Context, e agenda.Event) (agenda.Event, error) {
	repo.events.Lock()
	defer repo.events.Unlock()

	repo.events.docs[e.ID] = &e
	return e, nil
}

func (repo *agendaRepository) QueryAllEvents(ctx context.Context) ([]agenda.Event, error) {
	repo.events.RLock()
	defer repo.events.RUnlock()

	return repo.events.events(), nil
}

func (repo *agendaRepository) DeleteEventsByID(ctx context.Context, ids ...string) error {
	repo.events.Lock()
	defer repo.events.Unlock()

	for _, id := range ids {
		delete(repo.events.docs, id)
	}
	return nil
}
