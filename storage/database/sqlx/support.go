package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/support"
)

type supportRepository struct {
	tickets docTable
}

var _ support.Repository = (*supportRepository)(nil)

func NewSupportRepository(db *sql.DB) support.Repository {
	return &supportRepository{tickets: newDocTable(db, "tickets", "created_at", "status", "sector")}
}

func (repo *supportRepository) CreateTicket(ctx context.Context, t support.Ticket) (support.Ticket, error) {
	if err := repo.tickets.insert(ctx, t.ID, t); err != nil {
		return support.Ticket{}, errors.Wrap(err, "creating ticket")
	}
	return t, nil
}

func (repo *supportRepository) GetTicketByID(ctx context.Context, id string) (support.Ticket, error) {
	var t support.Ticket
	if err := repo.tickets.get(ctx, id, &t); err != nil {
		if err == sql.ErrNoRows {
			return support.Ticket{}, support.ErrNotFound
		}
		return support.Ticket{}, errors.Wrap(err, "getting ticket")
	}
	return t, nil
}

func (repo *supportRepository) FilterTickets(ctx context.Context, studentID string, orderings ...core.DBOrdering) ([]support.Ticket, error) {
	var field, value string
	if studentID != "" {
		field, value = "student_id", studentID
	}
	if len(orderings) == 0 {
		orderings = []core.DBOrdering{{Field: "created_at"}}
	}

	docs, err := repo.tickets.list(ctx, field, value, orderings...)
	if err != nil {
		return nil, errors.Wrap(err, "querying tickets")
	}

	tickets := make([]support.Ticket, 0, len(docs))
	for _, raw := range docs {
		var t support.Ticket
		if err = json.Unmarshal(raw, &t); err != nil {
			return nil, errors.Wrap(err, "unmarshaling ticket document")
		}
		tickets = append(tickets, t)
	}
	return tickets, nil
}

func (repo *supportRepository) UpdateTicket(ctx context.Context, t support.Ticket) (support.Ticket, error) {
	if err := repo.tickets.upsert(ctx, t.ID, t); err != nil {
		return support.Ticket{}, errors.Wrap(err, "updating ticket")
	}
	return t, nil
}
