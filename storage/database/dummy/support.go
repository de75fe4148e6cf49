package dummydb

import (
	"context"
	"sort"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/support"
)

type supportRepository struct {
	tickets *table
}

var _ support.Repository = (*supportRepository)(nil) // interface compliance check

func NewSupportRepository(db *DB) support.Repository {
	return &supportRepository{tickets: db.ticket}
}

func (repo *supportRepository) CreateTicket(ctx context.Context, t support.Ticket) (support.Ticket, error) {
	repo.tickets.Lock()
	defer repo.tickets.Unlock()

	repo.tickets.docs[t.ID] = &t
	return t, nil
}

func (repo *supportRepository) GetTicketByID(ctx context.Context, id string) (support.Ticket, error) {
	repo.tickets.RLock()
	defer repo.tickets.RUnlock()

	if doc, ok := repo.tickets.docs[id]; ok {
		return *(doc.(*support.Ticket)), nil
	}
	return support.Ticket{}, support.ErrNotFound
}

func (repo *supportRepository) FilterTickets(ctx context.Context, studentID string, orderings ...core.DBOrdering) ([]support.Ticket, error) {
	repo.tickets.RLock()
	defer repo.tickets.RUnlock()

	var tickets []support.Ticket
	for _, t := range repo.tickets.tickets() {
		if studentID != "" && t.StudentID != studentID {
			continue
		}
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool { return tickets[i].CreatedAt.After(tickets[j].CreatedAt) })
	return tickets, nil
}

func (repo *supportRepository) UpdateTicket(ctx context.Context, t support.Ticket) (support.Ticket, error) {
	repo.tickets.Lock()
	defer repo.tickets.Unlock()

	if _, ok := repo.tickets.docs[t.ID]; !ok {
		return support.Ticket{}, support.ErrNotFound
	}
	repo.tickets.docs[t.ID] = &t
	return t, nil
}
