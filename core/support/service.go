package support

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
	ErrNotFound = errors.New("ticket not found")
)

type (
	Repository interface {
		CreateTicket(ctx context.Context, t Ticket) (Ticket, error)
		GetTicketByID(ctx context.Context, id string) (Ticket, error)
		// FilterTickets returns every ticket when studentID is empty.
		FilterTickets(ctx context.Context, studentID string, orderings ...core.DBOrdering) ([]Ticket, error)
		UpdateTicket(ctx context.Context, t Ticket) (Ticket, error)
	}

	Service interface {
		Open(ctx context.Context, author user.User, nt NewTicket) (Ticket, error)
		GetByID(ctx context.Context, id string) (Ticket, error)
		// QueryVisible scopes students to their own tickets; everyone
		// else sees all of them.
		QueryVisible(ctx context.Context, usr user.User) ([]Ticket, error)
		SetStatus(ctx context.Context, actor user.User, ticketID string, sc StatusChange) (Ticket, error)
	}

	service struct {
		repo     Repository
		usrSvc   user.Service
		notifier core.Notifier
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, notifier core.Notifier) Service {
	return &service{repo: repo, usrSvc: usrSvc, notifier: notifier}
}

func (svc *service) Open(ctx context.Context, author user.User, nt NewTicket) (Ticket, error) {
	now := time.Now().UTC()
	tkt, err := svc.repo.CreateTicket(ctx, Ticket{
		ID:          uuid.New().String(),
		StudentID:   author.ID,
		Sector:      nt.Sector,
		Subject:     nt.Subject,
		Description: nt.Description,
		Status:      StatusAberto,
		History: []HistoryEntry{
			{Date: now, Action: "Ticket Criado", AuthorName: author.Name},
		},
		CreatedAt: now,
	})
	if err != nil {
		return Ticket{}, err
	}

	svc.notifyAdmins(ctx, author, tkt)
	return tkt, nil
}

// notifyAdmins pings every admin about a freshly opened ticket.
func (svc *service) notifyAdmins(ctx context.Context, author user.User, tkt Ticket) {
	if svc.notifier == nil || svc.usrSvc == nil {
		return
	}
	admins, err := svc.usrSvc.Query(ctx, user.QueryFilter{Roles: []string{user.RoleAdmin}})
	if err != nil {
		return
	}
	for _, admin := range admins {
		_ = svc.notifier.Notify(
			ctx, admin.ID,
			"Novo Chamado",
			author.Name+" abriu um chamado: "+tkt.Subject,
			"/admin/support",
		)
	}
}

func (svc *service) GetByID(ctx context.Context, id string) (Ticket, error) {
	return svc.repo.GetTicketByID(ctx, id)
}

func (svc *service) QueryVisible(ctx context.Context, usr user.User) ([]Ticket, error) {
	if usr.IsStudent() {
		return svc.repo.FilterTickets(ctx, usr.ID)
	}
	return svc.repo.FilterTickets(ctx, "")
}

// SetStatus transitions the ticket and appends the audit line. The ticket
// owner is notified unless they made the change themselves.
func (svc *service) SetStatus(ctx context.Context, actor user.User, ticketID string, sc StatusChange) (Ticket, error) {
	tkt, err := svc.repo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return Ticket{}, err
	}

	action := "Status alterado para " + string(sc.Status) + "."
	if sc.Comment != "" {
		action += " Obs: " + sc.Comment
	}
	tkt.Status = sc.Status
	tkt.History = append(tkt.History, HistoryEntry{
		Date:       time.Now().UTC(),
		Action:     action,
		AuthorName: actor.Name,
	})

	tkt, err = svc.repo.UpdateTicket(ctx, tkt)
	if err != nil {
		return Ticket{}, err
	}

	if svc.notifier != nil && actor.ID != tkt.StudentID {
		_ = svc.notifier.Notify(
			ctx, tkt.StudentID,
			"Atualização de Chamado",
			`Seu chamado "`+tkt.Subject+`" mudou para `+string(sc.Status)+".",
			"/student/support",
		)
	}
	return tkt, nil
}
