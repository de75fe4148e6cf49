package support

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tmbureta/academia/core"
)

// Sector routes a ticket to the department that handles it.
type Sector string

const (
	SectorSecretaria Sector = "Secretaria"
	SectorFinanceiro Sector = "Financeiro"
	SectorTI         Sector = "TI"
	SectorPedagogico Sector = "Pedagógico"
)

var AllSectors = []Sector{SectorSecretaria, SectorFinanceiro, SectorTI, SectorPedagogico}

// Status is the ticket's lifecycle state. Tickets open as Aberto; every
// transition is an explicit staff action recorded in the history.
type Status string

const (
	StatusAberto    Status = "Aberto"
	StatusEmAnalise Status = "Em Análise"
	StatusResolvido Status = "Resolvido"
	StatusCancelado Status = "Cancelado"
)

var AllStatuses = []Status{StatusAberto, StatusEmAnalise, StatusResolvido, StatusCancelado}

// HistoryEntry is one audit line on a ticket. Entries are append-only.
type HistoryEntry struct {
	Date       time.Time `json:"date"` // UTC
	Action     string    `json:"action"`
	AuthorName string    `json:"author_name"`
}

// Ticket is a support request a student raises with the institution.
type Ticket struct {
	ID          string         `json:"id"`
	StudentID   string         `json:"student_id"`
	Sector      Sector         `json:"sector"`
	Subject     string         `json:"subject"`
	Description string         `json:"description"`
	Status      Status         `json:"status"`
	History     []HistoryEntry `json:"history"`
	CreatedAt   time.Time      `json:"created_at"` // UTC
}

// NewTicket contains information needed to open a Ticket.
type NewTicket struct {
	Sector      Sector `json:"sector" validate:"required,ticketsector"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func (nt *NewTicket) Validate(validate *validator.Validate) error {
	nt.Subject = core.CleanString(nt.Subject)
	return validate.Struct(nt)
}

// StatusChange carries a staff decision on a ticket, with an optional remark
// for the history line.
type StatusChange struct {
	Status  Status `json:"status" validate:"required,ticketstatus"`
	Comment string `json:"comment"`
}

func (sc *StatusChange) Validate(validate *validator.Validate) error {
	sc.Comment = core.CleanString(sc.Comment)
	return validate.Struct(sc)
}
