package billing

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/tmbureta/academia/core"
)

// Status is the stored payment status of a FinancialRecord.
// Vencido is set by an explicit administrative action, never derived from the
// due date by the ledger itself; see Overdue for the computed counterpart.
type Status string

const (
	StatusPendente Status = "Pendente"
	StatusParcial  Status = "Parcial"
	StatusVencido  Status = "Vencido"
	StatusPago     Status = "Pago"
)

// Method is a payment method.
type Method string

const (
	MethodDinheiro      Method = "Dinheiro"
	MethodPIX           Method = "PIX"
	MethodCartao        Method = "Cartão"
	MethodTransferencia Method = "Transferência"
)

var AllMethods = []Method{MethodDinheiro, MethodPIX, MethodCartao, MethodTransferencia}

// Payment is a single payment event on a FinancialRecord. Immutable once created.
type Payment struct {
	ID     string    `json:"id"`
	Amount float64   `json:"amount"`
	Date   time.Time `json:"date"`
	Method Method    `json:"method"`
	Notes  string    `json:"notes,omitempty"`
}

// FinancialRecord is one billable obligation for a student (eg. a monthly tuition charge).
type FinancialRecord struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"student_id"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Discount    float64   `json:"discount,omitempty"`
	DueDate     time.Time `json:"due_date"`
	Status      Status    `json:"status"`
	Category    string    `json:"category"`
	PaidAt      null.Time `json:"paid_at,omitempty"`
	Payments    []Payment `json:"payments,omitempty"`
	Balance     float64   `json:"balance"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NetAmount is the charge after discount.
func (r *FinancialRecord) NetAmount() float64 {
	return r.Amount - r.Discount
}

// TotalPaid sums all payments logged against the record.
func (r *FinancialRecord) TotalPaid() float64 {
	var total float64
	for _, p := range r.Payments {
		total += p.Amount
	}
	return total
}

// OutstandingBalance recomputes the balance from scratch. The stored Balance
// field must always equal this value after a ledger operation.
func (r *FinancialRecord) OutstandingBalance() float64 {
	return r.NetAmount() - r.TotalPaid()
}

// Overdue reports whether the record is past due as of today, regardless of
// the stored status. Date-only comparison; time of day is ignored.
func (r *FinancialRecord) Overdue(today time.Time) bool {
	return r.Status != StatusPago && core.Today(r.DueDate).Before(core.Today(today))
}

// NewRecord contains information needed to create a new FinancialRecord.
type NewRecord struct {
	StudentID   string    `json:"student_id" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Amount      float64   `json:"amount" validate:"required,gte=0"`
	Discount    float64   `json:"discount" validate:"omitempty,gte=0,ltefield=Amount"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	Category    string    `json:"category" validate:"required"`
}

func (nr *NewRecord) Validate(validate *validator.Validate) error {
	nr.Description = core.CleanString(nr.Description)
	nr.Category = core.CleanString(nr.Category)
	return validate.Struct(nr)
}

// NewPayment contains information needed to log a payment against a record.
type NewPayment struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method Method  `json:"method" validate:"required,paymethod"`
	Notes  string  `json:"notes"`
}

func (np *NewPayment) Validate(validate *validator.Validate) error {
	np.Notes = core.CleanString(np.Notes)
	return validate.Struct(np)
}

type QueryFilter struct {
	StudentID string `query:"student_id"`
	Status    Status `query:"status"`
	Category  string `query:"category"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.StudentID == "" && qf.Status == "" && qf.Category == ""
}

// Match reports whether rec satisfies all set filter fields (AND semantics).
func (qf *QueryFilter) Match(rec FinancialRecord) bool {
	if qf.StudentID != "" && rec.StudentID != qf.StudentID {
		return false
	}
	if qf.Status != "" && rec.Status != qf.Status {
		return false
	}
	if qf.Category != "" && rec.Category != qf.Category {
		return false
	}
	return true
}
