package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/tmbureta/academia/core"
)

// OpenRecord builds a fresh FinancialRecord from a NewRecord. Records always
// start Pendente with the full net amount outstanding.
func OpenRecord(nr NewRecord, now time.Time) FinancialRecord {
	now = now.UTC()
	rec := FinancialRecord{
		ID:          uuid.New().String(),
		StudentID:   nr.StudentID,
		Description: nr.Description,
		Amount:      nr.Amount,
		Discount:    nr.Discount,
		DueDate:     nr.DueDate,
		Status:      StatusPendente,
		Category:    nr.Category,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	rec.Balance = rec.NetAmount()
	return rec
}

// Apply logs a payment against the record and returns the updated copy; the
// input record is not mutated. A payment must be positive and must not exceed
// the outstanding balance, otherwise the operation is rejected with a
// ValidationError and no state changes.
//
// Apply is deliberately not idempotent: every call represents a distinct
// real-world payment event, so calling it twice with the same arguments logs
// two payments and deducts the balance twice. Duplicate submission must be
// prevented by the caller (eg. a confirmation step in the UI).
func Apply(rec FinancialRecord, np NewPayment, now time.Time) (FinancialRecord, error) {
	balance := rec.OutstandingBalance()
	if np.Amount <= 0 || np.Amount > balance {
		return rec, core.NewValidationError(
			errors.New("invalid payment amount"),
			core.FieldError{
				Field: "amount",
				Error: fmt.Sprintf("payment must be between R$ 0.01 and R$ %.2f", balance),
			},
		)
	}

	now = now.UTC()
	payments := make([]Payment, 0, len(rec.Payments)+1)
	payments = append(payments, rec.Payments...)
	payments = append(payments, Payment{
		ID:     uuid.New().String(),
		Amount: np.Amount,
		Date:   now,
		Method: np.Method,
		Notes:  np.Notes,
	})
	rec.Payments = payments

	totalPaid := rec.TotalPaid()
	rec.Balance = rec.NetAmount() - totalPaid

	switch {
	case rec.Balance <= 0:
		rec.Status = StatusPago
		rec.PaidAt = null.TimeFrom(now)
	case totalPaid > 0:
		rec.Status = StatusParcial
	default:
		// unreachable given the precondition; keeps a stored Vencido intact
	}
	rec.UpdatedAt = now
	return rec, nil
}

// MarkPaid marks the record fully paid without touching payments or balance.
// This is the administrative override for money collected outside the payment
// log; it can leave balance and status inconsistent on purpose.
func MarkPaid(rec FinancialRecord, now time.Time) FinancialRecord {
	now = now.UTC()
	rec.Status = StatusPago
	rec.PaidAt = null.TimeFrom(now)
	rec.UpdatedAt = now
	return rec
}

// Summary aggregates a set of financial records the way the finance screens
// report them.
type Summary struct {
	TotalPaid        float64 `json:"total_paid"`
	TotalPending     float64 `json:"total_pending"`
	PartialPaid      float64 `json:"partial_paid"`
	PartialRemaining float64 `json:"partial_remaining"`
	TotalOverdue     float64 `json:"total_overdue"`
}

// Summarize computes totals over records. Pending covers Pendente and Vencido
// outstanding balances; partial records contribute both what was paid and what
// remains.
func Summarize(records []FinancialRecord) Summary {
	var s Summary
	for i := range records {
		rec := &records[i]
		switch rec.Status {
		case StatusPago:
			s.TotalPaid += rec.Amount
		case StatusParcial:
			s.PartialPaid += rec.TotalPaid()
			s.PartialRemaining += rec.Balance
		case StatusVencido:
			s.TotalPending += rec.Balance
			s.TotalOverdue += rec.Balance
		case StatusPendente:
			s.TotalPending += rec.Balance
		}
	}
	return s
}
