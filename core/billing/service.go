package billing

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("financial record not found")
)

type (
	Repository interface {
		CreateRecord(ctx context.Context, rec FinancialRecord) (FinancialRecord, error)
		GetRecordByID(ctx context.Context, id string) (FinancialRecord, error)
		// FilterRecords applies AND operation on available QueryFilter fields.
		FilterRecords(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]FinancialRecord, error)
		UpdateRecord(ctx context.Context, rec FinancialRecord) (FinancialRecord, error)
		DeleteRecordsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, nr NewRecord) (FinancialRecord, error)
		Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]FinancialRecord, error)
		GetByID(ctx context.Context, id string) (FinancialRecord, error)
		AddPayment(ctx context.Context, recordID string, np NewPayment) (FinancialRecord, error)
		MarkPaid(ctx context.Context, recordID string) (FinancialRecord, error)
		SetStatus(ctx context.Context, recordID string, status Status) (FinancialRecord, error)
		StudentSummary(ctx context.Context, studentID string) (Summary, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo     Repository
		usrSvc   user.Service
		mailSvc  core.EmailService
		notifier core.Notifier
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, usrSvc user.Service, mailSvc core.EmailService, notifier core.Notifier, conf *core.Config) Service {
	return &service{
		repo:     repo,
		usrSvc:   usrSvc,
		mailSvc:  mailSvc,
		notifier: notifier,
		conf:     conf,
	}
}

func (svc *service) Create(ctx context.Context, nr NewRecord) (FinancialRecord, error) {
	rec, err := svc.repo.CreateRecord(ctx, OpenRecord(nr, time.Now()))
	if err != nil {
		return FinancialRecord{}, err
	}

	if svc.notifier != nil {
		if err := svc.notifier.Notify(
			ctx, rec.StudentID,
			"Nova Cobrança",
			"Um novo lançamento de "+rec.Category+" foi adicionado.",
			"/student/financial",
		); err != nil {
			// record is persisted; a lost notification is not fatal
			return rec, nil
		}
	}
	return rec, nil
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, orderings ...core.DBOrdering) ([]FinancialRecord, error) {
	return svc.repo.FilterRecords(ctx, filter, orderings...)
}

func (svc *service) GetByID(ctx context.Context, id string) (FinancialRecord, error) {
	return svc.repo.GetRecordByID(ctx, id)
}

// AddPayment logs a payment and persists the updated record. The in-memory
// update is only observable after the store write succeeds: on write error the
// previous state stands and the error is returned whole.
func (svc *service) AddPayment(ctx context.Context, recordID string, np NewPayment) (FinancialRecord, error) {
	rec, err := svc.repo.GetRecordByID(ctx, recordID)
	if err != nil {
		return FinancialRecord{}, err
	}

	updated, err := Apply(rec, np, time.Now())
	if err != nil {
		return FinancialRecord{}, err
	}

	updated, err = svc.repo.UpdateRecord(ctx, updated)
	if err != nil {
		return FinancialRecord{}, errors.Wrap(err, "persisting payment")
	}

	svc.sendReceipt(ctx, updated, np)
	return updated, nil
}

// MarkPaid is the administrative override; see billing.MarkPaid.
func (svc *service) MarkPaid(ctx context.Context, recordID string) (FinancialRecord, error) {
	rec, err := svc.repo.GetRecordByID(ctx, recordID)
	if err != nil {
		return FinancialRecord{}, err
	}
	return svc.repo.UpdateRecord(ctx, MarkPaid(rec, time.Now()))
}

// SetStatus stores a status directly; this is how Vencido gets flagged.
func (svc *service) SetStatus(ctx context.Context, recordID string, status Status) (FinancialRecord, error) {
	rec, err := svc.repo.GetRecordByID(ctx, recordID)
	if err != nil {
		return FinancialRecord{}, err
	}
	rec.Status = status
	rec.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateRecord(ctx, rec)
}

func (svc *service) StudentSummary(ctx context.Context, studentID string) (Summary, error) {
	records, err := svc.repo.FilterRecords(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteRecordsByID(ctx, ids...)
}

func (svc *service) sendReceipt(ctx context.Context, rec FinancialRecord, np NewPayment) {
	if svc.notifier != nil {
		_ = svc.notifier.Notify(
			ctx, rec.StudentID,
			"Pagamento Registrado",
			"Recebemos um pagamento referente a "+rec.Description+".",
			"/student/financial",
		)
	}
	if svc.mailSvc == nil || svc.usrSvc == nil {
		return
	}
	student, err := svc.usrSvc.GetByID(ctx, rec.StudentID)
	if err != nil || student.Email == "" {
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      "Recibo de pagamento",
		TemplateName: "billing_receipt",
		TemplateData: struct {
			StudentName string
			Amount      float64
			Method      Method
			Description string
			Balance     float64
			Status      Status
		}{student.Name, np.Amount, np.Method, rec.Description, rec.Balance, rec.Status},
	})
}
