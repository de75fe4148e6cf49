package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/billing"
)

type billingRepository struct {
	table docTable
}

var _ billing.Repository = (*billingRepository)(nil)

func NewBillingRepository(db *sql.DB) billing.Repository {
	return &billingRepository{table: newDocTable(db, "financial_records", "due_date", "amount", "status", "category", "created_at")}
}

func (repo *billingRepository) CreateRecord(ctx context.Context, rec billing.FinancialRecord) (billing.FinancialRecord, error) {
	if err := repo.table.insert(ctx, rec.ID, rec); err != nil {
		return billing.FinancialRecord{}, errors.Wrap(err, "creating financial record")
	}
	return rec, nil
}

func (repo *billingRepository) GetRecordByID(ctx context.Context, id string) (billing.FinancialRecord, error) {
	var rec billing.FinancialRecord
	if err := repo.table.get(ctx, id, &rec); err != nil {
		if err == sql.ErrNoRows {
			return billing.FinancialRecord{}, billing.ErrNotFound
		}
		return billing.FinancialRecord{}, errors.Wrap(err, "getting financial record")
	}
	return rec, nil
}

func (repo *billingRepository) FilterRecords(ctx context.Context, filter billing.QueryFilter, orderings ...core.DBOrdering) ([]billing.FinancialRecord, error) {
	field, value := "", ""
	if filter.StudentID != "" {
		field, value = "student_id", filter.StudentID
	} else if filter.Status != "" {
		field, value = "status", string(filter.Status)
	}

	docs, err := repo.table.list(ctx, field, value, orderings...)
	if err != nil {
		return nil, errors.Wrap(err, "querying financial records")
	}

	recs := make([]billing.FinancialRecord, 0, len(docs))
	for _, raw := range docs {
		var rec billing.FinancialRecord
		if err = json.Unmarshal(raw, &rec); err != nil {
			return nil, errors.Wrap(err, "unmarshaling financial record document")
		}
		if filter.Match(rec) {
			recs = append(recs, rec)
		}
	}
	return recs, nil
}

func (repo *billingRepository) UpdateRecord(ctx context.Context, rec billing.FinancialRecord) (billing.FinancialRecord, error) {
	if err := repo.table.upsert(ctx, rec.ID, rec); err != nil {
		return billing.FinancialRecord{}, errors.Wrap(err, "updating financial record")
	}
	return rec, nil
}

func (repo *billingRepository) DeleteRecordsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.table.delete(ctx, ids...), "deleting financial records")
}
