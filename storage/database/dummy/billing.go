package dummydb

import (
	"context"
	"sort"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/billing"
)

type billingRepository struct {
	db *table
}

var _ billing.Repository = (*billingRepository)(nil) // interface compliance check

func NewBillingRepository(db *DB) billing.Repository {
	return &billingRepository{db: db.billing}
}

func (repo *billingRepository) CreateRecord(ctx context.Context, rec billing.FinancialRecord) (billing.FinancialRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.docs[rec.ID] = &rec
	return rec, nil
}

func (repo *billingRepository) GetRecordByID(ctx context.Context, id string) (billing.FinancialRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.docs[id]; ok {
		return *(doc.(*billing.FinancialRecord)), nil
	}
	return billing.FinancialRecord{}, billing.ErrNotFound
}

func (repo *billingRepository) FilterRecords(ctx context.Context, filter billing.QueryFilter, orderings ...core.DBOrdering) ([]billing.FinancialRecord, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var recs []billing.FinancialRecord
	for _, rec := range repo.db.records() {
		if filter.Match(rec) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].ID < recs[j].ID })
	return recs, nil
}

func (repo *billingRepository) UpdateRecord(ctx context.Context, rec billing.FinancialRecord) (billing.FinancialRecord, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.docs[rec.ID]; !ok {
		return billing.FinancialRecord{}, billing.ErrNotFound
	}
	repo.db.docs[rec.ID] = &rec
	return rec, nil
}

func (repo *billingRepository) DeleteRecordsByID(ctx context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, id := range ids {
		delete(repo.db.docs, id)
	}
	return nil
}
