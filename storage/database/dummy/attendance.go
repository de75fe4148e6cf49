package dummydb

import (
	"context"
	"sort"

	"github.com/tmbureta/academia/core/attendance"
)

type attendanceRepository struct {
	db *table
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) UpsertSheet(ctx context.Context, s attendance.Sheet) (attendance.Sheet, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.docs[s.ID] = &s
	return s, nil
}

func (repo *attendanceRepository) GetSheetByID(ctx context.Context, id string) (attendance.Sheet, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.docs[id]; ok {
		return *(doc.(*attendance.Sheet)), nil
	}
	return attendance.Sheet{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) QueryAllSheets(ctx context.Context) ([]attendance.Sheet, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	sheets := repo.db.sheets()
	sort.Slice(sheets, func(i, j int) bool { return sheets[i].Date < sheets[j].Date })
	return sheets, nil
}
