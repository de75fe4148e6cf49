package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/attendance"
)

type attendanceRepository struct {
	table docTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sql.DB) attendance.Repository {
	return &attendanceRepository{table: newDocTable(db, "attendance_sheets")}
}

func (repo *attendanceRepository) UpsertSheet(ctx context.Context, s attendance.Sheet) (attendance.Sheet, error) {
	if err := repo.table.upsert(ctx, s.ID, s); err != nil {
		return attendance.Sheet{}, errors.Wrap(err, "upserting attendance sheet")
	}
	return s, nil
}

func (repo *attendanceRepository) GetSheetByID(ctx context.Context, id string) (attendance.Sheet, error) {
	var s attendance.Sheet
	if err := repo.table.get(ctx, id, &s); err != nil {
		if err == sql.ErrNoRows {
			return attendance.Sheet{}, attendance.ErrNotFound
		}
		return attendance.Sheet{}, errors.Wrap(err, "getting attendance sheet")
	}
	return s, nil
}

func (repo *attendanceRepository) QueryAllSheets(ctx context.Context) ([]attendance.Sheet, error) {
	docs, err := repo.table.list(ctx, "", "", core.DBOrdering{Field: "date"})
	if err != nil {
		return nil, errors.Wrap(err, "querying attendance sheets")
	}

	sheets := make([]attendance.Sheet, 0, len(docs))
	for _, raw := range docs {
		var s attendance.Sheet
		if err = json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(err, "unmarshaling attendance sheet document")
		}
		sheets = append(sheets, s)
	}
	return sheets, nil
}
