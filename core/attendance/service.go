package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

var (
	// errors
	ErrNotFound = errors.New("attendance sheet not found")
)

type (
	Repository interface {
		// UpsertSheet writes the whole sheet document keyed by its natural key.
		UpsertSheet(ctx context.Context, s Sheet) (Sheet, error)
		GetSheetByID(ctx context.Context, id string) (Sheet, error)
		QueryAllSheets(ctx context.Context) ([]Sheet, error)
	}

	Service interface {
		// Save upserts the roll call for a (date, subject, class) tuple;
		// saving twice for the same tuple replaces the previous marks.
		Save(ctx context.Context, professorID string, ns NewSheet) (Sheet, error)
		Get(ctx context.Context, date, subjectID, classID string) (Sheet, error)
		// StudentHistory collects one student's marks across all sheets.
		StudentHistory(ctx context.Context, studentID string) ([]StudentRecord, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Save(ctx context.Context, professorID string, ns NewSheet) (Sheet, error) {
	return svc.repo.UpsertSheet(ctx, Sheet{
		ID:          NaturalKey(ns.Date, ns.SubjectID, ns.ClassID),
		Date:        ns.Date,
		SubjectID:   ns.SubjectID,
		ProfessorID: professorID,
		ClassID:     ns.ClassID,
		Students:    ns.Students,
		UpdatedAt:   time.Now().UTC(),
	})
}

func (svc *service) Get(ctx context.Context, date, subjectID, classID string) (Sheet, error) {
	return svc.repo.GetSheetByID(ctx, NaturalKey(date, subjectID, classID))
}

func (svc *service) StudentHistory(ctx context.Context, studentID string) ([]StudentRecord, error) {
	sheets, err := svc.repo.QueryAllSheets(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]StudentRecord, 0)
	for _, sheet := range sheets {
		for _, entry := range sheet.Students {
			if entry.StudentID == studentID {
				records = append(records, StudentRecord{
					SheetID:   sheet.ID,
					Date:      sheet.Date,
					SubjectID: sheet.SubjectID,
					Status:    entry.Status,
				})
				break
			}
		}
	}
	return records, nil
}
