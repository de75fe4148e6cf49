package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/grade"
)

type gradeRepository struct {
	table docTable
}

var _ grade.Repository = (*gradeRepository)(nil)

func NewGradeRepository(db *sql.DB) grade.Repository {
	return &gradeRepository{table: newDocTable(db, "grades", "student_id", "subject_id", "final_average", "updated_at")}
}

func (repo *gradeRepository) UpsertGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	if err := repo.table.upsert(ctx, g.ID, g); err != nil {
		return grade.Grade{}, errors.Wrap(err, "upserting grade")
	}
	return g, nil
}

func (repo *gradeRepository) GetGradeByID(ctx context.Context, id string) (grade.Grade, error) {
	var g grade.Grade
	if err := repo.table.get(ctx, id, &g); err != nil {
		if err == sql.ErrNoRows {
			return grade.Grade{}, grade.ErrNotFound
		}
		return grade.Grade{}, errors.Wrap(err, "getting grade")
	}
	return g, nil
}

func (repo *gradeRepository) FilterGrades(ctx context.Context, filter grade.QueryFilter, orderings ...core.DBOrdering) ([]grade.Grade, error) {
	field, value := "", ""
	if filter.StudentID != "" {
		field, value = "student_id", filter.StudentID
	} else if filter.SubjectID != "" {
		field, value = "subject_id", filter.SubjectID
	}

	docs, err := repo.table.list(ctx, field, value, orderings...)
	if err != nil {
		return nil, errors.Wrap(err, "querying grades")
	}

	grades := make([]grade.Grade, 0, len(docs))
	for _, raw := range docs {
		var g grade.Grade
		if err = json.Unmarshal(raw, &g); err != nil {
			return nil, errors.Wrap(err, "unmarshaling grade document")
		}
		if filter.Match(g) {
			grades = append(grades, g)
		}
	}
	return grades, nil
}
