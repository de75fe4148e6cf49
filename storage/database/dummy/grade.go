package dummydb

import (
	"context"
	"sort"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/grade"
)

type gradeRepository struct {
	db *table
}

var _ grade.Repository = (*gradeRepository)(nil) // interface compliance check

func NewGradeRepository(db *DB) grade.Repository {
	return &gradeRepository{db: db.grade}
}

func (repo *gradeRepository) UpsertGrade(ctx context.Context, g grade.Grade) (grade.Grade, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.docs[g.ID] = &g
	return g, nil
}

func (repo *gradeRepository) GetGradeByID(ctx context.Context, id string) (grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if doc, ok := repo.db.docs[id]; ok {
		return *(doc.(*grade.Grade)), nil
	}
	return grade.Grade{}, grade.ErrNotFound
}

func (repo *gradeRepository) FilterGrades(ctx context.Context, filter grade.QueryFilter, orderings ...core.DBOrdering) ([]grade.Grade, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var grades []grade.Grade
	for _, g := range repo.db.grades() {
		if filter.Match(g) {
			grades = append(grades, g)
		}
	}
	sort.Slice(grades, func(i, j int) bool { return grades[i].ID < grades[j].ID })
	return grades, nil
}
