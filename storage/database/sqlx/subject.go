package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/subject"
)

type subjectRepository struct {
	subjects  docTable
	materials docTable
}

var _ subject.Repository = (*subjectRepository)(nil)

func NewSubjectRepository(db *sql.DB) subject.Repository {
	return &subjectRepository{
		subjects:  newDocTable(db, "subjects", "name", "code", "created_at"),
		materials: newDocTable(db, "materials"),
	}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	if err := repo.subjects.insert(ctx, s.ID, s); err != nil {
		return subject.Subject{}, errors.Wrap(err, "creating subject")
	}
	return s, nil
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id string) (subject.Subject, error) {
	var s subject.Subject
	if err := repo.subjects.get(ctx, id, &s); err != nil {
		if err == sql.ErrNoRows {
			return subject.Subject{}, subject.ErrNotFound
		}
		return subject.Subject{}, errors.Wrap(err, "getting subject")
	}
	return s, nil
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context, orderings ...core.DBOrdering) ([]subject.Subject, error) {
	docs, err := repo.subjects.list(ctx, "", "", orderings...)
	if err != nil {
		return nil, errors.Wrap(err, "querying subjects")
	}

	subjects := make([]subject.Subject, 0, len(docs))
	for _, raw := range docs {
		var s subject.Subject
		if err = json.Unmarshal(raw, &s); err != nil {
			return nil, errors.Wrap(err, "unmarshaling subject document")
		}
		subjects = append(subjects, s)
	}
	return subjects, nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	if err := repo.subjects.upsert(ctx, s.ID, s); err != nil {
		return subject.Subject{}, errors.Wrap(err, "updating subject")
	}
	return s, nil
}

func (repo *subjectRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.subjects.delete(ctx, ids...), "deleting subjects")
}

func (repo *subjectRepository) CreateMaterial(ctx context.Context, m subject.Material) (subject.Material, error) {
	if err := repo.materials.insert(ctx, m.ID, m); err != nil {
		return subject.Material{}, errors.Wrap(err, "creating material")
	}
	return m, nil
}

func (repo *subjectRepository) FilterMaterials(ctx context.Context, subjectID string) ([]subject.Material, error) {
	docs, err := repo.materials.list(ctx, "subject_id", subjectID)
	if err != nil {
		return nil, errors.Wrap(err, "querying materials")
	}

	materials := make([]subject.Material, 0, len(docs))
	for _, raw := range docs {
		var m subject.Material
		if err = json.Unmarshal(raw, &m); err != nil {
			return nil, errors.Wrap(err, "unmarshaling material document")
		}
		materials = append(materials, m)
	}
	return materials, nil
}

func (repo *subjectRepository) DeleteMaterialsByID(ctx context.Context, ids ...string) error {
	return errors.Wrap(repo.materials.delete(ctx, ids...), "deleting materials")
}
