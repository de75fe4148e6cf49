package dummydb

import (
	"context"
	"sort"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/subject"
)

type subjectRepository struct {
	subjects  *table
	materials *table
}

var _ subject.Repository = (*subjectRepository)(nil) // interface compliance check

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{subjects: db.subject, materials: db.material}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	repo.subjects.docs[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) GetSubjectByID(ctx context.Context, id string) (subject.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	if doc, ok := repo.subjects.docs[id]; ok {
		return *(doc.(*subject.Subject)), nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) QueryAllSubjects(ctx context.Context, orderings ...core.DBOrdering) ([]subject.Subject, error) {
	repo.subjects.RLock()
	defer repo.subjects.RUnlock()

	subjects := repo.subjects.subjects()
	sort.Slice(subjects, func(i, j int) bool { return subjects[i].ID < subjects[j].ID })
	return subjects, nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, s subject.Subject) (subject.Subject, error) {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	if _, ok := repo.subjects.docs[s.ID]; !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	repo.subjects.docs[s.ID] = &s
	return s, nil
}

func (repo *subjectRepository) DeleteSubjectsByID(ctx context.Context, ids ...string) error {
	repo.subjects.Lock()
	defer repo.subjects.Unlock()

	for _, id := range ids {
		delete(repo.subjects.docs, id)
	}
	return nil
}

func (repo *subjectRepository) CreateMaterial(ctx context.Context, m subject.Material) (subject.Material, error) {
	repo.materials.Lock()
	defer repo.materials.Unlock()

	repo.materials.docs[m.ID] = &m
	return m, nil
}

func (repo *subjectRepository) FilterMaterials(ctx context.Context, subjectID string) ([]subject.Material, error) {
	repo.materials.RLock()
	defer repo.materials.RUnlock()

	var materials []subject.Material
	for _, m := range repo.materials.materials() {
		if m.SubjectID == subjectID {
			materials = append(materials, m)
		}
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i].ID < materials[j].ID })
	return materials, nil
}

func (repo *subjectRepository) DeleteMaterialsByID(ctx context.Context, ids ...string) error {
	repo.materials.Lock()
	defer repo.materials.Unlock()

	for _, id := range ids {
		delete(repo.materials.docs, id)
	}
	return nil
}
