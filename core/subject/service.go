package subject

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/tmbureta/academia/core"
)

var (
	// errors
	ErrNotFound         = errors.New("subject not found")
	ErrMaterialNotFound = errors.New("material not found")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, s Subject) (Subject, error)
		GetSubjectByID(ctx context.Context, id string) (Subject, error)
		QueryAllSubjects(ctx context.Context, orderings ...core.DBOrdering) ([]Subject, error)
		UpdateSubject(ctx context.Context, s Subject) (Subject, error)
		DeleteSubjectsByID(ctx context.Context, ids ...string) error

		CreateMaterial(ctx context.Context, m Material) (Material, error)
		FilterMaterials(ctx context.Context, subjectID string) ([]Material, error)
		DeleteMaterialsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		Create(ctx context.Context, ns NewSubject) (Subject, error)
		GetByID(ctx context.Context, id string) (Subject, error)
		QueryAll(ctx context.Context, orderings ...core.DBOrdering) ([]Subject, error)
		Update(ctx context.Context, id string, us UpdateSubject) (Subject, error)
		Delete(ctx context.Context, ids ...string) error

		AddMaterial(ctx context.Context, nm NewMaterial) (Material, error)
		QueryMaterials(ctx context.Context, subjectID string) ([]Material, error)
		DeleteMaterials(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ns NewSubject) (Subject, error) {
	now := time.Now().UTC()
	return svc.repo.CreateSubject(ctx, Subject{
		ID:          uuid.New().String(),
		Name:        ns.Name,
		Code:        ns.Code,
		Description: ns.Description,
		ProfessorID: ns.ProfessorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
}

func (svc *service) GetByID(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubjectByID(ctx, id)
}

func (svc *service) QueryAll(ctx context.Context, orderings ...core.DBOrdering) ([]Subject, error) {
	return svc.repo.QueryAllSubjects(ctx, orderings...)
}

func (svc *service) Update(ctx context.Context, id string, us UpdateSubject) (Subject, error) {
	s, err := svc.repo.GetSubjectByID(ctx, id)
	if err != nil {
		return Subject{}, err
	}
	if us.Name != "" {
		s.Name = core.CleanString(us.Name)
	}
	if us.Code != "" {
		s.Code = core.CleanString(us.Code)
	}
	if us.Description != "" {
		s.Description = us.Description
	}
	if us.ProfessorID != "" {
		s.ProfessorID = us.ProfessorID
	}
	s.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateSubject(ctx, s)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteSubjectsByID(ctx, ids...)
}

func (svc *service) AddMaterial(ctx context.Context, nm NewMaterial) (Material, error) {
	if _, err := svc.repo.GetSubjectByID(ctx, nm.SubjectID); err != nil {
		return Material{}, err
	}
	return svc.repo.CreateMaterial(ctx, Material{
		ID:          uuid.New().String(),
		Title:       nm.Title,
		Type:        nm.Type,
		URL:         nm.URL,
		SubjectID:   nm.SubjectID,
		Description: nm.Description,
		Date:        time.Now().UTC(),
	})
}

func (svc *service) QueryMaterials(ctx context.Context, subjectID string) ([]Material, error) {
	return svc.repo.FilterMaterials(ctx, subjectID)
}

func (svc *service) DeleteMaterials(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteMaterialsByID(ctx, ids...)
}
