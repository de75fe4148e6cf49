package subject

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tmbureta/academia/core"
)

// Subject is a taught discipline.
type Subject struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	ProfessorID string    `json:"professor_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// Material is study material attached to a subject. Only metadata lives here;
// the URL points at externally hosted content.
type Material struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Type        string    `json:"type"` // link | file
	URL         string    `json:"url"`
	SubjectID   string    `json:"subject_id"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `json:"date"`
}

type NewSubject struct {
	Name        string `json:"name" validate:"required"`
	Code        string `json:"code" validate:"required"`
	Description string `json:"description"`
	ProfessorID string `json:"professor_id"`
}

func (ns *NewSubject) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.Code = core.CleanString(ns.Code)
	return validate.Struct(ns)
}

type UpdateSubject struct {
	Name        string `json:"name"`
	Code        string `json:"code"`
	Description string `json:"description"`
	ProfessorID string `json:"professor_id"`
}

type NewMaterial struct {
	Title       string `json:"title" validate:"required"`
	Type        string `json:"type" validate:"required,oneof=link file"`
	URL         string `json:"url" validate:"required,url"`
	SubjectID   string `json:"subject_id" validate:"required"`
	Description string `json:"description"`
}

func (nm *NewMaterial) Validate(validate *validator.Validate) error {
	nm.Title = core.CleanString(nm.Title)
	return validate.Struct(nm)
}
