package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// EntryStatus is a single student's attendance mark.
type EntryStatus string

const (
	StatusPresente    EntryStatus = "Presente"
	StatusAusente     EntryStatus = "Ausente"
	StatusJustificado EntryStatus = "Justificado"
)

type Entry struct {
	StudentID string      `json:"student_id" validate:"required"`
	Status    EntryStatus `json:"status" validate:"required,oneof=Presente Ausente Justificado"`
}

// Sheet is one attendance roll call, keyed by (date, subject, class).
type Sheet struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"` // YYYY-MM-DD
	SubjectID   string    `json:"subject_id"`
	ProfessorID string    `json:"professor_id"`
	ClassID     string    `json:"class_id,omitempty"`
	Students    []Entry   `json:"students"`
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

// NaturalKey builds the Sheet ID for a (date, subject, class) tuple.
func NaturalKey(date, subjectID, classID string) string {
	key := date + "_" + subjectID
	if classID != "" {
		key += "_" + classID
	}
	return key
}

type NewSheet struct {
	Date      string  `json:"date" validate:"required,datetime=2006-01-02"`
	SubjectID string  `json:"subject_id" validate:"required"`
	ClassID   string  `json:"class_id"`
	Students  []Entry `json:"students" validate:"required,min=1,dive"`
}

func (ns *NewSheet) Validate(validate *validator.Validate) error {
	return validate.Struct(ns)
}

// StudentRecord is one student's mark plus the sheet context, as reporting
// screens consume it.
type StudentRecord struct {
	SheetID   string      `json:"sheet_id"`
	Date      string      `json:"date"`
	SubjectID string      `json:"subject_id"`
	Status    EntryStatus `json:"status"`
}
