package agenda

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/user"
)

// Event types.
const (
	TypeProva   = "Prova"
	TypeFeriado = "Feriado"
	TypeEvento  = "Evento"
	TypeAula    = "Aula"
)

// Event targeting.
const (
	TargetGlobal = "GLOBAL"
	TargetCourse = "COURSE"
	TargetClass  = "CLASS"
)

// Event is one entry on the academic calendar.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        string    `json:"date"` // YYYY-MM-DD
	Type        string    `json:"type"`
	TargetType  string    `json:"target_type"`
	TargetID    string    `json:"target_id,omitempty"` // course or class ID; empty for GLOBAL
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"` // UTC
}

// VisibleTo resolves the calendar targeting rules for a given user. Admins
// see everything.
func (e *Event) VisibleTo(usr user.User) bool {
	if usr.IsAdmin() {
		return true
	}
	switch e.TargetType {
	case TargetGlobal:
		return true
	case TargetCourse:
		return usr.CourseID == e.TargetID
	case TargetClass:
		return usr.ClassID == e.TargetID
	}
	return false
}

type NewEvent struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Type        string `json:"type" validate:"required,oneof=Prova Feriado Evento Aula"`
	TargetType  string `json:"target_type" validate:"required,oneof=GLOBAL COURSE CLASS"`
	TargetID    string `json:"target_id" validate:"required_unless=TargetType GLOBAL"`
	Description string `json:"description"`
}

func (ne *NewEvent) Validate(validate *validator.Validate) error {
	ne.Title = core.CleanString(ne.Title)
	// events default to the whole institution
	if ne.TargetType == "" {
		ne.TargetType = TargetGlobal
	}
	return validate.Struct(ne)
}
