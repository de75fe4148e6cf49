package announcement

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/tmbureta/academia/core"
	"github.com/tmbureta/academia/core/user"
)

// Announcement targeting.
const (
	TargetGlobal = "GLOBAL"
	TargetCourse = "COURSE"
	TargetClass  = "CLASS"
	TargetUser   = "USER"

	AudienceAll        = "ALL"
	AudienceStudents   = "STUDENTS"
	AudienceProfessors = "PROFESSORS"
)

// Announcement types.
const (
	TypeAcademico  = "Acadêmico"
	TypeFinanceiro = "Financeiro"
	TypeEventos    = "Eventos"
	TypeGeral      = "Geral"
)

type Announcement struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	TargetType string    `json:"target_type"`
	Audience   string    `json:"audience,omitempty"`
	TargetID   string    `json:"target_id,omitempty"` // course, class or user ID; empty for GLOBAL
	AuthorID   string    `json:"author_id"`
	ReadBy     []string  `json:"read_by"`
	ExpiresAt  null.Time `json:"expires_at,omitempty"`
	Date       time.Time `json:"date"` // UTC
}

// VisibleTo resolves the targeting rules for a given user. Admins see
// everything; authors always see their own announcements.
func (a *Announcement) VisibleTo(usr user.User) bool {
	if usr.IsAdmin() || a.AuthorID == usr.ID {
		return true
	}
	switch a.TargetType {
	case TargetGlobal:
		return true
	case TargetCourse:
		return usr.CourseID == a.TargetID
	case TargetClass:
		return usr.ClassID == a.TargetID
	case TargetUser:
		return usr.ID == a.TargetID
	}
	return false
}

// Expired reports whether the announcement expired as of now.
func (a *Announcement) Expired(now time.Time) bool {
	return a.ExpiresAt.Valid && a.ExpiresAt.Time.Before(now)
}

// ReadByUser reports whether the user already read the announcement.
func (a *Announcement) ReadByUser(userID string) bool {
	for _, id := range a.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}

type NewAnnouncement struct {
	Title      string    `json:"title" validate:"required"`
	Content    string    `json:"content" validate:"required"`
	Type       string    `json:"type" validate:"required,oneof=Acadêmico Financeiro Eventos Geral"`
	TargetType string    `json:"target_type" validate:"required,oneof=GLOBAL COURSE CLASS USER"`
	Audience   string    `json:"audience" validate:"omitempty,oneof=ALL STUDENTS PROFESSORS"`
	TargetID   string    `json:"target_id" validate:"required_unless=TargetType GLOBAL"`
	ExpiresAt  null.Time `json:"expires_at"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	return validate.Struct(na)
}

// Notification is a single in-app notification for one user.
type Notification struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"` // UTC
}
