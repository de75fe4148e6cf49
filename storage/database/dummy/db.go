// Package dummydb provides in-memory repository implementations used by
// the API tests.
package dummydb

import (
	"sync"

	"github.com/tmbureta/academia/core/agenda"
	"github.com/tmbureta/academia/core/announcement"
	"github.com/tmbureta/academia/core/assignment"
	"github.com/tmbureta/academia/core/attendance"
	"github.com/tmbureta/academia/core/billing"
	"github.com/tmbureta/academia/core/grade"
	"github.com/tmbureta/academia/core/subject"
	"github.com/tmbureta/academia/core/support"
	"github.com/tmbureta/academia/core/user"
)

type (
	DB struct {
		user         *table
		billing      *table
		grade        *table
		subject      *table
		material     *table
		announcement *table
		notification *table
		attendance   *table
		assignment   *table
		submission   *table
		ticket       *table
		event        *table
	}

	table struct {
		sync.RWMutex
		docs map[string]interface{}
	}
)

func newTable() *table {
	return &table{docs: make(map[string]interface{})}
}

func Open() (*DB, error) {
	db := &DB{
		user:         newTable(),
		billing:      newTable(),
		grade:        newTable(),
		subject:      newTable(),
		material:     newTable(),
		announcement: newTable(),
		notification: newTable(),
		attendance:   newTable(),
		assignment:   newTable(),
		submission:   newTable(),
		ticket:       newTable(),
		event:        newTable(),
	}
	return db, nil
}

func (t *table) users() []user.User {
	users := make([]user.User, 0, len(t.docs))
	for _, doc := range t.docs {
		users = append(users, *(doc.(*user.User)))
	}
	return users
}

func (t *table) records() []billing.FinancialRecord {
	recs := make([]billing.FinancialRecord, 0, len(t.docs))
	for _, doc := range t.docs {
		recs = append(recs, *(doc.(*billing.FinancialRecord)))
	}
	return recs
}

func (t *table) grades() []grade.Grade {
	grades := make([]grade.Grade, 0, len(t.docs))
	for _, doc := range t.docs {
		grades = append(grades, *(doc.(*grade.Grade)))
	}
	return grades
}

func (t *table) subjects() []subject.Subject {
	subjects := make([]subject.Subject, 0, len(t.docs))
	for _, doc := range t.docs {
		subjects = append(subjects, *(doc.(*subject.Subject)))
	}
	return subjects
}

func (t *table) materials() []subject.Material {
	materials := make([]subject.Material, 0, len(t.docs))
	for _, doc := range t.docs {
		materials = append(materials, *(doc.(*subject.Material)))
	}
	return materials
}

func (t *table) announcements() []announcement.Announcement {
	anns := make([]announcement.Announcement, 0, len(t.docs))
	for _, doc := range t.docs {
		anns = append(anns, *(doc.(*announcement.Announcement)))
	}
	return anns
}

func (t *table) notifications() []announcement.Notification {
	notifs := make([]announcement.Notification, 0, len(t.docs))
	for _, doc := range t.docs {
		notifs = append(notifs, *(doc.(*announcement.Notification)))
	}
	return notifs
}

func (t *table) sheets() []attendance.Sheet {
	sheets := make([]attendance.Sheet, 0, len(t.docs))
	for _, doc := range t.docs {
		sheets = append(sheets, *(doc.(*attendance.Sheet)))
	}
	return sheets
}

func (t *table) assignments() []assignment.Assignment {
	assignments := make([]assignment.Assignment, 0, len(t.docs))
	for _, doc := range t.docs {
		assignments = append(assignments, *(doc.(*assignment.Assignment)))
	}
	return assignments
}

func (t *table) submissions() []assignment.Submission {
	subs := make([]assignment.Submission, 0, len(t.docs))
	for _, doc := range t.docs {
		subs = append(subs, *(doc.(*assignment.Submission)))
	}
	return subs
}

func (t *table) tickets() []support.Ticket {
	tickets := make([]support.Ticket, 0, len(t.docs))
	for _, doc := range t.docs {
		tickets = append(tickets, *(doc.(*support.Ticket)))
	}
	return tickets
}

func (t *table) events() []agenda.Event {
	events := make([]agenda.Event, 0, len(t.docs))
	for _, doc := range t.docs {
		events = append(events, *(doc.(*agenda.Event)))
	}
	return events
}
