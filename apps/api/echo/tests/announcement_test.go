package tests

import (
	"net/http"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/volatiletech/null/v8"

	"github.com/tmbureta/academia/core/announcement"
	"github.com/tmbureta/academia/core/user"
)

func Test_announcementApi_create(t *testing.T) {
	secretary := createUser(t, "Gilda Nunes", "gildanunes", "gildanunes@academia.test", []string{user.RoleSecretary}, true)
	classmate := assignClass(t, createStudent(t, "Hugo Dias", "hugodias"), "course-ann-1", "class-ann-1")
	outsider := assignClass(t, createStudent(t, "Iris Farias", "irisfarias"), "course-ann-1", "class-ann-2")

	body := marchallObj(t, announcement.NewAnnouncement{
		Title:      "Reunião de Turma",
		Content:    "Compareçam ao auditório na sexta.",
		Type:       announcement.TypeGeral,
		TargetType: announcement.TargetClass,
		TargetID:   "class-ann-1",
	})

	t.Run("requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/announcements", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("students cannot post", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, classmate), body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("class targeting fans out to the class only", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, secretary), body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var ann announcement.Announcement
		decodeBody(t, rec, &ann)
		if ann.AuthorID != secretary.ID {
			t.Errorf("author = %v; want %v", ann.AuthorID, secretary.ID)
		}

		notif, ok := findNotification(t, classmate.ID, "Novo Comunicado: Reunião de Turma")
		if !ok {
			t.Fatal("class member was not notified")
		}
		if notif.Message != "Compareçam ao auditório na sexta." {
			t.Errorf("message = %q", notif.Message)
		}
		if notif.Link != "/announcements" {
			t.Errorf("link = %q", notif.Link)
		}
		if _, ok = findNotification(t, outsider.ID, "Novo Comunicado: Reunião de Turma"); ok {
			t.Error("student outside the class was notified")
		}
		if _, ok = findNotification(t, secretary.ID, "Novo Comunicado: Reunião de Turma"); ok {
			t.Error("author was notified of their own announcement")
		}
	})

	t.Run("user targeting reaches just that user", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, secretary), marchallObj(t, announcement.NewAnnouncement{
			Title:      "Documentos Pendentes",
			Content:    "Passe na secretaria.",
			Type:       announcement.TypeGeral,
			TargetType: announcement.TargetUser,
			TargetID:   outsider.ID,
		}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		if _, ok := findNotification(t, outsider.ID, "Novo Comunicado: Documentos Pendentes"); !ok {
			t.Error("targeted user was not notified")
		}
		if _, ok := findNotification(t, classmate.ID, "Novo Comunicado: Documentos Pendentes"); ok {
			t.Error("untargeted user was notified")
		}
	})

	t.Run("long content is previewed without splitting characters", func(t *testing.T) {
		content := strings.Repeat("atenção à revisão ", 5) // 90 runes, multibyte near the cut
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, secretary), marchallObj(t, announcement.NewAnnouncement{
			Title:      "Calendário de Provas",
			Content:    content,
			Type:       announcement.TypeAcademico,
			TargetType: announcement.TargetUser,
			TargetID:   classmate.ID,
		}))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		notif, ok := findNotification(t, classmate.ID, "Novo Comunicado: Calendário de Provas")
		if !ok {
			t.Fatal("targeted user was not notified")
		}
		want := string([]rune(content)[:50]) + "..."
		if notif.Message != want {
			t.Errorf("preview = %q; want %q", notif.Message, want)
		}
		if !utf8.ValidString(notif.Message) {
			t.Errorf("preview is not valid UTF-8: %q", notif.Message)
		}
	})
}

func Test_announcementApi_query(t *testing.T) {
	director := createUser(t, "Jonas Reis", "jonasreis", "jonasreis@academia.test", []string{user.RoleAdminDirector}, true)
	classmate := assignClass(t, createStudent(t, "Kaio Luz", "kaioluz"), "course-q-1", "class-q-1")
	outsider := assignClass(t, createStudent(t, "Lara Paz", "larapaz"), "course-q-2", "class-q-2")

	post := func(na announcement.NewAnnouncement) announcement.Announcement {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, director), marchallObj(t, na))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var ann announcement.Announcement
		decodeBody(t, rec, &ann)
		return ann
	}

	global := post(announcement.NewAnnouncement{
		Title: "Recesso", Content: "Sem aulas amanhã.",
		Type: announcement.TypeGeral, TargetType: announcement.TargetGlobal,
	})
	classOnly := post(announcement.NewAnnouncement{
		Title: "Prova Remarcada", Content: "Nova data em breve.",
		Type: announcement.TypeAcademico, TargetType: announcement.TargetClass, TargetID: "class-q-1",
	})
	expired := post(announcement.NewAnnouncement{
		Title: "Matrícula Antiga", Content: "Prazo encerrado.",
		Type: announcement.TypeGeral, TargetType: announcement.TargetGlobal,
		ExpiresAt: null.TimeFrom(time.Now().UTC().Add(-time.Hour)),
	})

	visibleIDs := func(usr user.User) map[string]bool {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/announcements", getToken(t, usr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var anns []announcement.Announcement
		decodeBody(t, rec, &anns)
		ids := make(map[string]bool, len(anns))
		for _, a := range anns {
			ids[a.ID] = true
		}
		return ids
	}

	t.Run("class member sees global and class posts", func(t *testing.T) {
		ids := visibleIDs(classmate)
		if !ids[global.ID] {
			t.Error("global announcement not visible")
		}
		if !ids[classOnly.ID] {
			t.Error("class announcement not visible to a class member")
		}
	})

	t.Run("other classes are excluded", func(t *testing.T) {
		ids := visibleIDs(outsider)
		if ids[classOnly.ID] {
			t.Error("class announcement leaked outside the class")
		}
	})

	t.Run("expired posts are dropped for everyone", func(t *testing.T) {
		if visibleIDs(classmate)[expired.ID] {
			t.Error("expired announcement still visible to a student")
		}
		if visibleIDs(director)[expired.ID] {
			t.Error("expired announcement still visible to an admin")
		}
	})
}

func Test_announcementApi_markRead(t *testing.T) {
	secretary := createUser(t, "Mila Brito", "milabrito", "milabrito@academia.test", []string{user.RoleSecretary}, true)
	student := createStudent(t, "Nilo Costa", "nilocosta")

	req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, secretary), marchallObj(t, announcement.NewAnnouncement{
		Title: "Biblioteca", Content: "Novo horário de funcionamento.",
		Type: announcement.TypeGeral, TargetType: announcement.TargetGlobal,
	}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}
	var ann announcement.Announcement
	decodeBody(t, rec, &ann)

	t.Run("marks and stays marked", func(t *testing.T) {
		for i := 0; i < 2; i++ { // second call is a no-op
			req, rec = newAuthRequest(http.MethodPost, "/v1/announcements/"+ann.ID+"/read", getToken(t, student))
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
			}
		}
		var got announcement.Announcement
		decodeBody(t, rec, &got)
		reads := 0
		for _, id := range got.ReadBy {
			if id == student.ID {
				reads++
			}
		}
		if reads != 1 {
			t.Errorf("student appears %d times in read_by; want 1", reads)
		}
	})

	t.Run("unknown announcement", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPost, "/v1/announcements/nope/read", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want 404", rec.Code)
		}
	})
}

func Test_announcementApi_notifications(t *testing.T) {
	secretary := createUser(t, "Olga Pires", "olgapires", "olgapires@academia.test", []string{user.RoleSecretary}, true)
	student := createStudent(t, "Pedro Sá", "pedrodesa")
	other := createStudent(t, "Queila Boa", "queilaboa")

	req, rec := newAuthRequest(http.MethodPost, "/v1/announcements", getToken(t, secretary), marchallObj(t, announcement.NewAnnouncement{
		Title: "Carteirinha", Content: "Retire sua carteirinha.",
		Type: announcement.TypeGeral, TargetType: announcement.TargetUser, TargetID: student.ID,
	}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
	}

	notif, ok := findNotification(t, student.ID, "Novo Comunicado: Carteirinha")
	if !ok {
		t.Fatal("student was not notified")
	}

	t.Run("listing is scoped to the owner", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodGet, "/v1/notifications", getToken(t, other))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var notifs []announcement.Notification
		decodeBody(t, rec, &notifs)
		for _, n := range notifs {
			if n.ID == notif.ID {
				t.Error("another user's notification leaked into the listing")
			}
		}
	})

	t.Run("only the owner can mark it read", func(t *testing.T) {
		req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/"+notif.ID+"/read", getToken(t, other))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNotFound {
			t.Errorf("code = %v; want 404", rec.Code)
		}

		req, rec = newAuthRequest(http.MethodPost, "/v1/notifications/"+notif.ID+"/read", getToken(t, student))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got announcement.Notification
		decodeBody(t, rec, &got)
		if !got.Read {
			t.Error("notification not marked read")
		}
	})
}
