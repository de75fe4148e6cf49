package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/tmbureta/academia/apps/api/echo"
	"github.com/tmbureta/academia/core/announcement"
	"github.com/tmbureta/academia/core/billing"
	"github.com/tmbureta/academia/core/subject"
	"github.com/tmbureta/academia/core/user"
)

const testPassword = "V3ryS3cretPwd!"

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dest); err != nil {
		t.Fatalf("decoding response %q: %v", rec.Body.String(), err)
	}
}

// fixtures

func createUser(t *testing.T, name, uname, email string, roles []string, active bool) user.User {
	t.Helper()
	usr := user.User{
		ID:        uuid.New().String(),
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	usr.SetActive(active)
	if err := usr.SetPassword(testPassword); err != nil {
		t.Fatalf("SetPassword(): %v", err)
	}
	usr, err := usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser(): %v", err)
	}
	return usr
}

func createStudent(t *testing.T, name, uname string) user.User {
	t.Helper()
	return createUser(t, name, uname, uname+"@academia.test", []string{user.RoleStudent}, true)
}

func createProfessor(t *testing.T, name, uname string, subjects ...string) user.User {
	t.Helper()
	usr := createUser(t, name, uname, uname+"@academia.test", []string{user.RoleProfessor}, true)
	usr.Subjects = subjects
	usr, err := usrRepo.UpdateUser(context.Background(), usr, nil)
	if err != nil {
		t.Fatalf("UpdateUser(): %v", err)
	}
	return usr
}

func createSubject(t *testing.T, name, code string) subject.Subject {
	t.Helper()
	s, err := subjSvc.Create(context.Background(), subject.NewSubject{Name: name, Code: code})
	if err != nil {
		t.Fatalf("subject.Create(): %v", err)
	}
	return s
}

func assignClass(t *testing.T, usr user.User, courseID, classID string) user.User {
	t.Helper()
	usr.CourseID = courseID
	usr.ClassID = classID
	usr, err := usrRepo.UpdateUser(context.Background(), usr, nil)
	if err != nil {
		t.Fatalf("UpdateUser(): %v", err)
	}
	return usr
}

// findNotification scans a user's notifications for one with the given title.
func findNotification(t *testing.T, userID, title string) (announcement.Notification, bool) {
	t.Helper()
	notifs, err := annSvc.UserNotifications(context.Background(), userID)
	if err != nil {
		t.Fatalf("UserNotifications(): %v", err)
	}
	for _, n := range notifs {
		if n.Title == title {
			return n, true
		}
	}
	return announcement.Notification{}, false
}

func createRecord(t *testing.T, studentID string, amount, discount float64, due time.Time) billing.FinancialRecord {
	t.Helper()
	rec, err := billSvc.Create(context.Background(), billing.NewRecord{
		StudentID:   studentID,
		Description: "Mensalidade",
		Amount:      amount,
		Discount:    discount,
		DueDate:     due,
		Category:    "Mensalidade",
	})
	if err != nil {
		t.Fatalf("billing.Create(): %v", err)
	}
	return rec
}
