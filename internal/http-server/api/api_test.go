package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"edumov/impl/auth"
	"edumov/impl/core"
	"edumov/internal/database/memdb"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	db := memdb.New()
	authService, err := auth.New(db, "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("auth setup: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := core.New(db, authService, log)

	server := httptest.NewServer(NewRouter(log, handler, "memory"))
	t.Cleanup(server.Close)
	return server
}

func call(t *testing.T, method, url, token string, body any) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
	}
	return resp.StatusCode, decoded
}

func callList(t *testing.T, url, token string) (int, []map[string]any) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	var list []map[string]any
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
	}
	return resp.StatusCode, list
}

func register(t *testing.T, server *httptest.Server, name, cpf, role string) string {
	t.Helper()
	status, body := call(t, http.MethodPost, server.URL+"/api/register", "", map[string]any{
		"nomeCompleto":   name,
		"cpf":            cpf,
		"userType":       role,
		"dataNascimento": "2010-05-20",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: status %d, body %v", name, status, body)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatalf("register %s: no token in %v", name, body)
	}
	return token
}

func TestPairingFlow(t *testing.T) {
	server := newTestServer(t)
	teacher := register(t, server, "Marcos Lima", "11111111111", "professor")
	student := register(t, server, "Ana Silva", "22222222222", "aluno")
	other := register(t, server, "Bia Costa", "33333333333", "aluno")

	// code issue is teacher-only
	status, body := call(t, http.MethodPost, server.URL+"/api/teacher-code", student, nil)
	if status != http.StatusForbidden {
		t.Fatalf("student code request: status %d, body %v", status, body)
	}
	status, _ = call(t, http.MethodPost, server.URL+"/api/teacher-code", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("anonymous code request: status %d", status)
	}

	status, body = call(t, http.MethodPost, server.URL+"/api/teacher-code", teacher, nil)
	if status != http.StatusCreated {
		t.Fatalf("code request: status %d, body %v", status, body)
	}
	code, _ := body["code"].(string)
	if len(code) != 6 {
		t.Fatalf("code = %q, want 6 characters", code)
	}
	if _, ok := body["expiresAt"].(string); !ok {
		t.Fatalf("no expiresAt in %v", body)
	}

	status, body = call(t, http.MethodGet, server.URL+"/api/teacher-code", teacher, nil)
	if status != http.StatusOK || body["code"] != code {
		t.Fatalf("current code: status %d, body %v", status, body)
	}

	// redemption edges
	status, _ = call(t, http.MethodPost, server.URL+"/api/link-student", student, map[string]any{})
	if status != http.StatusBadRequest {
		t.Fatalf("missing code: status %d", status)
	}
	status, _ = call(t, http.MethodPost, server.URL+"/api/link-student", student, map[string]any{"code": "ZZZZZZ"})
	if status != http.StatusNotFound {
		t.Fatalf("unknown code: status %d", status)
	}
	status, _ = call(t, http.MethodPost, server.URL+"/api/link-student", teacher, map[string]any{"code": code})
	if status != http.StatusForbidden {
		t.Fatalf("teacher redeeming: status %d", status)
	}

	status, body = call(t, http.MethodPost, server.URL+"/api/link-student", student, map[string]any{"code": code})
	if status != http.StatusCreated {
		t.Fatalf("link: status %d, body %v", status, body)
	}

	// the code is consumed now
	status, _ = call(t, http.MethodPost, server.URL+"/api/link-student", other, map[string]any{"code": code})
	if status != http.StatusNotFound {
		t.Fatalf("consumed code: status %d", status)
	}
	status, _ = call(t, http.MethodGet, server.URL+"/api/teacher-code", teacher, nil)
	if status != http.StatusNotFound {
		t.Fatalf("current code after redemption: status %d", status)
	}

	status, students := callList(t, server.URL+"/api/students", teacher)
	if status != http.StatusOK || len(students) != 1 {
		t.Fatalf("students: status %d, list %v", status, students)
	}
	if students[0]["nomeCompleto"] != "Ana Silva" || students[0]["rank"] != "Iniciante" {
		t.Fatalf("student entry = %v", students[0])
	}
	relationId, _ := students[0]["relationId"].(string)
	if relationId == "" {
		t.Fatalf("no relationId in %v", students[0])
	}

	status, teachers := callList(t, server.URL+"/api/teachers", student)
	if status != http.StatusOK || len(teachers) != 1 || teachers[0]["nomeCompleto"] != "Marcos Lima" {
		t.Fatalf("teachers: status %d, list %v", status, teachers)
	}

	// only participants may unlink
	status, _ = call(t, http.MethodDelete, server.URL+"/api/unlink-student/"+relationId, other, nil)
	if status != http.StatusForbidden {
		t.Fatalf("outsider unlink: status %d", status)
	}
	status, _ = call(t, http.MethodDelete, server.URL+"/api/unlink-student/"+relationId, student, nil)
	if status != http.StatusOK {
		t.Fatalf("unlink: status %d", status)
	}
	status, _ = call(t, http.MethodDelete, server.URL+"/api/unlink-student/"+relationId, student, nil)
	if status != http.StatusNotFound {
		t.Fatalf("repeat unlink: status %d", status)
	}

	status, students = callList(t, server.URL+"/api/students", teacher)
	if status != http.StatusOK || len(students) != 0 {
		t.Fatalf("students after unlink: status %d, list %v", status, students)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	server := newTestServer(t)

	status, body := call(t, http.MethodPost, server.URL+"/api/register", "", map[string]any{
		"nomeCompleto":   "Ana Silva",
		"cpf":            "12345678901",
		"userType":       "aluno",
		"dataNascimento": "2012-03-14",
	})
	if status != http.StatusCreated {
		t.Fatalf("register: status %d, body %v", status, body)
	}
	user, _ := body["user"].(map[string]any)
	if user["rank"] != "Iniciante" {
		t.Fatalf("user = %v", user)
	}
	if _, leaked := user["password"]; leaked {
		t.Fatal("password present in register response")
	}
	email, _ := user["email"].(string)

	status, _ = call(t, http.MethodPost, server.URL+"/api/register", "", map[string]any{
		"nomeCompleto":   "Ana Silva",
		"cpf":            "12345678901",
		"userType":       "aluno",
		"dataNascimento": "2012-03-14",
	})
	if status != http.StatusConflict {
		t.Fatalf("duplicate register: status %d", status)
	}

	// cpf is the default password
	status, body = call(t, http.MethodPost, server.URL+"/api/login", "", map[string]any{
		"email":    email,
		"password": "12345678901",
	})
	if status != http.StatusOK || body["token"] == "" {
		t.Fatalf("login: status %d, body %v", status, body)
	}

	status, body = call(t, http.MethodPost, server.URL+"/api/login", "", map[string]any{
		"email":    email,
		"password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad login: status %d, body %v", status, body)
	}
	if _, ok := body["error"].(string); !ok {
		t.Fatalf("error body = %v, want an error field", body)
	}
}

func TestPasswordResetEndpoints(t *testing.T) {
	server := newTestServer(t)
	register(t, server, "Ana Silva", "12345678901", "aluno")

	status, _ := call(t, http.MethodPost, server.URL+"/api/verify-reset", "", map[string]any{
		"cpf":            "12345678901",
		"dataNascimento": "2010-05-20",
	})
	if status != http.StatusOK {
		t.Fatalf("verify identity: status %d", status)
	}
	status, _ = call(t, http.MethodPost, server.URL+"/api/verify-reset", "", map[string]any{
		"cpf":            "12345678901",
		"dataNascimento": "1999-01-01",
	})
	if status != http.StatusNotFound {
		t.Fatalf("wrong birth date: status %d", status)
	}

	status, _ = call(t, http.MethodPost, server.URL+"/api/reset-password", "", map[string]any{
		"cpf":            "12345678901",
		"dataNascimento": "2010-05-20",
		"newPassword":    "novasenha",
	})
	if status != http.StatusOK {
		t.Fatalf("reset password: status %d", status)
	}

	status, body := call(t, http.MethodPost, server.URL+"/api/login", "", map[string]any{
		"email":    "12345678901_aluno@edumov.app",
		"password": "novasenha",
	})
	if status != http.StatusOK {
		t.Fatalf("login after reset: status %d, body %v", status, body)
	}
}

func TestQuestionAndCommentEndpoints(t *testing.T) {
	server := newTestServer(t)
	teacher := register(t, server, "Marcos Lima", "11111111111", "professor")
	student := register(t, server, "Ana Silva", "22222222222", "aluno")

	question := map[string]any{
		"theme":              "Frações",
		"question":           "Quanto é 1/2 + 1/4?",
		"options":            []string{"3/4", "2/6"},
		"correctOptionIndex": 0,
		"feedback":           map[string]any{"title": "Soma", "text": "Iguale os denominadores."},
	}
	status, body := call(t, http.MethodPost, server.URL+"/api/questions/", teacher, question)
	if status != http.StatusCreated {
		t.Fatalf("add question: status %d, body %v", status, body)
	}
	if body["theme"] != "frações" {
		t.Fatalf("theme not normalized: %v", body["theme"])
	}
	if body["visibility"] != "public" {
		t.Fatalf("default visibility = %v, want public", body["visibility"])
	}
	questionId, _ := body["id"].(string)

	status, _ = call(t, http.MethodPost, server.URL+"/api/questions/", student, question)
	if status != http.StatusForbidden {
		t.Fatalf("student add question: status %d", status)
	}

	status, list := callList(t, server.URL+"/api/questions/", student)
	if status != http.StatusOK || len(list) != 1 {
		t.Fatalf("question list: status %d, list %v", status, list)
	}

	status, _ = call(t, http.MethodPatch,
		fmt.Sprintf("%s/api/questions/%s/visibility", server.URL, questionId), teacher,
		map[string]any{"visibility": "private"})
	if status != http.StatusOK {
		t.Fatalf("set visibility: status %d", status)
	}
	status, list = callList(t, server.URL+"/api/questions/", student)
	if status != http.StatusOK || len(list) != 0 {
		t.Fatalf("private question visible to student: %v", list)
	}

	status, body = call(t, http.MethodPost, server.URL+"/api/comments/", student,
		map[string]any{"questionId": questionId, "message": "não entendi"})
	if status != http.StatusCreated {
		t.Fatalf("add comment: status %d, body %v", status, body)
	}
	commentId, _ := body["id"].(string)

	status, body = call(t, http.MethodPost, server.URL+"/api/comments/responses", teacher,
		map[string]any{"parentCommentId": commentId, "message": "iguale os denominadores"})
	if status != http.StatusCreated {
		t.Fatalf("reply: status %d, body %v", status, body)
	}

	status, thread := callList(t, server.URL+"/api/comments/"+questionId, student)
	if status != http.StatusOK || len(thread) != 1 {
		t.Fatalf("thread: status %d, %v", status, thread)
	}
	responses, _ := thread[0]["responses"].([]any)
	if len(responses) != 1 {
		t.Fatalf("responses = %v, want 1 reply", thread[0]["responses"])
	}

	status, _ = call(t, http.MethodDelete, server.URL+"/api/questions/"+questionId, teacher, nil)
	if status != http.StatusOK {
		t.Fatalf("delete question: status %d", status)
	}
}

func TestChatEndpoints(t *testing.T) {
	server := newTestServer(t)
	teacher := register(t, server, "Marcos Lima", "11111111111", "professor")
	student := register(t, server, "Ana Silva", "22222222222", "aluno")

	status, body := call(t, http.MethodGet, server.URL+"/api/teacher-code", teacher, nil)
	if status != http.StatusNotFound {
		t.Fatalf("no code yet: status %d, body %v", status, body)
	}

	// resolve ids through the session payloads
	status, body = call(t, http.MethodPost, server.URL+"/api/login", "", map[string]any{
		"email":    "11111111111_professor@edumov.app",
		"password": "11111111111",
	})
	if status != http.StatusOK {
		t.Fatalf("teacher login: status %d", status)
	}
	teacherUser, _ := body["user"].(map[string]any)
	teacherId, _ := teacherUser["id"].(string)

	status, body = call(t, http.MethodPost, server.URL+"/api/chat/", student,
		map[string]any{"receiverId": teacherId, "message": "professor, tenho uma dúvida"})
	if status != http.StatusCreated {
		t.Fatalf("send message: status %d, body %v", status, body)
	}

	status, body = call(t, http.MethodPost, server.URL+"/api/chat/", student,
		map[string]any{"receiverId": "ghost", "message": "oi"})
	if status != http.StatusNotFound {
		t.Fatalf("unknown receiver: status %d, body %v", status, body)
	}

	studentUser := registerLogin(t, server, "22222222222_aluno@edumov.app", "22222222222")
	studentId, _ := studentUser["id"].(string)

	status, conv := callList(t, server.URL+"/api/chat/"+studentId, teacher)
	if status != http.StatusOK || len(conv) != 1 {
		t.Fatalf("conversation: status %d, %v", status, conv)
	}
	if conv[0]["message"] != "professor, tenho uma dúvida" {
		t.Fatalf("message = %v", conv[0])
	}
}

func registerLogin(t *testing.T, server *httptest.Server, email, password string) map[string]any {
	t.Helper()
	status, body := call(t, http.MethodPost, server.URL+"/api/login", "", map[string]any{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: status %d, body %v", email, status, body)
	}
	user, _ := body["user"].(map[string]any)
	return user
}

func TestUnknownRouteAndMethod(t *testing.T) {
	server := newTestServer(t)

	status, body := call(t, http.MethodGet, server.URL+"/api/nope", "", nil)
	if status != http.StatusNotFound {
		t.Fatalf("unknown route: status %d", status)
	}
	if _, ok := body["error"].(string); !ok {
		t.Fatalf("not found body = %v", body)
	}

	status, _ = call(t, http.MethodPut, server.URL+"/api/login", "", map[string]any{})
	if status != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method: status %d", status)
	}

	status, body = call(t, http.MethodGet, server.URL+"/api/health", "", nil)
	if status != http.StatusOK || body["status"] != "OK" {
		t.Fatalf("health: status %d, body %v", status, body)
	}
}
