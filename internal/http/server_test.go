package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"

	"learnhub/api/internal/config"
	"learnhub/api/internal/db"
	"learnhub/api/internal/model"
	"learnhub/api/internal/repository"
)

// startTestServer spins up the full router against a real database. Tests
// are skipped when no database URL is configured.
func startTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	url := os.Getenv("LEARNHUB_TEST_DB")
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		t.Skip("set LEARNHUB_TEST_DB or DATABASE_URL to run integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	cfg := config.Config{
		JWTSecret: "integration-test-secret",
		JWTIssuer: "learnhub-test",
		TokenTTL:  time.Hour,
	}
	server := httptest.NewServer(NewServer(cfg, repository.NewStore(pool)).Router())
	t.Cleanup(server.Close)
	return server
}

func doJSON(t *testing.T, server *httptest.Server, method, path, token string, payload interface{}) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, server.URL+path, body)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

type testAccount struct {
	id    string
	email string
	token string
}

// registerAndLogin creates a fresh account with a unique email and returns
// its identity and access token.
func registerAndLogin(t *testing.T, server *httptest.Server, role model.Role) testAccount {
	t.Helper()

	suffix := uuid.NewString()[:8]
	email := fmt.Sprintf("%s-%s@test.local", role, suffix)
	password := "Password123!"

	status, body := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": string(role) + "-" + suffix,
		"email":    email,
		"password": password,
		"role":     string(role),
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d (%s)", role, status, body)
	}

	status, body = doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: expected 200, got %d (%s)", role, status, body)
	}

	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("login returned empty token")
	}
	if resp.User.Role != role {
		t.Fatalf("expected role %s, got %s", role, resp.User.Role)
	}
	return testAccount{id: resp.User.ID, email: resp.User.Email, token: resp.Token}
}

func TestRegisterLoginFlow(t *testing.T) {
	server := startTestServer(t)

	account := registerAndLogin(t, server, model.RoleStudent)

	// Same email again is rejected.
	status, body := doJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "someone-else",
		"email":    account.email,
		"password": "Password123!",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("duplicate register: expected 400, got %d (%s)", status, body)
	}
	var errResp map[string]string
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp["error"] != "email_already_registered" {
		t.Fatalf("expected email_already_registered, got %q", errResp["error"])
	}

	// Wrong password is rejected without leaking which part was wrong.
	status, body = doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    account.email,
		"password": "wrong-password",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("bad password: expected 400, got %d (%s)", status, body)
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp["error"] != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %q", errResp["error"])
	}

	// Unknown email gets the same answer as a bad password.
	status, body = doJSON(t, server, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody-" + uuid.NewString()[:8] + "@test.local",
		"password": "whatever",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("unknown email: expected 400, got %d (%s)", status, body)
	}
	if err := json.Unmarshal(body, &errResp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if errResp["error"] != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials, got %q", errResp["error"])
	}
}

func TestAdminUserManagement(t *testing.T) {
	server := startTestServer(t)

	admin := registerAndLogin(t, server, model.RoleAdmin)
	student := registerAndLogin(t, server, model.RoleStudent)

	// Admin sees the user list; hashes never appear in it.
	status, body := doJSON(t, server, http.MethodGet, "/api/auth/users", admin.token, nil)
	if status != http.StatusOK {
		t.Fatalf("list users: expected 200, got %d (%s)", status, body)
	}
	var users []map[string]interface{}
	if err := json.Unmarshal(body, &users); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	found := false
	for _, user := range users {
		if user["id"] == student.id {
			found = true
		}
		if _, ok := user["passwordHash"]; ok {
			t.Fatalf("password hash leaked in user list")
		}
		if _, ok := user["password"]; ok {
			t.Fatalf("password leaked in user list")
		}
	}
	if !found {
		t.Fatalf("registered student missing from user list")
	}

	// Students cannot see the list.
	status, _ = doJSON(t, server, http.MethodGet, "/api/auth/users", student.token, nil)
	if status != http.StatusForbidden {
		t.Fatalf("student list users: expected 403, got %d", status)
	}

	// Admin deletes the student; a second delete misses.
	status, body = doJSON(t, server, http.MethodDelete, "/api/auth/users/"+student.id, admin.token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete user: expected 200, got %d (%s)", status, body)
	}
	status, _ = doJSON(t, server, http.MethodDelete, "/api/auth/users/"+student.id, admin.token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("repeat delete: expected 404, got %d", status)
	}
}

func TestTicketOwnershipScoping(t *testing.T) {
	server := startTestServer(t)

	admin := registerAndLogin(t, server, model.RoleAdmin)
	owner := registerAndLogin(t, server, model.RoleStudent)
	other := registerAndLogin(t, server, model.RoleStudent)

	// Creation takes identity from the token; spoofed creator fields in
	// the body are ignored.
	status, body := doJSON(t, server, http.MethodPost, "/api/tickets", owner.token, map[string]string{
		"subject":  "Cannot open lesson 3",
		"message":  "The video never loads.",
		"userId":   admin.id,
		"userName": "impostor",
		"userRole": "admin",
	})
	if status != http.StatusCreated {
		t.Fatalf("create ticket: expected 201, got %d (%s)", status, body)
	}
	var created ticketResponse
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode ticket: %v", err)
	}
	if created.UserID != owner.id {
		t.Fatalf("ticket creator is %s, expected token identity %s", created.UserID, owner.id)
	}
	if created.UserRole != model.RoleStudent {
		t.Fatalf("ticket creator role is %s, expected student", created.UserRole)
	}
	if created.Status != model.TicketOpen {
		t.Fatalf("new ticket status is %s, expected open", created.Status)
	}

	// The owner sees the ticket; the other student does not.
	status, body = doJSON(t, server, http.MethodGet, "/api/tickets", owner.token, nil)
	if status != http.StatusOK {
		t.Fatalf("owner list: expected 200, got %d", status)
	}
	if !ticketListContains(t, body, created.ID) {
		t.Fatalf("owner cannot see own ticket")
	}

	status, body = doJSON(t, server, http.MethodGet, "/api/tickets", other.token, nil)
	if status != http.StatusOK {
		t.Fatalf("other list: expected 200, got %d", status)
	}
	if ticketListContains(t, body, created.ID) {
		t.Fatalf("foreign ticket visible to non-owner")
	}

	// Admin sees every ticket.
	status, body = doJSON(t, server, http.MethodGet, "/api/tickets", admin.token, nil)
	if status != http.StatusOK {
		t.Fatalf("admin list: expected 200, got %d", status)
	}
	if !ticketListContains(t, body, created.ID) {
		t.Fatalf("admin cannot see ticket")
	}

	// A non-owner touching a foreign ticket gets the same 404 as a
	// nonexistent one.
	update := map[string]string{"status": "closed"}
	status, body = doJSON(t, server, http.MethodPut, "/api/tickets/"+created.ID, other.token, update)
	if status != http.StatusNotFound {
		t.Fatalf("foreign update: expected 404, got %d (%s)", status, body)
	}
	foreignBody := string(body)
	status, body = doJSON(t, server, http.MethodPut, "/api/tickets/"+uuid.NewString(), other.token, update)
	if status != http.StatusNotFound {
		t.Fatalf("missing update: expected 404, got %d", status)
	}
	if string(body) != foreignBody {
		t.Fatalf("foreign and missing tickets are distinguishable: %q vs %q", foreignBody, body)
	}
	status, _ = doJSON(t, server, http.MethodDelete, "/api/tickets/"+created.ID, other.token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("foreign delete: expected 404, got %d", status)
	}

	// Status outside the closed set is rejected.
	status, body = doJSON(t, server, http.MethodPut, "/api/tickets/"+created.ID, owner.token, map[string]string{"status": "pending"})
	if status != http.StatusBadRequest {
		t.Fatalf("bad status: expected 400, got %d (%s)", status, body)
	}

	// Admin can close any ticket.
	status, body = doJSON(t, server, http.MethodPut, "/api/tickets/"+created.ID, admin.token, update)
	if status != http.StatusOK {
		t.Fatalf("admin update: expected 200, got %d (%s)", status, body)
	}
	var updated ticketResponse
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated: %v", err)
	}
	if updated.Status != model.TicketClosed {
		t.Fatalf("expected closed, got %s", updated.Status)
	}
	if updated.UserID != owner.id {
		t.Fatalf("update must not change the creator")
	}

	// The owner can delete their own ticket.
	status, _ = doJSON(t, server, http.MethodDelete, "/api/tickets/"+created.ID, owner.token, nil)
	if status != http.StatusOK {
		t.Fatalf("owner delete: expected 200, got %d", status)
	}
	status, _ = doJSON(t, server, http.MethodDelete, "/api/tickets/"+created.ID, owner.token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("deleted ticket should be gone, got %d", status)
	}
}

func ticketListContains(t *testing.T, body []byte, id string) bool {
	t.Helper()
	var tickets []ticketResponse
	if err := json.Unmarshal(body, &tickets); err != nil {
		t.Fatalf("decode tickets: %v", err)
	}
	for _, ticket := range tickets {
		if ticket.ID == id {
			return true
		}
	}
	return false
}

func TestCourseCRUD(t *testing.T) {
	server := startTestServer(t)

	instructor := registerAndLogin(t, server, model.RoleInstructor)

	status, body := doJSON(t, server, http.MethodPost, "/api/courses", instructor.token, map[string]interface{}{
		"title":        "Intro to Distributed Systems",
		"description":  "Consensus, replication, and failure.",
		"instructor":   "Dr. Example",
		"duration":     8,
		"thumbnailUrl": "https://cdn.test.local/ds.png",
	})
	if status != http.StatusCreated {
		t.Fatalf("create course: expected 201, got %d (%s)", status, body)
	}
	var course courseResponse
	if err := json.Unmarshal(body, &course); err != nil {
		t.Fatalf("decode course: %v", err)
	}

	status, body = doJSON(t, server, http.MethodGet, "/api/courses/"+course.ID, instructor.token, nil)
	if status != http.StatusOK {
		t.Fatalf("get course: expected 200, got %d (%s)", status, body)
	}

	status, body = doJSON(t, server, http.MethodPut, "/api/courses/"+course.ID, instructor.token, map[string]string{
		"title": "Distributed Systems",
	})
	if status != http.StatusOK {
		t.Fatalf("update course: expected 200, got %d (%s)", status, body)
	}
	var updated courseResponse
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("decode updated course: %v", err)
	}
	if updated.Title != "Distributed Systems" {
		t.Fatalf("title not updated: %q", updated.Title)
	}
	if updated.Instructor != course.Instructor {
		t.Fatalf("partial update clobbered instructor")
	}

	status, _ = doJSON(t, server, http.MethodDelete, "/api/courses/"+course.ID, instructor.token, nil)
	if status != http.StatusOK {
		t.Fatalf("delete course: expected 200, got %d", status)
	}
	status, _ = doJSON(t, server, http.MethodGet, "/api/courses/"+course.ID, instructor.token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("deleted course should be gone, got %d", status)
	}
}
