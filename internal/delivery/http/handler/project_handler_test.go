package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"skill-bridge/internal/delivery/http/middleware"
	"skill-bridge/internal/repository"
	"skill-bridge/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type mockProjectUsecase struct {
	project repository.Project
	list    []repository.Project
	err     error

	joinedWith   string
	progressWith int
	statusWith   string
}

func (m *mockProjectUsecase) Create(ctx context.Context, in usecase.CreateProjectInput) (repository.Project, error) {
	return m.project, m.err
}

func (m *mockProjectUsecase) List(ctx context.Context) ([]repository.Project, error) {
	return m.list, m.err
}

func (m *mockProjectUsecase) Get(ctx context.Context, id uuid.UUID) (repository.Project, error) {
	return m.project, m.err
}

func (m *mockProjectUsecase) Join(ctx context.Context, id uuid.UUID, userID string) (repository.Project, error) {
	m.joinedWith = userID
	return m.project, m.err
}

func (m *mockProjectUsecase) UpdateProgress(ctx context.Context, id uuid.UUID, requesterID string, completed int) (repository.Project, error) {
	m.progressWith = completed
	return m.project, m.err
}

func (m *mockProjectUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, requesterID string, status string) (repository.Project, error) {
	m.statusWith = status
	return m.project, m.err
}

func newProjectTestApp(uc usecase.ProjectUsecase) *fiber.App {
	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware().Middleware())
	NewProjectHandler(uc).RegisterRoutes(app)
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]json.RawMessage) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var parsed map[string]json.RawMessage
	_ = json.Unmarshal(raw, &parsed)
	return resp.StatusCode, parsed
}

func jsonString(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		t.Fatalf("expected string field, got %s", raw)
	}
	return s
}

func TestProjectCreate_Success(t *testing.T) {
	uc := &mockProjectUsecase{project: repository.Project{ID: uuid.New(), Title: "Garden Build"}}
	app := newProjectTestApp(uc)

	status, body := doJSON(t, app, http.MethodPost, "/projects/create", fiber.Map{
		"title":       "Garden Build",
		"description": "Community garden",
		"category":    "outdoors",
		"adminId":     "u1",
	})

	if status != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", status)
	}
	if jsonString(t, body["message"]) != "Project created successfully" {
		t.Fatalf("unexpected message: %s", body["message"])
	}
	if _, ok := body["project"]; !ok {
		t.Fatalf("response missing project")
	}
}

func TestProjectCreate_MissingFields(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{})

	status, body := doJSON(t, app, http.MethodPost, "/projects/create", fiber.Map{
		"title": "Garden Build",
	})

	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if jsonString(t, body["error"]) != "Missing required fields" {
		t.Fatalf("unexpected error: %s", body["error"])
	}

	var missing []string
	if err := json.Unmarshal(body["missingFields"], &missing); err != nil {
		t.Fatalf("missingFields: %v", err)
	}
	if len(missing) != 3 {
		t.Fatalf("expected 3 missing fields, got %v", missing)
	}
	if _, ok := body["receivedData"]; !ok {
		t.Fatalf("response missing receivedData")
	}
}

func TestProjectGet_NotFound(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{err: usecase.ErrNotFound})

	status, body := doJSON(t, app, http.MethodGet, "/projects/"+uuid.NewString(), nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404, got %d", status)
	}
	if jsonString(t, body["error"]) != "Project not found" {
		t.Fatalf("unexpected error: %s", body["error"])
	}
}

func TestProjectGet_MalformedIDIsNotFound(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{})

	status, _ := doJSON(t, app, http.MethodGet, "/projects/not-a-uuid", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("expected 404 for malformed id, got %d", status)
	}
}

func TestProjectJoin_Success(t *testing.T) {
	uc := &mockProjectUsecase{project: repository.Project{ID: uuid.New()}}
	app := newProjectTestApp(uc)

	status, body := doJSON(t, app, http.MethodPost, "/projects/"+uuid.NewString()+"/join", fiber.Map{
		"userId": "u2",
	})

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if jsonString(t, body["message"]) != "Successfully joined project" {
		t.Fatalf("unexpected message: %s", body["message"])
	}
	if uc.joinedWith != "u2" {
		t.Fatalf("expected join with u2, got %q", uc.joinedWith)
	}
}

func TestProjectJoin_AlreadyMember(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{err: usecase.ErrAlreadyMember})

	status, body := doJSON(t, app, http.MethodPost, "/projects/"+uuid.NewString()+"/join", fiber.Map{
		"userId": "u2",
	})

	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if jsonString(t, body["error"]) != "User is already a member" {
		t.Fatalf("unexpected error: %s", body["error"])
	}
}

func TestProjectJoin_MissingUserID(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{})

	status, body := doJSON(t, app, http.MethodPost, "/projects/"+uuid.NewString()+"/join", fiber.Map{})

	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if jsonString(t, body["error"]) != "userId is required to join a project" {
		t.Fatalf("unexpected error: %s", body["error"])
	}
}

func TestProjectUpdateProgress_ForwardsValue(t *testing.T) {
	uc := &mockProjectUsecase{project: repository.Project{ID: uuid.New()}}
	app := newProjectTestApp(uc)

	status, _ := doJSON(t, app, http.MethodPatch, "/projects/"+uuid.NewString()+"/progress", fiber.Map{
		"progress": 0,
		"adminId":  "u1",
	})

	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if uc.progressWith != 0 {
		t.Fatalf("zero progress must be forwarded, got %d", uc.progressWith)
	}
}

func TestProjectUpdateProgress_MissingProgress(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{})

	status, body := doJSON(t, app, http.MethodPatch, "/projects/"+uuid.NewString()+"/progress", fiber.Map{
		"adminId": "u1",
	})

	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if jsonString(t, body["error"]) != "progress is required" {
		t.Fatalf("unexpected error: %s", body["error"])
	}
}

func TestProjectUpdateProgress_Forbidden(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{err: usecase.ErrForbidden})

	status, body := doJSON(t, app, http.MethodPatch, "/projects/"+uuid.NewString()+"/progress", fiber.Map{
		"progress": 50,
		"adminId":  "u2",
	})

	if status != fiber.StatusForbidden {
		t.Fatalf("expected 403, got %d", status)
	}
	if jsonString(t, body["error"]) != "Only project admin can update progress" {
		t.Fatalf("unexpected error: %s", body["error"])
	}
}

func TestProjectUpdateStatus_InvalidValue(t *testing.T) {
	app := newProjectTestApp(&mockProjectUsecase{err: usecase.ErrInvalidInput})

	status, body := doJSON(t, app, http.MethodPatch, "/projects/"+uuid.NewString()+"/status", fiber.Map{
		"status":  "archived",
		"adminId": "u1",
	})

	if status != fiber.StatusBadRequest {
		t.Fatalf("expected 400, got %d", status)
	}
	if jsonString(t, body["error"]) != "status must be one of planning, in-progress, completed, on-hold" {
		t.Fatalf("unexpected error: %s", body["error"])
	}
}

func TestProjectList_ReturnsArray(t *testing.T) {
	uc := &mockProjectUsecase{list: []repository.Project{
		{ID: uuid.New(), Title: "Garden Build"},
		{ID: uuid.New(), Title: "Repair Cafe"},
	}}
	app := newProjectTestApp(uc)

	req := httptest.NewRequest(http.MethodGet, "/projects/", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var projects []repository.Project
	if err := json.NewDecoder(resp.Body).Decode(&projects); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
}
