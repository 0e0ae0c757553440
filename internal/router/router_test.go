package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"go.uber.org/zap"

	"studytrack/backend/internal/db"
	"studytrack/backend/internal/handler"
	"studytrack/backend/internal/repository"
	"studytrack/backend/internal/router"
	"studytrack/backend/internal/service"
)

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

type preferencesEnvelope struct {
	Preferences struct {
		Subjects []string          `json:"subjects"`
		Colors   map[string]string `json:"colors"`
	} `json:"preferences"`
}

type timerEnvelope struct {
	Timer struct {
		Mode                  string `json:"mode"`
		Subject               string `json:"subject"`
		Phase                 string `json:"phase"`
		InitialStudySeconds   int    `json:"initialStudySeconds"`
		RemainingStudySeconds int    `json:"remainingStudySeconds"`
	} `json:"timer"`
}

type taskEnvelope struct {
	Task struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	} `json:"task"`
}

type tasksEnvelope struct {
	Tasks []struct {
		ID        string `json:"id"`
		Completed bool   `json:"completed"`
	} `json:"tasks"`
}

type apiErrorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestPreferencesAndTimerFlow(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "user1@example.com", "123456")

	// Subjects must exist before the timer can start.
	status, _ := requestJSON(t, engine, http.MethodPut, "/api/preferences", user.Token, map[string]interface{}{
		"subjects": []string{"Math", "Physics"},
		"colors":   map[string]string{"Math": "#ff0000", "Physics": "#00ff00"},
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 saving preferences, got %d", status)
	}

	status, rawPrefs := requestJSON(t, engine, http.MethodGet, "/api/preferences", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 loading preferences, got %d", status)
	}
	var prefs preferencesEnvelope
	if err := json.Unmarshal(rawPrefs, &prefs); err != nil {
		t.Fatalf("unmarshal preferences: %v", err)
	}
	if len(prefs.Preferences.Subjects) != 2 || prefs.Preferences.Subjects[0] != "math" {
		t.Fatalf("expected normalized subjects, got %v", prefs.Preferences.Subjects)
	}

	// Configure a 45-minute custom countdown.
	status, rawTimer := requestJSON(t, engine, http.MethodPost, "/api/timer/mode", user.Token, map[string]interface{}{
		"mode":          "custom",
		"customMinutes": 45,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 selecting mode, got %d", status)
	}
	var timerResp timerEnvelope
	if err := json.Unmarshal(rawTimer, &timerResp); err != nil {
		t.Fatalf("unmarshal timer state: %v", err)
	}
	if timerResp.Timer.InitialStudySeconds != 45*60 {
		t.Fatalf("expected 2700s initial duration, got %d", timerResp.Timer.InitialStudySeconds)
	}

	// Starting with a subject in any case works; unknown subjects fail.
	status, rawTimer = requestJSON(t, engine, http.MethodPost, "/api/timer/start", user.Token, map[string]string{
		"subject": "MATH",
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 starting timer, got %d: %s", status, string(rawTimer))
	}
	if err := json.Unmarshal(rawTimer, &timerResp); err != nil {
		t.Fatalf("unmarshal timer state: %v", err)
	}
	if timerResp.Timer.Phase != "studying" || timerResp.Timer.Subject != "math" {
		t.Fatalf("expected studying math, got %s %s", timerResp.Timer.Phase, timerResp.Timer.Subject)
	}

	status, rawErr := requestJSON(t, engine, http.MethodPost, "/api/timer/stop", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 stopping timer, got %d: %s", status, string(rawErr))
	}

	// Stop is idempotent.
	status, _ = requestJSON(t, engine, http.MethodPost, "/api/timer/stop", user.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on second stop, got %d", status)
	}
}

func TestTimerRejectsUnknownSubject(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "user2@example.com", "123456")

	status, raw := requestJSON(t, engine, http.MethodPost, "/api/timer/start", user.Token, map[string]string{
		"subject": "biology",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown subject, got %d", status)
	}

	var errResp apiErrorEnvelope
	if err := json.Unmarshal(raw, &errResp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errResp.Error.Code != "unknown_subject" {
		t.Fatalf("expected unknown_subject, got %s", errResp.Error.Code)
	}
}

func TestPreferencesRejectDuplicateColor(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "user3@example.com", "123456")

	status, raw := requestJSON(t, engine, http.MethodPut, "/api/preferences", user.Token, map[string]interface{}{
		"subjects": []string{"math", "physics"},
		"colors":   map[string]string{"math": "#ff0000", "physics": "#ff0000"},
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for duplicate color, got %d", status)
	}

	var errResp apiErrorEnvelope
	if err := json.Unmarshal(raw, &errResp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	if errResp.Error.Code != "duplicate_color" {
		t.Fatalf("expected duplicate_color, got %s", errResp.Error.Code)
	}
}

func TestTaskLifecycle(t *testing.T) {
	engine := setupTestEngine(t)
	user := registerUser(t, engine, "user4@example.com", "123456")
	other := registerUser(t, engine, "user5@example.com", "123456")

	status, raw := requestJSON(t, engine, http.MethodPost, "/api/tasks", user.Token, map[string]interface{}{
		"title":    "review chapter 3",
		"category": "math",
		"deadline": time.Now().UTC().Add(48 * time.Hour).Format(time.RFC3339),
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 creating task, got %d: %s", status, string(raw))
	}
	var created taskEnvelope
	if err := json.Unmarshal(raw, &created); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}

	status, raw = requestJSON(t, engine, http.MethodPatch, "/api/tasks/"+created.Task.ID+"/completed", user.Token, map[string]bool{
		"completed": true,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 completing task, got %d: %s", status, string(raw))
	}

	// Task isolation: the other user sees nothing.
	status, raw = requestJSON(t, engine, http.MethodGet, "/api/tasks", other.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 listing tasks, got %d", status)
	}
	var otherTasks tasksEnvelope
	if err := json.Unmarshal(raw, &otherTasks); err != nil {
		t.Fatalf("unmarshal tasks: %v", err)
	}
	if len(otherTasks.Tasks) != 0 {
		t.Fatalf("expected no tasks for other user, got %d", len(otherTasks.Tasks))
	}

	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/tasks/"+created.Task.ID, user.Token, nil)
	if status != http.StatusNoContent {
		t.Fatalf("expected 204 deleting task, got %d", status)
	}

	status, _ = requestJSON(t, engine, http.MethodDelete, "/api/tasks/"+created.Task.ID, user.Token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 deleting task twice, got %d", status)
	}
}

func TestAuthRequired(t *testing.T) {
	engine := setupTestEngine(t)

	status, _ := requestJSON(t, engine, http.MethodGet, "/api/timer/state", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := setupTestEngine(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	recorder := httptest.NewRecorder()

	engine.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "http://localhost:5173" {
		t.Fatalf("unexpected allow-origin header: %s", recorder.Header().Get("Access-Control-Allow-Origin"))
	}
}

func setupTestEngine(t *testing.T) http.Handler {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = database.Close()
	})

	_, currentFile, _, _ := runtime.Caller(0)
	migrationsDir := filepath.Join(filepath.Dir(currentFile), "..", "..", "migrations")
	if err := db.RunMigrations(database, migrationsDir); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	logger := zap.NewNop()
	userRepo := repository.NewUserRepository(database)
	prefsRepo := repository.NewPreferencesRepository(database)
	ledgerRepo := repository.NewLedgerRepository(database)
	taskRepo := repository.NewTaskRepository(database)

	authService := service.NewAuthService(userRepo, prefsRepo, "test-secret", 24*time.Hour)
	prefsService := service.NewPreferencesService(prefsRepo)
	timerService := service.NewTimerService(prefsService, ledgerRepo, time.Millisecond, logger)
	taskService := service.NewTaskService(taskRepo)
	statsService := service.NewStatsService(ledgerRepo, taskRepo)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		Timer:       handler.NewTimerHandler(timerService),
		Preferences: handler.NewPreferencesHandler(prefsService),
		Tasks:       handler.NewTaskHandler(taskService),
		Stats:       handler.NewStatsHandler(statsService),
	}

	return router.New(authService, handlers, []string{"http://localhost:5173"}, logger)
}

func registerUser(t *testing.T, server http.Handler, email, password string) authResponse {
	t.Helper()
	status, body := requestJSON(t, server, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s failed with status %d: %s", email, status, string(body))
	}
	var resp authResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal register response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token for user %s", email)
	}
	return resp
}

func requestJSON(
	t *testing.T,
	server http.Handler,
	method, path, token string,
	body interface{},
) (int, []byte) {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		payload = raw
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	recorder := httptest.NewRecorder()
	server.ServeHTTP(recorder, req)
	return recorder.Code, recorder.Body.Bytes()
}
