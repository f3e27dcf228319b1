package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/tareas-app/webapp/internal/handlers"
	"github.com/tareas-app/webapp/internal/services"
	"github.com/tareas-app/webapp/internal/store"
	"github.com/tareas-app/webapp/types"
)

const (
	testSecret      = "test-session-secret"
	testCookieName  = "tareas_session"
	testPassword    = "password123"
)

type memUserRepo struct {
	seq   int
	users map[int]types.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[int]types.User{}}
}

func (m *memUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByUsername(ctx context.Context, username string) (types.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	m.seq++
	user.ID = m.seq
	m.users[user.ID] = user
	return user, nil
}

type memTaskRepo struct {
	seq   int
	tasks map[int]types.Task
}

func newMemTaskRepo() *memTaskRepo {
	return &memTaskRepo{tasks: map[int]types.Task{}}
}

// add seeds a task directly, bypassing the service.
func (m *memTaskRepo) add(task types.Task) types.Task {
	m.seq++
	task.ID = m.seq
	m.tasks[task.ID] = task
	return task
}

func (m *memTaskRepo) ListByOwner(ctx context.Context, ownerID int) ([]types.Task, error) {
	owned := make([]types.Task, 0)
	for _, task := range m.tasks {
		if task.OwnerID == ownerID {
			owned = append(owned, task)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].ID < owned[j].ID })
	return owned, nil
}

func (m *memTaskRepo) GetByOwner(ctx context.Context, id, ownerID int) (types.Task, error) {
	task, ok := m.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return types.Task{}, store.ErrNotFound
	}
	return task, nil
}

func (m *memTaskRepo) Create(ctx context.Context, task types.Task) (types.Task, error) {
	return m.add(task), nil
}

func (m *memTaskRepo) Update(ctx context.Context, task types.Task) (types.Task, error) {
	existing, ok := m.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return types.Task{}, store.ErrNotFound
	}
	task.CreatedAt = existing.CreatedAt
	m.tasks[task.ID] = task
	return task, nil
}

func (m *memTaskRepo) Delete(ctx context.Context, id, ownerID int) error {
	task, ok := m.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(m.tasks, id)
	return nil
}

// newTestRouter wires the full route table the way server.New does,
// with in-memory repositories behind the services.
func newTestRouter() (*chi.Mux, *memUserRepo, *memTaskRepo) {
	userRepo := newMemUserRepo()
	taskRepo := newMemTaskRepo()

	router := chi.NewRouter()
	handlers.AuthRouter(router, services.NewUserService(userRepo), testSecret)
	handlers.TaskRouter(router, services.NewTaskService(taskRepo), handlers.RequireAuth(testSecret))
	return router, userRepo, taskRepo
}

func doGet(router *chi.Mux, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func doPostForm(router *chi.Mux, path string, values url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// register creates an account through the registration endpoint and
// returns the session cookie it sets.
func register(t *testing.T, router *chi.Mux, username string) *http.Cookie {
	t.Helper()
	rec := doPostForm(router, "/registro/", url.Values{
		"username":  {username},
		"password1": {testPassword},
		"password2": {testPassword},
	}, nil)
	if rec.Code != http.StatusFound {
		t.Fatalf("register %q: expected 302, got %d", username, rec.Code)
	}
	return sessionCookie(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == testCookieName && cookie.Value != "" {
			return true
		}
	}
	return false
}
