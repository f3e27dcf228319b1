package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/tareas-app/webapp/internal/services"
	"github.com/tareas-app/webapp/internal/store"
	"github.com/tareas-app/webapp/internal/templates"
	"github.com/tareas-app/webapp/types"
)

const searchQueryParam = "buscar-texto"

// TaskHandler provides the task pages. Every route requires an
// authenticated session; the auth middleware is applied by TaskRouter.
type TaskHandler struct {
	taskService *services.TaskService
}

// NewTaskHandler constructs a handler with the provided service.
func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// TaskRouter registers task routes on the given router.
func TaskRouter(r chi.Router, taskService *services.TaskService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewTaskHandler(taskService)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", handler.ListTasks)
		r.Get("/tarea/{taskID}", handler.TaskDetail)
		r.Get("/crear-Tarea/", handler.ShowCreateForm)
		r.Post("/crear-Tarea/", handler.CreateTask)
		r.Get("/editar-tarea/{taskID}", handler.ShowEditForm)
		r.Post("/editar-tarea/{taskID}", handler.EditTask)
		r.Get("/eliminar-tarea/{taskID}", handler.ShowDeleteConfirm)
		r.Post("/eliminar-tarea/{taskID}", handler.DeleteTask)
	})
}

type taskListPage struct {
	Tasks        []types.Task
	PendingCount int
	SearchText   string
}

type taskDetailPage struct {
	Task types.Task
}

type taskFormPage struct {
	Heading     string
	Action      string
	Title       string
	Description string
	Completed   bool
	Errors      map[string]string
}

type taskDeletePage struct {
	Task types.Task
}

// ListTasks renders the owner's full task list, narrowed by the
// buscar-texto query parameter when present.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	search := r.URL.Query().Get(searchQueryParam)
	result, err := h.taskService.List(r.Context(), userID, search)
	if err != nil {
		internalError(w)
		return
	}

	h.render(w, "task_list.html", taskListPage{
		Tasks:        result.Tasks,
		PendingCount: result.PendingCount,
		SearchText:   search,
	})
}

// TaskDetail renders a single owned task. Absent and not-owned ids
// both produce a 404.
func (h *TaskHandler) TaskDetail(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	id, err := parseTaskID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w)
		return
	}

	h.render(w, "task_detail.html", taskDetailPage{Task: task})
}

// ShowCreateForm renders an empty task form.
func (h *TaskHandler) ShowCreateForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, "task_form.html", taskFormPage{
		Heading: "Crear tarea",
		Action:  "/crear-Tarea/",
	})
}

// CreateTask persists a new task owned by the current user and
// redirects to the list. Validation failures re-render the form.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	input := parseTaskForm(r)
	if _, err := h.taskService.Create(r.Context(), userID, input.Title, input.Description, input.Completed); err != nil {
		if errors.Is(err, services.ErrTitleRequired) {
			h.renderTaskFormError(w, "Crear tarea", "/crear-Tarea/", input)
			return
		}
		internalError(w)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// ShowEditForm renders the form pre-filled with an owned task.
// Not-owned ids 404 on the form GET exactly like on the submit.
func (h *TaskHandler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	id, err := parseTaskID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w)
		return
	}

	h.render(w, "task_form.html", taskFormPage{
		Heading:     "Editar tarea",
		Action:      editTaskPath(id),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
	})
}

// EditTask applies field changes to an owned task and redirects to the
// list. The owner is never changed.
func (h *TaskHandler) EditTask(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	id, err := parseTaskID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	input := parseTaskForm(r)
	if _, err := h.taskService.Update(r.Context(), userID, id, input.Title, input.Description, input.Completed); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			http.NotFound(w, r)
		case errors.Is(err, services.ErrTitleRequired):
			h.renderTaskFormError(w, "Editar tarea", editTaskPath(id), input)
		default:
			internalError(w)
		}
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

// ShowDeleteConfirm renders the delete confirmation page with the
// task's title.
func (h *TaskHandler) ShowDeleteConfirm(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	id, err := parseTaskID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	task, err := h.taskService.Get(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w)
		return
	}

	h.render(w, "task_confirm_delete.html", taskDeletePage{Task: task})
}

// DeleteTask removes an owned task and redirects to the list. A
// not-owned or absent id 404s and leaves the record untouched.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r.Context())
	if err != nil {
		redirectToLogin(w, r)
		return
	}

	id, err := parseTaskID(r)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.taskService.Delete(r.Context(), userID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		internalError(w)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

type taskFormInput struct {
	Title       string
	Description string
	Completed   bool
}

func parseTaskForm(r *http.Request) taskFormInput {
	return taskFormInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Completed:   r.FormValue("completed") != "",
	}
}

func parseTaskID(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "taskID")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, errors.New("invalid task id")
	}
	return id, nil
}

func editTaskPath(id int) string {
	return fmt.Sprintf("/editar-tarea/%d", id)
}

func (h *TaskHandler) renderTaskFormError(w http.ResponseWriter, heading, action string, input taskFormInput) {
	h.render(w, "task_form.html", taskFormPage{
		Heading:     heading,
		Action:      action,
		Title:       input.Title,
		Description: input.Description,
		Completed:   input.Completed,
		Errors:      map[string]string{"title": "title is required"},
	})
}

func (h *TaskHandler) render(w http.ResponseWriter, name string, data any) {
	if err := templates.Render(w, http.StatusOK, name, data); err != nil {
		internalError(w)
	}
}
