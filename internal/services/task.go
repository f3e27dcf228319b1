package services

import (
	"context"
	"errors"
	"strings"

	"github.com/tareas-app/webapp/types"
)

// ErrTitleRequired is returned when a task is created or updated with
// an empty title.
var ErrTitleRequired = errors.New("title is required")

// TaskRepository defines persistence operations for tasks. All
// operations except Create are owner-scoped; a task owned by another
// user is reported as not found.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID int) ([]types.Task, error)
	GetByOwner(ctx context.Context, id, ownerID int) (types.Task, error)
	Create(ctx context.Context, task types.Task) (types.Task, error)
	Update(ctx context.Context, task types.Task) (types.Task, error)
	Delete(ctx context.Context, id, ownerID int) error
}

// TaskList is the result of listing a user's tasks. PendingCount is
// always computed over the full owned set, regardless of any search
// filter applied to Tasks.
type TaskList struct {
	Tasks        []types.Task
	PendingCount int
}

// TaskService encapsulates task use-cases.
type TaskService struct {
	repo TaskRepository
}

func NewTaskService(repo TaskRepository) *TaskService {
	return &TaskService{repo: repo}
}

// List returns the complete set of tasks owned by ownerID. A non-empty
// search narrows the returned tasks to those whose title contains it,
// case-insensitively. The result set is small by construction (one
// user's personal list), so filtering happens here rather than in SQL
// and the pending count stays untouched by the filter.
func (s *TaskService) List(ctx context.Context, ownerID int, search string) (TaskList, error) {
	tasks, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return TaskList{}, err
	}

	pending := 0
	for _, task := range tasks {
		if !task.Completed {
			pending++
		}
	}

	if search != "" {
		needle := strings.ToLower(search)
		filtered := make([]types.Task, 0, len(tasks))
		for _, task := range tasks {
			if strings.Contains(strings.ToLower(task.Title), needle) {
				filtered = append(filtered, task)
			}
		}
		tasks = filtered
	}

	return TaskList{Tasks: tasks, PendingCount: pending}, nil
}

// Get returns the task with the given id if ownerID owns it, and
// store.ErrNotFound otherwise.
func (s *TaskService) Get(ctx context.Context, ownerID, id int) (types.Task, error) {
	return s.repo.GetByOwner(ctx, id, ownerID)
}

// Create stores a new task owned by ownerID. The owner cannot be
// supplied by the caller's input; it is always the current principal.
func (s *TaskService) Create(ctx context.Context, ownerID int, title, description string, completed bool) (types.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return types.Task{}, ErrTitleRequired
	}
	return s.repo.Create(ctx, types.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   completed,
	})
}

// Update modifies title, description and completed of an owned task.
// The task is resolved with the same owner-scoped lookup as Get, so a
// not-owned id fails identically to an absent one, before any input
// validation happens.
func (s *TaskService) Update(ctx context.Context, ownerID, id int, title, description string, completed bool) (types.Task, error) {
	if _, err := s.repo.GetByOwner(ctx, id, ownerID); err != nil {
		return types.Task{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return types.Task{}, ErrTitleRequired
	}

	return s.repo.Update(ctx, types.Task{
		ID:          id,
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Completed:   completed,
	})
}

// Delete removes an owned task. Absent and not-owned ids both fail
// with store.ErrNotFound and leave the record untouched.
func (s *TaskService) Delete(ctx context.Context, ownerID, id int) error {
	return s.repo.Delete(ctx, id, ownerID)
}
