package types

import "time"

// Task represents a single to-do item owned by exactly one user.
type Task struct {
	// ID is the unique identifier of the task.
	ID int `json:"id" db:"id"`

	// OwnerID references the user that owns the task. It is set once at
	// creation and never changes afterwards.
	OwnerID int `json:"owner_id" db:"owner_id"`

	// Title is the short label shown in the task list. Required.
	Title string `json:"title" db:"title"`

	// Description is free-form text. Defaults to empty.
	Description string `json:"description" db:"description"`

	// Completed marks the task as done.
	Completed bool `json:"completed" db:"completed"`

	// CreatedAt is the timestamp when the task was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the task.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
