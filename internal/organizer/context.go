package organizer

import (
	"context"
	"fmt"
	"time"

	"lvlai-backend/internal/tasks"
	"lvlai-backend/internal/users"
)

// UserContext is the prompt-facing snapshot of a user. Credentials and
// tokens never reach this type: the user store excludes them at the
// query boundary.
type UserContext struct {
	UserID              string            `json:"userId"`
	Name                string            `json:"name"`
	Email               string            `json:"email"`
	Level               int               `json:"level"`
	XP                  int               `json:"xp"`
	TotalTasksCompleted int               `json:"totalTasksCompleted"`
	Preferences         users.Preferences `json:"preferences"`
}

// TaskContext is a read-only view of a task with the overdue flag
// derived at retrieval time. The flag is relative to the snapshot "now"
// of one context build; recomputing later may give a different answer.
type TaskContext struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description,omitempty"`
	Priority    tasks.Priority `json:"priority"`
	Status      tasks.Status   `json:"status"`
	TaskTime    *time.Time     `json:"taskTime,omitempty"`
	DueDate     *time.Time     `json:"dueDate,omitempty"`
	CompletedAt *time.Time     `json:"completedAt,omitempty"`
	Points      int            `json:"points"`
	Tags        []string       `json:"tags"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	IsOverdue   bool           `json:"isOverdue"`
}

type Stats struct {
	TotalTasks      int `json:"totalTasks"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
	OverdueTasks    int `json:"overdueTasks"`
}

// RetrievedContext is the bundle handed to the prompt formatter. Built
// fresh per call, never cached. Stats are a fold over Tasks, so the two
// cannot drift apart.
type RetrievedContext struct {
	User  UserContext   `json:"user"`
	Tasks []TaskContext `json:"tasks"`
	Stats Stats         `json:"stats"`
}

type UserSource interface {
	Get(ctx context.Context, id string) (*users.User, error)
}

type TaskSource interface {
	ListByOwner(ctx context.Context, userID string) ([]tasks.Task, error)
}

type Retriever struct {
	Users UserSource
	Tasks TaskSource
}

// RetrieveCompleteContext fetches the user and their tasks concurrently
// and derives stats and overdue flags against a single snapshot instant.
// Either read failing aborts the whole build; no partial context.
func (r *Retriever) RetrieveCompleteContext(ctx context.Context, userID string) (*RetrievedContext, error) {
	type userResult struct {
		user *users.User
		err  error
	}
	type taskResult struct {
		list []tasks.Task
		err  error
	}

	userCh := make(chan userResult, 1)
	taskCh := make(chan taskResult, 1)

	go func() {
		u, err := r.Users.Get(ctx, userID)
		userCh <- userResult{u, err}
	}()
	go func() {
		list, err := r.Tasks.ListByOwner(ctx, userID)
		taskCh <- taskResult{list, err}
	}()

	ur := <-userCh
	tr := <-taskCh

	if ur.err != nil {
		return nil, fmt.Errorf("retrieve user: %w", ur.err)
	}
	if tr.err != nil {
		return nil, fmt.Errorf("retrieve tasks: %w", tr.err)
	}

	now := time.Now()

	taskContexts := make([]TaskContext, 0, len(tr.list))
	var stats Stats
	stats.TotalTasks = len(tr.list)

	for _, t := range tr.list {
		tc := newTaskContext(t, now)

		switch tc.Status {
		case tasks.StatusPending:
			stats.PendingTasks++
		case tasks.StatusInProgress:
			stats.InProgressTasks++
		case tasks.StatusCompleted:
			stats.CompletedTasks++
		}
		if tc.IsOverdue {
			stats.OverdueTasks++
		}

		taskContexts = append(taskContexts, tc)
	}

	return &RetrievedContext{
		User: UserContext{
			UserID:              ur.user.ID,
			Name:                ur.user.Name,
			Email:               ur.user.Email,
			Level:               ur.user.Level,
			XP:                  ur.user.XP,
			TotalTasksCompleted: ur.user.TotalTasksCompleted,
			Preferences:         ur.user.Preferences,
		},
		Tasks: taskContexts,
		Stats: stats,
	}, nil
}

// newTaskContext derives the prompt view of one task. A task is overdue
// iff it has a due date strictly before now and is not completed.
func newTaskContext(t tasks.Task, now time.Time) TaskContext {
	overdue := t.DueDate != nil && t.DueDate.Before(now) && t.Status != tasks.StatusCompleted

	return TaskContext{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		TaskTime:    t.TaskTime,
		DueDate:     t.DueDate,
		CompletedAt: t.CompletedAt,
		Points:      t.Points,
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		IsOverdue:   overdue,
	}
}
