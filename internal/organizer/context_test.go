package organizer

import (
	"context"
	"errors"
	"testing"
	"time"

	"lvlai-backend/internal/tasks"
	"lvlai-backend/internal/users"
)

type fakeUserSource struct {
	user *users.User
	err  error
}

func (f *fakeUserSource) Get(_ context.Context, _ string) (*users.User, error) {
	return f.user, f.err
}

type fakeTaskSource struct {
	list []tasks.Task
	err  error
}

func (f *fakeTaskSource) ListByOwner(_ context.Context, _ string) ([]tasks.Task, error) {
	return f.list, f.err
}

func testUser() *users.User {
	return &users.User{
		ID:                  "5b2d37f1-8a41-4c6e-9f1a-3f6f6c1b0a11",
		Name:                "Ada",
		Email:               "ada@example.com",
		Level:               3,
		XP:                  250,
		TotalTasksCompleted: 12,
		Preferences:         users.Preferences{Timezone: "UTC", DailyGoalXP: 100},
	}
}

func makeTask(id string, status tasks.Status, createdAt time.Time, dueDate *time.Time) tasks.Task {
	return tasks.Task{
		ID:        id,
		UserID:    "5b2d37f1-8a41-4c6e-9f1a-3f6f6c1b0a11",
		Title:     "task " + id,
		Priority:  tasks.PriorityMedium,
		Status:    status,
		DueDate:   dueDate,
		Points:    10,
		Tags:      []string{},
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

func newTestRetriever(list []tasks.Task) *Retriever {
	return &Retriever{
		Users: &fakeUserSource{user: testUser()},
		Tasks: &fakeTaskSource{list: list},
	}
}

func TestRetrieveCompleteContext_StatsConsistency(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	list := []tasks.Task{
		makeTask("t1", tasks.StatusPending, now, &past),      // overdue
		makeTask("t2", tasks.StatusPending, now, &future),    // not overdue
		makeTask("t3", tasks.StatusInProgress, now, &past),   // overdue
		makeTask("t4", tasks.StatusCompleted, now, &past),    // completed, never overdue
		makeTask("t5", tasks.StatusCancelled, now, nil),      // counted in total only
		makeTask("t6", tasks.StatusCompleted, now, nil),
	}

	rc, err := newTestRetriever(list).RetrieveCompleteContext(context.Background(), testUser().ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rc.Stats.TotalTasks != len(rc.Tasks) {
		t.Errorf("total %d != len(tasks) %d", rc.Stats.TotalTasks, len(rc.Tasks))
	}

	cancelled := 0
	overdue := 0
	for _, tc := range rc.Tasks {
		if tc.Status == tasks.StatusCancelled {
			cancelled++
		}
		if tc.IsOverdue {
			overdue++
		}
	}

	sum := rc.Stats.PendingTasks + rc.Stats.InProgressTasks + rc.Stats.CompletedTasks + cancelled
	if sum != rc.Stats.TotalTasks {
		t.Errorf("status partition %d != total %d", sum, rc.Stats.TotalTasks)
	}
	if rc.Stats.OverdueTasks != overdue {
		t.Errorf("stats overdue %d != counted %d", rc.Stats.OverdueTasks, overdue)
	}
	if rc.Stats.PendingTasks != 2 || rc.Stats.InProgressTasks != 1 || rc.Stats.CompletedTasks != 2 {
		t.Errorf("unexpected partition: %+v", rc.Stats)
	}
	if rc.Stats.OverdueTasks != 2 {
		t.Errorf("expected 2 overdue, got %d", rc.Stats.OverdueTasks)
	}
}

func TestOverdueDerivation(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	cases := []struct {
		name    string
		status  tasks.Status
		due     *time.Time
		overdue bool
	}{
		{"past due, pending", tasks.StatusPending, &past, true},
		{"past due, in progress", tasks.StatusInProgress, &past, true},
		{"past due, completed", tasks.StatusCompleted, &past, false},
		{"past due, cancelled", tasks.StatusCancelled, &past, true},
		{"future due, pending", tasks.StatusPending, &future, false},
		{"no due date, pending", tasks.StatusPending, nil, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tc := newTaskContext(makeTask("x", c.status, now, c.due), now)
			if tc.IsOverdue != c.overdue {
				t.Errorf("isOverdue = %v, want %v", tc.IsOverdue, c.overdue)
			}
		})
	}
}

func TestRetrieveCompleteContext_PreservesOrder(t *testing.T) {
	now := time.Now()
	list := []tasks.Task{
		makeTask("newest", tasks.StatusPending, now, nil),
		makeTask("middle", tasks.StatusPending, now.Add(-time.Hour), nil),
		makeTask("oldest", tasks.StatusPending, now.Add(-2*time.Hour), nil),
	}

	rc, err := newTestRetriever(list).RetrieveCompleteContext(context.Background(), testUser().ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, want := range []string{"newest", "middle", "oldest"} {
		if rc.Tasks[i].ID != want {
			t.Errorf("tasks[%d] = %s, want %s", i, rc.Tasks[i].ID, want)
		}
	}
}

func TestRetrieveCompleteContext_UserErrorAborts(t *testing.T) {
	r := &Retriever{
		Users: &fakeUserSource{err: users.ErrNotFound},
		Tasks: &fakeTaskSource{list: []tasks.Task{makeTask("t1", tasks.StatusPending, time.Now(), nil)}},
	}

	_, err := r.RetrieveCompleteContext(context.Background(), testUser().ID)
	if !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetrieveCompleteContext_TaskErrorAborts(t *testing.T) {
	boom := errors.New("db down")
	r := &Retriever{
		Users: &fakeUserSource{user: testUser()},
		Tasks: &fakeTaskSource{err: boom},
	}

	_, err := r.RetrieveCompleteContext(context.Background(), testUser().ID)
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped task error, got %v", err)
	}
}

func TestRetrieveCompleteContext_InvalidIDPropagates(t *testing.T) {
	r := &Retriever{
		Users: &fakeUserSource{err: users.ErrInvalidID},
		Tasks: &fakeTaskSource{err: tasks.ErrInvalidID},
	}

	_, err := r.RetrieveCompleteContext(context.Background(), "not-a-uuid")
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, users.ErrInvalidID) && !errors.Is(err, tasks.ErrInvalidID) {
		t.Fatalf("expected an invalid-id error, got %v", err)
	}
}
