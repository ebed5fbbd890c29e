package tasks

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("task not found")
	ErrInvalidID = errors.New("invalid task id format")
)

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

const taskColumns = `
	id, user_id, title, description, priority, status,
	task_time, due_date, completed_at, points, tags, created_at, updated_at`

func scanTask(row interface{ Scan(...any) error }) (Task, error) {
	var (
		t           Task
		description sql.NullString
		taskTime    sql.NullTime
		dueDate     sql.NullTime
		completedAt sql.NullTime
		tags        pq.StringArray
	)

	err := row.Scan(
		&t.ID, &t.UserID, &t.Title, &description, &t.Priority, &t.Status,
		&taskTime, &dueDate, &completedAt, &t.Points, &tags, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return Task{}, err
	}

	if description.Valid {
		t.Description = &description.String
	}
	if taskTime.Valid {
		t.TaskTime = &taskTime.Time
	}
	if dueDate.Valid {
		t.DueDate = &dueDate.Time
	}
	if completedAt.Valid {
		t.CompletedAt = &completedAt.Time
	}
	t.Tags = []string(tags)
	if t.Tags == nil {
		t.Tags = []string{}
	}

	return t, nil
}

// ListByOwner returns every task of one user, newest created first.
// This ordering is what the organizer agent's formatter consumes.
func (s *Store) ListByOwner(ctx context.Context, userID string) ([]Task, error) {
	if _, err := uuid.Parse(userID); err != nil {
		return nil, ErrInvalidID
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

func (s *Store) Get(ctx context.Context, userID, taskID string) (Task, error) {
	if _, err := uuid.Parse(taskID); err != nil {
		return Task{}, ErrInvalidID
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks
		WHERE user_id = $1 AND id = $2
	`, userID, taskID)

	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	return t, err
}

func (s *Store) Create(ctx context.Context, t Task) (Task, error) {
	t.ID = uuid.NewString()

	row := s.DB.QueryRowContext(ctx, `
		INSERT INTO tasks (id, user_id, title, description, priority, status,
			task_time, due_date, completed_at, points, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`,
		t.ID, t.UserID, t.Title, nullString(t.Description), t.Priority, t.Status,
		nullTime(t.TaskTime), nullTime(t.DueDate), nullTime(t.CompletedAt),
		t.Points, pq.Array(t.Tags),
	)

	if err := row.Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) Update(ctx context.Context, t Task) (Task, error) {
	row := s.DB.QueryRowContext(ctx, `
		UPDATE tasks
		SET title = $3, description = $4, priority = $5, status = $6,
			task_time = $7, due_date = $8, completed_at = $9,
			points = $10, tags = $11, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING updated_at
	`,
		t.UserID, t.ID, t.Title, nullString(t.Description), t.Priority, t.Status,
		nullTime(t.TaskTime), nullTime(t.DueDate), nullTime(t.CompletedAt),
		t.Points, pq.Array(t.Tags),
	)

	err := row.Scan(&t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrNotFound
	}
	if err != nil {
		return Task{}, err
	}
	return t, nil
}

func (s *Store) Delete(ctx context.Context, userID, taskID string) error {
	if _, err := uuid.Parse(taskID); err != nil {
		return ErrInvalidID
	}

	res, err := s.DB.ExecContext(ctx,
		`DELETE FROM tasks WHERE user_id = $1 AND id = $2`, userID, taskID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
