package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound  = errors.New("user not found")
	ErrInvalidID = errors.New("invalid user id format")
)

type Preferences struct {
	Timezone    string `json:"timezone"`
	DailyGoalXP int    `json:"dailyGoalXP"`
}

// User is the prompt-safe projection of a user record. The password hash
// and verification/reset tokens are excluded in the SELECT itself, never
// loaded and filtered later.
type User struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	Email               string      `json:"email"`
	Level               int         `json:"level"`
	XP                  int         `json:"xp"`
	TotalTasksCompleted int         `json:"totalTasksCompleted"`
	Preferences         Preferences `json:"preferences"`
	CreatedAt           time.Time   `json:"createdAt"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}

type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) Get(ctx context.Context, id string) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	row := s.DB.QueryRowContext(ctx, `
		SELECT id, name, email, level, xp, total_tasks_completed,
			timezone, daily_goal_xp, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.Level, &u.XP, &u.TotalTasksCompleted,
		&u.Preferences.Timezone, &u.Preferences.DailyGoalXP, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *Store) UpdateProfile(ctx context.Context, id, name, timezone string, dailyGoalXP int) (*User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidID
	}

	res, err := s.DB.ExecContext(ctx, `
		UPDATE users
		SET name = $2, timezone = $3, daily_goal_xp = $4, updated_at = now()
		WHERE id = $1
	`, id, name, timezone, dailyGoalXP)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}

	return s.Get(ctx, id)
}
