package tasks

import (
	"strings"
	"testing"
	"time"
)

func strp(s string) *string { return &s }
func intp(n int) *int       { return &n }

func TestApplyTaskBody_StampsCompletedAtOnce(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	task := Task{Title: "write report", Status: StatusInProgress}

	got, err := applyTaskBody(task, taskBody{Status: strp("completed")}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(now) {
		t.Fatalf("completed_at = %v, want stamp at %v", got.CompletedAt, now)
	}

	// re-saving keeps the original stamp
	later := now.Add(24 * time.Hour)
	got2, err := applyTaskBody(got, taskBody{Points: intp(20)}, later)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got2.CompletedAt.Equal(now) {
		t.Errorf("completed_at moved to %v on re-save", got2.CompletedAt)
	}
}

func TestApplyTaskBody_PartialUpdate(t *testing.T) {
	desc := "old description"
	task := Task{
		Title:       "original",
		Description: &desc,
		Priority:    PriorityHigh,
		Status:      StatusPending,
		Points:      10,
		Tags:        []string{"work"},
	}

	got, err := applyTaskBody(task, taskBody{Title: strp("  renamed  ")}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Title != "renamed" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Description == nil || *got.Description != desc {
		t.Error("untouched description changed")
	}
	if got.Priority != PriorityHigh || got.Status != StatusPending || got.Points != 10 {
		t.Errorf("untouched fields changed: %+v", got)
	}

	// empty description clears it
	got, err = applyTaskBody(task, taskBody{Description: strp("  ")}, time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Description != nil {
		t.Error("blank description should clear the field")
	}
}

func TestApplyTaskBody_Validation(t *testing.T) {
	task := Task{Title: "x", Status: StatusPending}

	cases := []struct {
		name string
		body taskBody
	}{
		{"blank title", taskBody{Title: strp("   ")}},
		{"long title", taskBody{Title: strp(strings.Repeat("a", 201))}},
		{"bad priority", taskBody{Priority: strp("critical")}},
		{"bad status", taskBody{Status: strp("done")}},
		{"negative points", taskBody{Points: intp(-1)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := applyTaskBody(task, tc.body, time.Now()); err == nil {
				t.Error("expected an error")
			}
		})
	}
}
