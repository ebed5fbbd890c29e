package organizer

import (
	"fmt"
	"strings"

	"lvlai-backend/internal/tasks"
)

// Completed tasks rendered before the "... and N more" trailer.
const completedTasksShown = 10

// FormatContextForPrompt serializes a retrieved context into the plain
// text block embedded in the organizer system prompt. Pure and
// deterministic: the same context always renders to the same bytes.
//
// Sections are fixed: profile, statistics, then the task listing grouped
// by status (pending, in progress, completed). Cancelled tasks are
// counted upstream but not listed. Within a group tasks keep the
// newest-created-first order of the retriever.
func FormatContextForPrompt(rc *RetrievedContext) string {
	var b strings.Builder

	b.WriteString("# USER PROFILE\n")
	fmt.Fprintf(&b, "Name: %s\n", rc.User.Name)
	fmt.Fprintf(&b, "Level: %d | XP: %d\n", rc.User.Level, rc.User.XP)
	fmt.Fprintf(&b, "Completed Tasks: %d\n", rc.User.TotalTasksCompleted)
	fmt.Fprintf(&b, "Daily Goal: %d XP\n", rc.User.Preferences.DailyGoalXP)
	fmt.Fprintf(&b, "Timezone: %s\n\n", rc.User.Preferences.Timezone)

	b.WriteString("# TASK STATISTICS\n")
	fmt.Fprintf(&b, "Total Tasks: %d\n", rc.Stats.TotalTasks)
	fmt.Fprintf(&b, "Pending: %d | In Progress: %d\n", rc.Stats.PendingTasks, rc.Stats.InProgressTasks)
	fmt.Fprintf(&b, "Completed: %d | Overdue: %d\n\n", rc.Stats.CompletedTasks, rc.Stats.OverdueTasks)

	b.WriteString("# TASK LIST\n")

	if len(rc.Tasks) == 0 {
		b.WriteString("No tasks found.\n")
		return b.String()
	}

	pending := filterByStatus(rc.Tasks, tasks.StatusPending)
	inProgress := filterByStatus(rc.Tasks, tasks.StatusInProgress)
	completed := filterByStatus(rc.Tasks, tasks.StatusCompleted)

	if len(pending) > 0 {
		fmt.Fprintf(&b, "## PENDING TASKS (%d)\n", len(pending))
		for i, t := range pending {
			writeTask(&b, t, i+1)
		}
		b.WriteString("\n")
	}

	if len(inProgress) > 0 {
		fmt.Fprintf(&b, "## IN PROGRESS TASKS (%d)\n", len(inProgress))
		for i, t := range inProgress {
			writeTask(&b, t, i+1)
		}
		b.WriteString("\n")
	}

	if len(completed) > 0 {
		fmt.Fprintf(&b, "## COMPLETED TASKS (%d)\n", len(completed))
		shown := completed
		if len(shown) > completedTasksShown {
			shown = shown[:completedTasksShown]
		}
		for i, t := range shown {
			writeTask(&b, t, i+1)
		}
		if rest := len(completed) - completedTasksShown; rest > 0 {
			fmt.Fprintf(&b, "... and %d more completed tasks\n", rest)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func filterByStatus(list []TaskContext, status tasks.Status) []TaskContext {
	var out []TaskContext
	for _, t := range list {
		if t.Status == status {
			out = append(out, t)
		}
	}
	return out
}

// writeTask renders one task line plus its indented detail lines. The
// index is 1-based within the task's group.
func writeTask(b *strings.Builder, t TaskContext, index int) {
	fmt.Fprintf(b, "%d. [%s] %s\n", index, strings.ToUpper(string(t.Priority)), t.Title)

	if t.Description != nil {
		fmt.Fprintf(b, "   Description: %s\n", *t.Description)
	}

	if t.DueDate != nil {
		fmt.Fprintf(b, "   Due: %s", t.DueDate.UTC().Format("2006-01-02"))
		if t.IsOverdue {
			b.WriteString(" ⚠️ OVERDUE")
		}
		b.WriteString("\n")
	}

	if len(t.Tags) > 0 {
		fmt.Fprintf(b, "   Tags: %s\n", strings.Join(t.Tags, ", "))
	}

	fmt.Fprintf(b, "   Points: %d XP\n", t.Points)
}
