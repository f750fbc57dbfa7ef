// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"todo/internal/service"
)

// TimeLayout is used for creation dates.
const TimeLayout = "2006-01-02 15:04 MST"

// FormatTask formats a task line for the list.
// Format: "{ID:>4}  [x] {TITLE}\n" (4-wide right-aligned ID, two spaces, check box, title)
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", task.ID, checkBox(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskDetail prints every field of a task, one per line.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "id:          %d\n", task.ID)
	fmt.Fprintf(w, "title:       %s\n", normalizeTitle(task.Title))
	if desc := strings.TrimSpace(task.Description); desc != "" {
		fmt.Fprintf(w, "description: %s\n", oneLine(desc))
	}
	fmt.Fprintf(w, "completed:   %s\n", yesNo(task.Completed))
	fmt.Fprintf(w, "owner:       %d\n", task.OwnerID)
	fmt.Fprintf(w, "created:     %s\n", formatTime(task.CreatedAt))
}

// FormatChange formats one live-view event.
//
//	insert  #0  [ ] Buy milk (id 1)
//	update  #2  [x] Buy milk (id 1)
//	move    #2 -> #0  (id 1)
//	delete  #1  (id 3)
func FormatChange(w io.Writer, c service.Change) {
	switch c.Kind {
	case service.ChangeInsert:
		fmt.Fprintf(w, "insert  #%d  %s %s (id %d)\n", c.NewIndex, checkBox(c.Task.Completed), normalizeTitle(c.Task.Title), c.TaskID)
	case service.ChangeUpdate:
		fmt.Fprintf(w, "update  #%d  %s %s (id %d)\n", c.NewIndex, checkBox(c.Task.Completed), normalizeTitle(c.Task.Title), c.TaskID)
	case service.ChangeMove:
		fmt.Fprintf(w, "move    #%d -> #%d  (id %d)\n", c.OldIndex, c.NewIndex, c.TaskID)
	case service.ChangeDelete:
		fmt.Fprintf(w, "delete  #%d  (id %d)\n", c.OldIndex, c.TaskID)
	}
}

// FormatStatus prints the persisted service state.
func FormatStatus(w io.Writer, st service.Status) {
	fmt.Fprintf(w, "seeded:  %s\n", yesNo(st.Seeded))
	fmt.Fprintf(w, "next id: %d\n", st.NextID)
	fmt.Fprintf(w, "tasks:   %d\n", st.Count)
}

func checkBox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(TimeLayout)
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = oneLine(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
