package store

import (
	"ganttboard/internal/model"
	"ganttboard/internal/mutate"
)

// MoveTask removes the task at from and reinserts it at to, returning a new slice.
//
// Indices are positions in the current order. Out-of-range indices are rejected with
// mutate.IndexOutOfRangeError instead of being clamped, so a stale drag never lands a
// task somewhere the user did not drop it.
func MoveTask(tasks []model.Task, from, to int) ([]model.Task, error) {
	n := len(tasks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return tasks, mutate.IndexOutOfRangeError{From: from, To: to, Len: n}
	}
	if from == to {
		return tasks, nil
	}

	moved := tasks[from]

	// Build list without moved item.
	rest := make([]model.Task, 0, n-1)
	rest = append(rest, tasks[:from]...)
	rest = append(rest, tasks[from+1:]...)

	// Build final order.
	final := make([]model.Task, 0, n)
	final = append(final, rest[:to]...)
	final = append(final, moved)
	final = append(final, rest[to:]...)
	return final, nil
}

// TaskIDs returns ids in display order.
func TaskIDs(tasks []model.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.ID)
	}
	return out
}
