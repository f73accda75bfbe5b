package store

import (
	"errors"
	"reflect"
	"testing"

	"ganttboard/internal/model"
	"ganttboard/internal/mutate"
)

func tasksWithIDs(ids ...string) []model.Task {
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Task{ID: id})
	}
	return out
}

func TestMoveTask(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		from, to int
		want     []string
	}{
		{name: "first to last", from: 0, to: 3, want: []string{"b", "c", "d", "a"}},
		{name: "last to first", from: 3, to: 0, want: []string{"d", "a", "b", "c"}},
		{name: "middle down", from: 1, to: 2, want: []string{"a", "c", "b", "d"}},
		{name: "same index", from: 2, to: 2, want: []string{"a", "b", "c", "d"}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := MoveTask(tasksWithIDs("a", "b", "c", "d"), tc.from, tc.to)
			if err != nil {
				t.Fatalf("MoveTask: %v", err)
			}
			if ids := TaskIDs(got); !reflect.DeepEqual(ids, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, ids)
			}
		})
	}
}

func TestMoveTask_InverseRestoresOrder(t *testing.T) {
	orig := tasksWithIDs("a", "b", "c", "d", "e")
	for from := range orig {
		for to := range orig {
			moved, err := MoveTask(orig, from, to)
			if err != nil {
				t.Fatalf("move %d->%d: %v", from, to, err)
			}
			back, err := MoveTask(moved, to, from)
			if err != nil {
				t.Fatalf("move back %d->%d: %v", to, from, err)
			}
			if !reflect.DeepEqual(TaskIDs(back), TaskIDs(orig)) {
				t.Fatalf("%d->%d->%d: got %v", from, to, from, TaskIDs(back))
			}
		}
	}
}

func TestMoveTask_RejectsOutOfRange(t *testing.T) {
	orig := tasksWithIDs("a", "b")
	for _, idx := range [][2]int{{-1, 0}, {0, 2}, {2, 0}, {0, -3}} {
		_, err := MoveTask(orig, idx[0], idx[1])
		var oor mutate.IndexOutOfRangeError
		if !errors.As(err, &oor) || oor.Len != 2 {
			t.Fatalf("%v: expected IndexOutOfRangeError, got %v", idx, err)
		}
	}
}
