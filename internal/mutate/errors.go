package mutate

import "fmt"

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// InvalidRangeError reports a change that would leave a task ending before it starts.
type InvalidRangeError struct {
	StartDate string
	EndDate   string
	Duration  int
}

func (e InvalidRangeError) Error() string {
	if e.EndDate == "" {
		return fmt.Sprintf("invalid range: duration %d is negative", e.Duration)
	}
	return fmt.Sprintf("invalid range: end %s is before start %s", e.EndDate, e.StartDate)
}

type IndexOutOfRangeError struct {
	From int
	To   int
	Len  int
}

func (e IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("reorder index out of range: from=%d to=%d len=%d", e.From, e.To, e.Len)
}
