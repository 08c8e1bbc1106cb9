// Package summary computes read-only elapsed-time aggregates over a
// replayed projection.
package summary

import (
	"math"
	"strconv"

	"tm/domain/projection"
	"tm/domain/task"
	"tm/domain/taskerr"
)

// TaskSummary describes one task. Elapsed is in seconds, live for active
// tasks.
type TaskSummary struct {
	Name           string
	Size           task.Size
	Description    string
	HasDescription bool
	Active         bool
	Elapsed        int64
}

// SizeSummary aggregates elapsed seconds across one size class.
type SizeSummary struct {
	Size    task.Size
	Count   int
	Min     int64
	Max     int64
	Average int64
}

// CountBySize returns how many tasks currently have the given size.
func CountBySize(p *projection.Projection, size task.Size) int {
	n := 0
	for _, t := range p.Tasks() {
		if t.Size == size {
			n++
		}
	}
	return n
}

func PerTask(p *projection.Projection, name string, now int64) (TaskSummary, error) {
	t, ok := p.Lookup(name)
	if !ok {
		return TaskSummary{}, taskerr.New(taskerr.CodeTaskNotFound, "task "+name+" does not exist", "task", name)
	}
	return TaskSummary{
		Name:           t.Name,
		Size:           t.Size,
		Description:    t.Description,
		HasDescription: t.HasDescription,
		Active:         t.Active,
		Elapsed:        t.Elapsed(now),
	}, nil
}

// PerSize reports min, max and average elapsed time for a size class.
// Classes with fewer than two tasks are refused.
func PerSize(p *projection.Projection, size task.Size, now int64) (SizeSummary, error) {
	var elapsed []int64
	for _, t := range p.Tasks() {
		if t.Size == size {
			elapsed = append(elapsed, t.Elapsed(now))
		}
	}
	if len(elapsed) <= 1 {
		return SizeSummary{}, taskerr.New(taskerr.CodeInsufficientTasks,
			"too few tasks of size "+size.String(),
			"size", size.String(), "count", strconv.Itoa(len(elapsed)))
	}

	s := SizeSummary{Size: size, Count: len(elapsed), Min: elapsed[0], Max: elapsed[0]}
	var sum int64
	for _, e := range elapsed {
		s.Min = min(s.Min, e)
		s.Max = max(s.Max, e)
		sum += e
	}
	s.Average = int64(math.Floor(float64(sum)/float64(len(elapsed)) + 0.5))
	return s, nil
}

// Full reports every size class holding at least two tasks, in canonical
// order.
func Full(p *projection.Projection, now int64) []SizeSummary {
	var out []SizeSummary
	for _, size := range task.Sizes {
		s, err := PerSize(p, size, now)
		if err != nil {
			continue
		}
		out = append(out, s)
	}
	return out
}
