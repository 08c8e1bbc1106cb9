// Package render formats summaries for the terminal.
package render

import (
	"fmt"
	"io"

	"tm/domain/summary"
	"tm/domain/task"
)

// Elapsed formats seconds as hours, minutes and seconds, e.g. "1h2m3s".
// Hours are not capped at a day.
func Elapsed(seconds int64) string {
	h := seconds / 3600
	m := (seconds - h*3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%dh%dm%ds", h, m, s)
}

func sizeLabel(s task.Size) string {
	if s == task.Unset {
		return "none"
	}
	return s.String()
}

func TaskSummary(w io.Writer, s summary.TaskSummary) error {
	desc := "none"
	if s.HasDescription {
		desc = s.Description
	}
	_, err := fmt.Fprintf(w, "Time spent working on Task %s (Size %s): %s\nDescription: %s\n",
		s.Name, sizeLabel(s.Size), Elapsed(s.Elapsed), desc)
	return err
}

func SizeSummary(w io.Writer, s summary.SizeSummary) error {
	_, err := fmt.Fprintf(w,
		"Summary for tasks of size %s:\nMinimum time spent: %s\nMaximum time spent: %s\nAverage time spent: %s\n\n",
		s.Size, Elapsed(s.Min), Elapsed(s.Max), Elapsed(s.Average))
	return err
}

// SizeSummaries writes each class in order, or a note when none qualifies.
func SizeSummaries(w io.Writer, all []summary.SizeSummary) error {
	if len(all) == 0 {
		_, err := fmt.Fprintln(w, "No size class has more than one task.")
		return err
	}
	for _, s := range all {
		if err := SizeSummary(w, s); err != nil {
			return err
		}
	}
	return nil
}
