package pipeline

import (
	"math"

	"github.com/sandeepkv93/taskboard/internal/model"
)

type Summary struct {
	Total       int
	Pending     int
	Completed   int
	DonePercent int
	// PriorityCounts has one entry per model.Priorities value plus FilterAll.
	PriorityCounts map[string]int
}

// Summarize counts over the full collection, never a filtered view.
func Summarize(tasks []model.Task) Summary {
	s := Summary{
		Total:          len(tasks),
		PriorityCounts: make(map[string]int, len(model.Priorities)+1),
	}
	for _, p := range model.Priorities {
		s.PriorityCounts[string(p)] = 0
	}
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Pending++
		}
		if t.Priority.IsValid() {
			s.PriorityCounts[string(t.Priority)]++
		}
	}
	s.PriorityCounts[FilterAll] = s.Total
	if s.Total > 0 {
		s.DonePercent = int(math.Round(float64(s.Total-s.Pending) / float64(s.Total) * 100))
	}
	return s
}

// FilterOptions returns FilterAll followed by every priority.
func FilterOptions() []string {
	out := make([]string, 0, len(model.Priorities)+1)
	out = append(out, FilterAll)
	for _, p := range model.Priorities {
		out = append(out, string(p))
	}
	return out
}
