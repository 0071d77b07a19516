package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/sandeepkv93/taskboard/internal/model"
)

// record is the stored shape of one task.
type record struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Priority  string  `json:"priority"`
	Completed bool    `json:"completed"`
	DueDate   *string `json:"dueDate"`
	CreatedAt int64   `json:"createdAt"`
}

// MarshalTasks renders tasks in the stored JSON layout.
func MarshalTasks(tasks []model.Task) ([]byte, error) {
	return encodeTasks(tasks)
}

func encodeTasks(tasks []model.Task) ([]byte, error) {
	records := make([]record, 0, len(tasks))
	for _, t := range tasks {
		rec := record{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Completed: t.Completed,
			CreatedAt: t.CreatedMillis(),
		}
		if t.DueDate != nil {
			label := t.DueLabel()
			rec.DueDate = &label
		}
		records = append(records, rec)
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode tasks: %w", err)
	}
	return payload, nil
}

// decodeTasks is lenient per element: wrong field types fall
// back to zero values, non-object elements are skipped, and tasks without a
// usable id get fresh ones after the largest valid id.
func decodeTasks(raw []byte, now func() time.Time) (LoadResult, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return LoadResult{}, fmt.Errorf("%w: top-level value is not an array", ErrMalformed)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return LoadResult{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	res := LoadResult{Tasks: make([]model.Task, 0, len(elems)), Outcome: OutcomeLoaded}
	needsID := make([]int, 0)
	seen := make(map[int]bool, len(elems))
	for _, elem := range elems {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
			res.Skipped++
			continue
		}

		task := model.Task{
			Title:     decodeString(fields["title"]),
			Priority:  model.Priority(decodeString(fields["priority"])),
			Completed: decodeBool(fields["completed"]),
		}
		if due, err := model.ParseDueDate(decodeString(fields["dueDate"])); err == nil {
			task.DueDate = due
		}

		id, numeric := decodeID(fields["id"])
		if created, ok := decodeMillis(fields["createdAt"]); ok {
			task.CreatedAt = time.UnixMilli(created)
		} else if numeric {
			task.CreatedAt = time.UnixMilli(int64(id))
		} else {
			task.CreatedAt = now().Truncate(time.Millisecond)
		}

		if numeric && !seen[id] {
			task.ID = id
			seen[id] = true
		} else {
			needsID = append(needsID, len(res.Tasks))
		}
		res.Tasks = append(res.Tasks, task)
	}

	next := model.NextID(res.Tasks)
	for _, idx := range needsID {
		res.Tasks[idx].ID = next
		next++
	}
	res.Reassigned = len(needsID)
	return res, nil
}

// maxSafeInteger is the largest integer a JSON number holds exactly.
const maxSafeInteger = 1<<53 - 1

// decodeID accepts positive integral JSON numbers only. Older data used
// millisecond timestamps as ids, so large values are valid.
func decodeID(raw json.RawMessage) (int, bool) {
	var f float64
	if isAbsent(raw) || json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	if f <= 0 || f != math.Trunc(f) || f > maxSafeInteger {
		return 0, false
	}
	return int(f), true
}

// decodeMillis accepts finite JSON numbers within the exact integer range.
func decodeMillis(raw json.RawMessage) (int64, bool) {
	var f float64
	if isAbsent(raw) || json.Unmarshal(raw, &f) != nil {
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxSafeInteger {
		return 0, false
	}
	return int64(f), true
}

func decodeString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func decodeBool(raw json.RawMessage) bool {
	var b bool
	if len(raw) == 0 || json.Unmarshal(raw, &b) != nil {
		return false
	}
	return b
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
