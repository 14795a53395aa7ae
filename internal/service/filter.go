package service

import (
	"math"
	"sort"
	"strings"

	"github.com/Juhasen/ToDo/internal/model"
)

// Filter holds the presentation-side selection criteria for the task list.
type Filter struct {
	Search             string
	CategoryVisibility map[model.Category]bool // absent key means visible
	HideDone           bool
}

// VisibleTasks returns the tasks matching the filter, in canonical order:
// TODO tasks before everything else, ascending due time within a group
// (no deadline sorts last), ties broken by newest createdAt. The sort is
// stable, so equal keys keep their incoming order.
//
// Earlier revisions of the list ordering disagreed with each other (plain
// due-date ascending, insertion order); this rule is the canonical one.
func VisibleTasks(tasks []model.TaskWithAttachments, f Filter) []model.TaskWithAttachments {
	out := make([]model.TaskWithAttachments, 0, len(tasks))
	for _, t := range tasks {
		if matches(t.Task, f) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Task, out[j].Task
		if (a.Status == model.StatusTodo) != (b.Status == model.StatusTodo) {
			return a.Status == model.StatusTodo
		}
		if da, db := dueKey(a), dueKey(b); da != db {
			return da < db
		}
		return a.CreatedAt > b.CreatedAt
	})
	return out
}

func matches(t model.Task, f Filter) bool {
	if f.HideDone && t.Status == model.StatusDone {
		return false
	}
	if visible, ok := f.CategoryVisibility[t.Category]; ok && !visible {
		return false
	}
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(t.Title), needle) ||
		strings.Contains(strings.ToLower(t.Description), needle)
}

// dueKey orders tasks without a deadline after every dated one.
func dueKey(t model.Task) int64 {
	if t.DueAt == nil {
		return math.MaxInt64
	}
	return *t.DueAt
}
