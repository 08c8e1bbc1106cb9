/*
Package projection folds the ordered task log into in-memory task state.

The projection is never persisted. Every process rebuilds it by replaying
the whole log from the first line; the same log always yields the same
projection.
*/
package projection

import (
	"sort"

	"tm/domain/command"
	"tm/domain/task"
	"tm/domain/taskerr"
)

// Projection maps task names to their replayed state.
type Projection struct {
	tasks map[string]*task.Task
}

func New() *Projection {
	return &Projection{tasks: make(map[string]*task.Task)}
}

// Apply folds one record into the projection. Records that do not fit the
// current state leave the projection untouched and return a
// ReplayInconsistency error.
func (p *Projection) Apply(c command.Command) error {
	switch c := c.(type) {
	case command.Start:
		t, ok := p.tasks[c.Name]
		if !ok {
			p.tasks[c.Name] = &task.Task{Name: c.Name, Active: true, StartTime: c.At}
			return nil
		}
		// A second start while active is inert: the first start wins.
		if !t.Active {
			t.Active = true
			t.StartTime = c.At
		}
		return nil

	case command.Stop:
		t, ok := p.tasks[c.Name]
		if !ok {
			return inconsistent(c, taskerr.CodeTaskNotFound, "stop of unknown task")
		}
		if !t.Active {
			return inconsistent(c, taskerr.CodeTaskNotActive, "stop of inactive task")
		}
		t.Accumulated += c.At - t.StartTime
		t.Active = false
		return nil

	case command.Rename:
		t, ok := p.tasks[c.From]
		if !ok {
			return inconsistent(c, taskerr.CodeTaskNotFound, "rename of unknown task")
		}
		// Renaming onto an existing name replaces that task.
		delete(p.tasks, c.From)
		t.Name = c.To
		p.tasks[c.To] = t
		return nil

	case command.Describe:
		t, ok := p.tasks[c.Name]
		if !ok {
			return inconsistent(c, taskerr.CodeTaskNotFound, "describe of unknown task")
		}
		desc, size, sized := c.Split()
		if sized {
			t.Size = size
		}
		t.Description = desc
		t.HasDescription = true
		return nil

	case command.Resize:
		t, ok := p.tasks[c.Name]
		if !ok {
			return inconsistent(c, taskerr.CodeTaskNotFound, "size of unknown task")
		}
		t.Size = c.Size
		return nil

	case command.Delete:
		if _, ok := p.tasks[c.Name]; !ok {
			return inconsistent(c, taskerr.CodeTaskNotFound, "delete of unknown task")
		}
		delete(p.tasks, c.Name)
		return nil
	}
	return taskerr.New(taskerr.CodeCommandNotRecognized, "unsupported record")
}

func inconsistent(c command.Command, code taskerr.Code, msg string) error {
	cause := taskerr.New(code, msg, "task", c.Task())
	return taskerr.Wrap(taskerr.CodeReplayInconsistency, cause, string(c.Kind())+" "+c.Task(),
		"command", string(c.Kind()), "task", c.Task())
}

// Lookup returns a copy of the named task.
func (p *Projection) Lookup(name string) (task.Task, bool) {
	t, ok := p.tasks[name]
	if !ok {
		return task.Task{}, false
	}
	return *t, true
}

func (p *Projection) Has(name string) bool {
	_, ok := p.tasks[name]
	return ok
}

func (p *Projection) IsActive(name string) bool {
	t, ok := p.tasks[name]
	return ok && t.Active
}

func (p *Projection) Len() int {
	return len(p.tasks)
}

// Tasks returns copies of every task, ordered by name.
func (p *Projection) Tasks() []task.Task {
	out := make([]task.Task, 0, len(p.tasks))
	for _, t := range p.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
