package model

// Process is one workflow instance. It exclusively owns its tasks;
// tasks never outlive or move between processes.
type Process struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
	Tasks    []Task `json:"tasks" yaml:"tasks"`

	// NextTaskID seeds the monotonic task ID allocator. Zero means
	// "derive from the current maximum", which keeps hand-written seed
	// documents honest.
	NextTaskID int `json:"nextTaskId,omitempty" yaml:"next_task_id,omitempty"`
}

// FindTask returns a pointer into the task list, or nil.
func (p *Process) FindTask(id int) *Task {
	for i := range p.Tasks {
		if p.Tasks[i].ID == id {
			return &p.Tasks[i]
		}
	}
	return nil
}

// AllocateTaskID hands out the next unique task ID for this process.
// The counter is re-seeded above the current maximum so it survives
// documents written before the counter existed.
func (p *Process) AllocateTaskID() int {
	next := p.NextTaskID
	for i := range p.Tasks {
		if p.Tasks[i].ID >= next {
			next = p.Tasks[i].ID + 1
		}
	}
	p.NextTaskID = next + 1
	return next
}

// AddTask appends a task to the process.
func (p *Process) AddTask(t Task) *Task {
	p.Tasks = append(p.Tasks, t)
	return &p.Tasks[len(p.Tasks)-1]
}

// FindInstance locates the non-template task of the given kind spawned
// from parentID for the given period. parentID 0 matches any parent.
// This is the idempotence key for generation: one instance per
// (parent, period) pair, ever.
func (p *Process) FindInstance(kind Kind, parentID int, period PeriodKey) *Task {
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if t.IsTemplate || t.Kind != kind {
			continue
		}
		if parentID != 0 && !t.DependsOn(parentID) && t.TemplateID != parentID {
			continue
		}
		if t.Period == period {
			return t
		}
	}
	return nil
}

// Templates returns pointers to all template tasks.
func (p *Process) Templates() []*Task {
	var out []*Task
	for i := range p.Tasks {
		if p.Tasks[i].IsTemplate {
			out = append(out, &p.Tasks[i])
		}
	}
	return out
}
