package process

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

var ErrNotFound = errors.New("process not found")

// Store persists whole Process documents. Implementations must make
// Save a serialized read-modify-write unit: callers load a process,
// mutate it in memory, and write it back atomically.
type Store interface {
	LoadProcesses(ctx context.Context) ([]model.Process, error)
	Get(ctx context.Context, id string) (model.Process, error)
	Save(ctx context.Context, p model.Process) error
}

// MemoryStore is the in-memory Store used by tests and single-shot
// tools.
type MemoryStore struct {
	mu        sync.RWMutex
	processes map[string]model.Process
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{processes: map[string]model.Process{}}
}

func (s *MemoryStore) LoadProcesses(ctx context.Context) ([]model.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Process, 0, len(s.processes))
	for _, p := range s.processes {
		out = append(out, cloneProcess(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (model.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.processes[id]
	if !ok {
		return model.Process{}, ErrNotFound
	}
	return cloneProcess(p), nil
}

func (s *MemoryStore) Save(ctx context.Context, p model.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.processes[p.ID] = cloneProcess(p)
	return nil
}

// cloneProcess deep-copies the task list so callers never share task
// slices with the store.
func cloneProcess(p model.Process) model.Process {
	out := p
	out.Tasks = make([]model.Task, len(p.Tasks))
	for i, t := range p.Tasks {
		t.FormData = t.FormData.Clone()
		if t.Dependencies != nil {
			deps := make([]int, len(t.Dependencies))
			copy(deps, t.Dependencies)
			t.Dependencies = deps
		}
		out.Tasks[i] = t
	}
	return out
}
