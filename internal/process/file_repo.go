package process

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

type fileState struct {
	Processes map[string]model.Process `json:"processes"`
}

// FileStore is a persistent Store backed by a single JSON document.
// One mutex covers the whole file, which also satisfies the
// per-process write-ordering requirement.
type FileStore struct {
	mu   sync.RWMutex
	path string
	s    fileState
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	st := &FileStore{
		path: filepath.Join(dataDir, "processes.json"),
		s:    fileState{Processes: map[string]model.Process{}},
	}
	if err := st.load(); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *FileStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.s = fileState{Processes: map[string]model.Process{}}
			return nil
		}
		return err
	}

	var loaded fileState
	if err := json.Unmarshal(b, &loaded); err != nil {
		return err
	}
	if loaded.Processes == nil {
		loaded.Processes = map[string]model.Process{}
	}
	s.s = loaded
	return nil
}

func (s *FileStore) saveLocked() error {
	b, err := json.MarshalIndent(s.s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *FileStore) LoadProcesses(ctx context.Context) ([]model.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Process, 0, len(s.s.Processes))
	for _, p := range s.s.Processes {
		out = append(out, cloneProcess(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *FileStore) Get(ctx context.Context, id string) (model.Process, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.s.Processes[id]
	if !ok {
		return model.Process{}, ErrNotFound
	}
	return cloneProcess(p), nil
}

func (s *FileStore) Save(ctx context.Context, p model.Process) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.s.Processes[p.ID] = cloneProcess(p)
	return s.saveLocked()
}
