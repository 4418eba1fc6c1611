package form

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

// Submission is one submitted copy of a task's form data. Submissions
// are append-only; the newest one per task is authoritative.
type Submission struct {
	ID          string          `json:"id"`
	ProcessID   string          `json:"processId"`
	TaskID      int             `json:"taskId"`
	FormID      string          `json:"formId"`
	FormData    *model.FormData `json:"formData"`
	SubmittedBy string          `json:"submittedBy,omitempty"`
	SubmittedAt time.Time       `json:"submittedAt"`
}

// SubmissionStore records submissions and answers "latest for task X",
// the one cross-cutting read the trigger engine needs.
type SubmissionStore interface {
	Add(ctx context.Context, s Submission) (Submission, error)
	LatestForTask(ctx context.Context, taskID int) (*model.FormData, error)
}

// MemorySubmissionStore keeps submissions in memory.
type MemorySubmissionStore struct {
	mu   sync.RWMutex
	subs []Submission
}

func NewMemorySubmissionStore() *MemorySubmissionStore {
	return &MemorySubmissionStore{}
}

func (s *MemorySubmissionStore) Add(ctx context.Context, sub Submission) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	sub.FormData = sub.FormData.Clone()
	s.subs = append(s.subs, sub)
	return sub, nil
}

func (s *MemorySubmissionStore) LatestForTask(ctx context.Context, taskID int) (*model.FormData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return latestFor(s.subs, taskID), nil
}

func latestFor(subs []Submission, taskID int) *model.FormData {
	var best *Submission
	for i := range subs {
		sub := &subs[i]
		if sub.TaskID != taskID {
			continue
		}
		if best == nil || sub.SubmittedAt.After(best.SubmittedAt) {
			best = sub
		}
	}
	if best == nil {
		return nil
	}
	return best.FormData.Clone()
}

// FileSubmissionStore persists submissions as a JSON document.
type FileSubmissionStore struct {
	mu   sync.RWMutex
	path string
	subs []Submission
}

func NewFileSubmissionStore(dataDir string) (*FileSubmissionStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, err
	}
	s := &FileSubmissionStore{path: filepath.Join(dataDir, "submissions.json")}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileSubmissionStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.subs = nil
			return nil
		}
		return err
	}
	return json.Unmarshal(b, &s.subs)
}

func (s *FileSubmissionStore) saveLocked() error {
	b, err := json.MarshalIndent(s.subs, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, b, 0o644)
}

func (s *FileSubmissionStore) Add(ctx context.Context, sub Submission) (Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now()
	}
	sub.FormData = sub.FormData.Clone()
	s.subs = append(s.subs, sub)
	if err := s.saveLocked(); err != nil {
		return Submission{}, err
	}
	return sub, nil
}

func (s *FileSubmissionStore) LatestForTask(ctx context.Context, taskID int) (*model.FormData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return latestFor(s.subs, taskID), nil
}
