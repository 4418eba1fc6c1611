package process

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

type seedFile struct {
	Processes []model.Process `yaml:"processes"`
}

// LoadSeed parses a yaml file of template processes.
func LoadSeed(path string) ([]model.Process, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	var sf seedFile
	if err := yaml.Unmarshal(b, &sf); err != nil {
		return nil, fmt.Errorf("parse seed %s: %w", path, err)
	}
	for i := range sf.Processes {
		if err := validateSeedProcess(&sf.Processes[i]); err != nil {
			return nil, fmt.Errorf("seed %s: %w", path, err)
		}
	}
	return sf.Processes, nil
}

// Seed inserts processes that are not in the store yet. Existing
// processes are left alone so a restart never clobbers live state.
func Seed(ctx context.Context, store Store, processes []model.Process) (int, error) {
	added := 0
	for _, p := range processes {
		_, err := store.Get(ctx, p.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrNotFound) {
			return added, err
		}
		if err := store.Save(ctx, p); err != nil {
			return added, fmt.Errorf("seed process %s: %w", p.ID, err)
		}
		added++
	}
	return added, nil
}

func validateSeedProcess(p *model.Process) error {
	if p.ID == "" {
		return errors.New("process id is required")
	}
	seen := map[int]bool{}
	for i := range p.Tasks {
		t := &p.Tasks[i]
		if seen[t.ID] {
			return fmt.Errorf("process %s: duplicate task id %d", p.ID, t.ID)
		}
		seen[t.ID] = true
		if t.Status == "" {
			t.Status = model.StatusPending
		}
		if t.Trigger.Type == "" {
			t.Trigger = model.NewManualTrigger()
		}
	}
	return nil
}
