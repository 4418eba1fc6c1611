package engine

import (
	"errors"
	"fmt"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found in process")
	ErrInvariant    = errors.New("invariant violation")
)

// ValidateGraph rejects dependency cycles and duplicate task IDs.
// Either means the document is corrupt; the caller must not run
// generation against it.
func ValidateGraph(p *model.Process) error {
	seen := map[int]bool{}
	for i := range p.Tasks {
		id := p.Tasks[i].ID
		if seen[id] {
			return fmt.Errorf("%w: duplicate task id %d in process %s", ErrInvariant, id, p.ID)
		}
		seen[id] = true
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)
	color := map[int]int{}
	var visit func(id int) bool
	visit = func(id int) bool {
		switch color[id] {
		case grey:
			return false
		case black:
			return true
		}
		color[id] = grey
		if t := p.FindTask(id); t != nil {
			for _, dep := range t.Dependencies {
				if !visit(dep) {
					return false
				}
			}
		}
		color[id] = black
		return true
	}
	for i := range p.Tasks {
		if !visit(p.Tasks[i].ID) {
			return fmt.Errorf("%w: dependency cycle through task %d in process %s", ErrInvariant, p.Tasks[i].ID, p.ID)
		}
	}
	return nil
}
