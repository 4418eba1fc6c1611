package form

import (
	"context"
	"errors"
	"sync"
)

var ErrSchemaNotFound = errors.New("form schema not found")

// Role declares how a field behaves across the plan/report cascade.
// Plan fields are copied read-only into downstream tasks, actual fields
// are filled in downstream, identity fields describe the row itself and
// travel with it.
type Role string

const (
	RolePlan     Role = "plan"
	RoleActual   Role = "actual"
	RoleIdentity Role = "identity"
)

// FieldKind is the input type of a field.
type FieldKind string

const (
	KindText   FieldKind = "text"
	KindNumber FieldKind = "number"
	KindDate   FieldKind = "date"
	KindSelect FieldKind = "select"
)

type Field struct {
	Name     string    `json:"name" yaml:"name"`
	Label    string    `json:"label" yaml:"label"`
	Kind     FieldKind `json:"kind" yaml:"kind"`
	Required bool      `json:"required,omitempty" yaml:"required,omitempty"`
	Role     Role      `json:"role" yaml:"role"`
}

// Schema describes one form: scalar header fields plus, for table
// forms, the per-row fields.
type Schema struct {
	FormID      string  `json:"formId" yaml:"form_id"`
	Name        string  `json:"name" yaml:"name"`
	Fields      []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	TableFields []Field `json:"tableFields,omitempty" yaml:"table_fields,omitempty"`
}

// TableField looks up a row field by name.
func (s Schema) TableField(name string) (Field, bool) {
	for _, f := range s.TableFields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// HeaderField looks up a header field by name.
func (s Schema) HeaderField(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// SchemaStore resolves form IDs to schemas.
type SchemaStore interface {
	Get(ctx context.Context, formID string) (Schema, error)
}

// MemorySchemaStore is a SchemaStore over a fixed schema set.
type MemorySchemaStore struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

func NewMemorySchemaStore(schemas ...Schema) *MemorySchemaStore {
	s := &MemorySchemaStore{schemas: map[string]Schema{}}
	for _, sc := range schemas {
		s.schemas[sc.FormID] = sc
	}
	return s
}

func (s *MemorySchemaStore) Get(ctx context.Context, formID string) (Schema, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sc, ok := s.schemas[formID]
	if !ok {
		return Schema{}, ErrSchemaNotFound
	}
	return sc, nil
}

func (s *MemorySchemaStore) Add(sc Schema) {
	s.mu.Lock()
	s.schemas[sc.FormID] = sc
	s.mu.Unlock()
}
