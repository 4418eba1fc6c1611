package engine

import (
	"github.com/SujalNimbalkar/task-management/internal/form"
	"github.com/SujalNimbalkar/task-management/internal/model"
)

// PropagateOptions tune how data flows into the downstream task.
type PropagateOptions struct {
	// ExcludeHeader names header fields that must NOT be copied; they
	// identify the downstream period and are freshly computed instead.
	ExcludeHeader []string
	// SetHeader writes freshly computed header values after copying.
	SetHeader map[string]string
	// KeepRow filters which source rows carry over; nil keeps all.
	KeepRow func(model.Row) bool
	// ComputeFields fills derived row fields after the role partition
	// has been applied; computed fields are locked read-only too.
	ComputeFields func(model.Row) map[string]string
}

// Propagate partitions a completed task's form data into the payload of
// the task it spawns, per the target schema's field roles: plan and
// identity fields are copied (plan fields locked read-only), actual
// fields start at their empty default. It is pure and repeatable —
// the same source and schema always yield structurally identical
// output, which lets the scheduler re-invoke it without duplicating
// rows.
//
// A nil source means the upstream task has no committed data yet; the
// second return is false and the target keeps its skeleton.
func Propagate(source *model.FormData, schema form.Schema, opts PropagateOptions) (*model.FormData, bool) {
	if source == nil {
		return nil, false
	}

	out := model.NewFormData()

	excluded := map[string]bool{}
	for _, name := range opts.ExcludeHeader {
		excluded[name] = true
	}
	for name, value := range source.Header {
		if excluded[name] {
			continue
		}
		f, ok := schema.HeaderField(name)
		if ok && f.Role == form.RoleActual {
			continue
		}
		out.Set(name, value)
	}
	for name, value := range opts.SetHeader {
		out.Set(name, value)
	}

	for _, srcRow := range source.Rows {
		if opts.KeepRow != nil && !opts.KeepRow(srcRow) {
			continue
		}
		row := model.Row{Fields: map[string]string{}}
		for _, f := range schema.TableFields {
			switch f.Role {
			case form.RolePlan:
				row.Fields[f.Name] = srcRow.Field(f.Name)
				row.ReadOnly = append(row.ReadOnly, f.Name)
			case form.RoleIdentity:
				row.Fields[f.Name] = srcRow.Field(f.Name)
			case form.RoleActual:
				row.Fields[f.Name] = ""
			}
		}
		if opts.ComputeFields != nil {
			for name, value := range opts.ComputeFields(srcRow) {
				row.Fields[name] = value
				if !row.IsReadOnly(name) {
					row.ReadOnly = append(row.ReadOnly, name)
				}
			}
		}
		out.Rows = append(out.Rows, row)
	}

	return out, true
}
