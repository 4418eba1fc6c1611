package model

import "slices"

// FormData is the structured payload a form submission carries: scalar
// header fields plus ordered table rows. Tasks that have not been
// filled in yet hold nil FormData.
type FormData struct {
	Header map[string]string `json:"header,omitempty" yaml:"header,omitempty"`
	Rows   []Row             `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// Row is one line of tabular form data. ReadOnly lists field names that
// were copied from an upstream plan and must not be edited downstream.
type Row struct {
	Fields   map[string]string `json:"fields" yaml:"fields"`
	ReadOnly []string          `json:"readOnly,omitempty" yaml:"read_only,omitempty"`
}

// NewFormData returns an empty skeleton with allocated maps.
func NewFormData() *FormData {
	return &FormData{Header: map[string]string{}}
}

// Get returns a header field, or "" when absent.
func (f *FormData) Get(name string) string {
	if f == nil || f.Header == nil {
		return ""
	}
	return f.Header[name]
}

// Set writes a header field, allocating the map when needed.
func (f *FormData) Set(name, value string) {
	if f.Header == nil {
		f.Header = map[string]string{}
	}
	f.Header[name] = value
}

// Clone makes a deep copy so downstream tasks never alias upstream data.
func (f *FormData) Clone() *FormData {
	if f == nil {
		return nil
	}
	out := &FormData{}
	if f.Header != nil {
		out.Header = make(map[string]string, len(f.Header))
		for k, v := range f.Header {
			out.Header[k] = v
		}
	}
	if f.Rows != nil {
		out.Rows = make([]Row, len(f.Rows))
		for i, r := range f.Rows {
			out.Rows[i] = r.Clone()
		}
	}
	return out
}

// Clone deep-copies a row.
func (r Row) Clone() Row {
	out := Row{Fields: make(map[string]string, len(r.Fields))}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	if len(r.ReadOnly) > 0 {
		out.ReadOnly = slices.Clone(r.ReadOnly)
	}
	return out
}

// Field returns a row field, or "" when absent.
func (r Row) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	return r.Fields[name]
}

// IsReadOnly reports whether a field was locked by propagation.
func (r Row) IsReadOnly(name string) bool {
	return slices.Contains(r.ReadOnly, name)
}
