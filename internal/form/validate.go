package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SujalNimbalkar/task-management/internal/model"
)

var ErrValidation = errors.New("form validation failed")

// ValidateSubmission checks submitted form data against a schema:
// required fields must be present and number fields must parse.
// Validation runs only at submit time, so pre-filled skeletons with
// empty required fields sit untouched until someone submits them.
func ValidateSubmission(fd *model.FormData, schema Schema) error {
	if fd == nil {
		return fmt.Errorf("%w: no form data", ErrValidation)
	}

	for _, f := range schema.Fields {
		v := strings.TrimSpace(fd.Get(f.Name))
		if f.Required && v == "" {
			return fmt.Errorf("%w: field %q is required", ErrValidation, f.Name)
		}
		if v != "" && f.Kind == KindNumber {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return fmt.Errorf("%w: field %q is not a number: %q", ErrValidation, f.Name, v)
			}
		}
	}

	for i, row := range fd.Rows {
		for _, f := range schema.TableFields {
			v := strings.TrimSpace(row.Field(f.Name))
			if f.Required && v == "" {
				return fmt.Errorf("%w: row %d field %q is required", ErrValidation, i+1, f.Name)
			}
			if v != "" && f.Kind == KindNumber {
				if _, err := strconv.ParseFloat(v, 64); err != nil {
					return fmt.Errorf("%w: row %d field %q is not a number: %q", ErrValidation, i+1, f.Name, v)
				}
			}
		}
	}
	return nil
}
