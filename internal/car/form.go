package car

import (
	"fmt"
	"strings"
)

// RequiredMessage is the inline message shown under an empty required field.
const RequiredMessage = "This is required"

// Field identifies one input of the car form.
type Field string

const (
	FieldLicense Field = "license"
	FieldBrand   Field = "brand"
	FieldSeries  Field = "series"
	FieldRemark  Field = "remark"
)

// Fields lists the form inputs in display order.
var Fields = []Field{FieldLicense, FieldBrand, FieldSeries, FieldRemark}

// RequiredFields lists the inputs that must be non-empty, in display order.
var RequiredFields = []Field{FieldLicense, FieldBrand, FieldSeries}

// Label returns the human-readable label for the field.
func (f Field) Label() string {
	switch f {
	case FieldLicense:
		return "License"
	case FieldBrand:
		return "Brand"
	case FieldSeries:
		return "Series"
	case FieldRemark:
		return "Remark"
	default:
		return string(f)
	}
}

// Form holds the values of the create/edit dialog.
// ID is empty in create mode and carries the edited record's id in edit mode.
type Form struct {
	ID      string
	License string
	Brand   string
	Series  string
	Remark  string
}

// EmptyForm returns the all-empty defaults used when creating a record.
func EmptyForm() Form {
	return Form{}
}

// FormFromRecord copies r's current values into a form. An absent remark becomes "".
func FormFromRecord(r Record) Form {
	f := Form{
		ID:      r.ID,
		License: r.License,
		Brand:   r.Brand,
		Series:  r.Series,
	}
	if r.Remark != nil {
		f.Remark = *r.Remark
	}
	return f
}

// Get returns the value of one field.
func (f Form) Get(field Field) string {
	switch field {
	case FieldLicense:
		return f.License
	case FieldBrand:
		return f.Brand
	case FieldSeries:
		return f.Series
	case FieldRemark:
		return f.Remark
	default:
		return ""
	}
}

// With returns a copy of f with one field set.
func (f Form) With(field Field, value string) Form {
	switch field {
	case FieldLicense:
		f.License = value
	case FieldBrand:
		f.Brand = value
	case FieldSeries:
		f.Series = value
	case FieldRemark:
		f.Remark = value
	}
	return f
}

// Payload returns the record body sent to the backend.
// The remark is always sent, as an empty string when blank.
func (f Form) Payload() Record {
	return Record{
		ID:      f.ID,
		License: f.License,
		Brand:   f.Brand,
		Series:  f.Series,
		Remark:  StringPtr(f.Remark),
	}
}

// Validate checks the required fields. The result has one entry per invalid field.
func (f Form) Validate() FieldErrors {
	var errs FieldErrors
	for _, field := range RequiredFields {
		if strings.TrimSpace(f.Get(field)) == "" {
			errs = append(errs, FieldError{Field: field, Message: RequiredMessage})
		}
	}
	return errs
}

// FieldError is a validation message attached to one input.
type FieldError struct {
	Field   Field
	Message string
}

// FieldErrors is an ordered list of per-field validation messages.
type FieldErrors []FieldError

// Message returns the message for field, or "" when the field is valid.
func (e FieldErrors) Message(field Field) string {
	for _, fe := range e {
		if fe.Field == field {
			return fe.Message
		}
	}
	return ""
}

// Err returns nil when there are no field errors, otherwise a *ValidationError.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return &ValidationError{Fields: e}
}

// ValidationError reports that a form submission was blocked by invalid fields.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, fe := range e.Fields {
		names[i] = string(fe.Field)
	}
	return fmt.Sprintf("invalid car form: %s", strings.Join(names, ", "))
}
