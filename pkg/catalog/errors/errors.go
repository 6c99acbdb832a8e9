package errors

import (
	goerrors "errors"
	"fmt"
	"slices"
	"strings"
)

var ErrValidation = fmt.Errorf("validation error")
var ErrResolution = fmt.Errorf("resolution error")
var ErrMissingType = fmt.Errorf("missing type")
var ErrUnsupportedType = fmt.Errorf("unsupported type")
var ErrMalformedQualifiedName = fmt.Errorf("malformed qualified name")
var ErrNotFound = fmt.Errorf("not found")

type myError struct {
	msg     string
	targets []error
	fields  []string
}

func (m myError) Error() string        { return m.msg }
func (m myError) Is(target error) bool { return slices.Contains(m.targets, target) }

// NewValidationError reports one or more required or inconsistent fields.
func NewValidationError(msg string, fields ...string) error {
	if len(fields) > 0 {
		msg = fmt.Sprintf("%s (fields: %s)", msg, strings.Join(fields, ", "))
	}

	return &myError{
		msg:     msg,
		targets: []error{ErrValidation},
		fields:  fields,
	}
}

// NewRequiredFieldsError is a validation error for fields that must be set but are empty.
func NewRequiredFieldsError(typeName string, fields ...string) error {
	return NewValidationError(fmt.Sprintf("%s: missing required value", typeName), fields...)
}

// NewTypeMismatchError is returned when a discriminator does not match the type being constructed.
func NewTypeMismatchError(declared, received string) error {
	return &myError{
		msg:     fmt.Sprintf("type name %q does not match declared type %q", received, declared),
		targets: []error{ErrValidation},
		fields:  []string{"typeName"},
	}
}

func NewMissingTypeError(msg string) error {
	return &myError{
		msg:     msg,
		targets: []error{ErrResolution, ErrMissingType},
	}
}

func NewUnsupportedTypeError(typeName string) error {
	return &myError{
		msg:     fmt.Sprintf("unsupported type %q", typeName),
		targets: []error{ErrResolution, ErrUnsupportedType},
	}
}

func NewMalformedQualifiedNameError(typeName, qualifiedName string, want, got int) error {
	return &myError{
		msg: fmt.Sprintf(
			"qualified name %q for %s has %d segments, expected %d",
			qualifiedName, typeName, got, want,
		),
		targets: []error{ErrMalformedQualifiedName},
		fields:  []string{"qualifiedName"},
	}
}

func NewNotFoundError(msg string) error {
	return &myError{
		msg:     msg,
		targets: []error{ErrNotFound},
	}
}

// Fields returns the names of the offending fields carried by err, if any.
func Fields(err error) []string {
	var m *myError
	if goerrors.As(err, &m) {
		return slices.Clone(m.fields)
	}
	return nil
}
