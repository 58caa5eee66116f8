package declgen

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/broady/declgen/ir"
)

// ErrorCode represents a machine-readable error code.
type ErrorCode string

const (
	CodeInvalidArgument   ErrorCode = "invalid_argument"
	CodeInvalidManifest   ErrorCode = "invalid_manifest"
	CodeNotFound          ErrorCode = "not_found"
	CodeUnknownCapability ErrorCode = "unknown_capability"
	CodeRenderFailed      ErrorCode = "render_failed"
	CodeCanceled          ErrorCode = "canceled"
	CodeInternal          ErrorCode = "internal"
)

// Error is the structured error reported for caller misuse.
type Error struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewError creates a new error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Errorf creates a new error with a formatted message.
func Errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// WithDetail returns a new Error with the key-value pair added to details.
func (e *Error) WithDetail(key string, value any) *Error {
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// WithDetails returns a new Error with the provided map merged into details.
func (e *Error) WithDetails(details map[string]any) *Error {
	if len(details) == 0 {
		return e
	}
	merged := make(map[string]any, len(e.Details)+len(details))
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: merged,
	}
}

// CodeOf returns the code of the first *Error in err's chain, or "" when
// there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// FromValidationErrors converts struct validation failures into an Error
// carrying one detail per field.
func FromValidationErrors(code ErrorCode, errs validator.ValidationErrors) *Error {
	details := make(map[string]any, len(errs))
	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		msg := formatValidationError(fe)
		details[fe.Namespace()] = msg
		messages = append(messages, fe.Namespace()+": "+msg)
	}
	return &Error{
		Code:    code,
		Message: strings.Join(messages, "; "),
		Details: details,
	}
}

// AsError maps err to an *Error.
//
// Errors already carrying an *Error keep it. Declaration validation, struct
// validation and option decoding failures become invalid_argument. Context
// cancellation becomes canceled. Anything else is internal.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return e
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return NewError(CodeCanceled, err.Error())
	}

	var ve *ir.ValidationError
	if errors.As(err, &ve) {
		out := NewError(CodeInvalidArgument, ve.Message)
		if ve.Field != "" {
			out = out.WithDetail("field", ve.Field)
		}
		return out
	}

	var valErrs validator.ValidationErrors
	if errors.As(err, &valErrs) {
		return FromValidationErrors(CodeInvalidArgument, valErrs)
	}

	var multi schema.MultiError
	if errors.As(err, &multi) {
		return fromSchemaErrors(multi)
	}

	return NewError(CodeInternal, err.Error())
}

func fromSchemaErrors(multi schema.MultiError) *Error {
	details := make(map[string]any, len(multi))
	keys := make([]string, 0, len(multi))
	for k, err := range multi {
		keys = append(keys, k)
		var unknown schema.UnknownKeyError
		if errors.As(err, &unknown) {
			details[k] = "unknown option"
			continue
		}
		details[k] = "invalid value"
	}
	sort.Strings(keys)
	return &Error{
		Code:    CodeInvalidArgument,
		Message: "invalid options: " + strings.Join(keys, ", "),
		Details: details,
	}
}

// formatValidationError converts a validator.FieldError to a human-readable message.
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "min":
		return fmt.Sprintf("must have at least %s elements", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s elements", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "identifier":
		return "must be a C# identifier"
	case "accessor":
		return "must be an identifier or a dotted member path"
	case "capability":
		return "must name a known capability"
	case "semver":
		return "must be a semantic version"
	case "dive":
		return "invalid element"
	default:
		if fe.Param() != "" {
			return fmt.Sprintf("failed %s=%s validation", fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
