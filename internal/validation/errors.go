package validation

import (
	"encoding/json"
	"sort"
	"strings"
)

// Rejection codes carried by FieldError.Code.
const (
	CodeRequired         = "required"
	CodeNull             = "null"
	CodeBlank            = "blank"
	CodeInvalid          = "invalid"
	CodeMinValue         = "min_value"
	CodeMaxValue         = "max_value"
	CodeMinLength        = "min_length"
	CodeMaxLength        = "max_length"
	CodeMaxDigits        = "max_digits"
	CodeMaxDecimalPlaces = "max_decimal_places"
	CodeDuplicate        = "duplicate"
	CodeUnique           = "unique"
	CodeDoesNotExist     = "does_not_exist"
	CodeIncorrectType    = "incorrect_type"
	CodeInvalidChoice    = "invalid_choice"
	CodeNotAList         = "not_a_list"
)

// NonFieldErrors is the key used for failures not tied to a single field.
const NonFieldErrors = "non_field_errors"

// FieldError is a single rejection of a single field.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return e.Field + ": " + e.Message
}

func newFieldError(field, code, message string) *FieldError {
	return &FieldError{Field: field, Code: code, Message: message}
}

// Errors aggregates every field rejection of one request. The zero value is
// ready to use. Rules are checked independently; nothing short-circuits.
type Errors struct {
	fields map[string][]*FieldError
}

// NewErrors returns an empty collector
func NewErrors() *Errors {
	return &Errors{}
}

// Add records fe; a nil fe is ignored so rule results can be passed straight in.
func (e *Errors) Add(fe *FieldError) {
	if fe == nil {
		return
	}
	if e.fields == nil {
		e.fields = make(map[string][]*FieldError)
	}
	e.fields[fe.Field] = append(e.fields[fe.Field], fe)
}

// AddMessage records a rejection built from its parts
func (e *Errors) AddMessage(field, code, message string) {
	e.Add(newFieldError(field, code, message))
}

// Has reports whether field already has at least one rejection
func (e *Errors) Has(field string) bool {
	return len(e.fields[field]) > 0
}

func (e *Errors) Empty() bool {
	return len(e.fields) == 0
}

// Err returns e as an error, or nil when nothing was rejected
func (e *Errors) Err() error {
	if e == nil || e.Empty() {
		return nil
	}
	return e
}

// Codes returns the rejection codes recorded for field in insertion order
func (e *Errors) Codes(field string) []string {
	var codes []string
	for _, fe := range e.fields[field] {
		codes = append(codes, fe.Code)
	}
	return codes
}

// Messages renders the field -> messages map returned to clients
func (e *Errors) Messages() map[string][]string {
	out := make(map[string][]string, len(e.fields))
	for field, list := range e.fields {
		for _, fe := range list {
			out[field] = append(out[field], fe.Message)
		}
	}
	return out
}

func (e *Errors) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Messages())
}

func (e *Errors) Error() string {
	names := make([]string, 0, len(e.fields))
	for field := range e.fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, field := range names {
		for _, fe := range e.fields[field] {
			parts = append(parts, fe.Error())
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
