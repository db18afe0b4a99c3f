package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterTagNames makes gin's validator report fields by their json names.
func RegisterTagNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

// BindJSON decodes the request body into dest and runs its binding tags.
// Every failure is returned as *Errors keyed by json field name.
func BindJSON(c *gin.Context, dest interface{}) error {
	RegisterTagNames()
	if err := DecodeJSON(c, dest); err != nil {
		return err
	}
	if err := binding.Validator.ValidateStruct(dest); err != nil {
		return FromBindingError(err)
	}
	return nil
}

// DecodeJSON decodes the request body into dest without running binding
// tags. An empty body leaves dest untouched so field rules report what is missing.
func DecodeJSON(c *gin.Context, dest interface{}) error {
	if c.Request.Body == nil {
		return nil
	}
	if err := json.NewDecoder(c.Request.Body).Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return FromBindingError(err)
	}
	return nil
}

// FromBindingError converts validator and JSON decoding failures to *Errors
func FromBindingError(err error) *Errors {
	errs := NewErrors()

	var verrs validator.ValidationErrors
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError

	switch {
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			errs.Add(translate(fe))
		}
	case errors.As(err, &typeErr):
		field := typeErr.Field
		if field == "" {
			field = NonFieldErrors
		}
		errs.AddMessage(field, CodeInvalid, typeMessage(typeErr.Type))
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		errs.AddMessage(NonFieldErrors, CodeInvalid, "JSON parse error - malformed request body.")
	case errors.Is(err, io.EOF):
		errs.AddMessage(NonFieldErrors, CodeRequired, "Request body is empty.")
	default:
		errs.AddMessage(NonFieldErrors, CodeInvalid, "Invalid request body.")
	}
	return errs
}

func translate(fe validator.FieldError) *FieldError {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return Required(field)
	case "email":
		return newFieldError(field, CodeInvalid, "Enter a valid email address.")
	case "min":
		return newFieldError(field, CodeMinLength,
			fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param()))
	case "max":
		return newFieldError(field, CodeMaxLength,
			fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param()))
	case "notblank":
		return newFieldError(field, CodeBlank, msgBlank)
	}
	return newFieldError(field, CodeInvalid, "Invalid value.")
}

func typeMessage(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.String:
		return "Not a valid string."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.Slice, reflect.Array:
		return "Expected a list of items."
	}
	return "Invalid value."
}
