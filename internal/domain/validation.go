package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultMaxImageBytes caps image fields when no explicit limit is configured.
const DefaultMaxImageBytes = 2 << 20

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct runs the `validate` tags of v and converts failures into
// FieldErrors. A non-validation error (bad argument) is returned as-is.
func ValidateStruct(v any) ([]FieldError, error) {
	err := validatorInstance().Struct(v)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Message: describeTag(fe)})
	}
	return fields, nil
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	}
	return "is invalid"
}

// ValidateImage accepts an empty value, an http(s) URL, or a base64 image data URI
// no longer than maxBytes.
func ValidateImage(field, image string, maxBytes int) *FieldError {
	if image == "" {
		return nil
	}
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if len(image) > maxBytes {
		return &FieldError{Field: field, Message: fmt.Sprintf("must not exceed %d bytes", maxBytes)}
	}
	switch {
	case strings.HasPrefix(image, "http://"), strings.HasPrefix(image, "https://"):
		return nil
	case strings.HasPrefix(image, "data:image/") && strings.Contains(image, ";base64,"):
		return nil
	}
	return &FieldError{Field: field, Message: "must be an http(s) URL or a base64 image data URI"}
}

func finish(fields []FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return NewValidationError(fields...)
}
