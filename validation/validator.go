// Package validation configures gin's request binding: strict JSON decoding,
// json field names in errors, the custom "resolution" rule, and translation of
// validator errors into response details.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	setupOnce sync.Once
	setupErr  error
)

var resolutionPattern = regexp.MustCompile(`^[1-9][0-9]{0,4}x[1-9][0-9]{0,4}$`)

// Setup configures gin's default validator. Safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		binding.EnableDecoderDisallowUnknownFields = true

		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			setupErr = fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
			return
		}
		v.RegisterTagNameFunc(jsonFieldName)
		if err := v.RegisterValidation("resolution", validateResolution); err != nil {
			setupErr = fmt.Errorf("failed to register resolution validator: %w", err)
		}
	})
	return setupErr
}

// jsonFieldName reports fields under their json name so error details match
// what the client sent.
func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

// validateResolution accepts "<width>x<height>", e.g. "1920x1080".
func validateResolution(fl validator.FieldLevel) bool {
	return resolutionPattern.MatchString(fl.Field().String())
}

// FieldErrors returns the failed validator rules of err keyed by field name,
// or nil when err is not a validation failure (malformed JSON, unknown field).
func FieldErrors(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = translate(fe)
	}
	return out
}

// HasTag reports whether err is a validation failure that includes tag.
func HasTag(err error, tag string) bool {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return false
	}
	for _, fe := range verrs {
		if fe.Tag() == tag {
			return true
		}
	}
	return false
}

// Details is the "details" value of a 400 response.
func Details(err error) any {
	if fields := FieldErrors(err); fields != nil {
		return fields
	}
	return err.Error()
}

var messages = map[string]string{
	"required":   "is required",
	"email":      "must be a valid email address",
	"resolution": "must look like 1920x1080",
}

var messagesWithParam = map[string]string{
	"oneof": "must be one of: %s",
	"min":   "must be at least %s",
	"max":   "must be at most %s",
}

func translate(fe validator.FieldError) string {
	if msg, ok := messages[fe.Tag()]; ok {
		return msg
	}
	if tmpl, ok := messagesWithParam[fe.Tag()]; ok {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return fmt.Sprintf("failed %s validation", fe.Tag())
}
