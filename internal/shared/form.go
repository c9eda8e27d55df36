package shared

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cast"
)

// FormState is what an entity form renders: the typed draft it was seeded
// from, the raw text bound to each input, and the outcome of the last submit.
type FormState[D any] struct {
	Draft     D
	EditingID string
	// Values holds the exact text of every input. After a failed submit it is
	// the posted text, so nothing the admin typed is lost.
	Values map[string]string
	Errors map[string]string
	// Err is the inline message for the whole form.
	Err string
	// PendingImage is the preview token of an uploaded but unsaved image.
	PendingImage string
	// PreviewURL is what the image slot shows: the pending upload, the stored
	// image when editing, or "" for the placeholder.
	PreviewURL string
}

// Editing reports whether the form targets an existing record.
func (f FormState[D]) Editing() bool {
	return f.EditingID != ""
}

// Value returns the text bound to the named input.
func (f FormState[D]) Value(name string) string {
	return f.Values[name]
}

// Fail records err on the form, splitting field errors out of validation failures.
func (f *FormState[D]) Fail(err error) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		if f.Errors == nil {
			f.Errors = make(map[string]string, len(validationErr.Fields))
		}
		for field, msg := range validationErr.Fields {
			f.Errors[field] = msg
		}
	}
	f.Err = UserMessage(err)
}

// FormValues flattens posted form values to the first value per key.
func FormValues(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for key, vals := range values {
		if key == CSRFFormField || len(vals) == 0 {
			continue
		}
		out[key] = vals[0]
	}
	return out
}

var slugPattern = regexp.MustCompile(`^[a-z0-9-]*$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func draftValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
			return slugPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// ValidateDraft checks the validate tags of draft. Field keys in the returned
// error follow the draft's form tags so templates can place them next to inputs.
func ValidateDraft(draft any) error {
	err := draftValidator().Struct(draft)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields[fe.Field()] = fieldMessage(fe)
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obligatorio"
	case "gte", "min":
		return "Debe ser mayor o igual a " + fe.Param()
	case "lte", "max":
		return "Debe ser menor o igual a " + fe.Param()
	case "slug":
		return "Solo minúsculas, números y guiones"
	default:
		return "Valor inválido"
	}
}

// ParseInt reads a decimal integer typed into a form. Leading zeros are
// ignored rather than read as an octal prefix.
func ParseInt(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	sign := ""
	if strings.HasPrefix(raw, "-") {
		sign, raw = "-", raw[1:]
	}
	if raw == "" || strings.Trim(raw, "0123456789") != "" {
		return 0, fmt.Errorf("invalid integer %q", sign+raw)
	}
	digits := strings.TrimLeft(raw, "0")
	if digits == "" {
		digits = "0"
	}
	return cast.ToIntE(sign + digits)
}
