package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-render/pkg/models"
	"resume-render/pkg/utils"
)

// Error is the aggregated rejection of a resume: one entry per failing field.
type Error struct {
	Fields []models.FieldProblem
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid resume: " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error { return utils.ErrInvalidInput }

// ValidateNotBlank rejects strings made only of whitespace
func ValidateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// RegisterResumeValidators registers all resume-related custom validators
func RegisterResumeValidators(v *validator.Validate) {
	v.RegisterValidation("notblank", ValidateNotBlank)
}

// Validator checks resumes before any renderer sees them.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	RegisterResumeValidators(v)
	v.RegisterTagNameFunc(jsonFieldName)
	return &Validator{validate: v}
}

// ValidateResume runs every rule once and reports all failures together.
// A whitespace-only email is absent, not malformed.
func (v *Validator) ValidateResume(data *models.ResumeData) error {
	subject := *data
	if _, ok := models.Value(subject.Email); !ok {
		subject.Email = nil
	}

	err := v.validate.Struct(&subject)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", utils.ErrInvalidInput, err)
	}

	problems := make([]models.FieldProblem, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, models.FieldProblem{
			Field:   fieldPath(fe),
			Message: describe(fe),
		})
	}
	return &Error{Fields: problems}
}

// fieldPath drops the root struct name: "ResumeData.experience[0].role" -> "experience[0].role".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed %s check", fe.Tag())
	}
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "-" || name == "" {
		return fld.Name
	}
	return name
}
