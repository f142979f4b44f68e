package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"busbackend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var busIDPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}$`)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared validator with the custom "busid" and "city" tags.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		_ = RegisterValidations(v)
		validate = v
	})
	return validate
}

// RegisterValidations installs the domain tags on v; the HTTP layer calls it
// on gin's binding validator too.
func RegisterValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("busid", func(fl validator.FieldLevel) bool {
		return busIDPattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		_, ok := domain.ParseCity(fl.Field().String())
		return ok
	})
}

// validationError converts validator output into a domain.ValidationError
// naming the first failing field.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return domain.ValidationError{Msg: err.Error(), Err: err}
	}
	fe := verrs[0]
	return domain.ValidationError{
		Field: toSnake(fe.Field()),
		Msg:   describeTag(fe),
		Err:   err,
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "ltefield":
		return "must not exceed " + toSnake(fe.Param())
	case "busid":
		return "must be two uppercase letters followed by two digits"
	case "city":
		return "unknown city code, expected one of " + strings.Join(domain.CityCodes(), ", ")
	case "email":
		return "must be a valid email address"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// BindingError converts a gin binding failure into a domain.ValidationError.
func BindingError(err error) error {
	return validationError(err)
}
