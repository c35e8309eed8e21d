package handlers

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

type ItemValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic("registering notblank validation: " + err.Error())
	}
	return v
}

// validateRequest returns one entry per failing field, or nil when s is valid.
func validateRequest(s any) []ItemValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ItemValidationError{{Field: "body", Tag: "invalid"}}
	}

	errs := make([]ItemValidationError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, ItemValidationError{Field: fe.Field(), Tag: fe.Tag()})
	}
	return errs
}

func hasFieldError(errs []ItemValidationError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}
