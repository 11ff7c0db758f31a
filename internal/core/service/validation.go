package service

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// firstFailure maps the first failing field (in the order of fields) to
// its domain error. Unlisted fields fall through to fallback.
func firstFailure(err error, order []string, byField map[string]error, fallback error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	failed := make(map[string]struct{}, len(ve))
	for _, fe := range ve {
		failed[fe.Field()] = struct{}{}
	}
	for _, field := range order {
		if _, ok := failed[field]; ok {
			return byField[field]
		}
	}
	return fallback
}
