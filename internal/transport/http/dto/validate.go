package dto

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the `validate` tags of a decoded request body.
func Validate(req any) error {
	return validate.Struct(req)
}
