package models

import (
	"github.com/go-playground/validator/v10"

	appErr "github.com/aide-studio/engine/pkg/errors"
)

// One validator shared by the API handlers and the Go client, so both sides
// enforce the same insert and patch shapes.
var validate = validator.New(validator.WithRequiredStructEnabled())

func validateStruct(v any, message string) error {
	if err := validate.Struct(v); err != nil {
		return appErr.Wrap(err, appErr.CodeInvalid, message)
	}
	return nil
}
