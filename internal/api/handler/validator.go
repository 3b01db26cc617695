package handler

import (
	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/pkg/validation"
)

// echoValidator adapts the shared validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validation.Validator
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// A nil v gets a fresh validator.
func NewValidator(v *validation.Validator) *echoValidator {
	if v == nil {
		v = validation.New()
	}
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface. Failures are validation
// AuthErrors so the error handler answers 400.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.v.Struct(i); err != nil {
		return domain.NewAuthError(domain.KindValidation, err.Error(), nil)
	}
	return nil
}
