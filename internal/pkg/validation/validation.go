package validation

import (
	"github.com/go-playground/validator/v10"
)

// Validator wraps a shared validator instance for request DTOs
type Validator struct {
	v *validator.Validate
}

// New creates a new validator
func New() *Validator {
	return &Validator{v: validator.New()}
}

// Validate validates a struct against its validate tags
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
