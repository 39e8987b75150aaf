package dto

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// Seal barcodes are printed labels: uppercase alphanumerics with dashes.
var barcodePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{2,62}[A-Z0-9]$`)

// RegisterCustomValidations attaches domain-specific binding validators to
// gin's validator engine. Called once at route registration.
func RegisterCustomValidations(v *validator.Validate) error {
	return v.RegisterValidation("barcode", func(fl validator.FieldLevel) bool {
		return barcodePattern.MatchString(fl.Field().String())
	})
}
