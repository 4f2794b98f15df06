package settings

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks the validate tags of a settings section. Sections
// are validated by the component that consumes them, so a partially filled
// Config stays usable for components that do not need the empty sections.
func ValidateStruct(section any) error {
	return validate.Struct(section)
}
