package validator

// Validator checks a struct's fields against their `validate` tags.
type Validator interface {
	Validate(data any) error
}
