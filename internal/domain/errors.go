package domain

// ValidationResult is the outcome of a data-entry validator: a flag plus a
// field -> message map. Callers branch on IsValid; validation is never an
// exception path.
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  map[string]string `json:"errors"`
}

func NewValidationResult() ValidationResult {
	return ValidationResult{IsValid: true, Errors: map[string]string{}}
}

func (r *ValidationResult) Add(field, message string) {
	r.Errors[field] = message
	r.IsValid = false
}

// ValidationError carries a failed ValidationResult across the service
// boundary so the HTTP layer can return the per-field map.
type ValidationError struct {
	Result ValidationResult
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
