package model

// ErrorType distinguishes field-shape failures from business rule violations.
type ErrorType string

const (
	ErrorTypeModel    ErrorType = "Model"
	ErrorTypeBusiness ErrorType = "Business"
)

// ValidationError is returned as data attached to the domain object,
// never raised through the error channel.
type ValidationError struct {
	Description string    `json:"description"`
	Type        ErrorType `json:"type"`
	Field       string    `json:"field,omitempty"`
}

func NewValidationError(desc string, errType ErrorType, field string) ValidationError {
	return ValidationError{Description: desc, Type: errType, Field: field}
}
