package errs

type ErrorMessage struct {
	Message string
}

func (e *ErrorMessage) Error() string { return e.Message }

// NotFoundError: the requested resource does not exist.
type NotFoundError struct {
	ErrorMessage
}

// ValidationError: a required request field is missing or malformed.
type ValidationError struct {
	ErrorMessage
}

// PermissionError: the caller lacks the privilege for this operation
// (wrong admin key or missing admin claim).
type PermissionError struct {
	ErrorMessage
}

// ConfigError: a required configuration value is absent. Fatal at startup
// or first use.
type ConfigError struct {
	ErrorMessage
}

// DatabaseError wraps a Firestore failure with the operation that caused it.
type DatabaseError struct {
	ErrorMessage
	Operation string
	Err       error
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ExternalServiceError wraps an upstream API failure. The upstream message is
// kept verbatim and surfaces to the caller.
type ExternalServiceError struct {
	ErrorMessage
	Service string
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewPermissionError(message string) *PermissionError {
	return &PermissionError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewConfigError(message string) *ConfigError {
	return &ConfigError{
		ErrorMessage: ErrorMessage{Message: message},
	}
}

func NewDatabaseError(operation, message string, err error) *DatabaseError {
	return &DatabaseError{
		ErrorMessage: ErrorMessage{Message: message},
		Operation:    operation,
		Err:          err,
	}
}

func NewExternalServiceError(service, message string) *ExternalServiceError {
	return &ExternalServiceError{
		ErrorMessage: ErrorMessage{Message: message},
		Service:      service,
	}
}
