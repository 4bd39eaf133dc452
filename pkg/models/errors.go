package models

// ConfigurationError means a role template is missing or malformed.
// It is fatal to the generation call that hit it; nothing partial is produced.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Reason
}

// ValidationError means a manual assignment payload is malformed.
// Recovered at the HTTP boundary, never reaches the engine.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "validation error: " + e.Field + ": " + e.Reason
	}
	return "validation error: " + e.Reason
}

// ConflictError means an edit collides with existing state: an overlapping
// assignment, a violated constraint, or a stale-version update.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}
