package models

import "fmt"

// ValidationError rejects a malformed request before anything is sent to
// the processor. Required lists the fields the endpoint needs; Received
// echoes back exactly the fields the caller did send.
type ValidationError struct {
	Message  string                 `json:"error"`
	Required []string               `json:"required,omitempty"`
	Received map[string]interface{} `json:"received,omitempty"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ProcessorError wraps any failure from the Stripe call. Type and Code carry
// Stripe's own classification when it supplied one.
type ProcessorError struct {
	Message string `json:"error"`
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Err     error  `json:"-"`
}

func (e *ProcessorError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProcessorError) Unwrap() error {
	return e.Err
}
