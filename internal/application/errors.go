package application

import "errors"

var (
	// ErrUnauthorized is returned when the acting principal lacks permission for an operation.
	ErrUnauthorized = errors.New("application: unauthorized")
	// ErrSlotNotFound is returned when the requested slot does not exist.
	ErrSlotNotFound = errors.New("application: slot not found")
	// ErrDuplicateSlot is returned when a slot with the same identifier already exists.
	ErrDuplicateSlot = errors.New("application: slot already exists")
	// ErrSlotOverlap is returned when a new slot's date range collides with an active slot.
	ErrSlotOverlap = errors.New("application: slot dates overlap an existing slot")
	// ErrAvailabilityConflict is returned when an availability update marks an occupied day available.
	ErrAvailabilityConflict = errors.New("application: day is occupied by a scheduled slot")
	// ErrAlreadyStarted is returned when cancellation arrives on or after the slot's start date.
	ErrAlreadyStarted = errors.New("application: slot already started")
	// ErrProvisioningFailure is returned when the meeting provider cannot supply a link.
	ErrProvisioningFailure = errors.New("application: meeting provisioning failed")
	// ErrResolutionFailure is returned when the contract gateway cannot resolve a contract.
	ErrResolutionFailure = errors.New("application: contract resolution failed")
)

// ValidationError captures field level validation issues that callers can surface to users.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	return "validation failed"
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

// add records a field level validation error.
func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}
