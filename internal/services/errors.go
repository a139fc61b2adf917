package services

import "errors"

// Error kinds shared by the billing services. Callers classify failures with
// errors.Is; everything else is an upstream persistence failure.
var (
	ErrNotFound   = errors.New("not_found")
	ErrValidation = errors.New("validation_failed")
	// ErrIntegrity means a multi-step write was left half-applied; the store
	// needs operator attention.
	ErrIntegrity = errors.New("store_integrity")
)
