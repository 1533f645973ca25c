package entitlement

import "errors"

var (
	// ErrAccessDenied is returned when a principal lacks a required feature
	ErrAccessDenied = errors.New("access denied")
)
