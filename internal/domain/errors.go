package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrProFeatureRequired = errors.New("this feature requires the Pro plan")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNoRecipients       = errors.New("No recipients configured for this product.")
)
