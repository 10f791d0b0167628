package hydration

import "errors"

var (
	// ErrInvalidAmount indicates a non-positive intake amount.
	ErrInvalidAmount = errors.New("intake amount must be positive")
	// ErrInvalidGoal indicates a non-positive daily goal.
	ErrInvalidGoal = errors.New("daily goal must be positive")
	// ErrInvalidWindow indicates window hours that are out of range or inverted.
	ErrInvalidWindow = errors.New("invalid hydration window")
	// ErrNotFound indicates the requested entity does not exist in the store.
	// repository.ErrNotFound aliases this value; it lives here so the domain
	// package does not import repository (which imports this package).
	ErrNotFound = errors.New("not found")
)
