package repository

import "github.com/odysseylabs/odyssey/internal/domain/hydration"

// ErrNotFound indicates the requested entity does not exist in the store.
// It aliases the sentinel defined in the hydration domain package to avoid
// an import cycle; errors.Is treats the two names as the same value.
var ErrNotFound = hydration.ErrNotFound
