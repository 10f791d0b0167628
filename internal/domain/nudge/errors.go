package nudge

import "errors"

// ErrEmptyMessage indicates an attempt to record a nudge with no content.
var ErrEmptyMessage = errors.New("nudge message must not be empty")
