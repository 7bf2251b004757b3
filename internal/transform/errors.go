package transform

import "errors"

// Validation errors. Checked before any mutation begins: an invalid
// option set fails the whole operation with nothing applied.
var (
	ErrInvalidPercentage = errors.New("removal percentage must be between 0 and 100")
	ErrInvalidToolMode   = errors.New("tool handling mode must be remove or truncate")
)
