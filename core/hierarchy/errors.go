package hierarchy

import "errors"

var (
	ErrCycle             = errors.New("hierarchy cycle")
	ErrConflictingParent = errors.New("conflicting parent")
	ErrUniversalChild    = errors.New("universal root has no parent")
)
