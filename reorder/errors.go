package reorder

import "errors"

// ErrDuplicateIndex is returned by Push when an index has already been
// emitted or is already waiting in the deferred map. Indices are assumed
// unique; a duplicate signals a logic error in the caller's worker pool.
var ErrDuplicateIndex = errors.New("reorder: duplicate index")
