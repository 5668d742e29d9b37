package repositories

import "errors"

// ErrNotFound is the sentinel wrapped by every "no such record" error the
// repositories return, so callers can translate absence into a not-found
// response without matching message strings.
var ErrNotFound = errors.New("record not found")

// ErrDuplicate is wrapped when a unique constraint rejects a write, such as
// a second cart for the same customer or a reused category title.
var ErrDuplicate = errors.New("duplicate record")
