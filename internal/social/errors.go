// Package social defines the domain error taxonomy shared by the feed,
// notification and handler layers. Repositories translate store errors
// into these sentinels so handlers can map them to HTTP status codes
// without knowing which store produced them.
package social

import "errors"

var (
	// ErrNotFound means a referenced entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict means a uniqueness constraint rejected the write,
	// e.g. a duplicate like or follow.
	ErrConflict = errors.New("already exists")

	// ErrForbidden means the caller is authenticated but not entitled
	// to act on the target entity.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable means a dependent store call failed.
	ErrUnavailable = errors.New("store unavailable")
)
