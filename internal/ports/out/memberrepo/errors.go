package memberrepo

import "errors"

var (
	// ErrNotFound indicates the requested member does not exist.
	ErrNotFound = errors.New("member not found")

	// ErrAlreadyExists indicates a member already exists with the provided ID.
	ErrAlreadyExists = errors.New("member already exists")

	// ErrMemberNumberTaken indicates another member already uses the provided (non-blank) member number.
	ErrMemberNumberTaken = errors.New("member number already in use")
)
