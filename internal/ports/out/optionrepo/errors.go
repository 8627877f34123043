package optionrepo

import "errors"

var (
	ErrNotFound = errors.New("vehicle option not found")
	// ErrDuplicateValue indicates the value already exists (case-insensitively) for the option type.
	ErrDuplicateValue = errors.New("vehicle option value already exists")
)
