package vehiclerepo

import "errors"

var (
	ErrNotFound      = errors.New("vehicle not found")
	ErrAlreadyExists = errors.New("vehicle already exists")
	// ErrOwnerNotFound indicates the referenced member does not exist.
	ErrOwnerNotFound = errors.New("vehicle owner not found")
)
