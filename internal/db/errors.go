package db

import "errors"

var (
	// ErrNotFound is returned when a referenced id, slug or username does
	// not exist.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicateSlug is returned when creating a group whose slug is
	// already taken.
	ErrDuplicateSlug = errors.New("group slug already exists")
)
