package library

import "errors"

var (
	ErrNotAuthenticated = errors.New("library: no bound session")
	ErrNotFound         = errors.New("library: record not in snapshot")
	ErrWrite            = errors.New("library: remote store rejected write")
)
