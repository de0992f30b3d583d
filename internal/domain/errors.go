package domain

import "errors"

var (
	ErrNotFound        = errors.New("resource not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrConflict        = errors.New("file id or storage key already exists")
	ErrIssuer          = errors.New("storage service refused to issue credentials")
)
