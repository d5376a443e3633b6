package temperature

import "errors"

var (
	ErrRecordNotFound      = errors.New("daily record not found")
	ErrRecordAlreadyExists = errors.New("daily record already exists")
	ErrItemNotFound        = errors.New("temperature item not found")
	// ErrItemReference is returned when a detail points at an item that no longer exists.
	ErrItemReference = errors.New("temperature item reference is invalid")
)
