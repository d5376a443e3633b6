package mapping

import "errors"

var (
	ErrMappingNotFound      = errors.New("mapping not found")
	ErrMappingAlreadyExists = errors.New("channel or item is already mapped on this device")
	ErrItemAlreadyMapped    = errors.New("item is already mapped on this device")
	ErrInvalidChannel       = errors.New("invalid sensor channel")
)
