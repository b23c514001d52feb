package settings

import "errors"

var (
	ErrRead    = errors.New("failed to read settings file")
	ErrDecode  = errors.New("failed to decode settings")
	ErrInvalid = errors.New("invalid settings")
)
