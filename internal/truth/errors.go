package truth

import "errors"

var (
	ErrInvalid     = errors.New("invalid truth collection")
	ErrDecode      = errors.New("failed to decode truth collection")
	ErrSource      = errors.New("failed to read truth source")
	ErrNotLoaded   = errors.New("truth collection not loaded")
	ErrReloadInUse = errors.New("reload already in progress")
)
