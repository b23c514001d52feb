package server

import "errors"

var (
	ErrMissingAddress = errors.New("server address is required")
	ErrFailedLoadCert = errors.New("failed to load certificate")
	ErrAlreadyServing = errors.New("server is already serving")
	ErrListen         = errors.New("failed to bind listener")
	ErrServe          = errors.New("http server error")
	ErrShutdown       = errors.New("http shutdown error")
)
