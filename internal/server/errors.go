package server

import "errors"

var (
	errNotArray        = errors.New("expected array")
	errEmptyCommand    = errors.New("empty command")
	errInvalidArgument = errors.New("invalid argument")
)
