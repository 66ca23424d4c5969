package evo

import "errors"

var (
	ErrConfiguration     = errors.New("invalid configuration")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrReleased          = errors.New("population released")
	ErrNotEvaluated      = errors.New("population not evaluated")
	ErrNotAttached       = errors.New("population individuals not attached")
	ErrWorkspaceReleased = errors.New("workspace released")
)
