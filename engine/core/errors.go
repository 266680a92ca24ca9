package core

import (
	"errors"
)

var (
	ErrFileNotFound      = errors.New("file does not exist")
	ErrInvalidIndex      = errors.New("index out of range")
	ErrUnknownName       = errors.New("unknown name")
	ErrDuplicateName     = errors.New("name already in use")
	ErrCompileFailed     = errors.New("shader compilation failed")
	ErrLinkFailed        = errors.New("program link failed")
	ErrProgramNotLinked  = errors.New("program is not linked")
	ErrNoProgramBound    = errors.New("no program bound")
	ErrNoMeshes          = errors.New("no meshes in asset")
	ErrUnsupportedFormat = errors.New("unsupported asset format")
	ErrInvalidConfig     = errors.New("invalid configuration")
	ErrUnknown           = errors.New("unknown")
)
