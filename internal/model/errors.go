package model

import (
	"errors"
	"fmt"
)

// Failure classes. Every rejected transaction wraps exactly one of them.
var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrNotFound         = errors.New("not found")
	ErrPrecondition     = errors.New("precondition violated")
	ErrPermissionDenied = errors.New("permission denied")
	ErrInvalidThreshold = errors.New("invalid threshold")
)

func InvalidInput(msg string) error     { return fmt.Errorf("%w: %s", ErrInvalidInput, msg) }
func NotFound(msg string) error         { return fmt.Errorf("%w: %s", ErrNotFound, msg) }
func Precondition(msg string) error     { return fmt.Errorf("%w: %s", ErrPrecondition, msg) }
func PermissionDenied(msg string) error { return fmt.Errorf("%w: %s", ErrPermissionDenied, msg) }
func InvalidThreshold(msg string) error { return fmt.Errorf("%w: %s", ErrInvalidThreshold, msg) }
