package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrStorageIO is matched by every *IOError.
	ErrStorageIO = errors.New("storage I/O failure")
	// ErrStorageCorruption is matched by every *CorruptionError.
	ErrStorageCorruption = errors.New("stored guest list is corrupted")
)

// IOError reports that the backing store could not be read or written.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrStorageIO }

// CorruptionError reports a blob that exists but does not hold a guest list.
type CorruptionError struct {
	Key string
	Err error
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("stored value at %q is not a guest list: %v", e.Key, e.Err)
}

func (e *CorruptionError) Unwrap() error { return e.Err }

func (e *CorruptionError) Is(target error) bool { return target == ErrStorageCorruption }
