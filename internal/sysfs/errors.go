package sysfs

import (
	"errors"
	"fmt"
)

var (
	// ErrIO matches acquisition errors where the attribute file could not be
	// opened or fully read.
	ErrIO = errors.New("attribute unreadable")
	// ErrConversion matches acquisition errors where the attribute was read
	// but its content did not parse into the expected type.
	ErrConversion = errors.New("attribute unparsable")
)

// Kind classifies an AcquisitionError.
type Kind int

const (
	KindIO Kind = iota
	KindConversion
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindConversion:
		return "conversion"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// AcquisitionError reports a failed attribute read.
type AcquisitionError struct {
	Kind      Kind
	Device    string
	Attribute string
	Path      string
	Err       error
}

func (e *AcquisitionError) Error() string {
	op := "read"
	if e.Kind == KindConversion {
		op = "parse"
	}
	return fmt.Sprintf("%s %s/%s: %v", op, e.Device, e.Attribute, e.Err)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

// Is reports whether target is the sentinel for e's kind.
func (e *AcquisitionError) Is(target error) bool {
	switch target {
	case ErrIO:
		return e.Kind == KindIO
	case ErrConversion:
		return e.Kind == KindConversion
	}
	return false
}
