// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package tdzdd

import "fmt"

// Kind identifies one of the fatal error classes a framework operation can
// raise. Every Kind is unrecoverable: the operation that raised it must be
// abandoned and its partial node table discarded. Recoverable failure is a
// different channel entirely: a Spec reports it by returning 0 (false
// terminal) from GetRoot/GetChild, which is never a bug.
type Kind int

const (
	// ArraySizeNotSet is raised when a POD-array-style spec is consulted
	// before its backing array has been sized.
	ArraySizeNotSet Kind = iota
	// RowOverflow is raised when an internal row index would exceed the
	// 2^20-1 cap imposed by the NodeId encoding.
	RowOverflow
	// ChildLevelMonotonicity is raised when Spec.GetChild returns a level
	// that is not strictly lower than the level it was called at.
	ChildLevelMonotonicity
	// AllocationFailure is raised when a level pool or node table row
	// cannot grow.
	AllocationFailure
)

func (k Kind) String() string {
	switch k {
	case ArraySizeNotSet:
		return "ArraySizeNotSet"
	case RowOverflow:
		return "RowOverflow"
	case ChildLevelMonotonicity:
		return "ChildLevelMonotonicity"
	case AllocationFailure:
		return "AllocationFailure"
	default:
		return "UnknownError"
	}
}

// FrameworkError is the error type returned by every fatal condition in this
// package. It carries a Kind so callers can use errors.Is against one of the
// sentinel values below regardless of the attached message.
type FrameworkError struct {
	Kind Kind
	msg  string
}

func (e *FrameworkError) Error() string {
	if e.msg == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Is lets errors.Is(err, ErrRowOverflow) work regardless of the formatted
// message attached to a particular instance.
func (e *FrameworkError) Is(target error) bool {
	other, ok := target.(*FrameworkError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newError(kind Kind, format string, a ...interface{}) *FrameworkError {
	return &FrameworkError{Kind: kind, msg: fmt.Sprintf(format, a...)}
}

// NewFrameworkError lets a Spec implementation outside this package raise
// one of the fatal Kinds itself, e.g. ArraySizeNotSet from GetRoot when an
// array-backed state hasn't been sized yet.
func NewFrameworkError(kind Kind, format string, a ...interface{}) *FrameworkError {
	return newError(kind, format, a...)
}

// Sentinel instances usable with errors.Is. They carry no message; compare
// only by Kind.
var (
	ErrArraySizeNotSet        = &FrameworkError{Kind: ArraySizeNotSet}
	ErrRowOverflow            = &FrameworkError{Kind: RowOverflow}
	ErrChildLevelMonotonicity = &FrameworkError{Kind: ChildLevelMonotonicity}
	ErrAllocationFailure      = &FrameworkError{Kind: AllocationFailure}
)
