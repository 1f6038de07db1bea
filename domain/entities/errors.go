package entities

import (
	"errors"
	"fmt"
	"time"
)

// ErrTimeout matches every TimeoutError
var ErrTimeout = errors.New("timeout")

// ErrCancelled is returned when the operator cancels an interactive prompt
var ErrCancelled = errors.New("cancelled by user")

// TimeoutError is a bounded wait that expired and must propagate
type TimeoutError struct {
	Op    string
	After time.Duration
	Last  error
}

func (e *TimeoutError) Error() string {
	if e.Last != nil {
		return fmt.Sprintf("timeout after %s waiting for %s: %v", e.After, e.Op, e.Last)
	}
	return fmt.Sprintf("timeout after %s waiting for %s", e.After, e.Op)
}

func (e *TimeoutError) Is(target error) bool { return target == ErrTimeout }

func (e *TimeoutError) Unwrap() error { return e.Last }

// NavigationError means a target screen never showed up
type NavigationError struct {
	Step       string
	Screenshot string
	Err        error
}

func (e *NavigationError) Error() string {
	msg := fmt.Sprintf("navigation failed at %s: %v", e.Step, e.Err)
	if e.Screenshot != "" {
		msg += fmt.Sprintf(" (screenshot: %s)", e.Screenshot)
	}
	return msg
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ConfigMissingError means the locator table lacks a required key
type ConfigMissingError struct {
	Section string
	Key     string
}

func (e *ConfigMissingError) Error() string {
	return fmt.Sprintf("locator configuration missing %s.%s", e.Section, e.Key)
}

// UnresolvedTargetError means a logical target name has no locator
type UnresolvedTargetError struct {
	Target string
}

func (e *UnresolvedTargetError) Error() string {
	return fmt.Sprintf("target %q is not mapped to a locator", e.Target)
}

// RowError aborts the extraction loop at one grid row
type RowError struct {
	Index  int
	Page   int
	Offset int
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row g=%d (page %d, offset %d): %v", e.Index, e.Page, e.Offset, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
