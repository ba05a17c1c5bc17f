package render

import (
	"errors"
	"fmt"
)

var (
	// ErrNoResult is returned when rendering completed without producing
	// any bytes.
	ErrNoResult = errors.New("can not render source")

	// ErrPending is returned by Future.Result before the render finishes.
	ErrPending = errors.New("render is still in progress")

	// ErrInvalidRequest wraps request validation failures.
	ErrInvalidRequest = errors.New("invalid render request")
)

// TemplateLoadError reports a template that could not be turned into a
// visual tree.
type TemplateLoadError struct {
	Reason string
	Err    error
}

func (e *TemplateLoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to load template: %s: %v", e.Reason, e.Err)
	}
	return "failed to load template: " + e.Reason
}

func (e *TemplateLoadError) Unwrap() error { return e.Err }

// RenderFailure reports an error raised after the template was loaded.
type RenderFailure struct {
	// Stage is the pipeline state the error was raised in.
	Stage State
	Err   error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("render failed while %s: %v", e.Stage.activity(), e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }
