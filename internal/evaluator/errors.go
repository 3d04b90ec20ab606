package evaluator

import (
	"errors"
	"fmt"
	"strings"
)

// RuntimeError is a user-visible evaluation error.
type RuntimeError struct {
	Message    string
	StackTrace []StackFrame
	Err        error
}

// StackFrame for error stack traces
type StackFrame struct {
	Name string
}

func (e *RuntimeError) Error() string {
	if len(e.StackTrace) == 0 {
		return e.Message
	}
	var out strings.Builder
	out.WriteString(e.Message)
	out.WriteString("\nStack trace:")
	// innermost first
	for i := len(e.StackTrace) - 1; i >= 0; i-- {
		out.WriteString("\n  at ")
		out.WriteString(e.StackTrace[i].Name)
	}
	return out.String()
}

func (e *RuntimeError) Unwrap() error { return e.Err }

// newError creates an error carrying the current stack trace. A %w verb
// in format makes the operand available to errors.Is and errors.As.
func (e *Evaluator) newError(format string, a ...interface{}) *RuntimeError {
	wrapped := fmt.Errorf(format, a...)
	err := &RuntimeError{Message: wrapped.Error(), Err: errors.Unwrap(wrapped)}

	if len(e.CallStack) > 0 {
		err.StackTrace = make([]StackFrame, len(e.CallStack))
		for i, frame := range e.CallStack {
			err.StackTrace[i] = StackFrame{Name: frame.Name}
		}
	}
	return err
}

// PushCall adds a call frame to the stack
func (e *Evaluator) PushCall(name string) {
	e.CallStack = append(e.CallStack, CallFrame{Name: name})
}

// PopCall removes the top call frame
func (e *Evaluator) PopCall() {
	if len(e.CallStack) > 0 {
		e.CallStack = e.CallStack[:len(e.CallStack)-1]
	}
}
