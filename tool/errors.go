package tool

import "fmt"

// ErrToolNotFound is returned when a tool call references an unregistered tool.
type ErrToolNotFound struct {
	Name string
}

// Error returns a formatted error message including the tool name.
func (e *ErrToolNotFound) Error() string {
	return fmt.Sprintf("tool: not found: %s", e.Name)
}

// ErrInvalidArguments is returned when a call's JSON arguments do not
// decode into the tool's argument struct.
type ErrInvalidArguments struct {
	Name string
	Err  error
}

func (e *ErrInvalidArguments) Error() string {
	return fmt.Sprintf("tool: invalid arguments for %s: %v", e.Name, e.Err)
}

func (e *ErrInvalidArguments) Unwrap() error {
	return e.Err
}

// ErrToolAlreadyRegistered is returned when registering a tool with a duplicate name.
type ErrToolAlreadyRegistered struct {
	Name string
}

// Error returns a formatted error message including the duplicate tool name.
func (e *ErrToolAlreadyRegistered) Error() string {
	return fmt.Sprintf("tool: already registered: %s", e.Name)
}
