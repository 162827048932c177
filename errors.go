package lars

import (
	"errors"
	"fmt"
)

// Common errors returned by registry and runner operations
var (
	// ErrServiceNotFound indicates no service with the requested name exists
	ErrServiceNotFound = errors.New("lars: service not found")

	// ErrServiceAlreadyExists indicates a service with the same name is registered
	ErrServiceAlreadyExists = errors.New("lars: service already exists")

	// ErrRunnerNotAvailable indicates the backend binary is missing or the
	// requested runner kind is not implemented
	ErrRunnerNotAvailable = errors.New("lars: runner not available")

	// ErrOperationNotSupported indicates the runner lacks the requested capability
	ErrOperationNotSupported = errors.New("lars: operation not supported by runner")

	// ErrStopTimeout indicates a restart gave up waiting for the service to stop
	ErrStopTimeout = errors.New("lars: timeout waiting for service to stop")

	// ErrProcessFailed indicates an external command returned a failure status
	ErrProcessFailed = errors.New("lars: process execution failed")

	// ErrInvalidPath indicates a path contains bytes the shell cannot carry
	ErrInvalidPath = errors.New("lars: invalid path")

	// ErrConfigParse indicates the registry file holds invalid structured data
	ErrConfigParse = errors.New("lars: config parse")
)

// Validation errors rejected locally before any input reaches the store
var (
	// ErrEmptyInput indicates an empty string where content is required
	ErrEmptyInput = errors.New("lars: input cannot be empty")

	// ErrNullByte indicates input containing a null byte
	ErrNullByte = errors.New("lars: input contains null byte")

	// ErrNameCharacters indicates a name outside the allowed charset
	ErrNameCharacters = errors.New("lars: name may only contain alphanumerics, underscores, and hyphens")
)

// NameLengthError reports a service name outside the 1-64 character range
type NameLengthError struct {
	// Length is the offending name length in bytes
	Length int
}

// Error returns a formatted error message
func (e *NameLengthError) Error() string {
	return fmt.Sprintf("lars: name must be 1-%d characters, got %d", MaxNameLength, e.Length)
}

// Operation identifies which store or runner operation failed
type Operation int

const (
	// OpUnknown represents an unknown operation
	OpUnknown Operation = iota
	// OpLoad reads the registry file
	OpLoad
	// OpSave writes the registry file
	OpSave
	// OpAdd appends a service to the registry
	OpAdd
	// OpRemove deletes a service from the registry
	OpRemove
	// OpUpdate mutates a registered service
	OpUpdate
	// OpFind looks up a registered service
	OpFind
	// OpStart launches a service
	OpStart
	// OpStop kills a service's session
	OpStop
	// OpRestart stops and relaunches a service
	OpRestart
	// OpStatus queries whether a service is running
	OpStatus
	// OpPID resolves a service's process id
	OpPID
	// OpAttach builds the interactive attach command
	OpAttach
)

// Operation string constants
const (
	opUnknownStr = "unknown"
	opLoadStr    = "load"
	opSaveStr    = "save"
	opAddStr     = "add"
	opRemoveStr  = "remove"
	opUpdateStr  = "update"
	opFindStr    = "find"
	opStartStr   = "start"
	opStopStr    = "stop"
	opRestartStr = "restart"
	opStatusStr  = "status"
	opPIDStr     = "pid"
	opAttachStr  = "attach"
)

// String returns the string representation of an Operation
func (op Operation) String() string {
	switch op {
	case OpLoad:
		return opLoadStr
	case OpSave:
		return opSaveStr
	case OpAdd:
		return opAddStr
	case OpRemove:
		return opRemoveStr
	case OpUpdate:
		return opUpdateStr
	case OpFind:
		return opFindStr
	case OpStart:
		return opStartStr
	case OpStop:
		return opStopStr
	case OpRestart:
		return opRestartStr
	case OpStatus:
		return opStatusStr
	case OpPID:
		return opPIDStr
	case OpAttach:
		return opAttachStr
	default:
		return opUnknownStr
	}
}

// OpError represents a failed store or runner operation
type OpError struct {
	// Op is the operation that failed
	Op Operation
	// Name is the service name or file path involved
	Name string
	// Err is the underlying error
	Err error
}

// Error returns a formatted error message
func (e *OpError) Error() string {
	return fmt.Sprintf("lars %s %q: %v", e.Op.String(), e.Name, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *OpError) Unwrap() error {
	return e.Err
}

// MultiError aggregates failures from bulk operations over many services
type MultiError struct {
	// Errors contains all accumulated errors
	Errors []error
}

// Error returns a summary of the accumulated errors
func (m *MultiError) Error() string {
	if len(m.Errors) == 0 {
		return "no errors"
	}
	if len(m.Errors) == 1 {
		return m.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors occurred", len(m.Errors))
}

// Add appends an error to the collection if it's not nil
func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

// Err returns nil if no errors occurred, otherwise returns the MultiError itself
func (m *MultiError) Err() error {
	if len(m.Errors) == 0 {
		return nil
	}
	return m
}
