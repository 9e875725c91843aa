package errors

import (
	stderrors "errors"
	"fmt"
	"os"
	"strings"
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeMalformedInput  ErrorType = "MalformedInput"
	ErrorTypeIO              ErrorType = "IO"
	ErrorTypeNotFound        ErrorType = "NotFound"
	ErrorTypeCorruptSnapshot ErrorType = "CorruptSnapshot"
	ErrorTypeConfiguration   ErrorType = "Configuration"
	ErrorTypeUsage           ErrorType = "Usage"
)

// DriftError represents a user-friendly error with actionable guidance
type DriftError struct {
	Type        ErrorType
	Message     string
	Path        string
	Cause       string
	Solutions   []string
	Help        string
	Environment string
	Err         error
}

// Error implements the error interface
func (e *DriftError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if e.Path != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes the underlying error
func (e *DriftError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches another DriftError by type, so sentinel kinds work with errors.Is
func (e *DriftError) Is(target error) bool {
	t, ok := target.(*DriftError)
	if !ok || e == nil || t == nil {
		return false
	}
	return t.Type == e.Type && t.Message == "" && t.Path == ""
}

// Format implements fmt.Formatter for custom formatting
func (e *DriftError) Format(f fmt.State, verb rune) {
	switch verb {
	case 's':
		fmt.Fprint(f, e.Error())
	case 'v':
		if f.Flag('+') {
			fmt.Fprintf(f, "[%s] %s", e.Type, e.Error())
		} else {
			fmt.Fprint(f, e.Error())
		}
	case 'q':
		fmt.Fprintf(f, "%q", e.Error())
	}
}

// Sentinel kinds for errors.Is
var (
	ErrMalformedInput  = &DriftError{Type: ErrorTypeMalformedInput}
	ErrIO              = &DriftError{Type: ErrorTypeIO}
	ErrNotFound        = &DriftError{Type: ErrorTypeNotFound}
	ErrCorruptSnapshot = &DriftError{Type: ErrorTypeCorruptSnapshot}
)

// New creates a new DriftError
func New(errType ErrorType, message string) *DriftError {
	return &DriftError{
		Type:        errType,
		Message:     message,
		Environment: detectEnvironment(),
	}
}

// Wrap creates a DriftError around an underlying error
func Wrap(errType ErrorType, message string, err error) *DriftError {
	e := New(errType, message)
	e.Err = err
	return e
}

// WithPath records the file or location involved
func (e *DriftError) WithPath(path string) *DriftError {
	e.Path = path
	return e
}

// WithCause adds cause information
func (e *DriftError) WithCause(cause string) *DriftError {
	e.Cause = cause
	return e
}

// WithSolutions adds solution steps
func (e *DriftError) WithSolutions(solutions ...string) *DriftError {
	e.Solutions = append(e.Solutions, solutions...)
	return e
}

// WithHelp adds help command
func (e *DriftError) WithHelp(help string) *DriftError {
	e.Help = help
	return e
}

// detectEnvironment detects the current environment
func detectEnvironment() string {
	ciVars := []string{"CI", "CONTINUOUS_INTEGRATION", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_HOME"}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return "CI/CD detected"
		}
	}
	return ""
}

// InCI reports whether the process runs under a CI/CD system
func InCI() bool {
	return detectEnvironment() != ""
}

// TypeOf returns the ErrorType of the first DriftError in the chain
func TypeOf(err error) (ErrorType, bool) {
	var driftErr *DriftError
	if stderrors.As(err, &driftErr) {
		return driftErr.Type, true
	}
	return "", false
}

func isType(err error, errType ErrorType) bool {
	t, ok := TypeOf(err)
	return ok && t == errType
}

// IsMalformedInput reports whether err is a MalformedInputError
func IsMalformedInput(err error) bool { return isType(err, ErrorTypeMalformedInput) }

// IsIO reports whether err is an IOError
func IsIO(err error) bool { return isType(err, ErrorTypeIO) }

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool { return isType(err, ErrorTypeNotFound) }

// IsCorruptSnapshot reports whether err is a CorruptSnapshotError
func IsCorruptSnapshot(err error) bool { return isType(err, ErrorTypeCorruptSnapshot) }

// GetExitCode returns appropriate exit code for error type
func GetExitCode(err error) int {
	errType, ok := TypeOf(err)
	if !ok {
		return 1
	}

	switch errType {
	case ErrorTypeMalformedInput, ErrorTypeCorruptSnapshot:
		return 65 // EX_DATAERR
	case ErrorTypeNotFound:
		return 66 // EX_NOINPUT
	case ErrorTypeIO:
		return 74 // EX_IOERR
	case ErrorTypeConfiguration:
		return 78 // EX_CONFIG
	case ErrorTypeUsage:
		return 64 // EX_USAGE
	default:
		return 1
	}
}

func describe(err error) string {
	if err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}
