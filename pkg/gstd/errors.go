package gstd

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode classifies failures detected on the client side of the wire.
// Codes are negative so they never collide with daemon-assigned codes.
type ErrorCode int

// Client-side error codes.
const (
	CodeOK            ErrorCode = 0
	CodeNullArgument  ErrorCode = -1
	CodeUnreachable   ErrorCode = -2
	CodeTimeout       ErrorCode = -3
	CodeOutOfMemory   ErrorCode = -4
	CodeTypeError     ErrorCode = -5
	CodeMalformed     ErrorCode = -6
	CodeNotFound      ErrorCode = -7
	CodeSendError     ErrorCode = -8
	CodeRecvError     ErrorCode = -9
	CodeSocketError   ErrorCode = -10
	CodeThreadError   ErrorCode = -11
	CodeBusTimeout    ErrorCode = -12
	CodeSocketTimeout ErrorCode = -13
)

var errorCodeNames = map[ErrorCode]string{
	CodeOK:            "OK",
	CodeNullArgument:  "NULL_ARGUMENT",
	CodeUnreachable:   "UNREACHABLE",
	CodeTimeout:       "TIMEOUT",
	CodeOutOfMemory:   "OUT_OF_MEMORY",
	CodeTypeError:     "TYPE_ERROR",
	CodeMalformed:     "MALFORMED",
	CodeNotFound:      "NOT_FOUND",
	CodeSendError:     "SEND_ERROR",
	CodeRecvError:     "RECV_ERROR",
	CodeSocketError:   "SOCKET_ERROR",
	CodeThreadError:   "THREAD_ERROR",
	CodeBusTimeout:    "BUS_TIMEOUT",
	CodeSocketTimeout: "SOCKET_TIMEOUT",
}

// String returns the symbolic name of the code.
func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// Codes reported by gst-daemon. The daemon owns this numbering; the constants
// exist so callers can branch without magic numbers.
const (
	DaemonCodeOK                    = 0
	DaemonCodeNullArgument          = 1
	DaemonCodeInvalidArgument       = 2
	DaemonCodeOutOfMemory           = 3
	DaemonCodeBadDescription        = 4
	DaemonCodeExistingName          = 5
	DaemonCodeMissingInitialization = 6
	DaemonCodeNoPipeline            = 7
	DaemonCodeNoResource            = 8
	DaemonCodeNoCreate              = 9
	DaemonCodeExistingResource      = 10
	DaemonCodeNoUpdate              = 11
	DaemonCodeBadCommand            = 12
	DaemonCodeNoRead                = 13
	DaemonCodeNoConnection          = 14
	DaemonCodeBadValue              = 15
	DaemonCodeStateError            = 16
	DaemonCodeIPCError              = 17
	DaemonCodeEventError            = 18
	DaemonCodeMissingArgument       = 19
	DaemonCodeMissingName           = 20

	// DaemonCodeUnknown is used when a failed response carries a description
	// but no usable code.
	DaemonCodeUnknown = -1
)

// ClientError is a failure detected by the client: the daemon could not be
// reached, the exchange failed, or the reply could not be understood.
type ClientError struct {
	Code    ErrorCode `json:"code"    yaml:"code"`
	Message string    `json:"message" yaml:"message"`
	Time    time.Time `json:"time"    yaml:"time"`
	Err     error     `json:"-"       yaml:"-"`
}

// NewClientError creates a ClientError stamped with the current time.
func NewClientError(message string, code ErrorCode) *ClientError {
	return &ClientError{
		Code:    code,
		Message: message,
		Time:    time.Now(),
	}
}

// WrapClientError creates a ClientError that keeps cause for errors.Is/As.
func WrapClientError(message string, code ErrorCode, cause error) *ClientError {
	clientErr := NewClientError(message, code)
	clientErr.Err = cause

	return clientErr
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gstc: %s (%s): %v", e.Message, e.Code, e.Err)
	}

	return fmt.Sprintf("gstc: %s (%s)", e.Message, e.Code)
}

// Unwrap returns the low-level cause, if any.
func (e *ClientError) Unwrap() error {
	return e.Err
}

// DaemonError is a failure reported by the daemon itself.
type DaemonError struct {
	Code        int       `json:"code"        yaml:"code"`
	Description string    `json:"description" yaml:"description"`
	Time        time.Time `json:"time"        yaml:"time"`
}

// NewDaemonError creates a DaemonError stamped with the current time.
func NewDaemonError(description string, code int) *DaemonError {
	return &DaemonError{
		Code:        code,
		Description: description,
		Time:        time.Now(),
	}
}

// Error implements the error interface.
func (e *DaemonError) Error() string {
	return fmt.Sprintf("gstd: %s (code: %d)", e.Description, e.Code)
}

// AsClientError returns the ClientError in err's chain.
func AsClientError(err error) (*ClientError, bool) {
	clientErr := &ClientError{}
	if errors.As(err, &clientErr) {
		return clientErr, true
	}

	return nil, false
}

// AsDaemonError returns the DaemonError in err's chain.
func AsDaemonError(err error) (*DaemonError, bool) {
	daemonErr := &DaemonError{}
	if errors.As(err, &daemonErr) {
		return daemonErr, true
	}

	return nil, false
}

// IsClassified reports whether err carries one of the two classified shapes.
func IsClassified(err error) bool {
	if _, ok := AsClientError(err); ok {
		return true
	}

	_, ok := AsDaemonError(err)

	return ok
}

// IsNotFound checks if the error reports a missing pipeline, element,
// property or signal.
func IsNotFound(err error) bool {
	if daemonErr, ok := AsDaemonError(err); ok {
		return daemonErr.Code == DaemonCodeNoPipeline || daemonErr.Code == DaemonCodeNoResource
	}

	if clientErr, ok := AsClientError(err); ok {
		return clientErr.Code == CodeNotFound
	}

	return false
}

// IsConflict checks if the error reports a name that is already taken.
func IsConflict(err error) bool {
	if daemonErr, ok := AsDaemonError(err); ok {
		return daemonErr.Code == DaemonCodeExistingName || daemonErr.Code == DaemonCodeExistingResource
	}

	return false
}

// IsUnreachable checks if the daemon could not be contacted.
func IsUnreachable(err error) bool {
	if clientErr, ok := AsClientError(err); ok {
		return clientErr.Code == CodeUnreachable
	}

	return false
}

// IsTimeout checks if the request ran out of time on the client side.
func IsTimeout(err error) bool {
	if clientErr, ok := AsClientError(err); ok {
		switch clientErr.Code {
		case CodeTimeout, CodeBusTimeout, CodeSocketTimeout:
			return true
		default:
			return false
		}
	}

	return false
}

// Static errors for err113 compliance.
var (
	ErrConfigRequired     = errors.New("config is required")
	ErrInvalidAddress     = errors.New("invalid daemon address")
	ErrNoHostInURL        = errors.New("no host specified in URL")
	ErrInvalidDebugLevel  = errors.New("debug threshold must be 0-7 or 9")
	ErrEmptyArgument      = errors.New("required argument is empty")
	ErrUnexpectedResponse = errors.New("unexpected response shape")
	ErrUnknownState       = errors.New("unknown pipeline state")
)
