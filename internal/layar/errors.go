package layar

import "fmt"

// Protocol error codes folded into the response body. Layar reserves the
// 20-29 range for layer-defined failures.
const (
	CodeOK           = 0
	CodeBadHash      = 20
	CodeNoSuchLayer  = 21
	CodeLayerFailure = 22
)

// ProtocolError is a captured failure: it becomes errorCode/errorString in an
// otherwise success-shaped response body, never a transport-level error.
type ProtocolError struct {
	Code    int
	Message string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("layar error %d: %s", e.Code, e.Message)
}

func Errf(code int, format string, args ...any) *ProtocolError {
	return &ProtocolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// BadRequestError is transport-fatal: a required parameter is missing or a
// parameter failed to parse as its expected type. It aborts the request
// before any pipeline logic runs.
type BadRequestError struct {
	Param string
	Err   error
}

func (e *BadRequestError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid parameter %s: %v", e.Param, e.Err)
	}
	return "missing required parameter: " + e.Param
}

func (e *BadRequestError) Unwrap() error { return e.Err }
