package orders

import (
	"errors"
	"fmt"
	"strings"
)

// User-facing messages.
const (
	MsgEmptySelection  = "Please select at least one product"
	MsgNothingResolved = "None of the selected products are available"
	MsgCreateFailed    = "Failed to create order"
)

// ValidationError is a user-correctable problem with a submission. No
// transaction is attempted when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// RemoteFieldError is the first userErrors entry returned by the remote platform.
type RemoteFieldError struct {
	Field   []string
	Message string
}

func (e *RemoteFieldError) Error() string {
	if len(e.Field) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", strings.Join(e.Field, "."), e.Message)
}

// TransportError means the remote call itself failed or returned a response
// that does not match the expected shape.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage converts a workflow error into the single message shown to the user.
// Validation and remote field errors pass through verbatim; everything else is generic.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var rfe *RemoteFieldError
	if errors.As(err, &rfe) {
		return rfe.Message
	}
	return MsgCreateFailed
}

// IsUserError reports whether err is something the user can correct
// (as opposed to an operational failure).
func IsUserError(err error) bool {
	var ve *ValidationError
	var rfe *RemoteFieldError
	return errors.As(err, &ve) || errors.As(err, &rfe)
}
