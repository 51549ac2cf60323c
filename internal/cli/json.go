package cli

import (
	"io"

	"github.com/elwarren/meshtastic-menubar/internal/errors"
)

// JSONEnvelope wraps command output in a consistent structure for machine parsing.
type JSONEnvelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *JSONError `json:"error,omitempty"`
}

// JSONError provides structured error information for machine parsing.
type JSONError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ErrCodeUnknown is used for errors without a code.
const ErrCodeUnknown = "UNKNOWN"

// WriteJSONSuccess writes a successful response with data to the writer.
func WriteJSONSuccess(w io.Writer, data any) error {
	return writeJSON(w, JSONEnvelope{Success: true, Data: data})
}

// WriteJSONFromError converts a Go error to a JSON error response.
func WriteJSONFromError(w io.Writer, err error) error {
	return writeJSON(w, JSONEnvelope{Success: false, Error: ErrorToJSON(err)})
}

// ErrorToJSON converts a Go error to a JSONError, keeping the code of
// structured errors.
func ErrorToJSON(err error) *JSONError {
	if err == nil {
		return nil
	}

	var mmErr *errors.Error
	if errors.As(err, &mmErr) {
		return &JSONError{
			Code:       mmErr.Code,
			Message:    mmErr.Message,
			Suggestion: mmErr.Suggestion,
		}
	}

	return &JSONError{Code: ErrCodeUnknown, Message: err.Error()}
}
