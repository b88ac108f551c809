package pulsebridge

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
)

// RequestError is returned for every failed dispatch: network errors, timeouts
// and non-2xx responses alike. Payload holds the structured body of the failed
// response, or nil when the server sent none.
type RequestError struct {
	Provider   string
	URL        string
	StatusCode int // 0 when no response was received
	Payload    json.RawMessage
	cause      error
}

func (e *RequestError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("request to %s failed: %v", e.URL, e.cause)
	}
	if len(e.Payload) > 0 {
		return fmt.Sprintf("request to %s failed with status %d: %s", e.URL, e.StatusCode, string(e.Payload))
	}
	return fmt.Sprintf("request to %s failed with status %d", e.URL, e.StatusCode)
}

// Cause satisfies github.com/pkg/errors causer.
func (e *RequestError) Cause() error {
	return e.cause
}

func (e *RequestError) Unwrap() error {
	return e.cause
}

// DecodePayload unmarshals the error payload into v.
func (e *RequestError) DecodePayload(v interface{}) error {
	if len(e.Payload) == 0 {
		return errors.New("request error carries no payload")
	}
	return json.Unmarshal(e.Payload, v)
}

// AsRequestError reports whether err is, or wraps, a *RequestError.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// errorPayload extracts the structured payload of a failed response body.
// JSON bodies are kept verbatim, anything else is carried as a JSON string.
func errorPayload(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		out := make(json.RawMessage, len(body))
		copy(out, body)
		return out
	}
	encoded, err := json.Marshal(string(body))
	if err != nil {
		return nil
	}
	return encoded
}
