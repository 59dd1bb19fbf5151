package commerce

import "fmt"

// RemoteError is a non-2xx answer from the commerce API. Message carries the
// server's own error text when the body had one, so handlers can surface it
// verbatim. The operation stays retryable by re-invoking the user action;
// nothing retries automatically.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("commerce api: %s (status %d)", e.Message, e.StatusCode)
}
