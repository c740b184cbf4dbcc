package fetcher

import (
	"fmt"
	"net/http"
)

// Response carries a completed HTTP exchange. Ephemeral, one per call.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// FetchError is the terminal failure of a fetch: either a client error that
// was never retried, or a transient failure that exhausted its retries.
type FetchError struct {
	URL        string
	StatusCode int // 0 when the failure was a network error
	Attempts   int
	Err        error
	retryable  bool
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: HTTP %d after %d attempt(s)", e.URL, e.StatusCode, e.Attempts)
	}
	return fmt.Sprintf("fetch %s: %v after %d attempt(s)", e.URL, e.Err, e.Attempts)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Temporary reports whether the underlying failure class was transient.
// Terminal 4xx responses return false; 5xx and network failures return true
// even though the retry budget is already spent.
func (e *FetchError) Temporary() bool {
	return e.retryable
}
