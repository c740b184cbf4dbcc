package extractor

import (
	"time"
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusPaywall Status = "paywall"
	StatusTimeout Status = "timeout"
)

// Extraction methods. A result is produced by exactly one tier, never a
// blend of both.
const (
	MethodReadability  = "readability"
	MethodHTMLFallback = "html_fallback"
)

// Article is the outcome of one extraction attempt. Per-URL failure is
// expected and frequent, so failure lives here as data rather than as a
// returned error. Immutable after construction.
type Article struct {
	URL      string
	Title    *string
	Text     *string
	Author   *string
	Date     *time.Time
	Source   *string
	Language *string
	Status   Status
	Error    string
	Method   string
}
