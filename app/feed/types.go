package feed

import (
	"time"
)

// Item is one normalized feed entry. The ID is generated fresh at parse time
// and is only meaningful within the session; it is not derived from content.
// Optional fields are nil when the source element is absent, never empty
// strings. Immutable after parsing.
type Item struct {
	ID        string
	Title     string
	Link      string
	Published *time.Time
	Summary   *string
	Content   *string
	Author    *string
	FetchedAt time.Time
}

// ValidationResult is the transient gate value preceding a parse attempt.
type ValidationResult struct {
	IsValid bool
	Reason  string
}

// ParseError marks a structurally invalid feed document. Parsing never
// returns partial results alongside it.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return "failed to parse feed: " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
