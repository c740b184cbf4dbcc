package access

type Status string

const (
	StatusAccessible   Status = "accessible"
	StatusPaywalled    Status = "paywalled"
	StatusInsufficient Status = "insufficient"
	StatusFetchError   Status = "fetch_error"
)

// Tier labels recorded in Result.TierUsed.
const (
	TierStatic   = "static"
	TierRendered = "rendered"
)

// Result is the outcome of one accessibility check.
type Result struct {
	Status        Status
	ContentLength int // rune count of the winning text
	RawText       string
	Reason        string
	TierUsed      string
}
