package applications

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// IsTerminalStatus reports whether a status ends the review lifecycle.
func IsTerminalStatus(s string) bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransition reports whether a review may move an application from its
// current status to the requested one. The lifecycle is forward-only: the
// only legal moves are pending to approved and pending to rejected.
func CanTransition(current, next string) bool {
	return current == StatusPending && IsTerminalStatus(next)
}
