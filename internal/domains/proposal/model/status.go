package model

// Status is the proposal lifecycle value. The set is closed: the database
// column is free text for historical reasons, but application code only ever
// writes the constants below.
type Status string

const (
	StatusSubmitted                  Status = "Proposal Submitted"
	StatusAwaitingRentalApplication  Status = "Awaiting Rental Application"
	StatusPendingConfirmation        Status = "Pending Confirmation"
	StatusHostReview                 Status = "Host Review"
	StatusHostCounterofferSubmitted  Status = "Host Counteroffer Submitted"
	StatusHostApproved               Status = "Host Approved"
	StatusDocumentsSentForReview     Status = "Lease Documents Sent for Review"
	StatusDocumentsSentForSignatures Status = "Lease Documents Sent for Signatures"
	StatusSignedAwaitingPayment      Status = "Lease Documents Signed - Awaiting Initial Payment"
	StatusInitialPaymentSubmitted    Status = "Initial Payment Submitted"

	StatusCancelledByGuest      Status = "Cancelled by Guest"
	StatusCancelledBySplitLease Status = "Cancelled by Split Lease"
	StatusRejectedByHost        Status = "Rejected by Host"
)

// usualOrders ranks the normal-flow statuses for stage-threshold comparisons.
// Terminal statuses sit outside the order. Several early statuses share rank 0
// on purpose: the rank only moves once the rental application is in.
var usualOrders = map[Status]int{
	StatusSubmitted:                  0,
	StatusAwaitingRentalApplication:  0,
	StatusPendingConfirmation:        0,
	StatusHostReview:                 1,
	StatusHostCounterofferSubmitted:  2,
	StatusHostApproved:               3,
	StatusDocumentsSentForReview:     4,
	StatusDocumentsSentForSignatures: 5,
	StatusSignedAwaitingPayment:      6,
	StatusInitialPaymentSubmitted:    7,
}

var terminals = map[Status]bool{
	StatusCancelledByGuest:      true,
	StatusCancelledBySplitLease: true,
	StatusRejectedByHost:        true,
}

// allowedTransitions encodes the lifecycle graph: forward progression plus the
// counteroffer loop, guest/ops cancellation, and host rejection.
var allowedTransitions = map[Status]map[Status]bool{
	StatusSubmitted: {
		StatusAwaitingRentalApplication: true,
		StatusCancelledByGuest:          true,
		StatusRejectedByHost:            true,
	},
	StatusAwaitingRentalApplication: {
		StatusPendingConfirmation: true,
		StatusCancelledByGuest:    true,
		StatusRejectedByHost:      true,
	},
	StatusPendingConfirmation: {
		StatusHostReview:            true,
		StatusCancelledByGuest:      true,
		StatusCancelledBySplitLease: true,
		StatusRejectedByHost:        true,
	},
	StatusHostReview: {
		StatusHostCounterofferSubmitted: true,
		StatusHostApproved:              true,
		StatusCancelledByGuest:          true,
		StatusCancelledBySplitLease:     true,
		StatusRejectedByHost:            true,
	},
	StatusHostCounterofferSubmitted: {
		StatusHostReview:       true,
		StatusHostApproved:     true,
		StatusCancelledByGuest: true,
		StatusRejectedByHost:   true,
	},
	StatusHostApproved: {
		StatusDocumentsSentForReview: true,
		StatusCancelledByGuest:       true,
		StatusCancelledBySplitLease:  true,
	},
	StatusDocumentsSentForReview: {
		StatusDocumentsSentForSignatures: true,
		StatusCancelledByGuest:           true,
		StatusCancelledBySplitLease:      true,
	},
	StatusDocumentsSentForSignatures: {
		StatusSignedAwaitingPayment: true,
		StatusCancelledByGuest:      true,
		StatusCancelledBySplitLease: true,
	},
	StatusSignedAwaitingPayment: {
		StatusInitialPaymentSubmitted: true,
		StatusCancelledBySplitLease:   true,
	},
	StatusInitialPaymentSubmitted:  {},
	StatusCancelledByGuest:         {},
	StatusCancelledBySplitLease:    {},
	StatusRejectedByHost:           {},
}

// ParseStatus reports whether s is a known lifecycle value. Unknown values are
// not an error at read time (old rows may carry retired literals); callers that
// mutate state reject them, callers that render degrade to pending.
func ParseStatus(s string) (Status, bool) {
	status := Status(s)

	if _, ok := usualOrders[status]; ok {
		return status, true
	}

	if terminals[status] {
		return status, true
	}

	return "", false
}

// UsualOrder returns the stage rank for a normal-flow status. Terminal and
// unknown statuses rank 0: they never advance the stage thresholds.
func (s Status) UsualOrder() int {
	return usualOrders[s]
}

// IsTerminal reports whether s is an absorbing cancelled/rejected state.
func (s Status) IsTerminal() bool {
	return terminals[s]
}

// CanTransition reports whether the lifecycle graph allows from → to.
func CanTransition(from, to Status) bool {
	next, ok := allowedTransitions[from]
	if !ok {
		return false
	}

	return next[to]
}
