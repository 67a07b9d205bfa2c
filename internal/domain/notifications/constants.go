package notifications

const (
	TypeRequestSubmitted = "request_submitted"
	TypeRequestApproved  = "request_approved"
	TypeRequestRejected  = "request_rejected"
	TypeRequestModified  = "request_modified"
	TypeRequestReplaced  = "request_replaced"
	TypeShiftChangeAsked = "shift_change_asked"
)
