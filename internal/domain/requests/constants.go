package requests

type Kind string

const (
	KindPermission  Kind = "permission"
	KindVacation    Kind = "vacation"
	KindShiftChange Kind = "shift_change"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusModified = "modified"
)

// VacationDayCap is the soft threshold on cumulative active vacation days
// per user. Exceeding it requires an explicit confirmation, it never blocks
// on its own.
const VacationDayCap = 31
