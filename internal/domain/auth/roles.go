package auth

const (
	RoleWorker  = "worker"
	RoleManager = "manager"
)

// UserContext is the authenticated identity carried through request context
// after the JWT middleware has run.
type UserContext struct {
	Username   string
	Role       string
	Department string
}
