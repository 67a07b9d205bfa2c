package requests

import "context"

// ListScope restricts a listing to what the viewer may see: workers their
// own requests (plus shift changes naming them as acceptor), managers every
// request owned by their department.
type ListScope struct {
	Viewer      string
	Department  string
	ManagerView bool
}

type StoreAPI interface {
	CreatePermission(ctx context.Context, payload PermissionPayload) (Request, error)
	CreateVacation(ctx context.Context, payload VacationPayload) (Request, error)
	CreateShiftChange(ctx context.Context, payload ShiftChangePayload) (Request, error)
	Get(ctx context.Context, kind Kind, id string) (Request, error)
	Update(ctx context.Context, req Request) error
	Delete(ctx context.Context, kind Kind, id string) error
	List(ctx context.Context, kind Kind, scope ListScope) ([]Request, error)
	ListActiveVacations(ctx context.Context, user string) ([]Request, error)
	AddHidden(ctx context.Context, kind Kind, id, user string) error
}
