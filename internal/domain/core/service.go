package core

import "context"

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

func (s *Service) GetByUsername(ctx context.Context, username string) (User, error) {
	return s.store.GetByUsername(ctx, username)
}

func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.store.List(ctx)
}

func (s *Service) ListByDepartment(ctx context.Context, department string) ([]User, error) {
	return s.store.ListByDepartment(ctx, department)
}

func (s *Service) Department(ctx context.Context, username string) (string, error) {
	return s.store.Department(ctx, username)
}

// AcceptorChoices lists the colleagues a user may name as shift change
// acceptor: same department, excluding the user themself.
func (s *Service) AcceptorChoices(ctx context.Context, username string) ([]User, error) {
	department, err := s.store.Department(ctx, username)
	if err != nil {
		return nil, err
	}
	if department == "" {
		return []User{}, nil
	}

	colleagues, err := s.store.ListByDepartment(ctx, department)
	if err != nil {
		return nil, err
	}

	out := make([]User, 0, len(colleagues))
	for _, user := range colleagues {
		if user.Username == username {
			continue
		}
		out = append(out, user)
	}
	return out, nil
}
