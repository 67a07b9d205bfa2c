package auth

import "context"

type Service struct {
	Store *Store
}

func NewService(store *Store) *Service {
	return &Service{Store: store}
}

func (s *Service) FindByUsername(ctx context.Context, username string) (Credentials, error) {
	return s.Store.FindByUsername(ctx, username)
}

func (s *Service) UpdateLastLogin(ctx context.Context, username string) error {
	return s.Store.UpdateLastLogin(ctx, username)
}
