package auth

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Credentials struct {
	Username   string
	Password   string
	Role       string
	Department string
}

func (s *Store) FindByUsername(ctx context.Context, username string) (Credentials, error) {
	var out Credentials
	err := s.DB.QueryRow(ctx, `
    SELECT username, password_hash, role, department
    FROM users
    WHERE username = $1 AND active
  `, username).Scan(&out.Username, &out.Password, &out.Role, &out.Department)
	return out, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, username string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE username = $1", username)
	return err
}
