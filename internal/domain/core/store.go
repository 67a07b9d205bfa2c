package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrUserNotFound = errors.New("user not found")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = "username, first_name, last_name, role, department, active, last_login, created_at"

func (s *Store) GetByUsername(ctx context.Context, username string) (User, error) {
	var out User
	err := s.DB.QueryRow(ctx, `
    SELECT `+userColumns+`
    FROM users
    WHERE username = $1
  `, username).Scan(&out.Username, &out.FirstName, &out.LastName, &out.Role, &out.Department, &out.Active, &out.LastLogin, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrUserNotFound
	}
	if err != nil {
		return User{}, err
	}
	return out, nil
}

func (s *Store) List(ctx context.Context) ([]User, error) {
	return s.list(ctx, "WHERE active", nil)
}

func (s *Store) ListByDepartment(ctx context.Context, department string) ([]User, error) {
	return s.list(ctx, "WHERE active AND department = $1", []any{department})
}

func (s *Store) list(ctx context.Context, where string, args []any) ([]User, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+userColumns+`
    FROM users
    `+where+`
    ORDER BY last_name, first_name, username
  `, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		var user User
		if err := rows.Scan(&user.Username, &user.FirstName, &user.LastName, &user.Role, &user.Department, &user.Active, &user.LastLogin, &user.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// Department returns the department of an active user, or "" when the user
// is unknown.
func (s *Store) Department(ctx context.Context, username string) (string, error) {
	var department string
	err := s.DB.QueryRow(ctx, "SELECT department FROM users WHERE username = $1 AND active", username).Scan(&department)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return department, nil
}
