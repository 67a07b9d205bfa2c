package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"intranet/internal/domain/auth"
	"intranet/internal/platform/config"
)

// Seed ensures the configured manager account exists so a fresh deployment
// can be logged into. Idempotent: existing accounts are left untouched.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	return ensureUser(ctx, pool, cfg.SeedManagerUsername, cfg.SeedManagerPassword, auth.RoleManager, cfg.SeedDepartment)
}

func ensureUser(ctx context.Context, pool *pgxpool.Pool, username, password, role, department string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return nil
	}

	var existing string
	err := pool.QueryRow(ctx, "SELECT username FROM users WHERE username = $1", username).Scan(&existing)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (username, password_hash, first_name, last_name, role, department, active)
    VALUES ($1, $2, '', '', $3, $4, true)
  `, username, hash, role, department)
	return err
}
