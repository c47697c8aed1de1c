package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"fuelshift/internal/domain/auth"
	"fuelshift/internal/platform/config"
)

var defaultShiftTypes = []struct {
	Name        string
	Description string
}{
	{"Opening", "Morning shift - opens the station"},
	{"Closing", "Evening shift - closes the station"},
	{"Morning", "Regular morning shift"},
	{"Afternoon", "Regular afternoon shift"},
	{"Evening", "Regular evening shift"},
	{"Night", "Overnight shift"},
	{"Cleaning", "Cleaning and maintenance shift"},
	{"Training", "Training shift for new employees"},
}

func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensureAdminUser(ctx, pool, cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
		return err
	}
	return ensureShiftTypes(ctx, pool)
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM users WHERE lower(email) = lower($1)", email).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role, is_active, must_change_pass)
    VALUES ($1, $2, $3, true, true)
  `, email, hash, auth.RoleAdmin)
	return err
}

func ensureShiftTypes(ctx context.Context, pool *pgxpool.Pool) error {
	for _, st := range defaultShiftTypes {
		var count int
		if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM shift_types WHERE name = $1", st.Name).Scan(&count); err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO shift_types (name, description, is_active)
      VALUES ($1, $2, true)
    `, st.Name, st.Description); err != nil {
			return err
		}
	}
	return nil
}
