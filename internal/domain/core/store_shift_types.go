package core

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListShiftTypes(ctx context.Context) ([]ShiftType, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, name, COALESCE(description, ''), is_active, created_at, updated_at
    FROM shift_types
    ORDER BY name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []ShiftType
	for rows.Next() {
		var st ShiftType
		if err := rows.Scan(&st.ID, &st.Name, &st.Description, &st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		types = append(types, st)
	}
	return types, rows.Err()
}

func (s *Store) CreateShiftType(ctx context.Context, name, description string) (ShiftType, error) {
	var st ShiftType
	err := s.DB.QueryRow(ctx, `
    INSERT INTO shift_types (name, description, is_active)
    VALUES ($1,$2,true)
    RETURNING id, name, COALESCE(description, ''), is_active, created_at, updated_at
  `, strings.TrimSpace(name), nullIfEmpty(strings.TrimSpace(description))).
		Scan(&st.ID, &st.Name, &st.Description, &st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}

func (s *Store) UpdateShiftType(ctx context.Context, id, name, description string, isActive bool) (ShiftType, error) {
	var st ShiftType
	err := s.DB.QueryRow(ctx, `
    UPDATE shift_types
    SET name = $1, description = $2, is_active = $3, updated_at = now()
    WHERE id = $4
    RETURNING id, name, COALESCE(description, ''), is_active, created_at, updated_at
  `, strings.TrimSpace(name), nullIfEmpty(strings.TrimSpace(description)), isActive, id).
		Scan(&st.ID, &st.Name, &st.Description, &st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ShiftType{}, ErrShiftTypeNotFound
	}
	return st, err
}
