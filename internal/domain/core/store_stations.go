package core

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListStations(ctx context.Context, includeInactive bool) ([]Station, error) {
	query := `
    SELECT id, code, name, COALESCE(address, ''), is_active, created_at, updated_at
    FROM stations
  `
	if !includeInactive {
		query += " WHERE is_active = true"
	}
	query += " ORDER BY code"

	rows, err := s.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.Address, &st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

// ListStationsForEmployee returns the stations assigned to an employee.
// When activeOnly is set, inactive stations and disabled assignments are
// filtered out.
func (s *Store) ListStationsForEmployee(ctx context.Context, employeeID string, activeOnly bool) ([]Station, error) {
	query := `
    SELECT st.id, st.code, st.name, COALESCE(st.address, ''), st.is_active, st.created_at, st.updated_at
    FROM employee_stations es
    JOIN stations st ON es.station_id = st.id
    WHERE es.employee_id = $1
  `
	if activeOnly {
		query += " AND es.is_active = true AND st.is_active = true"
	}
	query += " ORDER BY st.code"

	rows, err := s.DB.Query(ctx, query, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.Address, &st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

// ActiveStationIDsForEmployee is used to scope shift listings for
// non-elevated users to their own stations.
func (s *Store) ActiveStationIDsForEmployee(ctx context.Context, employeeID string) ([]string, error) {
	stations, err := s.ListStationsForEmployee(ctx, employeeID, true)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(stations))
	for _, st := range stations {
		ids = append(ids, st.ID)
	}
	return ids, nil
}

func (s *Store) CreateStation(ctx context.Context, code, name, address string) (Station, error) {
	var st Station
	err := s.DB.QueryRow(ctx, `
    INSERT INTO stations (code, name, address, is_active)
    VALUES ($1,$2,$3,true)
    RETURNING id, code, name, COALESCE(address, ''), is_active, created_at, updated_at
  `, strings.ToUpper(strings.TrimSpace(code)), strings.TrimSpace(name), nullIfEmpty(strings.TrimSpace(address))).
		Scan(&st.ID, &st.Code, &st.Name, &st.Address, &st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	return st, err
}

func (s *Store) UpdateStation(ctx context.Context, id, code, name, address string) (Station, error) {
	var st Station
	err := s.DB.QueryRow(ctx, `
    UPDATE stations
    SET code = $1, name = $2, address = $3, updated_at = now()
    WHERE id = $4
    RETURNING id, code, name, COALESCE(address, ''), is_active, created_at, updated_at
  `, strings.ToUpper(strings.TrimSpace(code)), strings.TrimSpace(name), nullIfEmpty(strings.TrimSpace(address)), id).
		Scan(&st.ID, &st.Code, &st.Name, &st.Address, &st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Station{}, ErrStationNotFound
	}
	return st, err
}

func (s *Store) ToggleStationStatus(ctx context.Context, id string) (Station, error) {
	var st Station
	err := s.DB.QueryRow(ctx, `
    UPDATE stations
    SET is_active = NOT is_active, updated_at = now()
    WHERE id = $1
    RETURNING id, code, name, COALESCE(address, ''), is_active, created_at, updated_at
  `, id).Scan(&st.ID, &st.Code, &st.Name, &st.Address, &st.IsActive, &st.CreatedAt, &st.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Station{}, ErrStationNotFound
	}
	return st, err
}

func (s *Store) activeStations(ctx context.Context, ids []string) ([]Station, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id, code, name, COALESCE(address, ''), is_active, created_at, updated_at
    FROM stations
    WHERE id = ANY($1) AND is_active = true
  `, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stations []Station
	for rows.Next() {
		var st Station
		if err := rows.Scan(&st.ID, &st.Code, &st.Name, &st.Address, &st.IsActive, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, err
		}
		stations = append(stations, st)
	}
	return stations, rows.Err()
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
