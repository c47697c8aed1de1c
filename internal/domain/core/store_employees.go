package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"fuelshift/internal/domain/auth"
)

type CreateEmployeeParams struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	NINumber      string
	HourlyRateA   float64
	HourlyRateB   float64
	HoursForRateA float64
	HireDate      time.Time
	Role          string
	StationIDs    []string
}

type CreateEmployeeResult struct {
	EmployeeID        string        `json:"employeeId"`
	UserID            string        `json:"userId"`
	Email             string        `json:"email"`
	Role              string        `json:"role"`
	TemporaryPassword string        `json:"temporaryPassword"`
	AssignedStations  []StationLink `json:"assignedStations"`
}

// CreateEmployeeWithUser creates the employee record, its login user and the
// station assignments in one transaction. The login starts with a temporary
// password and must_change_pass set.
func (s *Store) CreateEmployeeWithUser(ctx context.Context, p CreateEmployeeParams) (CreateEmployeeResult, error) {
	email := strings.ToLower(strings.TrimSpace(p.Email))
	role := auth.NormalizeRole(p.Role)

	var taken int
	if err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM employees WHERE lower(email) = $1) +
           (SELECT COUNT(1) FROM users WHERE lower(email) = $1)
  `, email).Scan(&taken); err != nil {
		return CreateEmployeeResult{}, err
	}
	if taken > 0 {
		return CreateEmployeeResult{}, ErrEmailTaken
	}

	stationIDs := dedupe(p.StationIDs)
	stations, err := s.activeStations(ctx, stationIDs)
	if err != nil {
		return CreateEmployeeResult{}, err
	}
	if len(stations) != len(stationIDs) {
		return CreateEmployeeResult{}, ErrInvalidStations
	}

	tempPassword, err := GenerateTempPassword()
	if err != nil {
		return CreateEmployeeResult{}, err
	}
	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return CreateEmployeeResult{}, err
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return CreateEmployeeResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	result := CreateEmployeeResult{Email: email, Role: role, TemporaryPassword: tempPassword, AssignedStations: stationLinks(stations)}

	if err := tx.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, phone, ni_number, hourly_rate_a, hourly_rate_b, hours_for_rate_a, hire_date, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,true)
    RETURNING id
  `, strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName), email, nullIfEmpty(strings.TrimSpace(p.Phone)),
		nullIfEmpty(strings.ToUpper(strings.TrimSpace(p.NINumber))), p.HourlyRateA, p.HourlyRateB, p.HoursForRateA, p.HireDate).Scan(&result.EmployeeID); err != nil {
		return CreateEmployeeResult{}, err
	}

	if err := tx.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, role, is_active, must_change_pass, employee_id)
    VALUES ($1,$2,$3,true,true,$4)
    RETURNING id
  `, email, hash, role, result.EmployeeID).Scan(&result.UserID); err != nil {
		return CreateEmployeeResult{}, err
	}

	for _, stationID := range stationIDs {
		if _, err := tx.Exec(ctx, `
      INSERT INTO employee_stations (employee_id, station_id, is_active)
      VALUES ($1,$2,true)
    `, result.EmployeeID, stationID); err != nil {
			return CreateEmployeeResult{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return CreateEmployeeResult{}, err
	}
	return result, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	var e Employee
	err := s.DB.QueryRow(ctx, `
    SELECT id, first_name, last_name, email, COALESCE(phone, ''), COALESCE(ni_number, ''),
           hourly_rate_a, hourly_rate_b, hours_for_rate_a, is_active, hire_date, created_at, updated_at
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&e.ID, &e.FirstName, &e.LastName, &e.Email, &e.Phone, &e.NINumber,
		&e.HourlyRateA, &e.HourlyRateB, &e.HoursForRateA, &e.IsActive, &e.HireDate, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrEmployeeNotFound
	}
	if err != nil {
		return Employee{}, err
	}
	return e, nil
}

func (s *Store) GetEmployeeByUserID(ctx context.Context, userID string) (EmployeeListItem, error) {
	var item EmployeeListItem
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, e.first_name, e.last_name, e.email, COALESCE(e.phone, ''), COALESCE(e.ni_number, ''),
           e.hourly_rate_a, e.hourly_rate_b, e.hours_for_rate_a, e.is_active, e.hire_date, e.created_at,
           u.id, u.role
    FROM users u
    JOIN employees e ON u.employee_id = e.id
    WHERE u.id = $1
  `, userID).Scan(&item.ID, &item.FirstName, &item.LastName, &item.Email, &item.Phone, &item.NINumber,
		&item.HourlyRateA, &item.HourlyRateB, &item.HoursForRateA, &item.IsActive, &item.HireDate, &item.CreatedAt,
		&item.UserID, &item.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeListItem{}, ErrEmployeeNotFound
	}
	if err != nil {
		return EmployeeListItem{}, err
	}

	stations, err := s.ListStationsForEmployee(ctx, item.ID, true)
	if err != nil {
		return EmployeeListItem{}, err
	}
	item.Stations = stationLinks(stations)
	return item, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]EmployeeListItem, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id, e.first_name, e.last_name, e.email, COALESCE(e.phone, ''), COALESCE(e.ni_number, ''),
           e.hourly_rate_a, e.hourly_rate_b, e.hours_for_rate_a, e.is_active, e.hire_date, e.created_at,
           COALESCE(u.id::text, ''), COALESCE(u.role, '')
    FROM employees e
    LEFT JOIN users u ON u.employee_id = e.id
    ORDER BY e.first_name, e.last_name
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []EmployeeListItem
	for rows.Next() {
		var item EmployeeListItem
		if err := rows.Scan(&item.ID, &item.FirstName, &item.LastName, &item.Email, &item.Phone, &item.NINumber,
			&item.HourlyRateA, &item.HourlyRateB, &item.HoursForRateA, &item.IsActive, &item.HireDate, &item.CreatedAt,
			&item.UserID, &item.Role); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range items {
		stations, err := s.ListStationsForEmployee(ctx, items[i].ID, true)
		if err != nil {
			return nil, err
		}
		items[i].Stations = stationLinks(stations)
	}
	return items, nil
}

type UpdateEmployeeParams struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	NINumber      string
	HourlyRateA   float64
	HourlyRateB   float64
	HoursForRateA float64
	// Admin-only fields; nil or empty means unchanged.
	Role         string
	IsActive     *bool
	StationIDs   []string
	ActorIsAdmin bool
}

// UpdateEmployeeAndUser updates the employee and its login user together.
// Station assignments are soft-disabled and re-enabled rather than deleted,
// preserving assignment history.
func (s *Store) UpdateEmployeeAndUser(ctx context.Context, userID string, p UpdateEmployeeParams) error {
	email := strings.ToLower(strings.TrimSpace(p.Email))

	var employeeID string
	err := s.DB.QueryRow(ctx, "SELECT COALESCE(employee_id::text, '') FROM users WHERE id = $1", userID).Scan(&employeeID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	if employeeID == "" {
		return ErrEmployeeNotFound
	}

	var taken int
	if err := s.DB.QueryRow(ctx, `
    SELECT (SELECT COUNT(1) FROM employees WHERE lower(email) = $1 AND id <> $2) +
           (SELECT COUNT(1) FROM users WHERE lower(email) = $1 AND id <> $3)
  `, email, employeeID, userID).Scan(&taken); err != nil {
		return err
	}
	if taken > 0 {
		return ErrEmailTaken
	}

	var stationIDs []string
	if p.ActorIsAdmin && p.StationIDs != nil {
		stationIDs = dedupe(p.StationIDs)
		if len(stationIDs) == 0 {
			return ErrInvalidStations
		}
		stations, err := s.activeStations(ctx, stationIDs)
		if err != nil {
			return err
		}
		if len(stations) != len(stationIDs) {
			return ErrInvalidStations
		}
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
    UPDATE employees
    SET first_name = $1, last_name = $2, email = $3, phone = $4, ni_number = $5,
        hourly_rate_a = $6, hourly_rate_b = $7, hours_for_rate_a = $8, updated_at = now()
    WHERE id = $9
  `, strings.TrimSpace(p.FirstName), strings.TrimSpace(p.LastName), email, nullIfEmpty(strings.TrimSpace(p.Phone)),
		nullIfEmpty(strings.ToUpper(strings.TrimSpace(p.NINumber))), p.HourlyRateA, p.HourlyRateB, p.HoursForRateA, employeeID); err != nil {
		return err
	}

	userQuery := "UPDATE users SET email = $1, updated_at = now()"
	userArgs := []any{email}
	if p.ActorIsAdmin {
		if role := auth.NormalizeRole(p.Role); role != "" {
			userArgs = append(userArgs, role)
			userQuery += ", role = $2"
		}
		if p.IsActive != nil {
			userArgs = append(userArgs, *p.IsActive)
			userQuery += ", is_active = $" + itoa(len(userArgs))
		}
	}
	userArgs = append(userArgs, userID)
	userQuery += " WHERE id = $" + itoa(len(userArgs))
	if _, err := tx.Exec(ctx, userQuery, userArgs...); err != nil {
		return err
	}

	if stationIDs != nil {
		if _, err := tx.Exec(ctx, `
      UPDATE employee_stations SET is_active = false, updated_at = now() WHERE employee_id = $1
    `, employeeID); err != nil {
			return err
		}
		for _, stationID := range stationIDs {
			if _, err := tx.Exec(ctx, `
        INSERT INTO employee_stations (employee_id, station_id, is_active)
        VALUES ($1,$2,true)
        ON CONFLICT (employee_id, station_id) DO UPDATE SET is_active = true, updated_at = now()
      `, employeeID, stationID); err != nil {
				return err
			}
		}
	}

	return tx.Commit(ctx)
}

type ResetPasswordResult struct {
	EmployeeID        string `json:"employeeId"`
	UserID            string `json:"userId"`
	Email             string `json:"email"`
	TemporaryPassword string `json:"temporaryPassword"`
	MustChangePass    bool   `json:"mustChangePass"`
}

func (s *Store) ResetEmployeePassword(ctx context.Context, employeeID string) (ResetPasswordResult, error) {
	var result ResetPasswordResult
	err := s.DB.QueryRow(ctx, `
    SELECT e.id, u.id, u.email
    FROM employees e
    JOIN users u ON u.employee_id = e.id
    WHERE e.id = $1
  `, employeeID).Scan(&result.EmployeeID, &result.UserID, &result.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return ResetPasswordResult{}, ErrEmployeeNotFound
	}
	if err != nil {
		return ResetPasswordResult{}, err
	}

	tempPassword, err := GenerateTempPassword()
	if err != nil {
		return ResetPasswordResult{}, err
	}
	hash, err := auth.HashPassword(tempPassword)
	if err != nil {
		return ResetPasswordResult{}, err
	}

	if _, err := s.DB.Exec(ctx, `
    UPDATE users SET password_hash = $1, must_change_pass = true, updated_at = now() WHERE id = $2
  `, hash, result.UserID); err != nil {
		return ResetPasswordResult{}, err
	}

	result.TemporaryPassword = tempPassword
	result.MustChangePass = true
	return result, nil
}

func (s *Store) ListUsersWithEmployee(ctx context.Context) ([]UserAccount, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT u.id, u.email, u.role, u.is_active, COALESCE(u.employee_id::text, ''), u.created_at, u.last_login_at,
           COALESCE(e.first_name, ''), COALESCE(e.last_name, '')
    FROM users u
    LEFT JOIN employees e ON u.employee_id = e.id
    ORDER BY u.email
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []UserAccount
	for rows.Next() {
		var account UserAccount
		if err := rows.Scan(&account.ID, &account.Email, &account.Role, &account.IsActive, &account.EmployeeID,
			&account.CreatedAt, &account.LastLoginAt, &account.FirstName, &account.LastName); err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

func stationLinks(stations []Station) []StationLink {
	links := make([]StationLink, 0, len(stations))
	for _, st := range stations {
		links = append(links, StationLink{StationID: st.ID, Code: st.Code, Name: st.Name})
	}
	return links
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
