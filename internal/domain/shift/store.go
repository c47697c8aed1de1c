package shift

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type CreateParams struct {
	EmployeeID  string
	StationID   string
	ShiftTypeID string
	Date        time.Time
	TimeIn      string
	TimeOut     string
	TotalHours  float64
	HourlyRate  float64
	Notes       string
}

func (s *Store) Create(ctx context.Context, p CreateParams) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO employee_shifts (employee_id, station_id, shift_type_id, date, time_in, time_out, total_hours, hourly_rate, status, notes)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
    RETURNING id
  `, p.EmployeeID, p.StationID, p.ShiftTypeID, p.Date, p.TimeIn, p.TimeOut, p.TotalHours, p.HourlyRate, StatusPending, nullIfEmpty(p.Notes)).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GetForUpdateTx reads the shift row with a row lock, so the transition
// decision always sees the current status even under racing requests.
func (s *Store) GetForUpdateTx(ctx context.Context, tx pgx.Tx, shiftID string) (Shift, error) {
	var out Shift
	var status string
	err := tx.QueryRow(ctx, `
    SELECT id, employee_id, station_id, shift_type_id, date,
           to_char(time_in, 'HH24:MI'), to_char(time_out, 'HH24:MI'),
           total_hours, hourly_rate, status, approved_at, COALESCE(notes, ''), created_at
    FROM employee_shifts
    WHERE id = $1
    FOR UPDATE
  `, shiftID).Scan(&out.ID, &out.EmployeeID, &out.StationID, &out.ShiftTypeID, &out.Date,
		&out.TimeIn, &out.TimeOut, &out.TotalHours, &out.HourlyRate, &status, &out.ApprovedAt, &out.Notes, &out.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Shift{}, ErrShiftNotFound
	}
	if err != nil {
		return Shift{}, err
	}
	out.Status = Status(status)
	return out, nil
}

func (s *Store) UpdateStatusTx(ctx context.Context, tx pgx.Tx, shiftID string, decision Decision, now time.Time) error {
	if decision.StampApproval {
		_, err := tx.Exec(ctx, `
      UPDATE employee_shifts SET status = $1, approved_at = $2, updated_at = now() WHERE id = $3
    `, string(decision.Next), now, shiftID)
		return err
	}
	_, err := tx.Exec(ctx, `
    UPDATE employee_shifts SET status = $1, updated_at = now() WHERE id = $2
  `, string(decision.Next), shiftID)
	return err
}

// View is a shift joined with the names the roster screens display.
type View struct {
	ID                string     `json:"id"`
	Date              time.Time  `json:"date"`
	TimeIn            string     `json:"timeIn"`
	TimeOut           string     `json:"timeOut"`
	TotalHours        float64    `json:"totalHours"`
	HourlyRate        float64    `json:"hourlyRate"`
	Status            string     `json:"status"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`
	Notes             string     `json:"notes,omitempty"`
	EmployeeID        string     `json:"employeeId"`
	EmployeeFirstName string     `json:"employeeFirstName"`
	EmployeeLastName  string     `json:"employeeLastName"`
	EmployeeEmail     string     `json:"employeeEmail"`
	StationID         string     `json:"stationId"`
	StationName       string     `json:"stationName"`
	ShiftTypeID       string     `json:"shiftTypeId"`
	ShiftTypeName     string     `json:"shiftTypeName"`
}

type ListFilter struct {
	From       *time.Time
	To         *time.Time
	EmployeeID string
	// StationIDs restricts results to the given stations (active ones only).
	// Nil means no station scoping.
	StationIDs []string
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]View, error) {
	query := `
    SELECT s.id, s.date, to_char(s.time_in, 'HH24:MI'), to_char(s.time_out, 'HH24:MI'),
           s.total_hours, s.hourly_rate, s.status, s.approved_at, COALESCE(s.notes, ''),
           e.id, e.first_name, e.last_name, e.email,
           st.id, st.name,
           t.id, t.name
    FROM employee_shifts s
    JOIN employees e ON s.employee_id = e.id
    JOIN stations st ON s.station_id = st.id
    JOIN shift_types t ON s.shift_type_id = t.id
    WHERE 1=1
  `
	var args []any
	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND s.date >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND s.date <= $%d", len(args))
	}
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND s.employee_id = $%d", len(args))
	}
	if filter.StationIDs != nil {
		args = append(args, filter.StationIDs)
		query += fmt.Sprintf(" AND s.station_id = ANY($%d) AND st.is_active", len(args))
	}
	query += " ORDER BY s.date DESC"

	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []View
	for rows.Next() {
		var v View
		if err := rows.Scan(&v.ID, &v.Date, &v.TimeIn, &v.TimeOut,
			&v.TotalHours, &v.HourlyRate, &v.Status, &v.ApprovedAt, &v.Notes,
			&v.EmployeeID, &v.EmployeeFirstName, &v.EmployeeLastName, &v.EmployeeEmail,
			&v.StationID, &v.StationName,
			&v.ShiftTypeID, &v.ShiftTypeName); err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
