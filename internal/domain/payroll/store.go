package payroll

import (
	"context"
	"errors"
	"hash/fnv"
	"io"
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

// ApplyLockedShiftTx folds a just-locked shift into the active payslip for
// the employee and day, creating it if absent. It must run inside the same
// transaction as the shift status write so that a Locked shift never exists
// without its hours reflected in a payslip.
//
// An advisory transaction lock keyed on (employee, day) serializes concurrent
// locks for the same payslip before the read-modify-write; the partial unique
// index on payslips backs this up at the storage level.
func (s *Store) ApplyLockedShiftTx(ctx context.Context, tx pgx.Tx, shift LockedShift, now time.Time) error {
	var employeeExists bool
	if err := tx.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)", shift.EmployeeID).Scan(&employeeExists); err != nil {
		return err
	}
	if !employeeExists {
		return ErrEmployeeNotFound
	}

	day := DateOnly(shift.Date)
	if _, err := tx.Exec(ctx, "SELECT pg_advisory_xact_lock($1)", payslipLockKey(shift.EmployeeID, day)); err != nil {
		return err
	}

	var existing Payslip
	err := tx.QueryRow(ctx, `
    SELECT id, total_hours, gross_pay, net_pay, status
    FROM payslips
    WHERE employee_id = $1 AND period_start = $2 AND period_end = $3 AND status <> $4
    FOR UPDATE
  `, shift.EmployeeID, day, day, StatusVoided).Scan(&existing.ID, &existing.TotalHours, &existing.GrossPay, &existing.NetPay, &existing.Status)

	if errors.Is(err, pgx.ErrNoRows) {
		created := FoldLockedShift(nil, shift, now)
		_, err := tx.Exec(ctx, `
      INSERT INTO payslips (employee_id, period_start, period_end, total_hours, gross_pay, net_pay, status, generated_at)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, created.EmployeeID, created.PeriodStart, created.PeriodEnd, created.TotalHours, created.GrossPay, created.NetPay, created.Status, created.GeneratedAt)
		return err
	}
	if err != nil {
		return err
	}

	updated := FoldLockedShift(&existing, shift, now)
	_, err = tx.Exec(ctx, `
    UPDATE payslips
    SET total_hours = $1, gross_pay = $2, net_pay = $3, status = $4, updated_at = now()
    WHERE id = $5
  `, updated.TotalHours, updated.GrossPay, updated.NetPay, updated.Status, existing.ID)
	return err
}

func payslipLockKey(employeeID string, day time.Time) int64 {
	h := fnv.New64a()
	_, _ = io.WriteString(h, employeeID)
	_, _ = io.WriteString(h, day.Format("2006-01-02"))
	return int64(h.Sum64())
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Payslip, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, employee_id, period_start, period_end, total_hours, hours_at_rate_a, hours_at_rate_b,
           gross_pay, tax_deduction, ni_deduction, other_deductions, net_pay, status, generated_at
    FROM payslips
    WHERE employee_id = $1
    ORDER BY generated_at DESC
  `, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payslips []Payslip
	for rows.Next() {
		var p Payslip
		if err := rows.Scan(&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd, &p.TotalHours, &p.HoursAtRateA, &p.HoursAtRateB,
			&p.GrossPay, &p.TaxDeduction, &p.NIDeduction, &p.OtherDeductions, &p.NetPay, &p.Status, &p.GeneratedAt); err != nil {
			return nil, err
		}
		payslips = append(payslips, p)
	}
	return payslips, nil
}

func (s *Store) Get(ctx context.Context, payslipID string) (Payslip, error) {
	var p Payslip
	err := s.DB.QueryRow(ctx, `
    SELECT id, employee_id, period_start, period_end, total_hours, hours_at_rate_a, hours_at_rate_b,
           gross_pay, tax_deduction, ni_deduction, other_deductions, net_pay, status, generated_at
    FROM payslips
    WHERE id = $1
  `, payslipID).Scan(&p.ID, &p.EmployeeID, &p.PeriodStart, &p.PeriodEnd, &p.TotalHours, &p.HoursAtRateA, &p.HoursAtRateB,
		&p.GrossPay, &p.TaxDeduction, &p.NIDeduction, &p.OtherDeductions, &p.NetPay, &p.Status, &p.GeneratedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payslip{}, ErrPayslipNotFound
	}
	if err != nil {
		return Payslip{}, err
	}
	return p, nil
}

func (s *Store) CountGeneratedBetween(ctx context.Context, start, end time.Time) (int, error) {
	var total int
	err := s.DB.QueryRow(ctx, `
    SELECT COUNT(1)
    FROM payslips
    WHERE generated_at::date >= $1 AND generated_at::date <= $2
  `, DateOnly(start), DateOnly(end)).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) EmployeeRates(ctx context.Context, employeeID string) (EmployeeRates, error) {
	var rates EmployeeRates
	err := s.DB.QueryRow(ctx, `
    SELECT hourly_rate_a, hourly_rate_b, hours_for_rate_a
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&rates.HourlyRateA, &rates.HourlyRateB, &rates.HoursForRateA)
	if errors.Is(err, pgx.ErrNoRows) {
		return EmployeeRates{}, ErrEmployeeNotFound
	}
	if err != nil {
		return EmployeeRates{}, err
	}
	return rates, nil
}
