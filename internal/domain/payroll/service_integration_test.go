package payroll_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fuelshift/internal/domain/payroll"
	"fuelshift/internal/platform/config"
	"fuelshift/internal/platform/db"
)

func newGenerateHarness(t *testing.T) (*pgxpool.Pool, *payroll.Service) {
	t.Helper()
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, config.Config{DatabaseURL: dbURL})
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := db.Migrate(ctx, pool, "../../../migrations"); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return pool, payroll.NewService(payroll.NewStore(pool))
}

func seedGenerateFixture(t *testing.T, pool *pgxpool.Pool, day time.Time) (employeeID, shiftID string) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	if err := pool.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, hourly_rate_a, hourly_rate_b, hours_for_rate_a, hire_date)
    VALUES ('Batch', 'Tester', $1, 12, 15, 40, CURRENT_DATE)
    RETURNING id
  `, fmt.Sprintf("batch-tester-%d@example.com", suffix)).Scan(&employeeID); err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}

	var stationID, shiftTypeID string
	if err := pool.QueryRow(ctx, `
    INSERT INTO stations (code, name) VALUES ($1, 'Batch Station') RETURNING id
  `, fmt.Sprintf("BS%d", suffix)).Scan(&stationID); err != nil {
		t.Fatalf("failed to seed station: %v", err)
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO shift_types (name) VALUES ($1) RETURNING id
  `, fmt.Sprintf("Batch Type %d", suffix)).Scan(&shiftTypeID); err != nil {
		t.Fatalf("failed to seed shift type: %v", err)
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO employee_shifts (employee_id, station_id, shift_type_id, date, time_in, time_out, total_hours, hourly_rate, status)
    VALUES ($1, $2, $3, $4, '08:00', '16:00', 8, 12, 'Pending')
    RETURNING id
  `, employeeID, stationID, shiftTypeID, day).Scan(&shiftID); err != nil {
		t.Fatalf("failed to seed shift: %v", err)
	}
	return employeeID, shiftID
}

func TestGeneratePayslipLocksShiftsAndRejectsDuplicatePeriod(t *testing.T) {
	pool, svc := newGenerateHarness(t)

	ctx := context.Background()
	periodStart := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)
	employeeID, shiftID := seedGenerateFixture(t, pool, periodStart)

	payslip, err := svc.GeneratePayslip(ctx, employeeID, periodStart, periodEnd)
	if err != nil {
		t.Fatalf("failed to generate payslip: %v", err)
	}
	if payslip.TotalHours != 8 || payslip.GrossPay != 96 {
		t.Fatalf("expected 8.00 hours and 96.00 gross, got hours=%.2f gross=%.2f", payslip.TotalHours, payslip.GrossPay)
	}

	var status string
	if err := pool.QueryRow(ctx, "SELECT status FROM employee_shifts WHERE id = $1", shiftID).Scan(&status); err != nil {
		t.Fatalf("failed to read shift status: %v", err)
	}
	if status != "Locked" {
		t.Fatalf("expected batch generation to force-lock the shift, got %s", status)
	}

	_, err = svc.GeneratePayslip(ctx, employeeID, periodStart, periodEnd)
	if !errors.Is(err, payroll.ErrPayslipExists) {
		t.Fatalf("expected ErrPayslipExists on regeneration, got %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `
    SELECT COUNT(*) FROM payslips WHERE employee_id = $1 AND period_start = $2 AND period_end = $3
  `, employeeID, periodStart, periodEnd).Scan(&count); err != nil {
		t.Fatalf("failed to count payslips: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected regeneration to leave the single payslip, got %d", count)
	}
}
