package shift_test

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"fuelshift/internal/domain/auth"
	"fuelshift/internal/domain/payroll"
	"fuelshift/internal/domain/shift"
	"fuelshift/internal/platform/config"
	"fuelshift/internal/platform/db"
)

func newTransitionHarness(t *testing.T) (*pgxpool.Pool, *shift.Store, *payroll.Store, *shift.Service) {
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

	shiftStore := shift.NewStore(pool)
	payrollStore := payroll.NewStore(pool)
	return pool, shiftStore, payrollStore, shift.NewService(shiftStore, payrollStore)
}

func seedTransitionEmployee(t *testing.T, pool *pgxpool.Pool) (employeeID, stationID, shiftTypeID string) {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	if err := pool.QueryRow(ctx, `
    INSERT INTO employees (first_name, last_name, email, hourly_rate_a, hourly_rate_b, hours_for_rate_a, hire_date)
    VALUES ('Shift', 'Tester', $1, 12, 15, 40, CURRENT_DATE)
    RETURNING id
  `, fmt.Sprintf("shift-tester-%d@example.com", suffix)).Scan(&employeeID); err != nil {
		t.Fatalf("failed to seed employee: %v", err)
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO stations (code, name) VALUES ($1, 'Test Station') RETURNING id
  `, fmt.Sprintf("TS%d", suffix)).Scan(&stationID); err != nil {
		t.Fatalf("failed to seed station: %v", err)
	}
	if err := pool.QueryRow(ctx, `
    INSERT INTO shift_types (name) VALUES ($1) RETURNING id
  `, fmt.Sprintf("Test Type %d", suffix)).Scan(&shiftTypeID); err != nil {
		t.Fatalf("failed to seed shift type: %v", err)
	}
	return employeeID, stationID, shiftTypeID
}

func createTransitionShift(t *testing.T, store *shift.Store, employeeID, stationID, shiftTypeID string, date time.Time, timeIn, timeOut string, hours float64) string {
	t.Helper()
	id, err := store.Create(context.Background(), shift.CreateParams{
		EmployeeID:  employeeID,
		StationID:   stationID,
		ShiftTypeID: shiftTypeID,
		Date:        date,
		TimeIn:      timeIn,
		TimeOut:     timeOut,
		TotalHours:  hours,
		HourlyRate:  12,
	})
	if err != nil {
		t.Fatalf("failed to create shift: %v", err)
	}
	return id
}

func payslipTotals(t *testing.T, pool *pgxpool.Pool, employeeID string) (count int, totalHours, grossPay, netPay float64) {
	t.Helper()
	err := pool.QueryRow(context.Background(), `
    SELECT COUNT(*), COALESCE(SUM(total_hours), 0), COALESCE(SUM(gross_pay), 0), COALESCE(SUM(net_pay), 0)
    FROM payslips
    WHERE employee_id = $1
  `, employeeID).Scan(&count, &totalHours, &grossPay, &netPay)
	if err != nil {
		t.Fatalf("failed to read payslips: %v", err)
	}
	return count, totalHours, grossPay, netPay
}

func TestTransitionLockFoldsSameDayShiftsIntoOnePayslip(t *testing.T) {
	pool, store, _, svc := newTransitionHarness(t)
	employeeID, stationID, shiftTypeID := seedTransitionEmployee(t, pool)

	ctx := context.Background()
	admin := shift.Actor{UserID: "admin-user", Role: auth.RoleAdmin}
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	morning := createTransitionShift(t, store, employeeID, stationID, shiftTypeID, day, "08:00", "16:00", 8)
	evening := createTransitionShift(t, store, employeeID, stationID, shiftTypeID, day, "17:00", "19:00", 2)

	for _, shiftID := range []string{morning, evening} {
		if _, err := svc.TransitionStatus(ctx, shiftID, "Approved", admin); err != nil {
			t.Fatalf("failed to approve shift %s: %v", shiftID, err)
		}
		result, err := svc.TransitionStatus(ctx, shiftID, "Locked", admin)
		if err != nil {
			t.Fatalf("failed to lock shift %s: %v", shiftID, err)
		}
		if result.Status != shift.StatusLocked {
			t.Fatalf("expected Locked status, got %s", result.Status)
		}
	}

	count, totalHours, grossPay, netPay := payslipTotals(t, pool, employeeID)
	if count != 1 {
		t.Fatalf("expected exactly one payslip for the day, got %d", count)
	}
	if totalHours != 10 || grossPay != 120 || netPay != 120 {
		t.Fatalf("expected 10.00 hours and 120.00 gross/net, got hours=%.2f gross=%.2f net=%.2f", totalHours, grossPay, netPay)
	}
}

func TestTransitionRollbackLeavesNoWrites(t *testing.T) {
	pool, store, payrollStore, svc := newTransitionHarness(t)
	employeeID, stationID, shiftTypeID := seedTransitionEmployee(t, pool)

	ctx := context.Background()
	admin := shift.Actor{UserID: "admin-user", Role: auth.RoleAdmin}
	day := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	shiftID := createTransitionShift(t, store, employeeID, stationID, shiftTypeID, day, "08:00", "16:00", 8)
	if _, err := svc.TransitionStatus(ctx, shiftID, "Approved", admin); err != nil {
		t.Fatalf("failed to approve shift: %v", err)
	}

	// Run both writes of the lock path in a transaction that never commits.
	tx, err := pool.Begin(ctx)
	if err != nil {
		t.Fatalf("failed to begin tx: %v", err)
	}
	current, err := store.GetForUpdateTx(ctx, tx, shiftID)
	if err != nil {
		t.Fatalf("failed to read shift for update: %v", err)
	}
	now := time.Now().UTC()
	if err := store.UpdateStatusTx(ctx, tx, shiftID, shift.Decision{Next: shift.StatusLocked}, now); err != nil {
		t.Fatalf("failed to write status in tx: %v", err)
	}
	if err := payrollStore.ApplyLockedShiftTx(ctx, tx, payroll.LockedShift{
		ShiftID:    current.ID,
		EmployeeID: current.EmployeeID,
		Date:       current.Date,
		TotalHours: current.TotalHours,
		HourlyRate: current.HourlyRate,
	}, now); err != nil {
		t.Fatalf("failed to fold shift in tx: %v", err)
	}
	if err := tx.Rollback(ctx); err != nil {
		t.Fatalf("failed to roll back: %v", err)
	}

	var status string
	if err := pool.QueryRow(ctx, "SELECT status FROM employee_shifts WHERE id = $1", shiftID).Scan(&status); err != nil {
		t.Fatalf("failed to read shift status: %v", err)
	}
	if status != string(shift.StatusApproved) {
		t.Fatalf("expected status Approved after rollback, got %s", status)
	}
	count, _, _, _ := payslipTotals(t, pool, employeeID)
	if count != 0 {
		t.Fatalf("expected no payslip after rollback, got %d", count)
	}
}

func TestConcurrentLocksSerializeOnOnePayslip(t *testing.T) {
	pool, store, _, svc := newTransitionHarness(t)
	employeeID, stationID, shiftTypeID := seedTransitionEmployee(t, pool)

	ctx := context.Background()
	admin := shift.Actor{UserID: "admin-user", Role: auth.RoleAdmin}
	day := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	shiftIDs := []string{
		createTransitionShift(t, store, employeeID, stationID, shiftTypeID, day, "08:00", "16:00", 8),
		createTransitionShift(t, store, employeeID, stationID, shiftTypeID, day, "17:00", "19:00", 2),
	}
	for _, shiftID := range shiftIDs {
		if _, err := svc.TransitionStatus(ctx, shiftID, "Approved", admin); err != nil {
			t.Fatalf("failed to approve shift %s: %v", shiftID, err)
		}
	}

	errs := make([]error, len(shiftIDs))
	var wg sync.WaitGroup
	for i, shiftID := range shiftIDs {
		wg.Add(1)
		go func(i int, shiftID string) {
			defer wg.Done()
			_, errs[i] = svc.TransitionStatus(ctx, shiftID, "Locked", admin)
		}(i, shiftID)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("concurrent lock %d failed: %v", i, err)
		}
	}

	count, totalHours, grossPay, _ := payslipTotals(t, pool, employeeID)
	if count != 1 {
		t.Fatalf("expected concurrent locks to serialize onto one payslip, got %d", count)
	}
	if totalHours != 10 || grossPay != 120 {
		t.Fatalf("expected 10.00 hours and 120.00 gross, got hours=%.2f gross=%.2f", totalHours, grossPay)
	}
}
