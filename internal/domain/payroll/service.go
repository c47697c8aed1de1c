package payroll

import (
	"context"
	"time"
)

type Service struct {
	store *Store
}

func NewService(store *Store) *Service {
	return &Service{store: store}
}

type shiftLine struct {
	ID         string
	Date       time.Time
	Hours      float64
	HourlyRate float64
	Station    string
	ShiftType  string
}

// GeneratePayslip is the batch path: it sums every shift of the employee in
// the range regardless of status, prices the total from the employee's
// current tiered rates, writes a fresh Draft payslip with per-shift detail
// lines, and force-locks the fetched shifts. It deliberately bypasses the
// per-shift transition rules and the daily upsert; the two paths are kept
// separate on purpose and are not expected to reconcile.
func (s *Service) GeneratePayslip(ctx context.Context, employeeID string, periodStart, periodEnd time.Time) (Payslip, error) {
	periodStart = DateOnly(periodStart)
	periodEnd = DateOnly(periodEnd)
	if periodEnd.Before(periodStart) {
		return Payslip{}, ErrInvalidPeriod
	}

	tx, err := s.store.DB.Begin(ctx)
	if err != nil {
		return Payslip{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var rates EmployeeRates
	if err := tx.QueryRow(ctx, `
    SELECT hourly_rate_a, hourly_rate_b, hours_for_rate_a
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&rates.HourlyRateA, &rates.HourlyRateB, &rates.HoursForRateA); err != nil {
		return Payslip{}, ErrEmployeeNotFound
	}

	rows, err := tx.Query(ctx, `
    SELECT s.id, s.date, s.total_hours, s.hourly_rate, st.name, t.name
    FROM employee_shifts s
    JOIN stations st ON s.station_id = st.id
    JOIN shift_types t ON s.shift_type_id = t.id
    WHERE s.employee_id = $1 AND s.date >= $2 AND s.date <= $3
    ORDER BY s.date
  `, employeeID, periodStart, periodEnd)
	if err != nil {
		return Payslip{}, err
	}

	var lines []shiftLine
	var totalHours float64
	for rows.Next() {
		var line shiftLine
		if err := rows.Scan(&line.ID, &line.Date, &line.Hours, &line.HourlyRate, &line.Station, &line.ShiftType); err != nil {
			rows.Close()
			return Payslip{}, err
		}
		totalHours += line.Hours
		lines = append(lines, line)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Payslip{}, err
	}

	tiered := ComputeTieredPay(totalHours, rates)

	payslip := Payslip{
		EmployeeID:   employeeID,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		TotalHours:   Round2(totalHours),
		HoursAtRateA: tiered.HoursA,
		HoursAtRateB: tiered.HoursB,
		GrossPay:     tiered.Gross,
		// Deduction placeholders, to be filled by tax/NI formulas later.
		NetPay:      tiered.Gross,
		Status:      StatusDraft,
		GeneratedAt: time.Now().UTC(),
	}

	if err := tx.QueryRow(ctx, `
    INSERT INTO payslips (employee_id, period_start, period_end, total_hours, hours_at_rate_a, hours_at_rate_b,
                          gross_pay, tax_deduction, ni_deduction, other_deductions, net_pay, status, generated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,0,0,0,$8,$9,$10)
    RETURNING id
  `, payslip.EmployeeID, payslip.PeriodStart, payslip.PeriodEnd, payslip.TotalHours, payslip.HoursAtRateA, payslip.HoursAtRateB,
		payslip.GrossPay, payslip.NetPay, payslip.Status, payslip.GeneratedAt).Scan(&payslip.ID); err != nil {
		// The partial unique index admits one live payslip per employee and
		// period; a conflict means this period was already generated.
		if isUniqueViolation(err) {
			return Payslip{}, ErrPayslipExists
		}
		return Payslip{}, err
	}

	for _, line := range lines {
		if _, err := tx.Exec(ctx, `
      INSERT INTO payslip_details (payslip_id, shift_id, date, hours, hourly_rate, amount, station_name, shift_type)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    `, payslip.ID, line.ID, DateOnly(line.Date), line.Hours, line.HourlyRate, Round2(line.Hours*line.HourlyRate), line.Station, line.ShiftType); err != nil {
			return Payslip{}, err
		}
	}

	if len(lines) > 0 {
		ids := make([]string, 0, len(lines))
		for _, line := range lines {
			ids = append(ids, line.ID)
		}
		if _, err := tx.Exec(ctx, `
      UPDATE employee_shifts SET status = 'Locked', updated_at = now() WHERE id = ANY($1)
    `, ids); err != nil {
			return Payslip{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Payslip{}, err
	}
	return payslip, nil
}

// WeeklyPay reports the tiered breakdown over locked shifts only; pending or
// rejected hours never count toward payroll totals here.
func (s *Service) WeeklyPay(ctx context.Context, employeeID string, start, end time.Time) (WeeklyPay, error) {
	rates, err := s.store.EmployeeRates(ctx, employeeID)
	if err != nil {
		return WeeklyPay{}, err
	}

	rows, err := s.store.DB.Query(ctx, `
    SELECT total_hours
    FROM employee_shifts
    WHERE employee_id = $1 AND date >= $2 AND date <= $3 AND status = 'Locked'
  `, employeeID, DateOnly(start), DateOnly(end))
	if err != nil {
		return WeeklyPay{}, err
	}
	defer rows.Close()

	var totalHours float64
	var count int
	for rows.Next() {
		var hours float64
		if err := rows.Scan(&hours); err != nil {
			return WeeklyPay{}, err
		}
		totalHours += hours
		count++
	}
	if err := rows.Err(); err != nil {
		return WeeklyPay{}, err
	}

	tiered := ComputeTieredPay(totalHours, rates)
	return WeeklyPay{
		EmployeeID:  employeeID,
		TotalHours:  Round2(totalHours),
		HoursRateA:  tiered.HoursA,
		HoursRateB:  tiered.HoursB,
		AmountRateA: tiered.AmountA,
		AmountRateB: tiered.AmountB,
		TotalAmount: tiered.Gross,
		ShiftCount:  count,
		WeekStart:   DateOnly(start),
		WeekEnd:     DateOnly(end),
	}, nil
}
