package payroll

import "time"

const (
	StatusDraft     = "Draft"
	StatusGenerated = "Generated"
	StatusVoided    = "Voided"
)

// Payslip is the accounting aggregate for one employee over one period. The
// per-shift lock path uses a daily period (PeriodStart == PeriodEnd); the
// batch generation path uses the requested range.
type Payslip struct {
	ID              string    `json:"id"`
	EmployeeID      string    `json:"employeeId"`
	PeriodStart     time.Time `json:"periodStart"`
	PeriodEnd       time.Time `json:"periodEnd"`
	TotalHours      float64   `json:"totalHours"`
	HoursAtRateA    float64   `json:"hoursAtRateA"`
	HoursAtRateB    float64   `json:"hoursAtRateB"`
	GrossPay        float64   `json:"grossPay"`
	TaxDeduction    float64   `json:"taxDeduction"`
	NIDeduction     float64   `json:"niDeduction"`
	OtherDeductions float64   `json:"otherDeductions"`
	NetPay          float64   `json:"netPay"`
	Status          string    `json:"status"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

type PayslipDetail struct {
	ID          string    `json:"id"`
	PayslipID   string    `json:"payslipId"`
	ShiftID     string    `json:"shiftId"`
	Date        time.Time `json:"date"`
	Hours       float64   `json:"hours"`
	HourlyRate  float64   `json:"hourlyRate"`
	Amount      float64   `json:"amount"`
	StationName string    `json:"stationName"`
	ShiftType   string    `json:"shiftType"`
}

// LockedShift carries the fields of a shift being folded into payroll. Pay is
// computed from the shift's frozen rate snapshot, never from the employee's
// current rates.
type LockedShift struct {
	ShiftID    string
	EmployeeID string
	Date       time.Time
	TotalHours float64
	HourlyRate float64
}

// WeeklyPay is the tiered breakdown over locked shifts in a date range.
type WeeklyPay struct {
	EmployeeID  string    `json:"employeeId"`
	TotalHours  float64   `json:"totalHours"`
	HoursRateA  float64   `json:"hoursRateA"`
	HoursRateB  float64   `json:"hoursRateB"`
	AmountRateA float64   `json:"amountRateA"`
	AmountRateB float64   `json:"amountRateB"`
	TotalAmount float64   `json:"totalAmount"`
	ShiftCount  int       `json:"shiftCount"`
	WeekStart   time.Time `json:"weekStart"`
	WeekEnd     time.Time `json:"weekEnd"`
}

// EmployeeRates is the rate configuration read from the employee aggregate,
// used only by the batch generation and weekly-pay paths.
type EmployeeRates struct {
	HourlyRateA   float64
	HourlyRateB   float64
	HoursForRateA float64
}

// DateOnly strips the time of day, keeping the calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
