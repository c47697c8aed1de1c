package payroll

import (
	"math"
	"strings"
	"time"
)

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}

// ShiftGross is the pay for one shift at its frozen snapshot rate.
func ShiftGross(hours, rate float64) float64 {
	return Round2(hours * rate)
}

type TieredPay struct {
	HoursA  float64
	HoursB  float64
	AmountA float64
	AmountB float64
	Gross   float64
}

// ComputeTieredPay splits total hours at the rate-A threshold and prices each
// band from the employee's current rates.
func ComputeTieredPay(totalHours float64, rates EmployeeRates) TieredPay {
	hoursA := math.Min(totalHours, rates.HoursForRateA)
	hoursB := math.Max(0, totalHours-rates.HoursForRateA)
	amountA := Round2(hoursA * rates.HourlyRateA)
	amountB := Round2(hoursB * rates.HourlyRateB)
	return TieredPay{
		HoursA:  hoursA,
		HoursB:  hoursB,
		AmountA: amountA,
		AmountB: amountB,
		Gross:   Round2(amountA + amountB),
	}
}

// FoldLockedShift folds one locked shift into the daily payslip covering its
// date and returns the resulting aggregate. A nil payslip yields a fresh one
// in Generated status; an existing payslip has the shift's hours and gross
// added, rounded to 2 decimals after each addition. No deductions apply at
// lock time, so net moves with gross.
func FoldLockedShift(existing *Payslip, shift LockedShift, now time.Time) Payslip {
	gross := ShiftGross(shift.TotalHours, shift.HourlyRate)
	day := DateOnly(shift.Date)

	if existing == nil {
		return Payslip{
			EmployeeID:  shift.EmployeeID,
			PeriodStart: day,
			PeriodEnd:   day,
			TotalHours:  shift.TotalHours,
			GrossPay:    gross,
			NetPay:      gross,
			Status:      StatusGenerated,
			GeneratedAt: now,
		}
	}

	out := *existing
	out.TotalHours = Round2(out.TotalHours + shift.TotalHours)
	out.GrossPay = Round2(out.GrossPay + gross)
	out.NetPay = Round2(out.NetPay + gross)
	if strings.TrimSpace(out.Status) == "" {
		out.Status = StatusGenerated
	}
	return out
}
