package payroll

import (
	"testing"
	"time"
)

func TestRound2(t *testing.T) {
	if got := Round2(96.008); got != 96.01 {
		t.Fatalf("expected 96.01, got %v", got)
	}
	if got := Round2(10.004); got != 10 {
		t.Fatalf("expected 10, got %v", got)
	}
}

func TestShiftGross(t *testing.T) {
	if got := ShiftGross(8, 12); got != 96 {
		t.Fatalf("expected 96, got %v", got)
	}
	if got := ShiftGross(7.75, 12.5); got != 96.88 {
		t.Fatalf("expected 96.88, got %v", got)
	}
}

func TestFoldLockedShiftCreatesDailyPayslip(t *testing.T) {
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	shift := LockedShift{
		ShiftID:    "s1",
		EmployeeID: "e1",
		Date:       time.Date(2026, 3, 1, 14, 30, 0, 0, time.UTC),
		TotalHours: 8,
		HourlyRate: 12,
	}

	got := FoldLockedShift(nil, shift, now)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.PeriodStart.Equal(day) || !got.PeriodEnd.Equal(day) {
		t.Fatalf("expected daily period %v, got %v..%v", day, got.PeriodStart, got.PeriodEnd)
	}
	if got.TotalHours != 8 {
		t.Fatalf("expected 8 hours, got %v", got.TotalHours)
	}
	if got.GrossPay != 96 || got.NetPay != 96 {
		t.Fatalf("expected gross and net 96, got %v / %v", got.GrossPay, got.NetPay)
	}
	if got.Status != StatusGenerated {
		t.Fatalf("expected status %q, got %q", StatusGenerated, got.Status)
	}
}

func TestFoldLockedShiftAccumulates(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	existing := &Payslip{
		ID:          "p1",
		EmployeeID:  "e1",
		PeriodStart: day,
		PeriodEnd:   day,
		TotalHours:  8,
		GrossPay:    96,
		NetPay:      96,
		Status:      StatusGenerated,
	}
	second := LockedShift{
		ShiftID:    "s2",
		EmployeeID: "e1",
		Date:       day,
		TotalHours: 2,
		HourlyRate: 12,
	}

	got := FoldLockedShift(existing, second, time.Now())

	if got.TotalHours != 10 {
		t.Fatalf("expected 10 hours after fold, got %v", got.TotalHours)
	}
	if got.GrossPay != 120 || got.NetPay != 120 {
		t.Fatalf("expected gross and net 120, got %v / %v", got.GrossPay, got.NetPay)
	}
	if existing.TotalHours != 8 {
		t.Fatalf("fold must not mutate the input payslip, got %v", existing.TotalHours)
	}
}

func TestFoldLockedShiftDefaultsBlankStatus(t *testing.T) {
	existing := &Payslip{TotalHours: 4, GrossPay: 50, NetPay: 50, Status: "  "}
	got := FoldLockedShift(existing, LockedShift{TotalHours: 1, HourlyRate: 10, Date: time.Now()}, time.Now())
	if got.Status != StatusGenerated {
		t.Fatalf("blank status must default to %q, got %q", StatusGenerated, got.Status)
	}
}

func TestComputeTieredPay(t *testing.T) {
	rates := EmployeeRates{HourlyRateA: 12, HourlyRateB: 15, HoursForRateA: 40}

	cases := []struct {
		name       string
		totalHours float64
		hoursA     float64
		hoursB     float64
		gross      float64
	}{
		{"under threshold", 30, 30, 0, 360},
		{"at threshold", 40, 40, 0, 480},
		{"over threshold", 45, 40, 5, 555},
		{"zero hours", 0, 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTieredPay(tc.totalHours, rates)
			if got.HoursA != tc.hoursA || got.HoursB != tc.hoursB {
				t.Fatalf("expected split %v/%v, got %v/%v", tc.hoursA, tc.hoursB, got.HoursA, got.HoursB)
			}
			if got.Gross != tc.gross {
				t.Fatalf("expected gross %v, got %v", tc.gross, got.Gross)
			}
		})
	}
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2026, 7, 14, 23, 45, 12, 999, time.FixedZone("X", 3600))
	got := DateOnly(in)
	want := time.Date(2026, 7, 14, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
