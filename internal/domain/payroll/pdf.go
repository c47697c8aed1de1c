package payroll

import (
	"context"
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// RenderPayslipPDF writes a PDF rendering of the payslip to w.
func (s *Service) RenderPayslipPDF(ctx context.Context, payslipID string, w io.Writer) error {
	payslip, err := s.store.Get(ctx, payslipID)
	if err != nil {
		return err
	}

	var firstName, lastName, email string
	if err := s.store.DB.QueryRow(ctx, `
    SELECT first_name, last_name, email
    FROM employees
    WHERE id = $1
  `, payslip.EmployeeID).Scan(&firstName, &lastName, &email); err != nil {
		return ErrEmployeeNotFound
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s %s", firstName, lastName))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Email: %s", email))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", payslip.PeriodStart.Format("2006-01-02"), payslip.PeriodEnd.Format("2006-01-02")))
	pdf.Ln(10)
	pdf.Cell(0, 8, fmt.Sprintf("Total hours: %.2f", payslip.TotalHours))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Gross pay: %.2f", payslip.GrossPay))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Deductions: %.2f", Round2(payslip.TaxDeduction+payslip.NIDeduction+payslip.OtherDeductions)))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Net pay: %.2f", payslip.NetPay))
	pdf.Ln(10)

	details, err := s.listDetails(ctx, payslipID)
	if err != nil {
		return err
	}
	if len(details) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 8, "Shifts")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 10)
		for _, d := range details {
			pdf.Cell(0, 6, fmt.Sprintf("%s  %s (%s)  %.2fh x %.2f = %.2f",
				d.Date.Format("2006-01-02"), d.StationName, d.ShiftType, d.Hours, d.HourlyRate, d.Amount))
			pdf.Ln(6)
		}
	}

	return pdf.Output(w)
}

func (s *Service) listDetails(ctx context.Context, payslipID string) ([]PayslipDetail, error) {
	rows, err := s.store.DB.Query(ctx, `
    SELECT id, payslip_id, COALESCE(shift_id::text, ''), date, hours, hourly_rate, amount, station_name, shift_type
    FROM payslip_details
    WHERE payslip_id = $1
    ORDER BY date
  `, payslipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var details []PayslipDetail
	for rows.Next() {
		var d PayslipDetail
		if err := rows.Scan(&d.ID, &d.PayslipID, &d.ShiftID, &d.Date, &d.Hours, &d.HourlyRate, &d.Amount, &d.StationName, &d.ShiftType); err != nil {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}
