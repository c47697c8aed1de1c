package payroll

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrPayslipNotFound  = errors.New("payslip not found")
	ErrInvalidPeriod    = errors.New("periodEnd must be after periodStart")
	ErrPayslipExists    = errors.New("a payslip already exists for this employee and period")
)

// isUniqueViolation reports whether err is a Postgres unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
