package shift

import (
	"context"
	"fmt"
	"time"

	"fuelshift/internal/domain/payroll"
)

type Service struct {
	store   *Store
	payroll *payroll.Store
}

func NewService(store *Store, payrollStore *payroll.Store) *Service {
	return &Service{store: store, payroll: payrollStore}
}

type TransitionResult struct {
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// TransitionStatus runs the full transition as one atomic unit: lock and
// re-read the shift, apply the decision rules, write the status, and when the
// accepted status is Locked, fold the shift into the employee's daily payslip
// before committing. Any failure rolls back both writes.
func (s *Service) TransitionStatus(ctx context.Context, shiftID, requested string, actor Actor) (TransitionResult, error) {
	tx, err := s.store.DB.Begin(ctx)
	if err != nil {
		return TransitionResult{}, fmt.Errorf("begin transition: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	current, err := s.store.GetForUpdateTx(ctx, tx, shiftID)
	if err != nil {
		return TransitionResult{}, err
	}

	decision, err := Decide(actor, current.EmployeeID, current.Status, requested)
	if err != nil {
		return TransitionResult{}, err
	}

	now := time.Now().UTC()
	if err := s.store.UpdateStatusTx(ctx, tx, shiftID, decision, now); err != nil {
		return TransitionResult{}, fmt.Errorf("update shift status: %w", err)
	}

	if decision.Next == StatusLocked {
		locked := payroll.LockedShift{
			ShiftID:    current.ID,
			EmployeeID: current.EmployeeID,
			Date:       current.Date,
			TotalHours: current.TotalHours,
			HourlyRate: current.HourlyRate,
		}
		if err := s.payroll.ApplyLockedShiftTx(ctx, tx, locked, now); err != nil {
			return TransitionResult{}, fmt.Errorf("fold locked shift into payslip: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return TransitionResult{}, fmt.Errorf("commit transition: %w", err)
	}

	return TransitionResult{
		Status:  decision.Next,
		Message: fmt.Sprintf("Shift %s successfully.", decision.Next),
	}, nil
}
