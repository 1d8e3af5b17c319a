package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/looplab/fsm"
)

const (
	debtOpen    = string(models.DebtStatusOpen)
	debtPartial = string(models.DebtStatusPartial)
	debtPaid    = string(models.DebtStatusPaid)
)

var debtEvents = fsm.Events{
	// open → partial
	{Name: "pay_partial", Src: []string{debtOpen}, Dst: debtPartial},

	// open/partial → paid
	{Name: "settle", Src: []string{debtOpen, debtPartial}, Dst: debtPaid},

	// paid → partial (last payment cancelled)
	{Name: "revert_payment", Src: []string{debtPaid}, Dst: debtPartial},

	// partial/paid → open (every payment cancelled)
	{Name: "reopen", Src: []string{debtPartial, debtPaid}, Dst: debtOpen},
}

// DebtFSM wraps a debt with its state machine
type DebtFSM struct {
	debt *models.Debt
	fsm  *fsm.FSM
}

// NewDebtFSM creates a debt state machine. Settling stamps ClosedAt with now;
// leaving PAID clears it.
func NewDebtFSM(debt *models.Debt, now time.Time) *DebtFSM {
	d := &DebtFSM{debt: debt}
	initial := debt.Status
	if !initial.Valid() {
		initial = models.DebtStatusOpen
	}

	d.fsm = fsm.NewFSM(
		string(initial),
		debtEvents,
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				debt.Status = models.DebtStatus(e.Dst)
			},
			"enter_" + debtPaid: func(_ context.Context, _ *fsm.Event) {
				closed := now
				debt.ClosedAt = &closed
			},
			"leave_" + debtPaid: func(_ context.Context, _ *fsm.Event) {
				debt.ClosedAt = nil
			},
		},
	)
	return d
}

// Transition moves the debt to target through the matching event
func (d *DebtFSM) Transition(ctx context.Context, target models.DebtStatus) error {
	if err := transition(ctx, d.fsm, debtEvents, string(target)); err != nil {
		return fmt.Errorf("debt %d: %w", d.debt.ID, err)
	}
	d.debt.Status = models.DebtStatus(d.fsm.Current())
	return nil
}

// Current returns the current state
func (d *DebtFSM) Current() models.DebtStatus {
	return models.DebtStatus(d.fsm.Current())
}

// Can checks if an event is possible
func (d *DebtFSM) Can(event string) bool {
	return d.fsm.Can(event)
}
