package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/looplab/fsm"
)

const (
	pending  = string(models.RecordStatusPending)
	partial  = string(models.RecordStatusPartial)
	complete = string(models.RecordStatusComplete)
)

var recordEvents = fsm.Events{
	// pending → partial
	{Name: "register_payment", Src: []string{pending}, Dst: partial},

	// pending/partial → complete
	{Name: "complete", Src: []string{pending, partial}, Dst: complete},

	// complete → partial (payment reversed or debt reopened)
	{Name: "reopen", Src: []string{complete}, Dst: partial},

	// partial/complete → pending (every payment reversed)
	{Name: "reset", Src: []string{partial, complete}, Dst: pending},
}

// RecordFSM wraps a monthly record with its state machine
type RecordFSM struct {
	record *models.MonthlyRecord
	fsm    *fsm.FSM
}

// NewRecordFSM creates a record state machine. now stamps the first full
// payment date.
func NewRecordFSM(record *models.MonthlyRecord, now time.Time) *RecordFSM {
	r := &RecordFSM{record: record}
	initial := record.Status
	if !initial.Valid() {
		initial = models.RecordStatusPending
	}

	r.fsm = fsm.NewFSM(
		string(initial),
		recordEvents,
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				record.Status = models.RecordStatus(e.Dst)
			},
			"enter_" + complete: func(_ context.Context, _ *fsm.Event) {
				if record.FullPaymentDate == nil {
					paid := now
					record.FullPaymentDate = &paid
				}
			},
		},
	)
	return r
}

// Transition moves the record to target through the matching event
func (r *RecordFSM) Transition(ctx context.Context, target models.RecordStatus) error {
	if err := transition(ctx, r.fsm, recordEvents, string(target)); err != nil {
		return fmt.Errorf("record %d: %w", r.record.ID, err)
	}
	r.record.Status = models.RecordStatus(r.fsm.Current())
	r.record.IsPaid = r.record.Status == models.RecordStatusComplete
	return nil
}

// Current returns the current state
func (r *RecordFSM) Current() models.RecordStatus {
	return models.RecordStatus(r.fsm.Current())
}

// Can checks if an event is possible
func (r *RecordFSM) Can(event string) bool {
	return r.fsm.Can(event)
}
