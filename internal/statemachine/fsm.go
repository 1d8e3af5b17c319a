package statemachine

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"
)

// transition fires the first event that leads from the machine's current
// state to target. Staying in the same state is a no-op.
func transition(ctx context.Context, machine *fsm.FSM, events fsm.Events, target string) error {
	if machine.Current() == target {
		return nil
	}
	for _, e := range events {
		if e.Dst != target || !machine.Can(e.Name) {
			continue
		}
		return machine.Event(ctx, e.Name)
	}
	return fmt.Errorf("no transition from %s to %s", machine.Current(), target)
}
