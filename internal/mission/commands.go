package mission

import "fmt"

// CancelMission drops an unresolved mission. The team is released; no
// reward is paid and no history is written.
func (e *Engine) CancelMission(id int) error {
	in, ok := e.active[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrMissionNotFound, id)
	}
	if in.State.Terminal() {
		return fmt.Errorf("%w: %d is %s", ErrNotCancellable, id, in.State)
	}
	e.locks.Release(in.Refs())
	e.remove(id)
	e.log.Info("mission cancelled", "mission", id, "definition", in.DefinitionID)
	e.opts.Notifier.Notify(NotifyInfo, "Mission cancelled",
		fmt.Sprintf("Mission #%d was called off.", id))
	return nil
}

// RecallMission orders a traveling or working party home. The mission
// resolves after half the remaining ticks (rounded up), without further
// travel events.
func (e *Engine) RecallMission(id int) error {
	in, ok := e.active[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrMissionNotFound, id)
	}
	if in.State != StateTraveling && in.State != StateInProgress {
		return fmt.Errorf("%w: %d is %s", ErrNotRecallable, id, in.State)
	}
	remaining := max(1, in.Duration-in.Elapsed)
	in.State = StateReturning
	in.ReturnDuration = (remaining + 1) / 2
	in.ReturnElapsed = 0
	in.ReturnProgress = 0
	e.log.Info("mission recalled", "mission", id, "returnDuration", in.ReturnDuration)
	e.opts.Notifier.Notify(NotifyInfo, "Mission recalled",
		fmt.Sprintf("Mission #%d is heading home, back in %d hours.", id, in.ReturnDuration))
	return nil
}
