package mission

// Advance moves the timeline forward one tick. Active missions are processed
// in dispatch order; missions that finish this tick are resolved and their
// outcomes returned in the same order.
func (e *Engine) Advance() []Outcome {
	e.tick++
	for id, left := range e.cooldowns {
		if left <= 1 {
			delete(e.cooldowns, id)
		} else {
			e.cooldowns[id] = left - 1
		}
	}

	var outcomes []Outcome
	ids := append([]int(nil), e.order...)
	for _, id := range ids {
		in, ok := e.active[id]
		if !ok {
			continue
		}
		if e.step(in) {
			outcomes = append(outcomes, e.resolve(in))
		}
	}
	return outcomes
}

// step advances one instance and reports whether it is due for resolution.
func (e *Engine) step(in *Instance) bool {
	switch in.State {
	case StateReturning:
		in.ReturnElapsed++
		in.ReturnProgress = progressOf(in.ReturnElapsed, in.ReturnDuration)
		return in.ReturnElapsed >= in.ReturnDuration
	case StateTraveling, StateInProgress:
	default:
		return false
	}

	in.Elapsed++
	e.triggerCheckpoints(in)
	in.recomputeProgress()
	return in.Elapsed >= in.Duration
}

// triggerCheckpoints fires every untriggered checkpoint at or before the
// current elapsed tick, in ascending offset order.
func (e *Engine) triggerCheckpoints(in *Instance) {
	def, ok := e.catalog.Get(in.DefinitionID)
	if !ok {
		return
	}
	for i := range in.Checkpoints {
		cp := &in.Checkpoints[i]
		if cp.Triggered || cp.HourOffset > in.Elapsed {
			continue
		}
		cp.Triggered = true
		ev := rollEvent(e.opts.Rand, def.Type, cp.HourOffset)
		applyEffect(in, ev.Effect)
		in.Events = append(in.Events, ev)
		if !ev.Neutral() {
			e.log.Debug("travel event",
				"mission", in.ID, "event", ev.Type, "offset", cp.HourOffset,
				"successRate", in.SuccessRate, "duration", in.Duration)
		}
	}
}
