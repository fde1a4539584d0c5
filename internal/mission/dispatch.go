package mission

import "fmt"

// Dispatch validates a request, scores the team, and starts the mission.
// A rejected request returns an ErrValidation-kind error and changes
// nothing.
func (e *Engine) Dispatch(definitionID string, refs []ParticipantRef) (*Instance, error) {
	def, ok := e.catalog.Get(definitionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDefinition, definitionID)
	}
	if len(refs) == 0 {
		return nil, ErrNoParticipants
	}
	if !def.Requirements.Unlocked(e.opts.Standing.InnLevel(), e.opts.Standing.Reputation()) {
		return nil, fmt.Errorf("%w: %s needs inn level %d and reputation %d",
			ErrRequirementsNotMet, def.ID, def.Requirements.MinInnLevel, def.Requirements.MinReputation)
	}
	if left := e.cooldowns[def.ID]; left > 0 {
		return nil, fmt.Errorf("%w: %s for %d more ticks", ErrOnCooldown, def.ID, left)
	}

	team, err := e.snapshotTeam(def.Type, refs)
	if err != nil {
		return nil, err
	}

	in := &Instance{
		ID:             e.nextID,
		DefinitionID:   def.ID,
		Participants:   team,
		Duration:       def.Duration,
		State:          StateTraveling,
		SuccessRate:    ComputeSuccessRate(def.Difficulty, team),
		Events:         []TravelEvent{},
		Checkpoints:    NewCheckpoints(def.Duration),
		DispatchedTick: e.tick,
	}
	e.nextID++
	e.locks.Lock(in.Refs(), in.ID)
	e.insert(in)

	e.log.Info("mission dispatched",
		"mission", in.ID, "definition", def.ID, "participants", len(team), "successRate", in.SuccessRate)
	return in.Clone(), nil
}

// snapshotTeam checks each ref and reads its scoring attributes.
func (e *Engine) snapshotTeam(t Type, refs []ParticipantRef) ([]Participant, error) {
	primary, secondary, _ := ScoringAttributes(t)
	seen := make(map[ParticipantRef]bool, len(refs))
	team := make([]Participant, 0, len(refs))
	for _, ref := range refs {
		if !ref.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrUnknownParticipant, ref)
		}
		if seen[ref] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, ref)
		}
		seen[ref] = true

		info, ok := e.opts.Roster.Lookup(ref)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownParticipant, ref)
		}
		if !info.Eligible(ref) {
			return nil, fmt.Errorf("%w: %s", ErrParticipantUnavailable, ref)
		}
		if owner, busy := e.locks.Owner(ref); busy {
			return nil, fmt.Errorf("%w: %s is on mission %d", ErrParticipantBusy, ref, owner)
		}
		team = append(team, Participant{
			Ref:       ref,
			Primary:   info.Attributes[primary],
			Secondary: info.Attributes[secondary],
		})
	}
	return team, nil
}
