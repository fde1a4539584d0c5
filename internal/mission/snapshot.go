package mission

import (
	"encoding/json"
	"sort"
)

// Snapshot is the persisted engine state.
type Snapshot struct {
	ActiveMissions []*Instance     `json:"activeMissions"`
	MissionHistory []HistoryRecord `json:"missionHistory"` // oldest first
	NextMissionID  int             `json:"nextMissionId"`
	Cooldowns      map[string]int  `json:"cooldowns,omitempty"`
	Tick           int             `json:"tick,omitempty"`
}

// Serialize captures the engine state. The snapshot shares nothing with the
// engine.
func (e *Engine) Serialize() Snapshot {
	s := Snapshot{
		ActiveMissions: e.ActiveMissions(),
		MissionHistory: e.history.All(),
		NextMissionID:  e.nextID,
		Tick:           e.tick,
	}
	if len(e.cooldowns) > 0 {
		s.Cooldowns = make(map[string]int, len(e.cooldowns))
		for id, left := range e.cooldowns {
			s.Cooldowns[id] = left
		}
	}
	return s
}

// Encode returns the snapshot as JSON.
func (s Snapshot) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// DecodeSnapshot parses JSON produced by Encode. Missing fields decode to
// zero values, which Deserialize repairs.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// Deserialize replaces the engine state with s. Incomplete or inconsistent
// entries are repaired where possible and dropped otherwise: missions for
// unknown definitions, missions already resolved, and missions whose team
// overlaps an earlier mission are discarded. It returns how many active
// missions were dropped.
func (e *Engine) Deserialize(s Snapshot) int {
	e.locks.reset()
	clear(e.active)
	e.order = e.order[:0]
	e.history.reset()
	clear(e.cooldowns)
	e.tick = max(0, s.Tick)

	maxID := 0
	dropped := 0
	for _, raw := range s.ActiveMissions {
		if raw != nil {
			maxID = max(maxID, raw.ID)
		}
		in, ok := e.repairInstance(raw)
		if !ok {
			dropped++
			continue
		}
		e.locks.Lock(in.Refs(), in.ID)
		e.insert(in)
	}
	// Dispatch order follows ids, which are handed out monotonically.
	sort.Ints(e.order)

	records := s.MissionHistory
	if len(records) > e.history.Limit() {
		records = records[len(records)-e.history.Limit():]
	}
	for _, rec := range records {
		if rec.Participants == nil {
			rec.Participants = []Participant{}
		}
		e.history.Append(rec)
		maxID = max(maxID, rec.MissionID)
	}

	for id, left := range s.Cooldowns {
		if _, known := e.catalog.Get(id); known && left > 0 {
			e.cooldowns[id] = left
		}
	}

	e.nextID = max(s.NextMissionID, maxID+1, 1)
	if dropped > 0 {
		e.log.Warn("dropped missions while restoring", "dropped", dropped)
	}
	return dropped
}

func (e *Engine) repairInstance(raw *Instance) (*Instance, bool) {
	if raw == nil || raw.ID <= 0 {
		return nil, false
	}
	if _, dup := e.active[raw.ID]; dup {
		return nil, false
	}
	def, ok := e.catalog.Get(raw.DefinitionID)
	if !ok {
		e.log.Warn("restored mission has unknown definition", "mission", raw.ID, "definition", raw.DefinitionID)
		return nil, false
	}
	in := raw.Clone()
	if in.State.Terminal() || len(in.Participants) == 0 {
		return nil, false
	}
	for _, p := range in.Participants {
		if !p.Ref.Valid() || e.locks.IsBusy(p.Ref) {
			return nil, false
		}
	}

	switch in.State {
	case StateTraveling, StateInProgress, StateReturning:
	default:
		in.State = StateTraveling
	}
	if in.Duration <= 0 {
		in.Duration = def.Duration
	}
	in.Elapsed = max(0, in.Elapsed)
	if in.SuccessRate == 0 {
		in.SuccessRate = ComputeSuccessRate(def.Difficulty, in.Participants)
	}
	in.SuccessRate = clampRate(in.SuccessRate)
	if in.Events == nil {
		in.Events = []TravelEvent{}
	}
	if in.Checkpoints == nil {
		in.Checkpoints = NewCheckpoints(in.Duration)
		for i := range in.Checkpoints {
			in.Checkpoints[i].Triggered = in.Checkpoints[i].HourOffset <= in.Elapsed
		}
	}
	if in.State == StateReturning {
		if in.ReturnDuration <= 0 {
			in.ReturnDuration = (max(1, in.Duration-in.Elapsed) + 1) / 2
		}
		in.ReturnElapsed = max(0, in.ReturnElapsed)
		in.ReturnProgress = progressOf(in.ReturnElapsed, in.ReturnDuration)
		in.Progress = progressOf(in.Elapsed, in.Duration)
	} else {
		in.recomputeProgress()
	}
	return in, true
}
