package mission

// State is the lifecycle position of an instance.
type State string

const (
	StateTraveling  State = "TRAVELING"
	StateInProgress State = "IN_PROGRESS"
	StateReturning  State = "RETURNING"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
)

// Terminal reports whether the state is a resolution.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// inProgressAt is the progress percentage at which a traveling party
// arrives and starts working.
const inProgressAt = 25

// checkpointInterval is the spacing of checkpoints in ticks.
const checkpointInterval = 2

// Checkpoint is a tick offset at which a travel event may fire.
type Checkpoint struct {
	HourOffset int  `json:"hourOffset"`
	Triggered  bool `json:"triggered"`
}

// Instance is a dispatched mission. The engine owns and mutates it; values
// returned from the engine are copies.
type Instance struct {
	ID           int           `json:"id"`
	DefinitionID string        `json:"definitionId"`
	Participants []Participant `json:"participants"`
	Duration     int           `json:"duration"`
	Elapsed      int           `json:"elapsed"`
	State        State         `json:"state"`
	Progress     int           `json:"progress"`
	SuccessRate  int           `json:"successRate"`
	Events       []TravelEvent `json:"events"`
	Checkpoints  []Checkpoint  `json:"checkpoints"`

	// Set once recalled.
	ReturnDuration int `json:"returnDuration,omitempty"`
	ReturnElapsed  int `json:"returnElapsed,omitempty"`
	ReturnProgress int `json:"returnProgress,omitempty"`

	DispatchedTick int `json:"dispatchedTick"`
}

// NewCheckpoints builds floor(duration/2) checkpoints, one every 2 ticks.
func NewCheckpoints(duration int) []Checkpoint {
	n := duration / checkpointInterval
	cps := make([]Checkpoint, 0, n)
	for i := 1; i <= n; i++ {
		cps = append(cps, Checkpoint{HourOffset: i * checkpointInterval})
	}
	return cps
}

// Remaining returns the ticks left before resolution.
func (in *Instance) Remaining() int {
	if in.State == StateReturning {
		return max(0, in.ReturnDuration-in.ReturnElapsed)
	}
	return max(0, in.Duration-in.Elapsed)
}

// HasBonus reports whether any recorded event grants the reward bonus.
func (in *Instance) HasBonus() bool {
	for _, ev := range in.Events {
		if ev.Effect.Kind == EffectBonusReward {
			return true
		}
	}
	return false
}

// EventCount counts recorded events, excluding neutral entries.
func (in *Instance) EventCount() int {
	n := 0
	for _, ev := range in.Events {
		if !ev.Neutral() {
			n++
		}
	}
	return n
}

// Refs returns the participant refs.
func (in *Instance) Refs() []ParticipantRef {
	return refsOf(in.Participants)
}

// Clone returns a deep copy.
func (in *Instance) Clone() *Instance {
	out := *in
	out.Participants = append([]Participant(nil), in.Participants...)
	out.Events = append([]TravelEvent(nil), in.Events...)
	out.Checkpoints = append([]Checkpoint(nil), in.Checkpoints...)
	return &out
}

func (in *Instance) recomputeProgress() {
	in.Progress = progressOf(in.Elapsed, in.Duration)
	if in.State == StateTraveling && in.Progress >= inProgressAt {
		in.State = StateInProgress
	}
}
