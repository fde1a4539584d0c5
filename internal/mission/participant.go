package mission

import (
	"fmt"
	"strconv"
	"strings"
)

// ParticipantKind tags a ParticipantRef.
type ParticipantKind int

const (
	// KindPlayer is the inn keeper.
	KindPlayer ParticipantKind = iota + 1
	// KindEmployee is a member of staff, identified by employee id.
	KindEmployee
)

// ParticipantRef identifies who is sent on a mission. The zero value is
// invalid; build refs with Player or Employee.
//
// Refs are comparable and are used directly as map keys by the lock
// registry. They marshal to text as "player" or "employee:<id>".
type ParticipantRef struct {
	Kind ParticipantKind
	ID   int // employee id; always 0 for the player
}

// Player returns the ref for the inn keeper.
func Player() ParticipantRef {
	return ParticipantRef{Kind: KindPlayer}
}

// Employee returns the ref for the employee with the given id.
func Employee(id int) ParticipantRef {
	return ParticipantRef{Kind: KindEmployee, ID: id}
}

// IsPlayer reports whether the ref names the inn keeper.
func (r ParticipantRef) IsPlayer() bool { return r.Kind == KindPlayer }

// Valid reports whether the ref was built by Player or Employee.
func (r ParticipantRef) Valid() bool {
	switch r.Kind {
	case KindPlayer:
		return r.ID == 0
	case KindEmployee:
		return true
	default:
		return false
	}
}

func (r ParticipantRef) String() string {
	switch r.Kind {
	case KindPlayer:
		return "player"
	case KindEmployee:
		return "employee:" + strconv.Itoa(r.ID)
	default:
		return "invalid"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (r ParticipantRef) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("mission: cannot marshal invalid participant ref %+v", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ParticipantRef) UnmarshalText(text []byte) error {
	ref, err := ParseParticipantRef(string(text))
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// ParseParticipantRef parses "player" or "employee:<id>".
func ParseParticipantRef(s string) (ParticipantRef, error) {
	s = strings.TrimSpace(s)
	if s == "player" {
		return Player(), nil
	}
	raw, ok := strings.CutPrefix(s, "employee:")
	if !ok {
		return ParticipantRef{}, fmt.Errorf("mission: bad participant ref %q", s)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return ParticipantRef{}, fmt.Errorf("mission: bad employee id in %q: %v", s, err)
	}
	return Employee(id), nil
}

// Participant is a ref plus the attribute snapshot taken when the mission
// was dispatched. Later attribute changes do not affect a running mission.
type Participant struct {
	Ref       ParticipantRef `json:"ref"`
	Primary   int            `json:"primary"`
	Secondary int            `json:"secondary"`
}

// ParticipantInfo is what the roster reports about a participant.
type ParticipantInfo struct {
	Name       string
	Attributes map[Attribute]int
	Unlocked   bool
	Hired      bool
}

// Eligible reports whether the participant may be dispatched at all.
// The player is always eligible; staff must be both unlocked and hired.
func (p ParticipantInfo) Eligible(ref ParticipantRef) bool {
	if ref.IsPlayer() {
		return true
	}
	return p.Unlocked && p.Hired
}

func refsOf(participants []Participant) []ParticipantRef {
	refs := make([]ParticipantRef, len(participants))
	for i, p := range participants {
		refs[i] = p.Ref
	}
	return refs
}
