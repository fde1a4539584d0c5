// Package inn holds the in-memory inn the mission engine pays into: the
// purse, reputation and level, the keeper's experience, the storeroom and
// the staff roster.
package inn

import (
	"errors"
	"fmt"
	"log"
	"maps"
	"sort"

	"InnKeeper/internal/mission"
)

var (
	ErrUnknownEmployee    = errors.New("inn: unknown employee")
	ErrEmployeeLocked     = errors.New("inn: employee not unlocked")
	ErrEmployeeBusy       = errors.New("inn: employee is away on a mission")
	ErrInsufficientSilver = errors.New("inn: not enough silver")
	ErrMaxLevel           = errors.New("inn: already at max level")
)

// MaxLevel is the highest inn level.
const MaxLevel = 10

// KeeperName is the display name used for the player.
const KeeperName = "Innkeeper"

// Employee is a member of staff.
type Employee struct {
	ID         int                       `json:"id" yaml:"id"`
	Name       string                    `json:"name" yaml:"name"`
	Attributes map[mission.Attribute]int `json:"attributes" yaml:"attributes"`
	Unlocked   bool                      `json:"unlocked" yaml:"unlocked"`
	Hired      bool                      `json:"hired" yaml:"hired"`
}

// State is the persisted form of an inn.
type State struct {
	Level      int                       `json:"level" yaml:"level"`
	Silver     int                       `json:"silver" yaml:"silver"`
	Reputation int                       `json:"reputation" yaml:"reputation"`
	Experience int                       `json:"experience" yaml:"experience"`
	Player     map[mission.Attribute]int `json:"player" yaml:"player"`
	Inventory  *Inventory                `json:"inventory" yaml:"inventory"`
	Staff      []Employee                `json:"staff" yaml:"staff"`
}

// Inn implements the roster, standing, ledger, inventory and trainer
// contracts of the mission engine. It is not safe for concurrent use.
type Inn struct {
	state State
	staff map[int]*Employee
}

// New builds an inn from state. The state is copied. Employees with
// duplicate ids keep the first entry.
func New(state State) *Inn {
	in := &Inn{staff: make(map[int]*Employee)}
	in.Restore(state)
	return in
}

// Restore replaces the inn's contents with a copy of state.
func (in *Inn) Restore(state State) {
	s := copyState(state)
	if s.Level < 1 {
		s.Level = 1
	}
	if s.Level > MaxLevel {
		s.Level = MaxLevel
	}
	seen := make(map[int]bool, len(s.Staff))
	staff := s.Staff[:0]
	for _, emp := range s.Staff {
		if seen[emp.ID] {
			log.Printf("inn: dropping duplicate employee %d", emp.ID)
			continue
		}
		seen[emp.ID] = true
		staff = append(staff, emp)
	}
	s.Staff = staff
	clear(in.staff)
	for i := range s.Staff {
		in.staff[s.Staff[i].ID] = &s.Staff[i]
	}
	in.state = s
}

// State returns a deep copy of the inn.
func (in *Inn) State() State { return copyState(in.state) }

func copyState(s State) State {
	out := s
	out.Player = maps.Clone(s.Player)
	out.Inventory = s.Inventory.clone()
	out.Staff = make([]Employee, len(s.Staff))
	for i, emp := range s.Staff {
		emp.Attributes = maps.Clone(emp.Attributes)
		out.Staff[i] = emp
	}
	return out
}

// Lookup implements mission.Roster.
func (in *Inn) Lookup(ref mission.ParticipantRef) (mission.ParticipantInfo, bool) {
	if ref.IsPlayer() {
		return mission.ParticipantInfo{
			Name:       KeeperName,
			Attributes: maps.Clone(in.state.Player),
			Unlocked:   true,
			Hired:      true,
		}, true
	}
	emp, ok := in.staff[ref.ID]
	if !ok {
		return mission.ParticipantInfo{}, false
	}
	return mission.ParticipantInfo{
		Name:       emp.Name,
		Attributes: maps.Clone(emp.Attributes),
		Unlocked:   emp.Unlocked,
		Hired:      emp.Hired,
	}, true
}

// InnLevel implements mission.Standing.
func (in *Inn) InnLevel() int { return in.state.Level }

// Reputation implements mission.Standing.
func (in *Inn) Reputation() int { return in.state.Reputation }

// Silver returns the purse.
func (in *Inn) Silver() int { return in.state.Silver }

// Experience returns the keeper's experience.
func (in *Inn) Experience() int { return in.state.Experience }

// AddCurrency implements mission.Ledger.
func (in *Inn) AddCurrency(amount int) { in.state.Silver += amount }

// AddReputation implements mission.Ledger.
func (in *Inn) AddReputation(amount int) { in.state.Reputation += amount }

// AddItem implements mission.Inventory.
func (in *Inn) AddItem(itemID string, qty int) { in.state.Inventory.AddItem(itemID, qty) }

// GrantExperience implements mission.Trainer.
func (in *Inn) GrantExperience(amount int) { in.state.Experience += amount }

// Inventory exposes the storeroom.
func (in *Inn) Inventory() *Inventory { return in.state.Inventory }

// Staff returns copies of every employee ordered by id.
func (in *Inn) Staff() []Employee {
	out := make([]Employee, 0, len(in.staff))
	for _, emp := range in.staff {
		cp := *emp
		cp.Attributes = maps.Clone(emp.Attributes)
		out = append(out, cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Hire takes an unlocked employee onto the payroll.
func (in *Inn) Hire(id int) error {
	emp, ok := in.staff[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEmployee, id)
	}
	if !emp.Unlocked {
		return fmt.Errorf("%w: %s", ErrEmployeeLocked, emp.Name)
	}
	if !emp.Hired {
		emp.Hired = true
		log.Printf("inn: hired %s (employee %d)", emp.Name, id)
	}
	return nil
}

// Dismiss lets an employee go. busy reports whether they are away on a
// mission; away staff cannot be dismissed.
func (in *Inn) Dismiss(id int, busy func(mission.ParticipantRef) bool) error {
	emp, ok := in.staff[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEmployee, id)
	}
	if busy != nil && busy(mission.Employee(id)) {
		return fmt.Errorf("%w: %s", ErrEmployeeBusy, emp.Name)
	}
	if emp.Hired {
		emp.Hired = false
		log.Printf("inn: dismissed %s (employee %d)", emp.Name, id)
	}
	return nil
}

// UpgradeCost is the silver needed to go from level to level+1.
func UpgradeCost(level int) int {
	return level * level * 250
}

// Upgrade spends silver to raise the inn level by one.
func (in *Inn) Upgrade() (int, error) {
	if in.state.Level >= MaxLevel {
		return in.state.Level, ErrMaxLevel
	}
	cost := UpgradeCost(in.state.Level)
	if in.state.Silver < cost {
		return in.state.Level, fmt.Errorf("%w: need %d, have %d", ErrInsufficientSilver, cost, in.state.Silver)
	}
	in.state.Silver -= cost
	in.state.Level++
	for i := range in.state.Staff {
		emp := &in.state.Staff[i]
		if !emp.Unlocked && emp.ID <= unlockedStaff(in.state.Level) {
			emp.Unlocked = true
			log.Printf("inn: %s is looking for work", emp.Name)
		}
	}
	log.Printf("inn: upgraded to level %d for %d silver", in.state.Level, cost)
	return in.state.Level, nil
}

// unlockedStaff is the highest employee id available at level.
func unlockedStaff(level int) int {
	return level + 1
}
