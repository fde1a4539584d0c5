// Package mission implements the inn's expedition engine: staff and the
// player are dispatched on off-screen missions that advance one tick per
// simulated hour, pick up travel events at checkpoints, and resolve into
// rewards or penalties.
//
// The engine is a single logical timeline. It never starts goroutines,
// never blocks and never performs I/O; callers serialize access.
package mission

import (
	"fmt"
	"sort"
)

// Type is the mission category. It picks the scoring attributes and the
// travel event table.
type Type string

const (
	TypeEscort  Type = "escort"
	TypeTrade   Type = "trade"
	TypeExplore Type = "explore"
	TypeGather  Type = "gather"
)

// Difficulty is the mission tier.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyNormal  Difficulty = "normal"
	DifficultyHard    Difficulty = "hard"
	DifficultyExtreme Difficulty = "extreme"
)

// Attribute names a participant stat.
type Attribute string

const (
	AttrStrength     Attribute = "strength"
	AttrPhysique     Attribute = "physique"
	AttrCharisma     Attribute = "charisma"
	AttrIntelligence Attribute = "intelligence"
	AttrPerception   Attribute = "perception"
	AttrAgility      Attribute = "agility"
)

// ItemReward is an item grant on success.
type ItemReward struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// Rewards are the base payouts of a definition, or the payouts actually
// applied by a resolution.
type Rewards struct {
	Silver     int          `json:"silver"`
	Experience int          `json:"experience"`
	Items      []ItemReward `json:"items,omitempty"`
	Reputation int          `json:"reputation"`
}

// Requirements gate a definition. Zero values mean no requirement.
type Requirements struct {
	MinInnLevel   int `json:"minInnLevel,omitempty"`
	MinReputation int `json:"minReputation,omitempty"`
}

// Definition is an immutable catalog entry.
type Definition struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description,omitempty"`
	Type         Type         `json:"type"`
	Difficulty   Difficulty   `json:"difficulty"`
	Duration     int          `json:"duration"` // ticks
	Rewards      Rewards      `json:"rewards"`
	Requirements Requirements `json:"requirements"`
	Cooldown     int          `json:"cooldown,omitempty"` // ticks after resolution
}

// Catalog is the read-only set of mission definitions.
type Catalog struct {
	defs  map[string]*Definition
	order []string // catalog order, for stable listings
}

// NewCatalog indexes and validates definitions. Definitions are copied;
// later changes to the input do not leak into the catalog.
func NewCatalog(defs []Definition) (*Catalog, error) {
	c := &Catalog{defs: make(map[string]*Definition, len(defs))}
	for i := range defs {
		def := defs[i]
		if err := def.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.defs[def.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidDefinition, def.ID)
		}
		def.Rewards.Items = append([]ItemReward(nil), def.Rewards.Items...)
		c.defs[def.ID] = &def
		c.order = append(c.order, def.ID)
	}
	return c, nil
}

// Validate checks a single definition.
func (d *Definition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	if _, ok := attributePairs[d.Type]; !ok {
		return fmt.Errorf("%w: %s has unknown type %q", ErrInvalidDefinition, d.ID, d.Type)
	}
	if _, ok := difficultyPercent[d.Difficulty]; !ok {
		return fmt.Errorf("%w: %s has unknown difficulty %q", ErrInvalidDefinition, d.ID, d.Difficulty)
	}
	if d.Duration <= 0 {
		return fmt.Errorf("%w: %s has duration %d", ErrInvalidDefinition, d.ID, d.Duration)
	}
	if d.Cooldown < 0 {
		return fmt.Errorf("%w: %s has cooldown %d", ErrInvalidDefinition, d.ID, d.Cooldown)
	}
	r := d.Rewards
	if r.Silver < 0 || r.Experience < 0 || r.Reputation < 0 {
		return fmt.Errorf("%w: %s has negative rewards", ErrInvalidDefinition, d.ID)
	}
	for _, item := range r.Items {
		if item.ItemID == "" || item.Quantity <= 0 {
			return fmt.Errorf("%w: %s has bad item reward %+v", ErrInvalidDefinition, d.ID, item)
		}
	}
	return nil
}

// Get returns a definition by id.
func (c *Catalog) Get(id string) (*Definition, bool) {
	def, ok := c.defs[id]
	return def, ok
}

// All returns every definition in catalog order.
func (c *Catalog) All() []*Definition {
	out := make([]*Definition, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.defs[id])
	}
	return out
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.order) }

// Unlocked reports whether the requirements are met for the given inn level
// and reputation.
func (r Requirements) Unlocked(innLevel, reputation int) bool {
	return innLevel >= r.MinInnLevel && reputation >= r.MinReputation
}

// Types returns the known mission types, sorted.
func Types() []Type {
	out := make([]Type, 0, len(attributePairs))
	for t := range attributePairs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
