package mission

import (
	"errors"
	"log/slog"
	"time"
)

// Engine owns the active missions, the lock registry, the history log and
// the cooldown table. It is not safe for concurrent use.
type Engine struct {
	catalog *Catalog
	opts    Options
	log     *slog.Logger

	locks     *LockRegistry
	active    map[int]*Instance
	order     []int // active ids in dispatch order
	history   *HistoryLog
	cooldowns map[string]int // definition id -> ticks left

	nextID int
	tick   int
}

// NewEngine creates an engine over catalog. Options.Roster and
// Options.Standing are required.
func NewEngine(catalog *Catalog, opts Options) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("mission: nil catalog")
	}
	if opts.Roster == nil || opts.Standing == nil {
		return nil, errors.New("mission: roster and standing are required")
	}
	opts = opts.withDefaults()
	return &Engine{
		catalog:   catalog,
		opts:      opts,
		log:       opts.Logger.With("component", "mission"),
		locks:     NewLockRegistry(),
		active:    make(map[int]*Instance),
		history:   NewHistoryLog(DefaultHistoryLimit),
		cooldowns: make(map[string]int),
		nextID:    1,
	}, nil
}

// Catalog returns the definitions the engine was built with.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Locks exposes the lock registry for busy queries.
func (e *Engine) Locks() *LockRegistry { return e.locks }

// IsBusy reports whether ref is on an active mission.
func (e *Engine) IsBusy(ref ParticipantRef) bool { return e.locks.IsBusy(ref) }

// Tick returns how many ticks the engine has advanced.
func (e *Engine) Tick() int { return e.tick }

// Mission returns a copy of an active mission.
func (e *Engine) Mission(id int) (*Instance, bool) {
	in, ok := e.active[id]
	if !ok {
		return nil, false
	}
	return in.Clone(), true
}

// ActiveMissions returns copies of the active missions in dispatch order.
func (e *Engine) ActiveMissions() []*Instance {
	out := make([]*Instance, 0, len(e.order))
	for _, id := range e.order {
		out = append(out, e.active[id].Clone())
	}
	return out
}

// History returns up to limit records, most recent first.
func (e *Engine) History(limit int) []HistoryRecord {
	return e.history.Recent(limit)
}

// Cooldown returns the ticks left before a definition can run again.
func (e *Engine) Cooldown(definitionID string) int {
	return e.cooldowns[definitionID]
}

// AvailableMissions returns the definitions whose requirements are met by
// the current inn standing and that are not cooling down.
func (e *Engine) AvailableMissions() []*Definition {
	level, rep := e.opts.Standing.InnLevel(), e.opts.Standing.Reputation()
	var out []*Definition
	for _, def := range e.catalog.All() {
		if !def.Requirements.Unlocked(level, rep) {
			continue
		}
		if e.cooldowns[def.ID] > 0 {
			continue
		}
		out = append(out, def)
	}
	return out
}

// Stats summarizes the retained history.
type Stats struct {
	Total       int     `json:"total"`
	Successes   int     `json:"successes"`
	Failures    int     `json:"failures"`
	Recalled    int     `json:"recalled"`
	Silver      int     `json:"silver"`
	Experience  int     `json:"experience"`
	Reputation  int     `json:"reputation"`
	SuccessRate float64 `json:"successRate"`
	Active      int     `json:"active"`
}

// Stats returns totals over the history log and the active count.
func (e *Engine) Stats() Stats {
	var s Stats
	for _, rec := range e.history.All() {
		s.Total++
		if rec.Success {
			s.Successes++
		} else {
			s.Failures++
		}
		if rec.Recalled {
			s.Recalled++
		}
		s.Silver += rec.Rewards.Silver
		s.Experience += rec.Rewards.Experience
		s.Reputation += rec.Rewards.Reputation
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successes) / float64(s.Total)
	}
	s.Active = len(e.order)
	return s
}

func (e *Engine) now() time.Time { return e.opts.Now() }

func (e *Engine) insert(in *Instance) {
	e.active[in.ID] = in
	e.order = append(e.order, in.ID)
}

func (e *Engine) remove(id int) {
	delete(e.active, id)
	for i, v := range e.order {
		if v == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			return
		}
	}
}
