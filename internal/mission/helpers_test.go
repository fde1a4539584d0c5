package mission

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeInn implements every collaborator the engine consumes.
type fakeInn struct {
	level      int
	reputation int

	silver     int
	repGained  int
	experience int
	xpGrants   int
	items      map[string]int
	notes      []NotificationKind

	staff map[ParticipantRef]ParticipantInfo
}

func newFakeInn() *fakeInn {
	return &fakeInn{
		level: 1,
		items: make(map[string]int),
		staff: map[ParticipantRef]ParticipantInfo{
			Player(): {Name: "Keeper", Attributes: uniform(50)},
		},
	}
}

// uniform gives every attribute the same value.
func uniform(v int) map[Attribute]int {
	m := make(map[Attribute]int)
	for _, t := range Types() {
		p, s, _ := ScoringAttributes(t)
		m[p], m[s] = v, v
	}
	return m
}

// attrsFor sets the scoring pair of one mission type.
func attrsFor(t Type, primary, secondary int) map[Attribute]int {
	p, s, _ := ScoringAttributes(t)
	return map[Attribute]int{p: primary, s: secondary}
}

func (f *fakeInn) hire(id int, attributes map[Attribute]int) ParticipantRef {
	ref := Employee(id)
	f.staff[ref] = ParticipantInfo{Attributes: attributes, Unlocked: true, Hired: true}
	return ref
}

func (f *fakeInn) Lookup(ref ParticipantRef) (ParticipantInfo, bool) {
	info, ok := f.staff[ref]
	return info, ok
}
func (f *fakeInn) InnLevel() int                          { return f.level }
func (f *fakeInn) Reputation() int                        { return f.reputation }
func (f *fakeInn) AddCurrency(n int)                      { f.silver += n }
func (f *fakeInn) AddReputation(n int)                    { f.repGained += n }
func (f *fakeInn) AddItem(id string, qty int)             { f.items[id] += qty }
func (f *fakeInn) GrantExperience(n int)                  { f.experience += n; f.xpGrants++ }
func (f *fakeInn) Notify(k NotificationKind, _, _ string) { f.notes = append(f.notes, k) }

// scriptedRoller replays queued values, then falls back to constants.
type scriptedRoller struct {
	floats   []float64
	ints     []int
	fallback float64
}

func (r *scriptedRoller) Float64() float64 {
	if len(r.floats) > 0 {
		v := r.floats[0]
		r.floats = r.floats[1:]
		return v
	}
	return r.fallback
}

func (r *scriptedRoller) Intn(n int) int {
	if len(r.ints) > 0 {
		v := r.ints[0]
		r.ints = r.ints[1:]
		return v % n
	}
	return 0
}

// quiet never fires travel events and succeeds whenever the rate is >= 50.
func quiet() *scriptedRoller { return &scriptedRoller{fallback: 0.5} }

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testDefinitions() []Definition {
	return []Definition{
		{ID: "test.normal", Name: "Normal Escort", Type: TypeEscort, Difficulty: DifficultyNormal, Duration: 6,
			Rewards: Rewards{Silver: 100, Experience: 50, Reputation: 3, Items: []ItemReward{{ItemID: "herbs", Quantity: 2}}}},
		{ID: "test.hard", Name: "Hard Escort", Type: TypeEscort, Difficulty: DifficultyHard, Duration: 2,
			Rewards: Rewards{Silver: 100, Experience: 100}},
		{ID: "test.quick", Name: "Quick Errand", Type: TypeGather, Difficulty: DifficultyEasy, Duration: 1,
			Rewards: Rewards{Silver: 10}},
		{ID: "test.locked", Name: "Locked", Type: TypeTrade, Difficulty: DifficultyNormal, Duration: 4,
			Requirements: Requirements{MinInnLevel: 3, MinReputation: 20}},
		{ID: "test.cooldown", Name: "Cooldown", Type: TypeExplore, Difficulty: DifficultyEasy, Duration: 1, Cooldown: 3,
			Rewards: Rewards{Silver: 5}},
	}
}

func newTestEngine(t *testing.T, inn *fakeInn, rng Roller) *Engine {
	t.Helper()
	catalog, err := NewCatalog(testDefinitions())
	require.NoError(t, err)
	e, err := NewEngine(catalog, Options{
		Roster:    inn,
		Standing:  inn,
		Ledger:    inn,
		Inventory: inn,
		Trainer:   inn,
		Notifier:  inn,
		Rand:      rng,
		Now:       func() time.Time { return fixedNow },
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return e
}

// assertExclusive checks that no participant is on two active missions and
// that the lock registry agrees with the active set.
func assertExclusive(t *testing.T, e *Engine) {
	t.Helper()
	seen := make(map[ParticipantRef]int)
	for _, in := range e.ActiveMissions() {
		for _, ref := range in.Refs() {
			prev, dup := seen[ref]
			require.Falsef(t, dup, "%s on missions %d and %d", ref, prev, in.ID)
			seen[ref] = in.ID
			owner, ok := e.Locks().Owner(ref)
			require.True(t, ok)
			require.Equal(t, in.ID, owner)
		}
	}
	require.Equal(t, len(seen), e.Locks().Len())
}
