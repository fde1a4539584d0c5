package mission

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdvanceResolvesAtDuration(t *testing.T) {
	inn := newFakeInn()
	scout := inn.hire(1, attrsFor(TypeEscort, 60, 40))
	e := newTestEngine(t, inn, quiet())

	dispatched, err := e.Dispatch("test.normal", []ParticipantRef{scout})
	require.NoError(t, err)
	live := e.active[dispatched.ID]

	wantProgress := []int{16, 33, 50, 66, 83}
	wantState := []State{StateTraveling, StateInProgress, StateInProgress, StateInProgress, StateInProgress}
	for tick := 0; tick < 5; tick++ {
		outcomes := e.Advance()
		require.Empty(t, outcomes, "tick %d", tick+1)
		got, ok := e.Mission(dispatched.ID)
		require.True(t, ok)
		assert.Equal(t, tick+1, got.Elapsed)
		assert.Equal(t, wantProgress[tick], got.Progress)
		assert.Equal(t, wantState[tick], got.State)
	}

	outcomes := e.Advance()
	require.Len(t, outcomes, 1)
	assert.Empty(t, e.ActiveMissions())
	assert.False(t, e.IsBusy(scout))
	assert.Equal(t, 100, live.Progress)
	assert.Equal(t, StateCompleted, live.State)

	// Three checkpoints, each recorded as a quiet stretch of road.
	require.Len(t, live.Events, 3)
	for i, ev := range live.Events {
		assert.True(t, ev.Neutral())
		assert.Equal(t, (i+1)*2, ev.HourOffset)
	}
	for _, cp := range live.Checkpoints {
		assert.True(t, cp.Triggered)
	}
}

func TestCheckpointsFireInOffsetOrder(t *testing.T) {
	inn := newFakeInn()
	scout := inn.hire(1, attrsFor(TypeEscort, 60, 40))
	rng := &scriptedRoller{floats: []float64{0, 0, 0}, ints: []int{0, 1, 2}, fallback: 0.5}
	e := newTestEngine(t, inn, rng)

	dispatched, err := e.Dispatch("test.normal", []ParticipantRef{scout})
	require.NoError(t, err)

	// Simulate a restored mission that skipped ahead: three checkpoints
	// become due on the same tick.
	in := e.active[dispatched.ID]
	in.Elapsed = 5
	require.True(t, e.step(in))

	require.Len(t, in.Events, 3)
	assert.Equal(t, "bandit_ambush", in.Events[0].Type)
	assert.Equal(t, "safe_passage", in.Events[1].Type)
	assert.Equal(t, "shortcut", in.Events[2].Type)
	assert.Equal(t, []int{2, 4, 6}, []int{in.Events[0].HourOffset, in.Events[1].HourOffset, in.Events[2].HourOffset})
	assert.Equal(t, 54-10+5, in.SuccessRate)
	assert.Equal(t, 6, in.Duration, "nothing left to shorten on the final tick")
	assert.Equal(t, 100, in.Progress)
}

func TestApplyEffect(t *testing.T) {
	tests := []struct {
		name         string
		in           Instance
		effect       Effect
		wantRate     int
		wantDuration int
	}{
		{"rate up", Instance{SuccessRate: 50, Duration: 6}, SuccessRateDelta(10), 60, 6},
		{"rate clamps high", Instance{SuccessRate: 94, Duration: 6}, SuccessRateDelta(10), 95, 6},
		{"rate clamps low", Instance{SuccessRate: 12, Duration: 6}, SuccessRateDelta(-15), 10, 6},
		{"shorten", Instance{SuccessRate: 50, Duration: 10, Elapsed: 2}, DurationReduction(2), 50, 8},
		{"keeps one tick", Instance{SuccessRate: 50, Duration: 6, Elapsed: 4}, DurationReduction(2), 50, 5},
		{"never lengthens", Instance{SuccessRate: 50, Duration: 6, Elapsed: 6}, DurationReduction(1), 50, 6},
		{"large cut from start", Instance{SuccessRate: 50, Duration: 6}, DurationReduction(10), 50, 1},
		{"bonus is inert", Instance{SuccessRate: 50, Duration: 6}, BonusReward(), 50, 6},
		{"neutral is inert", Instance{SuccessRate: 50, Duration: 6}, Effect{}, 50, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			applyEffect(&in, tt.effect)
			assert.Equal(t, tt.wantRate, in.SuccessRate)
			assert.Equal(t, tt.wantDuration, in.Duration)
		})
	}
}

func TestDurationReductionShortensMission(t *testing.T) {
	inn := newFakeInn()
	scout := inn.hire(1, attrsFor(TypeEscort, 60, 40))
	// Fire "shortcut" at the first checkpoint, then stay quiet.
	rng := &scriptedRoller{floats: []float64{0}, ints: []int{2}, fallback: 0.5}
	e := newTestEngine(t, inn, rng)

	_, err := e.Dispatch("test.normal", []ParticipantRef{scout})
	require.NoError(t, err)

	ticks := 0
	for len(e.ActiveMissions()) > 0 {
		e.Advance()
		ticks++
		require.LessOrEqual(t, ticks, 6)
	}
	assert.Equal(t, 5, ticks)
	rec := e.History(1)[0]
	assert.Equal(t, 5, rec.Duration)
	assert.Equal(t, 1, rec.EventCount)
}

// TestRandomizedInvariants drives the engine with random commands and
// checks the structural invariants after every step.
func TestRandomizedInvariants(t *testing.T) {
	inn := newFakeInn()
	refs := []ParticipantRef{Player()}
	for id := 1; id <= 5; id++ {
		refs = append(refs, inn.hire(id, uniform(30+id*10)))
	}
	rng := rand.New(rand.NewSource(42))
	e := newTestEngine(t, inn, rng)
	ops := rand.New(rand.NewSource(7))
	defs := []string{"test.normal", "test.hard", "test.quick", "test.cooldown"}

	lastProgress := make(map[int]int)
	lastDuration := make(map[int]int)
	for step := 0; step < 3000; step++ {
		switch op := ops.Intn(10); {
		case op < 4:
			n := 1 + ops.Intn(3)
			pick := make([]ParticipantRef, 0, n)
			for _, i := range ops.Perm(len(refs))[:n] {
				pick = append(pick, refs[i])
			}
			if _, err := e.Dispatch(defs[ops.Intn(len(defs))], pick); err != nil {
				require.ErrorIs(t, err, ErrValidation)
			}
		case op == 4:
			if active := e.ActiveMissions(); len(active) > 0 {
				require.NoError(t, e.CancelMission(active[ops.Intn(len(active))].ID))
			}
		case op == 5:
			if active := e.ActiveMissions(); len(active) > 0 {
				err := e.RecallMission(active[ops.Intn(len(active))].ID)
				if err != nil {
					require.ErrorIs(t, err, ErrNotRecallable)
				}
			}
		default:
			e.Advance()
		}

		assertExclusive(t, e)
		for _, in := range e.ActiveMissions() {
			require.GreaterOrEqual(t, in.SuccessRate, MinSuccessRate)
			require.LessOrEqual(t, in.SuccessRate, MaxSuccessRate)
			require.GreaterOrEqual(t, in.Progress, lastProgress[in.ID])
			require.LessOrEqual(t, in.Progress, 100)
			if prev, ok := lastDuration[in.ID]; ok {
				require.LessOrEqual(t, in.Duration, prev)
			}
			require.Less(t, in.Elapsed, in.Duration)
			lastProgress[in.ID] = in.Progress
			lastDuration[in.ID] = in.Duration
		}
		require.LessOrEqual(t, e.history.Len(), DefaultHistoryLimit)
	}
}
