package mission

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	inn := newFakeInn()
	scout := inn.hire(1, attrsFor(TypeEscort, 60, 40))
	rng := quiet()
	e := newTestEngine(t, inn, rng)

	// One finished mission for the history.
	_, err := e.Dispatch("test.quick", []ParticipantRef{Player()})
	require.NoError(t, err)
	require.Len(t, e.Advance(), 1)

	// One mission part way through, with an event at its first checkpoint.
	rng.floats = []float64{0}
	rng.ints = []int{1}
	in, err := e.Dispatch("test.normal", []ParticipantRef{scout})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.Empty(t, e.Advance())
	}
	before, _ := e.Mission(in.ID)
	require.Equal(t, 3, before.Elapsed)
	require.Equal(t, 50, before.Progress)
	require.Equal(t, 59, before.SuccessRate)
	require.Equal(t, []Checkpoint{{2, true}, {4, false}, {6, false}}, before.Checkpoints)

	data, err := e.Serialize().Encode()
	require.NoError(t, err)
	decoded, err := DecodeSnapshot(data)
	require.NoError(t, err)

	restored := newTestEngine(t, newFakeInnWith(scout), quiet())
	assert.Zero(t, restored.Deserialize(decoded))

	assert.Equal(t, e.ActiveMissions(), restored.ActiveMissions())
	assert.Equal(t, e.History(100), restored.History(100))
	assert.Equal(t, e.Tick(), restored.Tick())
	assert.True(t, restored.IsBusy(scout))
	assert.Equal(t, e.Serialize(), restored.Serialize())

	next, err := restored.Dispatch("test.quick", []ParticipantRef{Player()})
	require.NoError(t, err)
	assert.Equal(t, 3, next.ID)

	// The restored mission finishes on the same tick the original would.
	var resolved []Outcome
	for i := 0; i < 3; i++ {
		resolved = append(resolved, restored.Advance()...)
	}
	ids := make([]int, 0, len(resolved))
	for _, o := range resolved {
		ids = append(ids, o.MissionID)
	}
	assert.Contains(t, ids, in.ID)
}

func newFakeInnWith(staff ...ParticipantRef) *fakeInn {
	inn := newFakeInn()
	for _, ref := range staff {
		inn.staff[ref] = ParticipantInfo{Attributes: attrsFor(TypeEscort, 60, 40), Unlocked: true, Hired: true}
	}
	return inn
}

func TestDeserializeRepairsPartialState(t *testing.T) {
	raw := []byte(`{
		"activeMissions": [
			{"id": 3, "definitionId": "test.normal", "participants": [{"ref": "player", "primary": 60, "secondary": 40}], "elapsed": 3},
			{"id": 4, "definitionId": "missing", "participants": [{"ref": "employee:1"}]},
			{"id": 5, "definitionId": "test.hard", "participants": [{"ref": "player"}]},
			{"id": 6, "definitionId": "test.hard", "state": "COMPLETED", "participants": [{"ref": "employee:2"}]},
			{"id": 7, "definitionId": "test.normal", "state": "RETURNING", "elapsed": 2, "participants": [{"ref": "employee:3", "primary": 50, "secondary": 50}]}
		],
		"cooldowns": {"test.cooldown": 2, "unknown": 4}
	}`)
	s, err := DecodeSnapshot(raw)
	require.NoError(t, err)

	e := newTestEngine(t, newFakeInn(), quiet())
	assert.Equal(t, 3, e.Deserialize(s))

	active := e.ActiveMissions()
	require.Len(t, active, 2)

	first := active[0]
	assert.Equal(t, 3, first.ID)
	assert.Equal(t, 6, first.Duration)
	assert.Equal(t, 54, first.SuccessRate)
	assert.Equal(t, 50, first.Progress)
	assert.Equal(t, StateInProgress, first.State)
	assert.Equal(t, []Checkpoint{{2, true}, {4, false}, {6, false}}, first.Checkpoints)
	assert.NotNil(t, first.Events)

	returning := active[1]
	assert.Equal(t, StateReturning, returning.State)
	assert.Equal(t, 2, returning.ReturnDuration)

	assert.True(t, e.IsBusy(Player()))
	assert.True(t, e.IsBusy(Employee(3)))
	assert.False(t, e.IsBusy(Employee(1)))
	assert.Equal(t, 2, e.Cooldown("test.cooldown"))
	assert.Zero(t, e.Cooldown("unknown"))
	assert.Empty(t, e.History(10))
	assert.Equal(t, 8, e.Serialize().NextMissionID)
}

func TestDeserializeEmptyAndTrimsHistory(t *testing.T) {
	e := newTestEngine(t, newFakeInn(), quiet())
	_, err := e.Dispatch("test.normal", []ParticipantRef{Player()})
	require.NoError(t, err)

	s, err := DecodeSnapshot([]byte(`{}`))
	require.NoError(t, err)
	assert.Zero(t, e.Deserialize(s))
	assert.Empty(t, e.ActiveMissions())
	assert.False(t, e.IsBusy(Player()))
	assert.Equal(t, 1, e.Serialize().NextMissionID)

	var long Snapshot
	for id := 1; id <= 130; id++ {
		long.MissionHistory = append(long.MissionHistory, HistoryRecord{MissionID: id, DefinitionID: "test.quick"})
	}
	e.Deserialize(long)
	history := e.History(1000)
	require.Len(t, history, DefaultHistoryLimit)
	assert.Equal(t, 130, history[0].MissionID)
	assert.Equal(t, 31, history[len(history)-1].MissionID)
	assert.Equal(t, 131, e.Serialize().NextMissionID)
}

func TestDecodeSnapshotRejectsGarbage(t *testing.T) {
	_, err := DecodeSnapshot([]byte("not json"))
	assert.Error(t, err)
}
