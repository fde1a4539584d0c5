package mission

// LockRegistry records which participants are committed to which active
// mission. It is the only place busy state lives.
type LockRegistry struct {
	owners map[ParticipantRef]int
}

// NewLockRegistry creates an empty registry.
func NewLockRegistry() *LockRegistry {
	return &LockRegistry{owners: make(map[ParticipantRef]int)}
}

// IsBusy reports whether ref is locked by any mission.
func (l *LockRegistry) IsBusy(ref ParticipantRef) bool {
	_, busy := l.owners[ref]
	return busy
}

// Owner returns the mission holding ref.
func (l *LockRegistry) Owner(ref ParticipantRef) (int, bool) {
	id, ok := l.owners[ref]
	return id, ok
}

// Lock assigns every ref to missionID. Relocking a ref to the same mission
// is a no-op. Callers check IsBusy first; Lock does not arbitrate.
func (l *LockRegistry) Lock(refs []ParticipantRef, missionID int) {
	for _, ref := range refs {
		l.owners[ref] = missionID
	}
}

// Release frees every ref. Releasing a free ref is a no-op.
func (l *LockRegistry) Release(refs []ParticipantRef) {
	for _, ref := range refs {
		delete(l.owners, ref)
	}
}

// Len returns how many participants are locked.
func (l *LockRegistry) Len() int { return len(l.owners) }

func (l *LockRegistry) reset() {
	clear(l.owners)
}
