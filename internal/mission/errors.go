package mission

import "errors"

// Base error kinds. Every error returned by the engine unwraps to exactly one
// of these, so callers can branch on the kind with errors.Is.
var (
	// ErrValidation is the kind for rejected requests (bad ids, busy staff, unmet requirements).
	ErrValidation = errors.New("mission: validation failed")
	// ErrInvalidState is the kind for commands aimed at a mission that cannot accept them.
	ErrInvalidState = errors.New("mission: invalid state")
)

var (
	// ErrUnknownDefinition is returned when a definition id is not in the catalog.
	ErrUnknownDefinition = kindError(ErrValidation, "mission: unknown definition")
	// ErrNoParticipants is returned when a dispatch names nobody.
	ErrNoParticipants = kindError(ErrValidation, "mission: no participants")
	// ErrDuplicateParticipant is returned when the same participant is listed twice.
	ErrDuplicateParticipant = kindError(ErrValidation, "mission: duplicate participant")
	// ErrUnknownParticipant is returned when the roster has no such participant.
	ErrUnknownParticipant = kindError(ErrValidation, "mission: unknown participant")
	// ErrParticipantUnavailable is returned for employees that are not unlocked or hired.
	ErrParticipantUnavailable = kindError(ErrValidation, "mission: participant not available")
	// ErrParticipantBusy is returned when a participant is locked by another mission.
	ErrParticipantBusy = kindError(ErrValidation, "mission: participant busy")
	// ErrRequirementsNotMet is returned when inn level or reputation is too low.
	ErrRequirementsNotMet = kindError(ErrValidation, "mission: requirements not met")
	// ErrOnCooldown is returned when a definition was resolved too recently.
	ErrOnCooldown = kindError(ErrValidation, "mission: on cooldown")
	// ErrInvalidDefinition is returned by catalog validation.
	ErrInvalidDefinition = kindError(ErrValidation, "mission: invalid definition")

	// ErrMissionNotFound is returned when no active mission has the id.
	ErrMissionNotFound = kindError(ErrInvalidState, "mission: mission not found")
	// ErrNotRecallable is returned when recall is requested outside TRAVELING/IN_PROGRESS.
	ErrNotRecallable = kindError(ErrInvalidState, "mission: mission cannot be recalled")
	// ErrNotCancellable is returned when cancel is requested on a resolved mission.
	ErrNotCancellable = kindError(ErrInvalidState, "mission: mission cannot be cancelled")
)

type typedError struct {
	kind error
	msg  string
}

func kindError(kind error, msg string) error {
	return &typedError{kind: kind, msg: msg}
}

func (e *typedError) Error() string { return e.msg }

func (e *typedError) Unwrap() error { return e.kind }
