package mission

import (
	"log/slog"
	"math/rand"
	"time"
)

// Roster answers who a participant is. The engine only reads it.
type Roster interface {
	Lookup(ref ParticipantRef) (ParticipantInfo, bool)
}

// Standing exposes the inn values that gate definitions.
type Standing interface {
	InnLevel() int
	Reputation() int
}

// Ledger receives currency and reputation. Only the resolver writes to it.
type Ledger interface {
	AddCurrency(amount int)
	AddReputation(amount int)
}

// Inventory receives item rewards.
type Inventory interface {
	AddItem(itemID string, qty int)
}

// Trainer receives player experience.
type Trainer interface {
	GrantExperience(amount int)
}

// NotificationKind classifies a notification.
type NotificationKind string

const (
	NotifySuccess NotificationKind = "success"
	NotifyFailure NotificationKind = "failure"
	NotifyInfo    NotificationKind = "info"
)

// Notifier is a fire-and-forget sink.
type Notifier interface {
	Notify(kind NotificationKind, title, message string)
}

// Roller is the source of randomness. *rand.Rand satisfies it.
type Roller interface {
	Float64() float64
	Intn(n int) int
}

// Options wires the engine to its collaborators. Roster and Standing are
// required; nil sinks discard.
type Options struct {
	Roster    Roster
	Standing  Standing
	Ledger    Ledger
	Inventory Inventory
	Trainer   Trainer
	Notifier  Notifier

	// Rand defaults to a time-seeded *rand.Rand.
	Rand Roller
	// Now stamps history records. Defaults to time.Now.
	Now func() time.Time
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type discard struct{}

func (discard) AddCurrency(int)                         {}
func (discard) AddReputation(int)                       {}
func (discard) AddItem(string, int)                     {}
func (discard) GrantExperience(int)                     {}
func (discard) Notify(NotificationKind, string, string) {}

func (o Options) withDefaults() Options {
	if o.Ledger == nil {
		o.Ledger = discard{}
	}
	if o.Inventory == nil {
		o.Inventory = discard{}
	}
	if o.Trainer == nil {
		o.Trainer = discard{}
	}
	if o.Notifier == nil {
		o.Notifier = discard{}
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}
