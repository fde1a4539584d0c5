package mission

// EventChance is the probability that a due checkpoint fires a travel event.
const EventChance = 0.3

// EffectKind tags an Effect.
type EffectKind string

const (
	// EffectNone marks a neutral "no incident" entry.
	EffectNone EffectKind = ""
	// EffectSuccessRate shifts the success rate by Amount (clamped to 10..95).
	EffectSuccessRate EffectKind = "successRateDelta"
	// EffectDuration shortens the mission by Amount ticks, leaving at least one.
	EffectDuration EffectKind = "durationReduction"
	// EffectBonusReward flags the mission for the reward bonus.
	EffectBonusReward EffectKind = "bonusReward"
)

// Effect is the result of a travel event. Only Amount of the tagged kind is
// meaningful; build values with the constructors below.
type Effect struct {
	Kind   EffectKind `json:"kind,omitempty"`
	Amount int        `json:"amount,omitempty"`
}

// SuccessRateDelta returns an effect shifting the success rate.
func SuccessRateDelta(delta int) Effect {
	return Effect{Kind: EffectSuccessRate, Amount: delta}
}

// DurationReduction returns an effect shortening the mission.
func DurationReduction(ticks int) Effect {
	return Effect{Kind: EffectDuration, Amount: ticks}
}

// BonusReward returns the reward bonus effect.
func BonusReward() Effect {
	return Effect{Kind: EffectBonusReward}
}

// TravelEvent is an entry in an instance's event list.
type TravelEvent struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Effect      Effect `json:"effect"`
	HourOffset  int    `json:"hourOffset"`
}

// Neutral reports whether the entry is a "no incident" record.
func (e TravelEvent) Neutral() bool { return e.Effect.Kind == EffectNone }

const noIncidentType = "no_incident"

func noIncident(offset int) TravelEvent {
	return TravelEvent{
		Type:        noIncidentType,
		Description: "The road was quiet.",
		HourOffset:  offset,
	}
}

// eventTables lists the travel events each mission type can draw.
var eventTables = map[Type][]TravelEvent{
	TypeEscort: {
		{Type: "bandit_ambush", Description: "Bandits ambushed the caravan.", Effect: SuccessRateDelta(-10)},
		{Type: "safe_passage", Description: "A patrol escorted the party for a stretch.", Effect: SuccessRateDelta(5)},
		{Type: "shortcut", Description: "The client knew a shortcut.", Effect: DurationReduction(1)},
		{Type: "grateful_client", Description: "The client promised a generous tip.", Effect: BonusReward()},
	},
	TypeTrade: {
		{Type: "toll_road", Description: "A greedy toll keeper slowed negotiations.", Effect: SuccessRateDelta(-5)},
		{Type: "old_friend", Description: "An old friend vouched for the party.", Effect: SuccessRateDelta(10)},
		{Type: "fast_roads", Description: "The roads were dry and fast.", Effect: DurationReduction(1)},
		{Type: "market_boom", Description: "Prices soared at the market.", Effect: BonusReward()},
	},
	TypeExplore: {
		{Type: "storm", Description: "A storm forced the party to shelter.", Effect: SuccessRateDelta(-10)},
		{Type: "local_guide", Description: "A local guide offered directions.", Effect: SuccessRateDelta(5)},
		{Type: "secret_path", Description: "The party found a hidden path.", Effect: DurationReduction(2)},
		{Type: "hidden_cache", Description: "The party found a forgotten cache.", Effect: BonusReward()},
	},
	TypeGather: {
		{Type: "wild_beast", Description: "A wild beast prowled the gathering site.", Effect: SuccessRateDelta(-15)},
		{Type: "good_weather", Description: "Clear skies made the work easy.", Effect: SuccessRateDelta(5)},
		{Type: "helping_hands", Description: "Villagers lent a hand.", Effect: DurationReduction(1)},
		{Type: "rich_vein", Description: "The party struck a rich patch.", Effect: BonusReward()},
	},
}

// EventTable returns the events a mission type can draw.
func EventTable(t Type) []TravelEvent {
	return append([]TravelEvent(nil), eventTables[t]...)
}

// rollEvent decides whether a checkpoint fires and which event it draws.
func rollEvent(rng Roller, t Type, offset int) TravelEvent {
	table := eventTables[t]
	if len(table) == 0 || rng.Float64() >= EventChance {
		return noIncident(offset)
	}
	ev := table[rng.Intn(len(table))]
	ev.HourOffset = offset
	return ev
}

// applyEffect mutates the instance. Duration only ever shrinks and always
// leaves at least one tick to go; if nothing remains, the reduction is void.
func applyEffect(in *Instance, eff Effect) {
	switch eff.Kind {
	case EffectSuccessRate:
		in.SuccessRate = clampRate(in.SuccessRate + eff.Amount)
	case EffectDuration:
		if eff.Amount <= 0 {
			return
		}
		floor := min(in.Duration, in.Elapsed+1)
		in.Duration = max(in.Duration-eff.Amount, floor)
	case EffectBonusReward, EffectNone:
		// recorded on the event list only
	}
}
