package mission

import "fmt"

// Outcome is the result of a resolved mission. A failed mission is a normal
// outcome, not an error.
type Outcome struct {
	MissionID    int           `json:"missionId"`
	DefinitionID string        `json:"definitionId"`
	Success      bool          `json:"success"`
	Roll         float64       `json:"roll"`
	SuccessRate  int           `json:"successRate"`
	Rewards      Rewards       `json:"rewards"`
	Participants []Participant `json:"participants"`
	Events       []TravelEvent `json:"events"`
	Recalled     bool          `json:"recalled,omitempty"`
}

// resolve rolls the outcome, pays out, releases the team, records history
// and drops the instance from the active set.
func (e *Engine) resolve(in *Instance) Outcome {
	def, _ := e.catalog.Get(in.DefinitionID)
	roll := e.opts.Rand.Float64() * 100
	success := roll <= float64(in.SuccessRate)
	recalled := in.State == StateReturning

	var rewards Rewards
	if success {
		rewards = SuccessRewards(def, in.HasBonus())
		e.applySuccess(in, rewards)
		in.State = StateCompleted
	} else {
		rewards = FailureRewards(def)
		if rewards.Silver > 0 {
			e.opts.Ledger.AddCurrency(rewards.Silver)
		}
		in.State = StateFailed
	}
	in.Progress = progressOf(in.Elapsed, in.Duration)

	e.locks.Release(in.Refs())
	e.history.Append(HistoryRecord{
		MissionID:     in.ID,
		DefinitionID:  in.DefinitionID,
		Participants:  append([]Participant(nil), in.Participants...),
		Success:       success,
		Rewards:       rewards,
		Duration:      in.Duration,
		EventCount:    in.EventCount(),
		Recalled:      recalled,
		CompletedAt:   e.now(),
		CompletedTick: e.tick,
	})
	e.remove(in.ID)
	if def.Cooldown > 0 {
		e.cooldowns[def.ID] = def.Cooldown
	}

	e.notifyOutcome(def, success, rewards)
	e.log.Info("mission resolved",
		"mission", in.ID, "definition", in.DefinitionID, "success", success,
		"roll", roll, "successRate", in.SuccessRate, "silver", rewards.Silver)

	return Outcome{
		MissionID:    in.ID,
		DefinitionID: in.DefinitionID,
		Success:      success,
		Roll:         roll,
		SuccessRate:  in.SuccessRate,
		Rewards:      rewards,
		Participants: in.Participants,
		Events:       in.Events,
		Recalled:     recalled,
	}
}

func (e *Engine) applySuccess(in *Instance, r Rewards) {
	if r.Silver > 0 {
		e.opts.Ledger.AddCurrency(r.Silver)
	}
	if r.Reputation > 0 {
		e.opts.Ledger.AddReputation(r.Reputation)
	}
	for _, item := range r.Items {
		e.opts.Inventory.AddItem(item.ItemID, item.Quantity)
	}
	if r.Experience <= 0 {
		return
	}
	for _, p := range in.Participants {
		if p.Ref.IsPlayer() {
			e.opts.Trainer.GrantExperience(r.Experience)
		}
		// Staff experience is not modelled yet; employees gain nothing.
	}
}

func (e *Engine) notifyOutcome(def *Definition, success bool, r Rewards) {
	name := def.Name
	if name == "" {
		name = def.ID
	}
	if success {
		e.opts.Notifier.Notify(NotifySuccess, "Mission complete",
			fmt.Sprintf("%s succeeded: +%d silver, +%d experience, +%d reputation", name, r.Silver, r.Experience, r.Reputation))
		return
	}
	e.opts.Notifier.Notify(NotifyFailure, "Mission failed",
		fmt.Sprintf("%s failed: +%d silver", name, r.Silver))
}
