package server

import (
	"InnKeeper/internal/inn"
	"InnKeeper/internal/mission"
)

type participantDTO struct {
	Ref  string `json:"ref"`
	Name string `json:"name"`
}

type missionDTO struct {
	ID             int                   `json:"id"`
	DefinitionID   string                `json:"definitionId"`
	Name           string                `json:"name"`
	Type           mission.Type          `json:"type"`
	Difficulty     mission.Difficulty    `json:"difficulty"`
	Participants   []participantDTO      `json:"participants"`
	State          mission.State         `json:"state"`
	Progress       int                   `json:"progress"`
	Elapsed        int                   `json:"elapsed"`
	Duration       int                   `json:"duration"`
	Remaining      int                   `json:"remaining"`
	SuccessRate    int                   `json:"successRate"`
	Events         []mission.TravelEvent `json:"events"`
	ReturnProgress int                   `json:"returnProgress,omitempty"`
}

type definitionDTO struct {
	*mission.Definition
	Available    bool `json:"available"`
	CooldownLeft int  `json:"cooldownLeft,omitempty"`
}

type historyDTO struct {
	mission.HistoryRecord
	Name string `json:"name"`
}

type staffDTO struct {
	inn.Employee
	Busy      bool `json:"busy"`
	MissionID int  `json:"missionId,omitempty"`
}

type innDTO struct {
	Level       int        `json:"level"`
	Silver      int        `json:"silver"`
	Reputation  int        `json:"reputation"`
	Experience  int        `json:"experience"`
	UpgradeCost int        `json:"upgradeCost,omitempty"`
	Inventory   []inn.Item `json:"inventory"`
	Staff       []staffDTO `json:"staff"`
}

type stateDTO struct {
	Tick      int             `json:"tick"`
	Inn       innDTO          `json:"inn"`
	Active    []missionDTO    `json:"active"`
	Available []definitionDTO `json:"available"`
	Stats     mission.Stats   `json:"stats"`
}

type tickDTO struct {
	Tick     int               `json:"tick"`
	Active   []missionDTO      `json:"active"`
	Outcomes []mission.Outcome `json:"outcomes,omitempty"`
}

type notificationDTO struct {
	Kind    mission.NotificationKind `json:"kind"`
	Title   string                   `json:"title"`
	Message string                   `json:"message"`
}

type dispatchRequest struct {
	DefinitionID string   `json:"definitionId"`
	Participants []string `json:"participants"`
}

type missionRequest struct {
	MissionID int `json:"missionId"`
}

type staffRequest struct {
	EmployeeID int `json:"employeeId"`
}

type slotRequest struct {
	Slot string `json:"slot"`
}

// The helpers below expect the caller to hold App.mu.

func (a *App) missionDTOLocked(in *mission.Instance) missionDTO {
	dto := missionDTO{
		ID:             in.ID,
		DefinitionID:   in.DefinitionID,
		State:          in.State,
		Progress:       in.Progress,
		Elapsed:        in.Elapsed,
		Duration:       in.Duration,
		Remaining:      in.Remaining(),
		SuccessRate:    in.SuccessRate,
		Events:         in.Events,
		ReturnProgress: in.ReturnProgress,
	}
	if def, ok := a.engine.Catalog().Get(in.DefinitionID); ok {
		dto.Name = def.Name
		dto.Type = def.Type
		dto.Difficulty = def.Difficulty
	}
	for _, p := range in.Participants {
		info, _ := a.inn.Lookup(p.Ref)
		dto.Participants = append(dto.Participants, participantDTO{Ref: p.Ref.String(), Name: info.Name})
	}
	return dto
}

func (a *App) activeDTOsLocked() []missionDTO {
	active := a.engine.ActiveMissions()
	out := make([]missionDTO, 0, len(active))
	for _, in := range active {
		out = append(out, a.missionDTOLocked(in))
	}
	return out
}

func (a *App) availableDTOsLocked() []definitionDTO {
	defs := a.engine.AvailableMissions()
	out := make([]definitionDTO, 0, len(defs))
	for _, def := range defs {
		out = append(out, definitionDTO{Definition: def, Available: true})
	}
	return out
}

func (a *App) catalogDTOsLocked() []definitionDTO {
	available := make(map[string]bool)
	for _, def := range a.engine.AvailableMissions() {
		available[def.ID] = true
	}
	all := a.engine.Catalog().All()
	out := make([]definitionDTO, 0, len(all))
	for _, def := range all {
		out = append(out, definitionDTO{
			Definition:   def,
			Available:    available[def.ID],
			CooldownLeft: a.engine.Cooldown(def.ID),
		})
	}
	return out
}

func (a *App) historyDTOsLocked(limit int) []historyDTO {
	recs := a.engine.History(limit)
	out := make([]historyDTO, 0, len(recs))
	for _, rec := range recs {
		dto := historyDTO{HistoryRecord: rec}
		if def, ok := a.engine.Catalog().Get(rec.DefinitionID); ok {
			dto.Name = def.Name
		}
		out = append(out, dto)
	}
	return out
}

func (a *App) innDTOLocked() innDTO {
	state := a.inn.State()
	dto := innDTO{
		Level:      state.Level,
		Silver:     state.Silver,
		Reputation: state.Reputation,
		Experience: state.Experience,
		Inventory:  state.Inventory.Items,
	}
	if state.Level < inn.MaxLevel {
		dto.UpgradeCost = inn.UpgradeCost(state.Level)
	}
	for _, emp := range a.inn.Staff() {
		s := staffDTO{Employee: emp}
		s.MissionID, s.Busy = a.engine.Locks().Owner(mission.Employee(emp.ID))
		dto.Staff = append(dto.Staff, s)
	}
	return dto
}

func (a *App) stateDTOLocked() stateDTO {
	return stateDTO{
		Tick:      a.engine.Tick(),
		Inn:       a.innDTOLocked(),
		Active:    a.activeDTOsLocked(),
		Available: a.availableDTOsLocked(),
		Stats:     a.engine.Stats(),
	}
}
