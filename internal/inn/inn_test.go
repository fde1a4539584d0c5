package inn

import (
	"errors"
	"testing"

	"InnKeeper/internal/mission"
)

func TestLookup(t *testing.T) {
	in := New(DefaultState())

	keeper, ok := in.Lookup(mission.Player())
	if !ok || !keeper.Eligible(mission.Player()) {
		t.Fatalf("keeper should always be available, got %+v", keeper)
	}
	if keeper.Attributes[mission.AttrCharisma] != 50 {
		t.Errorf("expected keeper charisma 50, got %d", keeper.Attributes[mission.AttrCharisma])
	}

	bram, ok := in.Lookup(mission.Employee(1))
	if !ok || bram.Name != "Bram" || !bram.Eligible(mission.Employee(1)) {
		t.Errorf("unexpected lookup for employee 1: %+v", bram)
	}
	odile, _ := in.Lookup(mission.Employee(3))
	if odile.Eligible(mission.Employee(3)) {
		t.Error("unhired employee should not be eligible")
	}
	if _, ok := in.Lookup(mission.Employee(99)); ok {
		t.Error("unknown employee should not be found")
	}

	// Lookups hand out copies.
	bram.Attributes[mission.AttrStrength] = 1
	again, _ := in.Lookup(mission.Employee(1))
	if again.Attributes[mission.AttrStrength] != 70 {
		t.Errorf("lookup leaked internal attributes")
	}
}

func TestLedgerAndTrainer(t *testing.T) {
	in := New(State{})
	if in.InnLevel() != 1 {
		t.Fatalf("level should default to 1, got %d", in.InnLevel())
	}
	in.AddCurrency(30)
	in.AddReputation(4)
	in.GrantExperience(60)
	in.AddItem("herbs", 2)

	if in.Silver() != 30 || in.Reputation() != 4 || in.Experience() != 60 {
		t.Errorf("unexpected totals: silver %d rep %d xp %d", in.Silver(), in.Reputation(), in.Experience())
	}
	if in.Inventory().Count("herbs") != 2 {
		t.Errorf("expected 2 herbs")
	}
}

func TestHireAndDismiss(t *testing.T) {
	in := New(DefaultState())

	if err := in.Hire(4); !errors.Is(err, ErrEmployeeLocked) {
		t.Errorf("expected locked error, got %v", err)
	}
	if err := in.Hire(42); !errors.Is(err, ErrUnknownEmployee) {
		t.Errorf("expected unknown error, got %v", err)
	}
	if err := in.Hire(3); err != nil {
		t.Fatalf("hire: %v", err)
	}
	if info, _ := in.Lookup(mission.Employee(3)); !info.Hired {
		t.Error("employee 3 should be hired")
	}

	busy := func(ref mission.ParticipantRef) bool { return ref == mission.Employee(3) }
	if err := in.Dismiss(3, busy); !errors.Is(err, ErrEmployeeBusy) {
		t.Errorf("expected busy error, got %v", err)
	}
	if err := in.Dismiss(3, nil); err != nil {
		t.Fatalf("dismiss: %v", err)
	}
	if info, _ := in.Lookup(mission.Employee(3)); info.Hired {
		t.Error("employee 3 should be dismissed")
	}
}

func TestUpgrade(t *testing.T) {
	state := DefaultState()
	state.Silver = UpgradeCost(1) + UpgradeCost(2) - 1
	in := New(state)

	level, err := in.Upgrade()
	if err != nil || level != 2 {
		t.Fatalf("expected level 2, got %d (%v)", level, err)
	}
	if in.Silver() != UpgradeCost(2)-1 {
		t.Errorf("expected %d silver left, got %d", UpgradeCost(2)-1, in.Silver())
	}
	if _, err := in.Upgrade(); !errors.Is(err, ErrInsufficientSilver) {
		t.Errorf("expected insufficient silver, got %v", err)
	}

	in.AddCurrency(1)
	if level, err := in.Upgrade(); err != nil || level != 3 {
		t.Fatalf("expected level 3, got %d (%v)", level, err)
	}
	if info, _ := in.Lookup(mission.Employee(4)); !info.Unlocked {
		t.Error("employee 4 should unlock at level 3")
	}
	if info, _ := in.Lookup(mission.Employee(5)); info.Unlocked {
		t.Error("employee 5 should still be locked at level 3")
	}

	maxed := New(State{Level: MaxLevel, Silver: 1 << 30})
	if _, err := maxed.Upgrade(); !errors.Is(err, ErrMaxLevel) {
		t.Errorf("expected max level error, got %v", err)
	}
}

func TestRestoreCopiesState(t *testing.T) {
	state := DefaultState()
	state.Staff = append(state.Staff, Employee{ID: 1, Name: "Impostor"})
	in := New(state)

	if got := len(in.Staff()); got != 5 {
		t.Fatalf("duplicate employee should be dropped, have %d staff", got)
	}
	state.Staff[0].Name = "Changed"
	state.Player[mission.AttrAgility] = 99
	if in.Staff()[0].Name != "Bram" {
		t.Error("inn shares staff with caller")
	}
	if info, _ := in.Lookup(mission.Player()); info.Attributes[mission.AttrAgility] == 99 {
		t.Error("inn shares player attributes with caller")
	}

	snap := in.State()
	snap.Inventory.AddItem("herbs", 1)
	if in.Inventory().Count("herbs") != 0 {
		t.Error("State should return a deep copy")
	}
}

func TestInnDrivesMissions(t *testing.T) {
	in := New(DefaultState())
	catalog, err := mission.LoadCatalogFile("")
	if err != nil {
		t.Fatal(err)
	}
	engine, err := mission.NewEngine(catalog, mission.Options{
		Roster:    in,
		Standing:  in,
		Ledger:    in,
		Inventory: in,
		Trainer:   in,
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(engine.AvailableMissions()) == 0 {
		t.Fatal("a fresh inn should have missions available")
	}
	if _, err := engine.Dispatch(engine.AvailableMissions()[0].ID, []mission.ParticipantRef{mission.Employee(3)}); !errors.Is(err, mission.ErrParticipantUnavailable) {
		t.Errorf("unhired staff should be rejected, got %v", err)
	}
}
