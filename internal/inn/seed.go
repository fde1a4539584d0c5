package inn

import "InnKeeper/internal/mission"

// DefaultState is a fresh inn: level 1, a little silver, the keeper and
// a handful of prospective staff.
func DefaultState() State {
	return State{
		Level:  1,
		Silver: 100,
		Player: attrs(45, 45, 50, 50, 45, 45),
		Staff: []Employee{
			{ID: 1, Name: "Bram", Attributes: attrs(70, 65, 30, 35, 40, 45), Unlocked: true, Hired: true},
			{ID: 2, Name: "Wren", Attributes: attrs(35, 40, 55, 50, 70, 72), Unlocked: true, Hired: true},
			{ID: 3, Name: "Odile", Attributes: attrs(30, 35, 75, 68, 50, 40), Unlocked: true},
			{ID: 4, Name: "Hask", Attributes: attrs(60, 78, 25, 30, 45, 66)},
			{ID: 5, Name: "Sefa", Attributes: attrs(55, 50, 60, 62, 65, 58)},
		},
	}
}

// attrs lists strength, physique, charisma, intelligence, perception and
// agility in that order.
func attrs(str, phy, cha, intel, per, agi int) map[mission.Attribute]int {
	return map[mission.Attribute]int{
		mission.AttrStrength:     str,
		mission.AttrPhysique:     phy,
		mission.AttrCharisma:     cha,
		mission.AttrIntelligence: intel,
		mission.AttrPerception:   per,
		mission.AttrAgility:      agi,
	}
}
