package mission

// SeedDefinitions returns the built-in mission catalog used when no catalog
// file is configured.
func SeedDefinitions() []Definition {
	// Helper to build a definition with a single optional item reward.
	build := func(id, name string, t Type, d Difficulty, duration, silver, exp, rep int, item string, qty int, req Requirements) Definition {
		def := Definition{
			ID:         id,
			Name:       name,
			Type:       t,
			Difficulty: d,
			Duration:   duration,
			Rewards: Rewards{
				Silver:     silver,
				Experience: exp,
				Reputation: rep,
			},
			Requirements: req,
		}
		if item != "" {
			def.Rewards.Items = []ItemReward{{ItemID: item, Quantity: qty}}
		}
		return def
	}

	defs := []Definition{
		build("escort.merchant", "Escort the Merchant", TypeEscort, DifficultyEasy, 4, 60, 20, 2, "", 0, Requirements{}),
		build("escort.noble", "Guard the Noble's Carriage", TypeEscort, DifficultyNormal, 6, 100, 40, 5, "", 0, Requirements{MinInnLevel: 2}),
		build("escort.relic", "Relic Convoy", TypeEscort, DifficultyHard, 10, 220, 90, 12, "ancient_coin", 1, Requirements{MinInnLevel: 3, MinReputation: 40}),
		build("trade.village", "Village Market Run", TypeTrade, DifficultyEasy, 4, 80, 15, 1, "flour", 5, Requirements{}),
		build("trade.port", "Port Town Deal", TypeTrade, DifficultyNormal, 8, 150, 35, 4, "spices", 3, Requirements{MinReputation: 10}),
		build("trade.capital", "Capital Trade Fair", TypeTrade, DifficultyHard, 12, 300, 70, 10, "silk", 2, Requirements{MinInnLevel: 4, MinReputation: 60}),
		build("explore.woods", "Scout the Old Woods", TypeExplore, DifficultyNormal, 6, 70, 50, 3, "herbs", 4, Requirements{}),
		build("explore.ruins", "Map the Sunken Ruins", TypeExplore, DifficultyExtreme, 16, 500, 200, 25, "ancient_coin", 3, Requirements{MinInnLevel: 5, MinReputation: 100}),
		build("gather.berries", "Berry Picking", TypeGather, DifficultyEasy, 2, 20, 10, 0, "berries", 6, Requirements{}),
		build("gather.timber", "Fell Timber", TypeGather, DifficultyNormal, 6, 50, 25, 1, "timber", 8, Requirements{MinInnLevel: 2}),
	}
	// Long expeditions cannot be repeated back to back.
	for i := range defs {
		if defs[i].Duration >= 10 {
			defs[i].Cooldown = defs[i].Duration * 2
		}
	}
	return defs
}
