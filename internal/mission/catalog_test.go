package mission

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalog(t *testing.T) {
	c, err := NewCatalog(testDefinitions())
	require.NoError(t, err)
	assert.Equal(t, 5, c.Len())

	def, ok := c.Get("test.normal")
	require.True(t, ok)
	assert.Equal(t, TypeEscort, def.Type)

	_, ok = c.Get("nope")
	assert.False(t, ok)

	all := c.All()
	require.Len(t, all, 5)
	assert.Equal(t, "test.normal", all[0].ID)
	assert.Equal(t, "test.cooldown", all[4].ID)
}

func TestNewCatalogCopiesInput(t *testing.T) {
	defs := testDefinitions()
	c, err := NewCatalog(defs)
	require.NoError(t, err)

	defs[0].Rewards.Items[0].Quantity = 99
	def, _ := c.Get("test.normal")
	assert.Equal(t, 2, def.Rewards.Items[0].Quantity)
}

func TestCatalogValidation(t *testing.T) {
	valid := Definition{ID: "ok", Type: TypeTrade, Difficulty: DifficultyEasy, Duration: 2}
	tests := []struct {
		name   string
		mutate func(d *Definition)
	}{
		{"empty id", func(d *Definition) { d.ID = "" }},
		{"unknown type", func(d *Definition) { d.Type = "smuggle" }},
		{"unknown difficulty", func(d *Definition) { d.Difficulty = "nightmare" }},
		{"zero duration", func(d *Definition) { d.Duration = 0 }},
		{"negative cooldown", func(d *Definition) { d.Cooldown = -1 }},
		{"negative silver", func(d *Definition) { d.Rewards.Silver = -5 }},
		{"empty item", func(d *Definition) { d.Rewards.Items = []ItemReward{{Quantity: 1}} }},
		{"zero quantity", func(d *Definition) { d.Rewards.Items = []ItemReward{{ItemID: "flour"}} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := valid
			tt.mutate(&def)
			_, err := NewCatalog([]Definition{def})
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}

	_, err := NewCatalog([]Definition{valid, valid})
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestSeedDefinitions(t *testing.T) {
	c, err := NewCatalog(SeedDefinitions())
	require.NoError(t, err)
	assert.Equal(t, 10, c.Len())

	seen := make(map[Type]bool)
	for _, def := range c.All() {
		seen[def.Type] = true
		if def.Duration >= 10 {
			assert.Equal(t, def.Duration*2, def.Cooldown, def.ID)
		} else {
			assert.Zero(t, def.Cooldown, def.ID)
		}
	}
	assert.Len(t, seen, 4, "every mission type is represented")
}

const sampleCatalog = `{
	// Early game errands.
	"missions": [
		{
			"id": "gather.mushrooms",
			"name": "Mushroom Hunt",
			"type": "gather",
			"difficulty": "easy",
			"duration": 3,
			"rewards": {"silver": 15, "experience": 5, "items": [{"itemId": "mushroom", "quantity": 4},]},
		},
		/* unlocked later */
		{
			"id": "escort.bishop",
			"type": "escort",
			"difficulty": "hard",
			"duration": 8,
			"rewards": {"silver": 200, "reputation": 10},
			"requirements": {"minInnLevel": 3, "minReputation": 25},
			"cooldown": 12,
		},
	],
}`

func TestParseCatalog(t *testing.T) {
	c, err := ParseCatalog([]byte(sampleCatalog))
	require.NoError(t, err)
	require.Equal(t, 2, c.Len())

	bishop, ok := c.Get("escort.bishop")
	require.True(t, ok)
	assert.Equal(t, DifficultyHard, bishop.Difficulty)
	assert.Equal(t, Requirements{MinInnLevel: 3, MinReputation: 25}, bishop.Requirements)
	assert.Equal(t, 12, bishop.Cooldown)

	mushrooms, _ := c.Get("gather.mushrooms")
	assert.Equal(t, []ItemReward{{ItemID: "mushroom", Quantity: 4}}, mushrooms.Rewards.Items)

	_, err = ParseCatalog([]byte(`{"missions": []}`))
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	_, err = ParseCatalog([]byte(`{"missions": [`))
	assert.Error(t, err)
}

func TestLoadCatalogFile(t *testing.T) {
	seeded, err := LoadCatalogFile("")
	require.NoError(t, err)
	assert.Equal(t, len(SeedDefinitions()), seeded.Len())

	path := filepath.Join(t.TempDir(), "missions.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o644))
	c, err := LoadCatalogFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	_, err = LoadCatalogFile(filepath.Join(t.TempDir(), "missing.jsonc"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
