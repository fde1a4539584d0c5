package mission

// Success rate bounds.
const (
	MinSuccessRate = 10
	MaxSuccessRate = 95
)

const (
	primaryWeight   = 7 // tenths
	secondaryWeight = 3 // tenths
	teamBonusStep   = 5
	maxTeamBonus    = 2 // extra members that count toward the team bonus

	failureSilverPercent = 30
	bonusSilverPercent   = 130
	bonusExpPercent      = 120
)

type attributePair struct {
	Primary, Secondary Attribute
}

// attributePairs maps a mission type to the attributes it scores.
var attributePairs = map[Type]attributePair{
	TypeEscort:  {AttrStrength, AttrPhysique},
	TypeTrade:   {AttrCharisma, AttrIntelligence},
	TypeExplore: {AttrPerception, AttrAgility},
	TypeGather:  {AttrPhysique, AttrAgility},
}

// difficultyPercent is the difficulty multiplier in percent. It divides the
// success score and scales silver.
var difficultyPercent = map[Difficulty]int{
	DifficultyEasy:    80,
	DifficultyNormal:  100,
	DifficultyHard:    130,
	DifficultyExtreme: 180,
}

// experiencePercent scales experience on success.
var experiencePercent = map[Difficulty]int{
	DifficultyEasy:    100,
	DifficultyNormal:  120,
	DifficultyHard:    150,
	DifficultyExtreme: 200,
}

// ScoringAttributes returns the primary and secondary attribute for a type.
func ScoringAttributes(t Type) (primary, secondary Attribute, ok bool) {
	pair, ok := attributePairs[t]
	return pair.Primary, pair.Secondary, ok
}

// DifficultyMultiplier returns the difficulty multiplier as a float, for display.
func DifficultyMultiplier(d Difficulty) float64 {
	return float64(difficultyPercent[d]) / 100
}

// ComputeSuccessRate scores a team for a difficulty.
// Formula: clamp(floor(avg(primary*0.7 + secondary*0.3) / multiplier) + min(n-1, 2)*5, 10, 95)
// An empty team scores the minimum.
func ComputeSuccessRate(d Difficulty, team []Participant) int {
	if len(team) == 0 {
		return MinSuccessRate
	}
	pct, ok := difficultyPercent[d]
	if !ok {
		pct = 100
	}
	tenths := 0
	for _, p := range team {
		tenths += p.Primary*primaryWeight + p.Secondary*secondaryWeight
	}
	// avg = tenths / (10n); avg / (pct/100) = tenths*10 / (n*pct)
	rate := floorDiv(tenths*10, len(team)*pct)
	rate += min(len(team)-1, maxTeamBonus) * teamBonusStep
	return clampRate(rate)
}

// SuccessRewards computes the payout of a successful mission.
func SuccessRewards(def *Definition, bonus bool) Rewards {
	silver := def.Rewards.Silver * difficultyPercent[def.Difficulty] / 100
	exp := def.Rewards.Experience * experiencePercent[def.Difficulty] / 100
	if bonus {
		silver = silver * bonusSilverPercent / 100
		exp = exp * bonusExpPercent / 100
	}
	return Rewards{
		Silver:     silver,
		Experience: exp,
		Items:      append([]ItemReward(nil), def.Rewards.Items...),
		Reputation: def.Rewards.Reputation,
	}
}

// FailureRewards computes the consolation silver of a failed mission.
func FailureRewards(def *Definition) Rewards {
	return Rewards{Silver: def.Rewards.Silver * failureSilverPercent / 100}
}

func clampRate(rate int) int {
	return max(MinSuccessRate, min(MaxSuccessRate, rate))
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func progressOf(elapsed, duration int) int {
	if duration <= 0 {
		return 100
	}
	p := elapsed * 100 / duration
	return max(0, min(100, p))
}
