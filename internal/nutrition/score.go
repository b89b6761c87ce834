package nutrition

import "math"

// ratioEpsilon stands in for the calorie ratio when no calorie goal is known.
const ratioEpsilon = 1e-6

const negativePenaltyWeight = 0.10

type HealthScore struct {
	Score       float64 `json:"score"`
	PositiveAvg float64 `json:"positive_avg"`
	NegativeAvg float64 `json:"negative_avg"`
}

// CalorieRatio is consumed calories over the calorie goal, or ratioEpsilon
// when the goal is unknown.
func CalorieRatio(totals Totals, calorieGoal int) float64 {
	if calorieGoal > 0 {
		return totals[Calories] / float64(calorieGoal)
	}
	return ratioEpsilon
}

// ComputeHealthScore scores a day's totals against goals on a 0-100 scale.
// Encouraged nutrients are judged against goal*r, where r is the calorie ratio.
func ComputeHealthScore(totals Totals, goals GoalMap, calorieGoal int, mode GoalMode) HealthScore {
	r := CalorieRatio(totals, calorieGoal)

	var weighted, weights float64
	for _, n := range catalog {
		if !n.Encouraged() {
			continue
		}
		goal, ok := goals[n.Key]
		if !ok || goal <= 0 {
			continue
		}
		expected := goal * r
		if expected <= 0 {
			continue
		}
		weighted += math.Min(totals[n.Key]/expected, 1) * n.Weight
		weights += n.Weight
	}
	var positive float64
	if weights > 0 {
		positive = weighted / weights
	}

	penalties := make([]float64, 0, 5)
	for _, n := range catalog {
		if n.limit == nil || !n.limit.scored {
			continue
		}
		lim, ok := n.Limit(calorieGoal)
		if !ok {
			continue
		}
		scaled := lim * r
		if scaled <= 0 {
			continue
		}
		penalties = append(penalties, math.Min(totals[n.Key]/scaled, 1))
	}
	penalties = append(penalties, caloriePenalty(r, mode))

	var negative float64
	for _, p := range penalties {
		negative += p
	}
	negative /= float64(len(penalties))

	return HealthScore{
		Score:       clamp(positive*100-negativePenaltyWeight*negative*100, 0, 100),
		PositiveAvg: positive,
		NegativeAvg: negative,
	}
}

// caloriePenalty only punishes the direction that works against the goal.
func caloriePenalty(r float64, mode GoalMode) float64 {
	switch mode {
	case GoalLose:
		return clamp(r-1, 0, 1)
	case GoalGain:
		return clamp(1-r, 0, 1)
	default:
		return clamp(math.Abs(1-r), 0, 1)
	}
}

type Band string

const (
	BandDeepGreen   Band = "deep green"
	BandStrongGreen Band = "strong green"
	BandGreen       Band = "green"
	BandYellow      Band = "yellow"
	BandOrange      Band = "orange"
	BandRed         Band = "red"
	BandDeepRed     Band = "deep red"
)

// BandFor maps a score to its display band. Lower bounds are inclusive.
func BandFor(score float64) Band {
	switch {
	case score >= 90:
		return BandDeepGreen
	case score >= 80:
		return BandStrongGreen
	case score >= 70:
		return BandGreen
	case score >= 60:
		return BandYellow
	case score >= 50:
		return BandOrange
	case score >= 40:
		return BandRed
	default:
		return BandDeepRed
	}
}
