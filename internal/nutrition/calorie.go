package nutrition

import (
	"math"

	"github.com/saadjs/nutrigoal/internal/model"
)

const (
	minBMR           = 800
	kcalPerGoalUnit  = 500
	maleCalorieFloor = 1500
	calorieFloor     = 1200
)

// GoalRateLimit is the nominal bound of a profile goal rate in either direction.
const GoalRateLimit = 2.0

// activityMultipliers maps activity levels to their TDEE multiplier.
// Unknown or empty levels fall back to sedentary.
var activityMultipliers = map[model.ActivityLevel]float64{
	model.ActivitySedentary:  1.2,
	model.ActivityLight:      1.375,
	model.ActivityModerate:   1.55,
	model.ActivityActive:     1.725,
	model.ActivityVeryActive: 1.9,
	model.ActivityAthlete:    2.0,
}

// ActivityLevels lists the accepted levels from least to most active.
var ActivityLevels = []model.ActivityLevel{
	model.ActivitySedentary,
	model.ActivityLight,
	model.ActivityModerate,
	model.ActivityActive,
	model.ActivityVeryActive,
	model.ActivityAthlete,
}

type Formula string

const (
	FormulaLeanMass      Formula = "katch_mcardle"
	FormulaMifflinStJeor Formula = "mifflin_st_jeor"
)

// Energy is the full breakdown behind a calorie goal.
type Energy struct {
	Formula     Formula `json:"formula"`
	BMR         int     `json:"bmr"`
	TDEE        int     `json:"tdee"`
	Multiplier  float64 `json:"activity_multiplier"`
	Delta       int     `json:"goal_delta"`
	Floor       int     `json:"floor"`
	CalorieGoal int     `json:"calorie_goal"`
	MinGoalRate float64 `json:"min_goal_rate"`
}

// EstimateEnergy computes BMR, TDEE and the calorie goal for p. ok is false when
// neither the lean-mass formula nor Mifflin-St Jeor has enough inputs.
func EstimateEnergy(p model.Profile) (Energy, bool) {
	if p.WeightKg <= 0 {
		return Energy{}, false
	}
	var e Energy
	switch {
	case p.BodyFatPct != nil && *p.BodyFatPct >= 0 && *p.BodyFatPct <= 100:
		lbm := p.WeightKg * (1 - *p.BodyFatPct/100)
		e.Formula = FormulaLeanMass
		e.BMR = maxInt(minBMR, int(math.Round(370+21.6*lbm)))
	case p.Age != nil && *p.Age >= 0 && p.Gender != "" && p.HeightCm > 0:
		bmr := 10*p.WeightKg + 6.25*p.HeightCm - 5*float64(*p.Age) + sexConstant(p.Gender)
		e.Formula = FormulaMifflinStJeor
		e.BMR = maxInt(minBMR, int(math.Round(bmr)))
	default:
		return Energy{}, false
	}

	e.Multiplier = ActivityMultiplier(p.ActivityLevel)
	e.TDEE = int(math.Round(float64(e.BMR) * e.Multiplier))
	e.Delta = int(math.Round(RoundGoalRate(p.GoalRate) * kcalPerGoalUnit))
	e.Floor = CalorieFloor(p.Gender)
	e.CalorieGoal = maxInt(e.Floor, e.TDEE+e.Delta)
	e.MinGoalRate = minGoalRateFor(e.TDEE, e.Floor)
	return e, true
}

// CalorieGoal returns the daily calorie target for p.
func CalorieGoal(p model.Profile) (int, bool) {
	e, ok := EstimateEnergy(p)
	if !ok {
		return 0, false
	}
	return e.CalorieGoal, true
}

// MinGoalRate is the lowest goal rate that keeps TDEE+rate*500 at or above the
// calorie floor, clamped to [-2, 0]. It is rounded toward zero to a tenth, not
// to the nearest tenth: TDEE 2136 with floor 1500 gives -1.2, not -1.3.
func MinGoalRate(p model.Profile) (float64, bool) {
	e, ok := EstimateEnergy(p)
	if !ok {
		return 0, false
	}
	return e.MinGoalRate, true
}

func minGoalRateFor(tdee, floor int) float64 {
	raw := float64(floor-tdee) / kcalPerGoalUnit
	raw = clamp(raw, -GoalRateLimit, 0)
	// Round up to the next tenth so the floor holds for the returned rate.
	rate := math.Ceil(raw*10-1e-6) / 10
	if rate == 0 {
		return 0
	}
	return rate
}

func ActivityMultiplier(level model.ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[model.ActivitySedentary]
}

// ValidActivityLevel reports whether level is one of ActivityLevels.
func ValidActivityLevel(level model.ActivityLevel) bool {
	_, ok := activityMultipliers[level]
	return ok
}

func CalorieFloor(g model.Gender) int {
	if g == model.GenderMale {
		return maleCalorieFloor
	}
	return calorieFloor
}

// RoundGoalRate rounds a goal rate to one decimal place.
func RoundGoalRate(rate float64) float64 {
	return math.Round(rate*10) / 10
}

type GoalMode string

const (
	GoalLose     GoalMode = "lose"
	GoalGain     GoalMode = "gain"
	GoalMaintain GoalMode = "maintain"
)

func ModeFor(goalRate float64) GoalMode {
	switch r := RoundGoalRate(goalRate); {
	case r > 0:
		return GoalGain
	case r < 0:
		return GoalLose
	default:
		return GoalMaintain
	}
}

func sexConstant(g model.Gender) float64 {
	switch g {
	case model.GenderMale:
		return 5
	case model.GenderFemale:
		return -161
	default:
		return -78
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
