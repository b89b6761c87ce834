package nutrition

import (
	"sort"

	"github.com/saadjs/nutrigoal/internal/model"
)

// Totals maps every tracked nutrient key to its summed daily amount.
type Totals map[string]float64

// AggregateTotals sums a day of diary entries. Calories scale by
// entry.Servings/food.Servings (or entry.Servings when the food has no default
// serving count); other nutrients are summed as stored on the food, taking the
// first of the canonical key and its aliases whose day-wide sum is nonzero.
//
// Values are sorted before summing so the result does not depend on entry order.
func AggregateTotals(entries []model.DiaryEntry) Totals {
	totals := make(Totals, len(catalog))

	kcal := make([]float64, 0, len(entries))
	for _, e := range entries {
		base, ok := foodCalories(e.Food)
		if !ok {
			continue
		}
		kcal = append(kcal, base*servingScale(e))
	}
	totals[Calories] = sortedSum(kcal)

	for _, n := range catalog {
		if n.Key == Calories {
			continue
		}
		totals[n.Key] = 0
		for _, key := range n.Candidates() {
			if sum := sumField(entries, key); sum != 0 {
				totals[n.Key] = sum
				break
			}
		}
	}
	return totals
}

// foodCalories prefers the dedicated field and falls back to a calories
// column in the nutrient map.
func foodCalories(f model.Food) (float64, bool) {
	if f.Calories != nil {
		return *f.Calories, true
	}
	n, _ := Lookup(Calories)
	for _, key := range n.Candidates() {
		if v, ok := f.Nutrients[key]; ok {
			return v, true
		}
	}
	return 0, false
}

func servingScale(e model.DiaryEntry) float64 {
	if e.Food.Servings != nil && *e.Food.Servings > 0 {
		return e.Servings / *e.Food.Servings
	}
	return e.Servings
}

func sumField(entries []model.DiaryEntry, key string) float64 {
	values := make([]float64, 0, len(entries))
	for _, e := range entries {
		if v, ok := e.Food.Nutrients[key]; ok {
			values = append(values, v)
		}
	}
	return sortedSum(values)
}

func sortedSum(values []float64) float64 {
	sort.Float64s(values)
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum
}
