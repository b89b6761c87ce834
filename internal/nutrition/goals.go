package nutrition

import (
	"math"
	"regexp"
	"strings"

	"github.com/saadjs/nutrigoal/internal/model"
)

// GoalMap holds daily targets keyed by canonical nutrient key. A missing key
// means no target is known, which is different from a zero target.
type GoalMap map[string]float64

// Get reports the target for key and whether one is known.
func (g GoalMap) Get(key string) (float64, bool) {
	v, ok := g[key]
	return v, ok
}

var kcalPerGram = map[string]float64{
	TotalCarbs: 4,
	Protein:    4,
	TotalFats:  9,
}

// BuildGoalMap combines the calorie goal with the resolved reference rows.
// calorieGoal <= 0 means unknown: no calorie or macro-percentage targets are set.
func BuildGoalMap(calorieGoal int, res Resolved) GoalMap {
	goals := GoalMap{}
	if calorieGoal > 0 {
		goals[Calories] = float64(calorieGoal)
		for key, cell := range res.MacroRanges {
			pct, ok := RangeMidpoint(cell)
			if !ok {
				continue
			}
			grams := (pct / 100 * float64(calorieGoal)) / kcalPerGram[key]
			goals[key] = roundTenth(grams)
		}
	}

	for _, n := range catalog {
		if _, macro := kcalPerGram[n.Key]; macro || n.Key == Calories || len(n.Columns) == 0 {
			continue
		}
		primary, secondary := res.MacroRDA, res.MicroRDA
		if n.Kind != KindMacro {
			primary, secondary = secondary, primary
		}
		v, ok := lookupColumn(primary, n.Columns, n.Unit)
		if !ok {
			v, ok = lookupColumn(secondary, n.Columns, n.Unit)
		}
		if ok {
			goals[n.Key] = v
		}
	}
	return goals
}

// ComputeGoalMap resolves the reference rows for p and builds its GoalMap.
func ComputeGoalMap(p model.Profile, calorieGoal int, tables model.ReferenceTables) GoalMap {
	return BuildGoalMap(calorieGoal, ResolveReference(p, tables))
}

// lookupColumn returns the value of the first header in columns present in
// row, rescaled from the header's "(unit/d)" suffix to unit. A present but
// non-numeric cell yields no value.
func lookupColumn(row *model.ReferenceRow, columns []string, unit string) (float64, bool) {
	if row == nil {
		return 0, false
	}
	for _, col := range columns {
		cell, ok := row.Values[col]
		if !ok {
			continue
		}
		v, ok := ParseAmount(cell)
		if !ok {
			return 0, false
		}
		return convertUnit(v, columnUnit(col), unit), true
	}
	return 0, false
}

var columnUnitPattern = regexp.MustCompile(`\(\s*([^()/\s]+)\s*/\s*d\s*\)\s*$`)

// columnUnit extracts "mg" from "Iron (mg/d)". Headers without a suffix are
// taken to be in the catalog unit already.
func columnUnit(header string) string {
	m := columnUnitPattern.FindStringSubmatch(header)
	if m == nil {
		return ""
	}
	return m[1]
}

// massInGrams maps mass units to grams; "ug" and "mcg" spell µg.
var massInGrams = map[string]float64{
	"kg":  1000,
	"g":   1,
	"mg":  1e-3,
	"µg":  1e-6,
	"μg":  1e-6,
	"ug":  1e-6,
	"mcg": 1e-6,
}

// convertUnit rescales v from one mass unit to another. Unknown or
// non-mass units (L, kcal) pass through unchanged.
func convertUnit(v float64, from, to string) float64 {
	from, to = strings.ToLower(from), strings.ToLower(to)
	if from == "" || from == to {
		return v
	}
	f, okFrom := massInGrams[from]
	t, okTo := massInGrams[to]
	if !okFrom || !okTo {
		return v
	}
	return roundPrecision(v * f / t)
}

// roundPrecision trims float noise from unit scaling, e.g. 3.4*1000.
func roundPrecision(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
