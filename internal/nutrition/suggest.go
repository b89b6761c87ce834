package nutrition

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"
	"time"
)

const (
	tieEpsilon      = 1e-6
	maxLacking      = 3
	limiterSeverity = 1.0
	otherSeverity   = 0.8
	// The over-consumption multiplier for non-limiters slides from
	// overMultiplierLow (no calories eaten) to overMultiplierHigh (calorie goal met).
	overMultiplierLow  = 2.2
	overMultiplierHigh = 1.6
)

const (
	promptNoEntries = "Log a meal to see personalized suggestions."
	lackingNone     = "Nice work, you're meeting all of your nutrient targets so far."
	overNone        = "Nothing you need to cut back on today."
)

// Shuffler reorders tied candidates. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewShuffler returns a time-seeded source for production use.
func NewShuffler() Shuffler {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

type Suggestions struct {
	Empty       bool     `json:"empty"`
	Prompt      string   `json:"prompt,omitempty"`
	Lacking     []string `json:"lacking,omitempty"`
	LackingText string   `json:"lacking_text,omitempty"`
	Over        string   `json:"over,omitempty"`
	OverText    string   `json:"over_text,omitempty"`
}

type candidate struct {
	key   string
	value float64
}

// ComputeSuggestions ranks the three most under-consumed encouraged nutrients
// and the single most over-consumed nutrient. Candidates within tieEpsilon of
// each other are ordered by rng; a nil rng keeps catalog order.
func ComputeSuggestions(totals Totals, goals GoalMap, calorieGoal int, mode GoalMode, hasEntries bool, rng Shuffler) Suggestions {
	if !hasEntries || len(goals) == 0 {
		return Suggestions{Empty: true, Prompt: promptNoEntries}
	}
	r := CalorieRatio(totals, calorieGoal)

	var out Suggestions
	lacking := lackingCandidates(totals, goals, r)
	rankCandidates(lacking, false, rng)
	if len(lacking) > maxLacking {
		lacking = lacking[:maxLacking]
	}
	if len(lacking) == 0 {
		out.LackingText = positiveMessage(mode)
	} else {
		labels := make([]string, 0, len(lacking))
		for _, c := range lacking {
			out.Lacking = append(out.Lacking, c.key)
			labels = append(labels, Label(c.key))
		}
		out.LackingText = fmt.Sprintf("Try to get more %s today.", JoinList(labels))
	}

	over := overCandidates(totals, goals, calorieGoal, r)
	rankCandidates(over, true, rng)
	if len(over) == 0 {
		out.OverText = overNone
	} else {
		out.Over = over[0].key
		out.OverText = fmt.Sprintf("Consider consuming less %s.", Label(over[0].key))
	}
	return out
}

func lackingCandidates(totals Totals, goals GoalMap, r float64) []candidate {
	var out []candidate
	for _, n := range catalog {
		if n.Key == Calories || !n.Encouraged() {
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
		fraction := totals[n.Key] / expected
		if fraction < 1-tieEpsilon {
			out = append(out, candidate{key: n.Key, value: fraction})
		}
	}
	return out
}

func overCandidates(totals Totals, goals GoalMap, calorieGoal int, r float64) []candidate {
	multiplier := OverMultiplier(r)
	var out []candidate
	for _, n := range catalog {
		if n.Key == Calories {
			continue
		}
		if n.Limiter() {
			lim, ok := n.Limit(calorieGoal)
			if !ok || lim <= 0 {
				continue
			}
			if ratio := totals[n.Key] / lim; ratio > 1 {
				out = append(out, candidate{key: n.Key, value: (ratio - 1) * limiterSeverity})
			}
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
		if ratio := totals[n.Key] / expected; ratio > multiplier {
			out = append(out, candidate{key: n.Key, value: (ratio - 1) * otherSeverity})
		}
	}
	return out
}

// OverMultiplier is the goal multiple a non-limiter must exceed to count as
// over-consumed. It relaxes toward overMultiplierLow while most of the day's
// calories are still unconsumed.
func OverMultiplier(r float64) float64 {
	return overMultiplierLow - (overMultiplierLow-overMultiplierHigh)*clamp(r, 0, 1)
}

// rankCandidates sorts by value, then shuffles each run of values within
// tieEpsilon of the run's first value.
func rankCandidates(c []candidate, descending bool, rng Shuffler) {
	sort.SliceStable(c, func(i, j int) bool {
		if descending {
			return c[i].value > c[j].value
		}
		return c[i].value < c[j].value
	})
	if rng == nil {
		return
	}
	for i := 0; i < len(c); {
		j := i + 1
		for j < len(c) && math.Abs(c[j].value-c[i].value) <= tieEpsilon {
			j++
		}
		if j-i > 1 {
			group := c[i:j]
			rng.Shuffle(len(group), func(a, b int) { group[a], group[b] = group[b], group[a] })
		}
		i = j
	}
}

func positiveMessage(mode GoalMode) string {
	switch mode {
	case GoalLose:
		return lackingNone + " Keep it up while you cut."
	case GoalGain:
		return lackingNone + " Keep fueling the gain."
	default:
		return lackingNone
	}
}

// JoinList renders "a", "a and b", or "a, b and c".
func JoinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
