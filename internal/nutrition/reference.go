package nutrition

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/saadjs/nutrigoal/internal/model"
)

type LifeStage string

const (
	StagePregnancy LifeStage = "Pregnancy"
	StageLactation LifeStage = "Lactation"
	StageInfants   LifeStage = "Infants"
	StageChildren  LifeStage = "Children"
	StageFemales   LifeStage = "Females"
	StageMales     LifeStage = "Males"
)

// LifeStageFor applies pregnancy, lactation, infant, child, then sex in that order.
func LifeStageFor(p model.Profile) LifeStage {
	switch {
	case p.Pregnant:
		return StagePregnancy
	case p.Lactating:
		return StageLactation
	case p.Age != nil && *p.Age < 1:
		return StageInfants
	case p.Age != nil && *p.Age < 9:
		return StageChildren
	case p.Gender == model.GenderFemale:
		return StageFemales
	default:
		return StageMales
	}
}

// AgeBand is a parsed band such as "19–30", ">70", "≥19", "<4" or "7–12 mo".
type AgeBand struct {
	Lo, Hi         float64
	LoOpen, HiOpen bool
	Months         bool
}

func (b AgeBand) Contains(ageYears int) bool {
	x := float64(ageYears)
	if b.Months {
		x *= 12
	}
	if b.LoOpen && x <= b.Lo || !b.LoOpen && x < b.Lo {
		return false
	}
	if b.HiOpen && x >= b.Hi || !b.HiOpen && x > b.Hi {
		return false
	}
	return true
}

var (
	bandRangePattern  = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)$`)
	bandNumberPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)$`)
	bandUnitPattern   = regexp.MustCompile(`\s*(mo|mos|months?|y|yr|yrs|years?)\.?$`)
)

func ParseAgeBand(raw string) (AgeBand, bool) {
	s := normalizeDashes(strings.ToLower(strings.TrimSpace(raw)))
	var band AgeBand
	if m := bandUnitPattern.FindStringSubmatch(s); m != nil {
		band.Months = strings.HasPrefix(m[1], "mo")
		s = strings.TrimSpace(s[:len(s)-len(m[0])])
	}

	bound := func(num string) (float64, bool) {
		v, err := strconv.ParseFloat(strings.TrimSpace(num), 64)
		return v, err == nil
	}
	switch {
	case strings.HasPrefix(s, ">="), strings.HasPrefix(s, "≥"):
		v, ok := bound(strings.TrimLeft(s, ">=≥"))
		if !ok {
			return AgeBand{}, false
		}
		band.Lo, band.Hi = v, math.Inf(1)
	case strings.HasPrefix(s, ">"):
		v, ok := bound(s[1:])
		if !ok {
			return AgeBand{}, false
		}
		band.Lo, band.Hi, band.LoOpen = v, math.Inf(1), true
	case strings.HasPrefix(s, "<="), strings.HasPrefix(s, "≤"):
		v, ok := bound(strings.TrimLeft(s, "<=≤"))
		if !ok {
			return AgeBand{}, false
		}
		band.Lo, band.Hi = 0, v
	case strings.HasPrefix(s, "<"):
		v, ok := bound(s[1:])
		if !ok {
			return AgeBand{}, false
		}
		band.Lo, band.Hi, band.HiOpen = 0, v, true
	case strings.HasSuffix(s, "+"):
		v, ok := bound(strings.TrimSuffix(s, "+"))
		if !ok {
			return AgeBand{}, false
		}
		band.Lo, band.Hi = v, math.Inf(1)
	default:
		if m := bandRangePattern.FindStringSubmatch(s); m != nil {
			lo, _ := bound(m[1])
			hi, _ := bound(m[2])
			band.Lo, band.Hi = lo, hi
		} else if m := bandNumberPattern.FindStringSubmatch(s); m != nil {
			v, _ := bound(m[1])
			band.Lo, band.Hi = v, v
		} else {
			return AgeBand{}, false
		}
	}
	return band, true
}

// Resolved holds the reference rows matched for one profile. A nil row or nil
// MacroRanges means nothing matched that table.
type Resolved struct {
	LifeStage   LifeStage
	MacroRanges map[string]string
	MacroRDA    *model.ReferenceRow
	MicroRDA    *model.ReferenceRow
}

func ResolveReference(p model.Profile, tables model.ReferenceTables) Resolved {
	stage := LifeStageFor(p)
	return Resolved{
		LifeStage:   stage,
		MacroRanges: selectMacroRanges(p.Age, tables.MacroRanges),
		MacroRDA:    selectRow(stage, p.Age, tables.MacroRDA),
		MicroRDA:    selectRow(stage, p.Age, tables.MicroRDA),
	}
}

// selectRow returns the first row of stage whose band contains age, or the
// first row of stage when no band matches.
func selectRow(stage LifeStage, age *int, rows []model.ReferenceRow) *model.ReferenceRow {
	var first *model.ReferenceRow
	for i := range rows {
		if !sameLifeStage(rows[i].LifeStage, stage) {
			continue
		}
		if first == nil {
			first = &rows[i]
		}
		if age == nil {
			break
		}
		if band, ok := ParseAgeBand(rows[i].AgeBand); ok && band.Contains(*age) {
			return &rows[i]
		}
	}
	return first
}

func sameLifeStage(cell string, stage LifeStage) bool {
	norm := func(s string) string {
		return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")
	}
	return norm(cell) == norm(string(stage))
}

var macroRowNames = map[string][]string{
	TotalCarbs: {"carbohydrate", "carbohydrates", "carbs", "total_carbs"},
	Protein:    {"protein", "proteins"},
	TotalFats:  {"fat", "fats", "total fat", "total_fats"},
}

func selectMacroRanges(age *int, rows []model.MacroRangeRow) map[string]string {
	if age == nil || len(rows) == 0 {
		return nil
	}
	out := map[string]string{}
	for _, row := range rows {
		key, ok := macroKeyForRow(row.Macronutrient)
		if !ok {
			continue
		}
		if _, seen := out[key]; seen {
			continue
		}
		headers := make([]string, 0, len(row.Ranges))
		for h := range row.Ranges {
			headers = append(headers, h)
		}
		sort.Strings(headers)
		for _, h := range headers {
			if band, ok := ParseAgeBand(h); ok && band.Contains(*age) {
				out[key] = row.Ranges[h]
				break
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func macroKeyForRow(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.Index(n, "("); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	for key, names := range macroRowNames {
		for _, candidate := range names {
			if n == candidate {
				return key, true
			}
		}
	}
	return "", false
}

var leadingNumberPattern = regexp.MustCompile(`^[~≈]?\s*(\d+(?:\.\d+)?)(.*)$`)

// ParseAmount reads a numeric table cell. Thousands separators and trailing
// footnote markers are tolerated; anything else is not a number.
func ParseAmount(cell string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	m := leadingNumberPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	if strings.ContainsAny(m[2], "0123456789") {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

var percentRangePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*-\s*(\d+(?:\.\d+)?)\s*%?$`)

// RangeMidpoint returns the midpoint of a "lo–hi" percentage cell. A single
// number is its own midpoint.
func RangeMidpoint(cell string) (float64, bool) {
	s := normalizeDashes(strings.TrimSpace(cell))
	if m := percentRangePattern.FindStringSubmatch(s); m != nil {
		lo, errLo := strconv.ParseFloat(m[1], 64)
		hi, errHi := strconv.ParseFloat(m[2], 64)
		if errLo != nil || errHi != nil {
			return 0, false
		}
		return (lo + hi) / 2, true
	}
	return ParseAmount(strings.TrimSuffix(s, "%"))
}

func normalizeDashes(s string) string {
	return strings.NewReplacer("–", "-", "—", "-", "−", "-").Replace(s)
}
