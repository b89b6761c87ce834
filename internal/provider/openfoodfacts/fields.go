package openfoodfacts

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
)

const (
	SourceType  = "openfoodfacts"
	UnknownName = "Unknown Product"

	maxNutrientValue = 999_999
	maxServings      = 99
	defaultServing   = "100 g"
)

// Field maps a nutrient key to an Open Food Facts nutriment stem. OFF stores
// every per-100g amount in grams; Scale converts to the nutrient's unit.
type Field struct {
	Key   string
	Stem  string
	Scale float64
}

// Column is the per-100g export column, e.g. "vitamin-c_100g".
func (f Field) Column() string { return f.Stem + "_100g" }

const (
	gram      = 1
	milligram = 1_000
	microgram = 1_000_000
)

var Fields = []Field{
	{nutrition.TotalCarbs, "carbohydrates", gram},
	{nutrition.Fiber, "fiber", gram},
	{nutrition.Sugar, "sugars", gram},
	{nutrition.AddedSugar, "added-sugars", gram},
	{nutrition.TotalFats, "fat", gram},
	{nutrition.Omega3, "omega-3-fat", gram},
	{nutrition.Omega6, "omega-6-fat", gram},
	{nutrition.SaturatedFats, "saturated-fat", gram},
	{nutrition.TransFats, "trans-fat", gram},
	{nutrition.Cholesterol, "cholesterol", milligram},
	{nutrition.Protein, "proteins", gram},
	{nutrition.VitaminA, "vitamin-a", microgram},
	{nutrition.VitaminB6, "vitamin-b6", milligram},
	{nutrition.VitaminB12, "vitamin-b12", microgram},
	{nutrition.VitaminC, "vitamin-c", milligram},
	{nutrition.VitaminD, "vitamin-d", microgram},
	{nutrition.VitaminE, "vitamin-e", milligram},
	{nutrition.VitaminK, "vitamin-k", microgram},
	{nutrition.Thiamin, "vitamin-b1", milligram},
	{nutrition.Riboflavin, "vitamin-b2", milligram},
	{nutrition.Niacin, "vitamin-pp", milligram},
	{nutrition.Folate, "vitamin-b9", microgram},
	{nutrition.PantothenicAcid, "pantothenic-acid", milligram},
	{nutrition.Biotin, "biotin", microgram},
	{nutrition.Choline, "choline", milligram},
	{nutrition.Calcium, "calcium", milligram},
	{nutrition.Chromium, "chromium", microgram},
	{nutrition.Copper, "copper", microgram},
	{nutrition.Fluoride, "fluoride", milligram},
	{nutrition.Iodine, "iodine", microgram},
	{nutrition.Iron, "iron", milligram},
	{nutrition.Magnesium, "magnesium", milligram},
	{nutrition.Manganese, "manganese", milligram},
	{nutrition.Molybdenum, "molybdenum", microgram},
	{nutrition.Phosphorus, "phosphorus", milligram},
	{nutrition.Selenium, "selenium", microgram},
	{nutrition.Zinc, "zinc", milligram},
	{nutrition.Potassium, "potassium", milligram},
	{nutrition.Sodium, "sodium", milligram},
	{nutrition.Chloride, "chloride", milligram},
}

// Record is a flat view of one product: field name to raw value. Export rows
// hold strings, API responses hold JSON numbers or strings.
type Record map[string]any

func (r Record) text(key string) string {
	switch v := r[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

var numberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)

// ParseNumber pulls the first number out of values such as "25 g", "< 1 mg"
// or "0,8 g". Anything without a number is absent.
func ParseNumber(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t) && !math.IsInf(t, 0)
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		m := numberPattern.FindString(strings.ReplaceAll(t, ",", "."))
		if m == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(m, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// sanitize coerces implausible amounts to zero.
func sanitize(v float64) float64 {
	if v < 0 || v > maxNutrientValue {
		return 0
	}
	return v
}

// ToFood converts one product record. ok is false when the record carries no
// nonzero nutrient at all.
func ToFood(r Record) (model.Food, bool) {
	food := model.Food{
		Name:        stripQuotes(r.text("product_name")),
		Brand:       stripQuotes(r.text("brands")),
		ServingSize: stripQuotes(r.text("serving_size")),
		Nutrients:   map[string]float64{},
		SourceType:  SourceType,
		SourceRef:   r.text("code"),
	}
	if food.Name == "" {
		food.Name = UnknownName
	}
	if food.ServingSize == "" {
		food.ServingSize = defaultServing
	}
	servings := 1.0
	if v, ok := ParseNumber(r["serving_quantity"]); ok && v > 0 && v <= maxServings {
		servings = v
	}
	food.Servings = &servings

	nonzero := false
	if kcal, ok := ParseNumber(r["energy-kcal_100g"]); ok {
		kcal = sanitize(kcal)
		food.Calories = &kcal
		nonzero = kcal != 0
	} else if kj, ok := ParseNumber(r["energy-kj_100g"]); ok {
		kcal := math.Round(sanitize(kj)/4.184*10) / 10
		food.Calories = &kcal
		nonzero = kcal != 0
	}
	for _, f := range Fields {
		v, ok := ParseNumber(r[f.Column()])
		if !ok {
			continue
		}
		v = sanitize(v) * f.Scale
		food.Nutrients[f.Key] = v
		if v != 0 {
			nonzero = true
		}
	}
	return food, nonzero
}

func stripQuotes(s string) string {
	return strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(s))
}
