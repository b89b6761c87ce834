package openfoodfacts

import (
	"testing"

	"github.com/saadjs/nutrigoal/internal/nutrition"
)

func TestParseNumber(t *testing.T) {
	t.Parallel()
	good := map[string]float64{"25 g": 25, "< 1 mg": 1, "0,8 g": 0.8, ".5": 0.5, "-3": -3}
	for in, want := range good {
		got, ok := ParseNumber(in)
		if !ok || got != want {
			t.Fatalf("ParseNumber(%q) = %v,%v want %v", in, got, ok, want)
		}
	}
	for _, in := range []any{"", "ND", nil, true} {
		if _, ok := ParseNumber(in); ok {
			t.Fatalf("expected %v to be absent", in)
		}
	}
}

func TestToFoodSanitizes(t *testing.T) {
	t.Parallel()
	food, ok := ToFood(Record{
		"product_name":     "",
		"brands":           `"Joe's"`,
		"serving_quantity": "0",
		"energy-kj_100g":   "418.4",
		"fat_100g":         "-2",
		"proteins_100g":    "1000000",
		"fiber_100g":       "3",
	})
	if !ok {
		t.Fatalf("expected nutrients present")
	}
	if food.Name != UnknownName || food.Brand != "Joes" || food.ServingSize != "100 g" {
		t.Fatalf("unexpected text fields: %+v", food)
	}
	if *food.Servings != 1 {
		t.Fatalf("expected servings default 1, got %v", *food.Servings)
	}
	if food.Calories == nil || *food.Calories != 100 {
		t.Fatalf("expected kJ converted to 100 kcal, got %v", food.Calories)
	}
	if v, present := food.Nutrients[nutrition.TotalFats]; !present || v != 0 {
		t.Fatalf("expected negative fat coerced to 0, got %v", v)
	}
	if food.Nutrients[nutrition.Protein] != 0 {
		t.Fatalf("expected out of range protein coerced to 0")
	}
	if food.Nutrients[nutrition.Fiber] != 3 {
		t.Fatalf("expected fiber 3")
	}
}

func TestToFoodAllZero(t *testing.T) {
	t.Parallel()
	if _, ok := ToFood(Record{"product_name": "Water", "energy-kcal_100g": "0", "sodium_100g": "0"}); ok {
		t.Fatalf("expected an all-zero record to be reported")
	}
}
