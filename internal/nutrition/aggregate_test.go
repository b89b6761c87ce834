package nutrition_test

import (
	"math/rand"
	"reflect"
	"testing"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
)

func entry(food model.Food, servings float64) model.DiaryEntry {
	return model.DiaryEntry{Food: food, Servings: servings, Meal: model.MealLunch}
}

func TestAggregateTotalsEmpty(t *testing.T) {
	t.Parallel()
	totals := nutrition.AggregateTotals(nil)
	v, ok := totals[nutrition.Calories]
	if !ok || v != 0 {
		t.Fatalf("expected calories key with zero, got %v present=%v", v, ok)
	}
	for _, n := range nutrition.Catalog() {
		if got, ok := totals[n.Key]; !ok || got != 0 {
			t.Fatalf("expected %s=0, got %v present=%v", n.Key, got, ok)
		}
	}
}

func TestAggregateTotalsScalesCaloriesByServingRatio(t *testing.T) {
	t.Parallel()
	withDefault := model.Food{Name: "Granola", Servings: floatPtr(2), Calories: floatPtr(200)}
	noDefault := model.Food{Name: "Apple", Calories: floatPtr(100)}
	zeroDefault := model.Food{Name: "Tea", Servings: floatPtr(0), Calories: floatPtr(10)}

	totals := nutrition.AggregateTotals([]model.DiaryEntry{
		entry(withDefault, 1), // 100
		entry(noDefault, 1.5), // 150
		entry(zeroDefault, 2), // 20
	})
	if totals[nutrition.Calories] != 270 {
		t.Fatalf("expected 270 kcal, got %v", totals[nutrition.Calories])
	}
}

func TestAggregateTotalsNutrientsSummedAsStored(t *testing.T) {
	t.Parallel()
	food := model.Food{Servings: floatPtr(1), Calories: floatPtr(100), Nutrients: map[string]float64{"protein": 10}}
	totals := nutrition.AggregateTotals([]model.DiaryEntry{entry(food, 3)})
	if totals[nutrition.Protein] != 10 {
		t.Fatalf("expected protein summed as stored (10), got %v", totals[nutrition.Protein])
	}
	if totals[nutrition.Calories] != 300 {
		t.Fatalf("expected calories scaled to 300, got %v", totals[nutrition.Calories])
	}
}

func TestAggregateTotalsAliasFallback(t *testing.T) {
	t.Parallel()
	a := model.Food{Calories: floatPtr(100), Nutrients: map[string]float64{"saturated_fats": 0, "saturated_fat": 3, "carbs": 20}}
	b := model.Food{Calories: floatPtr(50), Nutrients: map[string]float64{"saturated_fat": 1.5, "total_carbs": 5}}
	totals := nutrition.AggregateTotals([]model.DiaryEntry{entry(a, 1), entry(b, 1)})
	if totals[nutrition.SaturatedFats] != 4.5 {
		t.Fatalf("expected alias sum 4.5 for saturated fat, got %v", totals[nutrition.SaturatedFats])
	}
	// canonical key wins across the whole day once its sum is nonzero
	if totals[nutrition.TotalCarbs] != 5 {
		t.Fatalf("expected canonical total_carbs sum 5, got %v", totals[nutrition.TotalCarbs])
	}
}

func TestAggregateTotalsCaloriesFromNutrientMap(t *testing.T) {
	t.Parallel()
	food := model.Food{Nutrients: map[string]float64{"energy_kcal": 80}}
	totals := nutrition.AggregateTotals([]model.DiaryEntry{entry(food, 2)})
	if totals[nutrition.Calories] != 160 {
		t.Fatalf("expected 160 kcal from nutrient map, got %v", totals[nutrition.Calories])
	}
}

func TestAggregateTotalsOrderIndependent(t *testing.T) {
	t.Parallel()
	entries := []model.DiaryEntry{
		entry(model.Food{Servings: floatPtr(1), Calories: floatPtr(123.4), Nutrients: map[string]float64{"protein": 0.1, "fiber": 2.2, "vitamin_c": 11.7}}, 1.3),
		entry(model.Food{Servings: floatPtr(3), Calories: floatPtr(333.3), Nutrients: map[string]float64{"protein": 0.2, "sugars": 7.7}}, 0.7),
		entry(model.Food{Calories: floatPtr(0.3), Nutrients: map[string]float64{"protein": 0.3, "fiber": 1e-9, "iron": 3.3}}, 2),
		entry(model.Food{Servings: floatPtr(0.5), Calories: floatPtr(77.7), Nutrients: map[string]float64{"fat": 14.1, "sodium": 410}}, 1),
		entry(model.Food{Calories: floatPtr(1e6), Nutrients: map[string]float64{"protein": 1e-7, "vitamin_c": 0.01}}, 0.001),
		entry(model.Food{Servings: floatPtr(2), Calories: floatPtr(19.9), Nutrients: map[string]float64{"total_fats": 0, "fat": 2.2}}, 5),
	}
	want := nutrition.AggregateTotals(entries)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 50; i++ {
		shuffled := make([]model.DiaryEntry, len(entries))
		copy(shuffled, entries)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		if got := nutrition.AggregateTotals(shuffled); !reflect.DeepEqual(got, want) {
			t.Fatalf("totals changed under permutation %d:\n got %v\nwant %v", i, got, want)
		}
	}
}

func TestAggregateTotalsDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	food := model.Food{Calories: floatPtr(100), Nutrients: map[string]float64{"fiber": 4}}
	entries := []model.DiaryEntry{entry(food, 2)}
	_ = nutrition.AggregateTotals(entries)
	if entries[0].Servings != 2 || food.Nutrients["fiber"] != 4 || len(food.Nutrients) != 1 {
		t.Fatalf("input was mutated: %+v", entries[0])
	}
}
