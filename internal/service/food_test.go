package service_test

import (
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/importer"
	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/service"
)

func TestCreateAndGetFood(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id := createFood(t, db, model.Food{
		Name:        "  Oatmeal ",
		Brand:       "Mill",
		Servings:    floatPtr(2),
		ServingSize: "1 cup",
		Calories:    floatPtr(300),
		Nutrients:   map[string]float64{"Dietary Fiber": 8, "protein": 10},
	})
	f, err := service.GetFood(db, id)
	if err != nil || f == nil {
		t.Fatalf("get food: %v %v", f, err)
	}
	if f.Name != "Oatmeal" || f.SourceType != "manual" || f.ServingSize != "1 cup" {
		t.Fatalf("unexpected food: %+v", f)
	}
	if f.Servings == nil || *f.Servings != 2 || f.Calories == nil || *f.Calories != 300 {
		t.Fatalf("unexpected servings/calories: %+v", f)
	}
	if f.Nutrients["dietary_fiber"] != 8 || f.Nutrients["protein"] != 10 {
		t.Fatalf("expected normalized nutrient keys, got %+v", f.Nutrients)
	}

	missing, err := service.GetFood(db, id+100)
	if err != nil || missing != nil {
		t.Fatalf("expected nil,nil for missing food, got %v %v", missing, err)
	}
}

func TestCreateFoodKeepsUnknownAsAbsent(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id := createFood(t, db, model.Food{Name: "Mystery"})
	f, _ := service.GetFood(db, id)
	if f.Servings != nil || f.Calories != nil || len(f.Nutrients) != 0 {
		t.Fatalf("expected unknown fields to stay absent, got %+v", f)
	}
}

func TestCreateFoodValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	bad := []model.Food{
		{Name: " "},
		{Name: "x", Calories: floatPtr(-1)},
		{Name: "x", Servings: floatPtr(-2)},
		{Name: "x", Nutrients: map[string]float64{"fiber": -1}},
		{Name: "x", Nutrients: map[string]float64{"vitamin c!": 1}},
	}
	for _, f := range bad {
		if _, err := service.CreateFood(db, f); err == nil {
			t.Fatalf("expected validation error for %+v", f)
		}
	}
}

func TestListFoodsMatchesNameAndBrand(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	createFood(t, db, model.Food{Name: "banana", Brand: "Farm"})
	createFood(t, db, model.Food{Name: "Apple", Brand: "Orchard"})
	createFood(t, db, model.Food{Name: "Granola", Brand: "Banana Co"})

	all, err := service.ListFoods(db, "", 0)
	if err != nil {
		t.Fatalf("list foods: %v", err)
	}
	if len(all) != 3 || all[0].Name != "Apple" || all[1].Name != "banana" {
		t.Fatalf("expected case-insensitive name order, got %+v", all)
	}

	hits, err := service.ListFoods(db, "BANANA", 10)
	if err != nil {
		t.Fatalf("search foods: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected name and brand matches, got %+v", hits)
	}

	limited, _ := service.ListFoods(db, "", 1)
	if len(limited) != 1 {
		t.Fatalf("expected limit to apply, got %d", len(limited))
	}
}

func TestImportFoodsSkipsKnownSources(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	foods := []model.Food{
		{Name: "A", SourceType: "openfoodfacts", SourceRef: "111"},
		{Name: "B", SourceType: "openfoodfacts", SourceRef: "222"},
		{Name: "A again", SourceType: "openfoodfacts", SourceRef: "111"},
		{Name: "Local"},
	}
	n, err := service.ImportFoods(db, foods)
	if err != nil {
		t.Fatalf("import foods: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 inserted, got %d", n)
	}
	f, err := service.FindFoodBySource(db, "OpenFoodFacts", "111")
	if err != nil || f == nil || f.Name != "A" {
		t.Fatalf("expected first import to win, got %+v %v", f, err)
	}
}

func TestImportFoodsRollsBackOnInvalidFood(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	_, err := service.ImportFoods(db, []model.Food{{Name: "Good"}, {Name: ""}})
	if err == nil {
		t.Fatalf("expected import error")
	}
	all, _ := service.ListFoods(db, "", 0)
	if len(all) != 0 {
		t.Fatalf("expected rollback, found %d foods", len(all))
	}
}

func TestImportOpenFoodFacts(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	input := strings.Join([]string{
		"code\tproduct_name\tbrands\tserving_size\tenergy-kcal_100g\tproteins_100g\tvitamin-c_100g",
		"111\tYogurt\tDairy\t125 g\t60\t4\t0.0625",
		"222\t\t\t\t\t\t",
		"333\tMuesli\tMill\t\t380\t10\t",
	}, "\n") + "\n"

	stats, inserted, err := service.ImportOpenFoodFacts(db, strings.NewReader(input), importer.Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if inserted != 2 || stats.Imported != 2 || stats.NoNutrients != 1 {
		t.Fatalf("unexpected stats %+v inserted=%d", stats, inserted)
	}
	f, err := service.FindFoodBySource(db, "openfoodfacts", "111")
	if err != nil || f == nil {
		t.Fatalf("find imported food: %v %v", f, err)
	}
	if f.Calories == nil || *f.Calories != 60 || f.Nutrients["protein"] != 4 || f.Nutrients["vitamin_c"] != 62.5 {
		t.Fatalf("unexpected imported food: %+v", f)
	}

	again, inserted, err := service.ImportOpenFoodFacts(db, strings.NewReader(input), importer.Options{}, zap.NewNop())
	if err != nil {
		t.Fatalf("re-import: %v", err)
	}
	if again.Imported != 2 || inserted != 0 {
		t.Fatalf("expected re-import to insert nothing, got %+v inserted=%d", again, inserted)
	}
}

func TestParseNutrientInputs(t *testing.T) {
	t.Parallel()
	m, err := service.ParseNutrientsJSON(`{"Vitamin-C": 12.5, "iron": 2}`)
	if err != nil || m["vitamin_c"] != 12.5 || m["iron"] != 2 {
		t.Fatalf("parse json: %+v %v", m, err)
	}
	if _, err := service.ParseNutrientsJSON(`[1,2]`); err == nil {
		t.Fatalf("expected error for non-object json")
	}
	m, err = service.ParseNutrientAssignments([]string{"fiber=3.5", "sodium = 200"})
	if err != nil || m["fiber"] != 3.5 || m["sodium"] != 200 {
		t.Fatalf("parse pairs: %+v %v", m, err)
	}
	for _, bad := range [][]string{{"fiber"}, {"fiber=abc"}, {"=1"}} {
		if _, err := service.ParseNutrientAssignments(bad); err == nil {
			t.Fatalf("expected error for %v", bad)
		}
	}
}
