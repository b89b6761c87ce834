package service_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/service"
)

func dayTables() model.ReferenceTables {
	return model.ReferenceTables{
		MacroRanges: []model.MacroRangeRow{
			{Macronutrient: "Carbohydrate", Ranges: map[string]string{"≥19": "45–65"}},
			{Macronutrient: "Protein", Ranges: map[string]string{"≥19": "10–35"}},
			{Macronutrient: "Fat", Ranges: map[string]string{"≥19": "20–35"}},
		},
		MacroRDA: []model.ReferenceRow{
			{LifeStage: "Males", AgeBand: "19–30", Values: map[string]string{"Total Fiber (g/d)": "38"}},
			{LifeStage: "Males", AgeBand: "31–50", Values: map[string]string{"Total Fiber (g/d)": "38"}},
		},
		MicroRDA: []model.ReferenceRow{
			{LifeStage: "Males", AgeBand: "31–50", Values: map[string]string{"Vitamin C (mg/d)": "90", "Iron (mg/d)": "8"}},
		},
	}
}

func TestComputeProfileGoals(t *testing.T) {
	t.Parallel()
	p := model.Profile{Age: intPtr(30), Gender: model.GenderMale, WeightKg: 80, HeightCm: 180, ActivityLevel: model.ActivitySedentary, GoalRate: -1}
	g := service.ComputeProfileGoals(p, dayTables())
	if g.Energy == nil || g.CalorieGoal != 1636 || g.Mode != nutrition.GoalLose {
		t.Fatalf("unexpected goals: %+v", g)
	}
	if g.Goals[nutrition.Calories] != 1636 || g.Goals[nutrition.Fiber] != 38 || g.Goals[nutrition.VitaminC] != 90 {
		t.Fatalf("unexpected goal map: %+v", g.Goals)
	}

	unknown := service.ComputeProfileGoals(model.Profile{Gender: model.GenderFemale}, dayTables())
	if unknown.Energy != nil || unknown.CalorieGoal != 0 {
		t.Fatalf("expected no energy estimate, got %+v", unknown)
	}
	if _, ok := unknown.Goals[nutrition.Calories]; ok {
		t.Fatalf("expected no calorie target without an estimate")
	}
}

func TestBuildDayReport(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	user := saveAdult(t, db, "alice")
	bowl := createFood(t, db, model.Food{
		Name:      "Power Bowl",
		Servings:  floatPtr(1),
		Calories:  floatPtr(700),
		Nutrients: map[string]float64{"protein": 40, "fiber": 12, "vitamin_c": 30, "iron": 6},
	})
	day := time.Date(2026, 5, 10, 12, 0, 0, 0, time.Local)
	if _, err := service.LogFood(db, service.LogFoodInput{UserID: user, FoodID: bowl, Date: day, Meal: model.MealLunch, Servings: 2}); err != nil {
		t.Fatalf("log food: %v", err)
	}
	if _, err := service.LogFood(db, service.LogFoodInput{UserID: user, FoodID: bowl, Date: day.AddDate(0, 0, -1), Meal: model.MealLunch, Servings: 1}); err != nil {
		t.Fatalf("log food: %v", err)
	}

	report, err := service.BuildDayReport(db, dayTables(), user, day, nil)
	if err != nil {
		t.Fatalf("build day report: %v", err)
	}
	if report.Date != "2026-05-10" || report.Entries != 1 {
		t.Fatalf("expected one entry on 2026-05-10, got %+v", report)
	}
	if report.CalorieGoal != 2136 || report.Totals[nutrition.Calories] != 1400 {
		t.Fatalf("unexpected calories: goal=%d totals=%v", report.CalorieGoal, report.Totals[nutrition.Calories])
	}
	if report.Totals[nutrition.Fiber] != 12 {
		t.Fatalf("expected nutrients summed as stored, got fiber %v", report.Totals[nutrition.Fiber])
	}
	if report.Score.Score < 0 || report.Score.Score > 100 {
		t.Fatalf("score out of range: %v", report.Score.Score)
	}
	if report.Band != nutrition.BandFor(report.Score.Score) {
		t.Fatalf("band %q does not match score %v", report.Band, report.Score.Score)
	}
	if report.Suggestions.Empty || report.Suggestions.LackingText == "" || report.Suggestions.OverText == "" {
		t.Fatalf("expected suggestions, got %+v", report.Suggestions)
	}

	again, err := service.BuildDayReport(db, dayTables(), user, day, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("rebuild day report: %v", err)
	}
	if again.Score != report.Score {
		t.Fatalf("score should not depend on the shuffler: %+v vs %+v", again.Score, report.Score)
	}
}

func TestBuildDayReportWithoutEntries(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	user := saveAdult(t, db, "")
	report, err := service.BuildDayReport(db, model.ReferenceTables{}, user, time.Now(), nil)
	if err != nil {
		t.Fatalf("build day report: %v", err)
	}
	if report.Entries != 0 || !report.Suggestions.Empty || report.Suggestions.Prompt == "" {
		t.Fatalf("expected empty-day prompt, got %+v", report.Suggestions)
	}
	if report.Totals[nutrition.Calories] != 0 {
		t.Fatalf("expected zero calories, got %v", report.Totals[nutrition.Calories])
	}

	if _, err := service.BuildDayReport(db, model.ReferenceTables{}, "ghost", time.Now(), nil); err == nil {
		t.Fatalf("expected error for unknown user")
	}
}

func TestLoadReferenceTablesUnconfigured(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	tables, configured, err := service.LoadReferenceTables(db, nil)
	if err != nil || configured || len(tables.MicroRDA) != 0 {
		t.Fatalf("expected empty unconfigured tables, got %+v configured=%v err=%v", tables, configured, err)
	}

	if err := service.SetConfig(db, service.ConfigReferenceTables, t.TempDir()); err != nil {
		t.Fatalf("set config: %v", err)
	}
	if _, configured, err := service.LoadReferenceTables(db, nil); err == nil || !configured {
		t.Fatalf("expected error for an empty table directory, configured=%v", configured)
	}
}
