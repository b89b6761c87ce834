package service_test

import (
	"math"
	"strings"
	"testing"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/service"
)

func TestSaveProfileGeneratesIDAndSetsDefaultUser(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	id := saveAdult(t, db, "")
	if len(id) != 36 {
		t.Fatalf("expected generated uuid, got %q", id)
	}
	resolved, err := service.ResolveUserID(db, "")
	if err != nil {
		t.Fatalf("resolve user: %v", err)
	}
	if resolved != id {
		t.Fatalf("expected default user %s, got %s", id, resolved)
	}

	second := saveAdult(t, db, "bob")
	resolved, _ = service.ResolveUserID(db, "")
	if resolved != id {
		t.Fatalf("default user should stay %s after saving %s, got %s", id, second, resolved)
	}
	if explicit, _ := service.ResolveUserID(db, " bob "); explicit != "bob" {
		t.Fatalf("expected explicit user to win, got %q", explicit)
	}
}

func TestSaveProfileUpsertAndRoundTrip(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	saveAdult(t, db, "alice")
	p, err := service.RequireProfile(db, "alice")
	if err != nil {
		t.Fatalf("require profile: %v", err)
	}
	in := service.ProfileInputFrom(*p)
	in.Gender = model.GenderFemale
	in.Lactating = true
	in.BodyFatPct = floatPtr(24)
	in.GoalRate = -0.74
	in.ActivityLevel = "Very_Active"
	if _, err := service.SaveProfile(db, in); err != nil {
		t.Fatalf("update profile: %v", err)
	}

	got, err := service.GetProfile(db, "alice")
	if err != nil || got == nil {
		t.Fatalf("get profile: %v %v", got, err)
	}
	if got.Gender != model.GenderFemale || !got.Lactating || got.Pregnant {
		t.Fatalf("unexpected flags: %+v", got)
	}
	if got.BodyFatPct == nil || *got.BodyFatPct != 24 {
		t.Fatalf("expected body fat 24, got %v", got.BodyFatPct)
	}
	if got.GoalRate != -0.7 {
		t.Fatalf("expected goal rate rounded to -0.7, got %v", got.GoalRate)
	}
	if got.ActivityLevel != model.ActivityVeryActive {
		t.Fatalf("expected normalized activity level, got %q", got.ActivityLevel)
	}
	if got.Age == nil || *got.Age != 30 {
		t.Fatalf("expected age 30, got %v", got.Age)
	}
}

func TestGetProfileMissing(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	p, err := service.GetProfile(db, "nobody")
	if err != nil || p != nil {
		t.Fatalf("expected nil,nil for missing profile, got %v %v", p, err)
	}
	if _, err := service.RequireProfile(db, "nobody"); err == nil {
		t.Fatalf("expected error for missing profile")
	}
	if _, err := service.ResolveUserID(db, ""); err == nil {
		t.Fatalf("expected error when no default user exists")
	}
}

func TestSaveProfileValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	cases := []struct {
		name string
		in   service.ProfileInput
	}{
		{"negative age", service.ProfileInput{Age: intPtr(-1)}},
		{"bad gender", service.ProfileInput{Gender: "robot"}},
		{"pregnant male", service.ProfileInput{Gender: model.GenderMale, Pregnant: true}},
		{"negative weight", service.ProfileInput{WeightKg: -5}},
		{"negative height", service.ProfileInput{HeightCm: -1}},
		{"unknown activity", service.ProfileInput{ActivityLevel: "couch"}},
		{"body fat over 100", service.ProfileInput{BodyFatPct: floatPtr(101)}},
		{"goal rate too low", service.ProfileInput{GoalRate: -2.5}},
		{"goal rate too high", service.ProfileInput{GoalRate: 2.1}},
		{"infinite weight", service.ProfileInput{WeightKg: math.Inf(1)}},
		{"NaN height", service.ProfileInput{HeightCm: math.NaN()}},
		{"NaN body fat", service.ProfileInput{BodyFatPct: floatPtr(math.NaN())}},
	}
	for _, tc := range cases {
		if _, err := service.SaveProfile(db, tc.in); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}

func TestSaveProfileRejectsNaNGoalRate(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)
	defer db.Close()

	_, err := service.SaveProfile(db, service.ProfileInput{Gender: model.GenderFemale, GoalRate: math.NaN()})
	if err == nil {
		t.Fatalf("expected NaN goal rate to be rejected")
	}
	if !strings.Contains(err.Error(), "goal rate must be between") {
		t.Fatalf("expected goal rate range error, got %v", err)
	}
}
