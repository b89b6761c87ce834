package model

import "time"

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
	ActivityAthlete    ActivityLevel = "athlete"
)

type Meal string

const (
	MealBreakfast Meal = "breakfast"
	MealLunch     Meal = "lunch"
	MealDinner    Meal = "dinner"
	MealSnack     Meal = "snack"
)

// Profile is the biometric input to goal computation. Age and BodyFatPct
// are nil when unknown; GoalRate is in units of 500 kcal/day.
type Profile struct {
	UserID        string
	Age           *int
	Gender        Gender
	Pregnant      bool
	Lactating     bool
	WeightKg      float64
	HeightCm      float64
	ActivityLevel ActivityLevel
	BodyFatPct    *float64
	GoalRate      float64
	UpdatedAt     time.Time
}

// Food is shared nutrient reference data. Nutrients holds whatever columns the
// source provided; a missing key means unknown, not zero.
type Food struct {
	ID          int64
	Name        string
	Brand       string
	Servings    *float64
	ServingSize string
	Calories    *float64
	Nutrients   map[string]float64
	SourceType  string
	SourceRef   string
	CreatedAt   time.Time
}

type DiaryEntry struct {
	ID        int64
	UserID    string
	Food      Food
	EatenAt   time.Time
	Meal      Meal
	Servings  float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReferenceRow is one row of a wide RDA table keyed by life-stage and age band.
// Values maps the raw column header to the raw cell text.
type ReferenceRow struct {
	LifeStage string
	AgeBand   string
	Values    map[string]string
}

// MacroRangeRow is one macronutrient of the %-of-calories table. Ranges maps an
// age band header such as "4–18" to a range cell such as "25–35".
type MacroRangeRow struct {
	Macronutrient string
	Ranges        map[string]string
}

type ReferenceTables struct {
	MacroRanges []MacroRangeRow
	MacroRDA    []ReferenceRow
	MicroRDA    []ReferenceRow
}
