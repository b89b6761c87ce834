package service

import (
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
)

type ProfileInput struct {
	UserID        string
	Age           *int
	Gender        model.Gender
	Pregnant      bool
	Lactating     bool
	WeightKg      float64
	HeightCm      float64
	ActivityLevel model.ActivityLevel
	BodyFatPct    *float64
	GoalRate      float64
}

// SaveProfile validates and upserts a profile. An empty UserID gets a fresh
// id, and the first saved profile becomes the default user.
func SaveProfile(db *sql.DB, in ProfileInput) (string, error) {
	if err := validateProfile(&in); err != nil {
		return "", err
	}
	if in.UserID == "" {
		in.UserID = uuid.NewString()
	}

	var bodyFat any
	if in.BodyFatPct != nil {
		bodyFat = *in.BodyFatPct
	}
	var age any
	if in.Age != nil {
		age = *in.Age
	}
	_, err := db.Exec(`
INSERT INTO profiles(user_id, age, gender, pregnant, lactating, weight_kg, height_cm, activity_level, body_fat_pct, goal_rate, updated_at)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(user_id) DO UPDATE SET
  age=excluded.age, gender=excluded.gender, pregnant=excluded.pregnant, lactating=excluded.lactating,
  weight_kg=excluded.weight_kg, height_cm=excluded.height_cm, activity_level=excluded.activity_level,
  body_fat_pct=excluded.body_fat_pct, goal_rate=excluded.goal_rate, updated_at=excluded.updated_at
`, in.UserID, age, string(in.Gender), boolToInt(in.Pregnant), boolToInt(in.Lactating), in.WeightKg, in.HeightCm,
		string(in.ActivityLevel), bodyFat, in.GoalRate, time.Now().Format(time.RFC3339))
	if err != nil {
		return "", fmt.Errorf("save profile: %w", err)
	}

	if _, ok, err := GetConfig(db, ConfigDefaultUser); err != nil {
		return "", err
	} else if !ok {
		if err := SetConfig(db, ConfigDefaultUser, in.UserID); err != nil {
			return "", err
		}
	}
	return in.UserID, nil
}

func validateProfile(in *ProfileInput) error {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.Age != nil && *in.Age < 0 {
		return fmt.Errorf("age must be >= 0")
	}
	in.Gender = model.Gender(normalizeName(string(in.Gender)))
	switch in.Gender {
	case "", model.GenderMale, model.GenderFemale, model.GenderOther:
	default:
		return fmt.Errorf("gender must be male, female or other")
	}
	if in.Gender == model.GenderMale && (in.Pregnant || in.Lactating) {
		return fmt.Errorf("pregnant and lactating apply only to female or other profiles")
	}
	if err := validateNonNegativeFloat("weight", in.WeightKg); err != nil {
		return err
	}
	if err := validateNonNegativeFloat("height", in.HeightCm); err != nil {
		return err
	}
	in.ActivityLevel = model.ActivityLevel(normalizeName(string(in.ActivityLevel)))
	if in.ActivityLevel == "" {
		in.ActivityLevel = model.ActivitySedentary
	}
	if !nutrition.ValidActivityLevel(in.ActivityLevel) {
		return fmt.Errorf("unknown activity level %q", in.ActivityLevel)
	}
	if in.BodyFatPct != nil && !(*in.BodyFatPct >= 0 && *in.BodyFatPct <= 100) {
		return fmt.Errorf("body fat must be between 0 and 100")
	}
	if math.IsNaN(in.GoalRate) || in.GoalRate < -nutrition.GoalRateLimit || in.GoalRate > nutrition.GoalRateLimit {
		return fmt.Errorf("goal rate must be between %.1f and %.1f", -nutrition.GoalRateLimit, nutrition.GoalRateLimit)
	}
	in.GoalRate = nutrition.RoundGoalRate(in.GoalRate)
	return nil
}

// GetProfile returns nil when the user has no profile.
func GetProfile(db *sql.DB, userID string) (*model.Profile, error) {
	var (
		p         model.Profile
		age       sql.NullInt64
		bodyFat   sql.NullFloat64
		pregnant  int
		lactating int
		gender    string
		activity  string
		updatedAt string
	)
	err := db.QueryRow(`
SELECT user_id, age, gender, pregnant, lactating, weight_kg, height_cm, activity_level, body_fat_pct, goal_rate, updated_at
FROM profiles WHERE user_id = ?
`, strings.TrimSpace(userID)).Scan(&p.UserID, &age, &gender, &pregnant, &lactating, &p.WeightKg, &p.HeightCm, &activity, &bodyFat, &p.GoalRate, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	if age.Valid {
		v := int(age.Int64)
		p.Age = &v
	}
	if bodyFat.Valid {
		v := bodyFat.Float64
		p.BodyFatPct = &v
	}
	p.Gender = model.Gender(gender)
	p.ActivityLevel = model.ActivityLevel(activity)
	p.Pregnant = pregnant == 1
	p.Lactating = lactating == 1
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &p, nil
}

// ProfileInputFrom seeds an update from an existing profile.
func ProfileInputFrom(p model.Profile) ProfileInput {
	return ProfileInput{
		UserID:        p.UserID,
		Age:           p.Age,
		Gender:        p.Gender,
		Pregnant:      p.Pregnant,
		Lactating:     p.Lactating,
		WeightKg:      p.WeightKg,
		HeightCm:      p.HeightCm,
		ActivityLevel: p.ActivityLevel,
		BodyFatPct:    p.BodyFatPct,
		GoalRate:      p.GoalRate,
	}
}

// ResolveUserID picks the explicit id, else the configured default user.
func ResolveUserID(db *sql.DB, explicit string) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return id, nil
	}
	id, ok, err := GetConfig(db, ConfigDefaultUser)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(id) == "" {
		return "", fmt.Errorf("no user selected; pass --user or create a profile with `nutrigoal profile set`")
	}
	return id, nil
}

// RequireProfile is GetProfile that treats a missing profile as an error.
func RequireProfile(db *sql.DB, userID string) (*model.Profile, error) {
	p, err := GetProfile(db, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile %q not found", userID)
	}
	return p, nil
}
