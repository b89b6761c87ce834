package service

import (
	"database/sql"
	"time"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
)

// ProfileGoals is everything derived from a profile before any food is logged.
type ProfileGoals struct {
	Energy      *nutrition.Energy  `json:"energy,omitempty"`
	CalorieGoal int                `json:"calorie_goal"`
	Mode        nutrition.GoalMode `json:"mode"`
	Goals       nutrition.GoalMap  `json:"goals"`
}

func ComputeProfileGoals(p model.Profile, tables model.ReferenceTables) ProfileGoals {
	out := ProfileGoals{Mode: nutrition.ModeFor(p.GoalRate)}
	if e, ok := nutrition.EstimateEnergy(p); ok {
		out.Energy = &e
		out.CalorieGoal = e.CalorieGoal
	}
	out.Goals = nutrition.ComputeGoalMap(p, out.CalorieGoal, tables)
	return out
}

type DayReport struct {
	UserID      string                `json:"user_id"`
	Date        string                `json:"date"`
	Entries     int                   `json:"entries"`
	CalorieGoal int                   `json:"calorie_goal"`
	Mode        nutrition.GoalMode    `json:"mode"`
	Goals       nutrition.GoalMap     `json:"goals"`
	Totals      nutrition.Totals      `json:"totals"`
	Score       nutrition.HealthScore `json:"health_score"`
	Band        nutrition.Band        `json:"band"`
	Suggestions nutrition.Suggestions `json:"suggestions"`
}

// BuildDayReport loads the user's profile and diary for date and runs the
// scoring pipeline over them. A nil rng keeps tied suggestions in catalog order.
func BuildDayReport(db *sql.DB, tables model.ReferenceTables, userID string, date time.Time, rng nutrition.Shuffler) (DayReport, error) {
	profile, err := RequireProfile(db, userID)
	if err != nil {
		return DayReport{}, err
	}
	day := formatDate(beginningOfDay(date))
	entries, err := ListDiaryEntries(db, ListDiaryFilter{UserID: profile.UserID, Date: day})
	if err != nil {
		return DayReport{}, err
	}

	goals := ComputeProfileGoals(*profile, tables)
	totals := nutrition.AggregateTotals(entries)
	score := nutrition.ComputeHealthScore(totals, goals.Goals, goals.CalorieGoal, goals.Mode)
	return DayReport{
		UserID:      profile.UserID,
		Date:        day,
		Entries:     len(entries),
		CalorieGoal: goals.CalorieGoal,
		Mode:        goals.Mode,
		Goals:       goals.Goals,
		Totals:      totals,
		Score:       score,
		Band:        nutrition.BandFor(score.Score),
		Suggestions: nutrition.ComputeSuggestions(totals, goals.Goals, goals.CalorieGoal, goals.Mode, len(entries) > 0, rng),
	}, nil
}
