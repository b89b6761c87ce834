package service

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/saadjs/nutrigoal/internal/model"
)

type LogFoodInput struct {
	UserID   string
	FoodID   int64
	Date     time.Time
	Meal     model.Meal
	Servings float64
}

type ListDiaryFilter struct {
	UserID   string
	Date     string
	FromDate string
	ToDate   string
	Meal     string
	Limit    int
}

// UpdateDiaryInput changes only the fields that are non-nil.
type UpdateDiaryInput struct {
	ID       int64
	Servings *float64
	Meal     *model.Meal
	Date     *time.Time
}

// ParseMeal accepts one of breakfast, lunch, dinner or snack.
func ParseMeal(value string) (model.Meal, error) {
	switch m := model.Meal(normalizeName(value)); m {
	case model.MealBreakfast, model.MealLunch, model.MealDinner, model.MealSnack:
		return m, nil
	case "":
		return "", fmt.Errorf("meal is required")
	default:
		return "", fmt.Errorf("invalid meal %q (expected breakfast, lunch, dinner or snack)", value)
	}
}

func LogFood(db *sql.DB, in LogFoodInput) (int64, error) {
	in.UserID = strings.TrimSpace(in.UserID)
	if in.UserID == "" {
		return 0, fmt.Errorf("user id is required")
	}
	if in.FoodID <= 0 {
		return 0, fmt.Errorf("food id must be > 0")
	}
	if err := validatePositiveFloat("servings", in.Servings); err != nil {
		return 0, err
	}
	meal, err := ParseMeal(string(in.Meal))
	if err != nil {
		return 0, err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	food, err := GetFood(db, in.FoodID)
	if err != nil {
		return 0, err
	}
	if food == nil {
		return 0, fmt.Errorf("food %d not found", in.FoodID)
	}

	res, err := db.Exec(`
INSERT INTO diary_entries(user_id, food_id, eaten_at, meal, servings)
VALUES(?, ?, ?, ?, ?)
`, in.UserID, in.FoodID, formatDate(in.Date), string(meal), in.Servings)
	if err != nil {
		return 0, fmt.Errorf("insert diary entry: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted diary entry id: %w", err)
	}
	return id, nil
}

func ListDiaryEntries(db *sql.DB, f ListDiaryFilter) ([]model.DiaryEntry, error) {
	if strings.TrimSpace(f.UserID) == "" {
		return nil, fmt.Errorf("user id is required")
	}
	if strings.TrimSpace(f.Date) != "" && (strings.TrimSpace(f.FromDate) != "" || strings.TrimSpace(f.ToDate) != "") {
		return nil, fmt.Errorf("--date cannot be combined with --from or --to")
	}

	query := `
SELECT d.id, d.user_id, d.eaten_at, d.meal, d.servings, d.created_at, d.updated_at,
  f.id, f.name, f.brand, f.servings, f.serving_size, f.calories, f.nutrients_json, f.source_type, f.source_ref, f.created_at
FROM diary_entries d
JOIN foods f ON f.id = d.food_id
WHERE d.user_id = ?`
	args := []any{strings.TrimSpace(f.UserID)}

	if strings.TrimSpace(f.Date) != "" {
		day, err := ParseDate(f.Date)
		if err != nil {
			return nil, err
		}
		query += ` AND d.eaten_at = ?`
		args = append(args, formatDate(day))
	}
	if strings.TrimSpace(f.FromDate) != "" {
		from, err := ParseDate(f.FromDate)
		if err != nil {
			return nil, err
		}
		query += ` AND d.eaten_at >= ?`
		args = append(args, formatDate(from))
	}
	if strings.TrimSpace(f.ToDate) != "" {
		to, err := ParseDate(f.ToDate)
		if err != nil {
			return nil, err
		}
		query += ` AND d.eaten_at <= ?`
		args = append(args, formatDate(to))
	}
	if strings.TrimSpace(f.Meal) != "" {
		meal, err := ParseMeal(f.Meal)
		if err != nil {
			return nil, err
		}
		query += ` AND d.meal = ?`
		args = append(args, string(meal))
	}
	query += ` ORDER BY d.eaten_at ASC, d.id ASC`
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list diary entries: %w", err)
	}
	defer rows.Close()

	entries := make([]model.DiaryEntry, 0)
	for rows.Next() {
		e, err := scanDiaryEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diary entries: %w", err)
	}
	return entries, nil
}

func scanDiaryEntry(row rowScanner) (model.DiaryEntry, error) {
	var (
		e                    model.DiaryEntry
		eatenAt, meal        string
		createdAt, updatedAt string
		foodServings         sql.NullFloat64
		foodCalories         sql.NullFloat64
		nutrients            string
		foodCreatedAt        string
	)
	err := row.Scan(&e.ID, &e.UserID, &eatenAt, &meal, &e.Servings, &createdAt, &updatedAt,
		&e.Food.ID, &e.Food.Name, &e.Food.Brand, &foodServings, &e.Food.ServingSize, &foodCalories, &nutrients,
		&e.Food.SourceType, &e.Food.SourceRef, &foodCreatedAt)
	if err != nil {
		return model.DiaryEntry{}, fmt.Errorf("scan diary entry: %w", err)
	}
	day, err := ParseDate(eatenAt)
	if err != nil {
		return model.DiaryEntry{}, fmt.Errorf("parse eaten_at for diary entry %d: %w", e.ID, err)
	}
	e.EatenAt = day
	e.Meal = model.Meal(meal)
	e.CreatedAt = parseTimestamp(createdAt)
	e.UpdatedAt = parseTimestamp(updatedAt)
	if foodServings.Valid {
		v := foodServings.Float64
		e.Food.Servings = &v
	}
	if foodCalories.Valid {
		v := foodCalories.Float64
		e.Food.Calories = &v
	}
	parsed, err := ParseNutrientsJSON(nutrients)
	if err != nil {
		return model.DiaryEntry{}, fmt.Errorf("decode nutrients of food %d: %w", e.Food.ID, err)
	}
	e.Food.Nutrients = parsed
	e.Food.CreatedAt = parseTimestamp(foodCreatedAt)
	return e, nil
}

func UpdateDiaryEntry(db *sql.DB, in UpdateDiaryInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("diary entry id must be > 0")
	}
	sets := make([]string, 0, 4)
	args := make([]any, 0, 5)
	if in.Servings != nil {
		if err := validatePositiveFloat("servings", *in.Servings); err != nil {
			return err
		}
		sets = append(sets, "servings = ?")
		args = append(args, *in.Servings)
	}
	if in.Meal != nil {
		meal, err := ParseMeal(string(*in.Meal))
		if err != nil {
			return err
		}
		sets = append(sets, "meal = ?")
		args = append(args, string(meal))
	}
	if in.Date != nil {
		if in.Date.IsZero() {
			return fmt.Errorf("date is required")
		}
		sets = append(sets, "eaten_at = ?")
		args = append(args, formatDate(*in.Date))
	}
	if len(sets) == 0 {
		return fmt.Errorf("nothing to update")
	}
	sets = append(sets, "updated_at = CURRENT_TIMESTAMP")
	args = append(args, in.ID)

	res, err := db.Exec(`UPDATE diary_entries SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return fmt.Errorf("update diary entry %d: %w", in.ID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for diary entry %d: %w", in.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("diary entry %d not found", in.ID)
	}
	return nil
}

func DeleteDiaryEntry(db *sql.DB, id int64) error {
	if id <= 0 {
		return fmt.Errorf("diary entry id must be > 0")
	}
	res, err := db.Exec(`DELETE FROM diary_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete diary entry %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected for diary entry %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("diary entry %d not found", id)
	}
	return nil
}
