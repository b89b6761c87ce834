package service

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/importer"
	"github.com/saadjs/nutrigoal/internal/model"
)

const foodColumns = `id, name, brand, servings, serving_size, calories, nutrients_json, source_type, source_ref, created_at`

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func CreateFood(db *sql.DB, f model.Food) (int64, error) {
	return insertFood(db, f, nil)
}

func insertFood(ex execer, f model.Food, raw []byte) (int64, error) {
	if err := validateFood(&f); err != nil {
		return 0, err
	}
	nutrients, err := EncodeNutrientsJSON(f.Nutrients)
	if err != nil {
		return 0, err
	}
	var rawJSON any
	if len(raw) > 0 {
		rawJSON = string(raw)
	}
	res, err := ex.Exec(`
INSERT INTO foods(name, brand, servings, serving_size, calories, nutrients_json, source_type, source_ref, raw_json)
VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
`, f.Name, f.Brand, nullableFloat(f.Servings), f.ServingSize, nullableFloat(f.Calories), nutrients, f.SourceType, f.SourceRef, rawJSON)
	if err != nil {
		return 0, fmt.Errorf("insert food: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("resolve inserted food id: %w", err)
	}
	return id, nil
}

func validateFood(f *model.Food) error {
	f.Name = strings.TrimSpace(f.Name)
	if f.Name == "" {
		return fmt.Errorf("food name is required")
	}
	f.Brand = strings.TrimSpace(f.Brand)
	f.ServingSize = strings.TrimSpace(f.ServingSize)
	if f.Servings != nil {
		if err := validateNonNegativeFloat("servings", *f.Servings); err != nil {
			return err
		}
	}
	if f.Calories != nil {
		if err := validateNonNegativeFloat("calories", *f.Calories); err != nil {
			return err
		}
	}
	nutrients, err := normalizeNutrients(f.Nutrients)
	if err != nil {
		return err
	}
	f.Nutrients = nutrients
	f.SourceType = foodSourceType(f.SourceType)
	f.SourceRef = strings.TrimSpace(f.SourceRef)
	return nil
}

// GetFood returns nil when no food has the id.
func GetFood(db *sql.DB, id int64) (*model.Food, error) {
	f, err := scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get food %d: %w", id, err)
	}
	return &f, nil
}

// FindFoodBySource returns nil when no food was stored for the source reference.
func FindFoodBySource(db *sql.DB, sourceType, sourceRef string) (*model.Food, error) {
	f, err := scanFood(db.QueryRow(`SELECT `+foodColumns+` FROM foods WHERE source_type = ? AND source_ref = ?`,
		foodSourceType(sourceType), strings.TrimSpace(sourceRef)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find food by source: %w", err)
	}
	return &f, nil
}

// ListFoods matches query against name and brand, case-insensitively.
func ListFoods(db *sql.DB, query string, limit int) ([]model.Food, error) {
	if limit <= 0 {
		limit = 50
	}
	q := `SELECT ` + foodColumns + ` FROM foods`
	args := make([]any, 0, 3)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q += ` WHERE lower(name) LIKE ? OR lower(brand) LIKE ?`
		args = append(args, like, like)
	}
	q += ` ORDER BY name COLLATE NOCASE ASC, id ASC LIMIT ?`
	args = append(args, limit)

	rows, err := db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()
	out := make([]model.Food, 0)
	for rows.Next() {
		f, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return out, nil
}

// ImportFoods inserts foods in one transaction. Foods whose source reference
// already exists are skipped.
func ImportFoods(db *sql.DB, foods []model.Food) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import tx: %w", err)
	}
	n := 0
	for _, f := range foods {
		inserted, err := importFood(tx, f)
		if err != nil {
			_ = tx.Rollback()
			return 0, err
		}
		if inserted {
			n++
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import tx: %w", err)
	}
	return n, nil
}

// ImportOpenFoodFacts streams an Open Food Facts export into the foods table
// inside one transaction.
func ImportOpenFoodFacts(db *sql.DB, r io.Reader, opts importer.Options, logger *zap.Logger) (importer.Stats, int, error) {
	tx, err := db.Begin()
	if err != nil {
		return importer.Stats{}, 0, fmt.Errorf("begin import tx: %w", err)
	}
	inserted := 0
	stats, err := importer.ReadOFF(r, opts, logger, func(f model.Food) error {
		ok, err := importFood(tx, f)
		if ok {
			inserted++
		}
		return err
	})
	if err != nil {
		_ = tx.Rollback()
		return stats, 0, err
	}
	if err := tx.Commit(); err != nil {
		return stats, 0, fmt.Errorf("commit import tx: %w", err)
	}
	return stats, inserted, nil
}

func importFood(tx *sql.Tx, f model.Food) (bool, error) {
	if ref := strings.TrimSpace(f.SourceRef); ref != "" {
		var exists int
		err := tx.QueryRow(`SELECT 1 FROM foods WHERE source_type = ? AND source_ref = ?`, foodSourceType(f.SourceType), ref).Scan(&exists)
		if err == nil {
			return false, nil
		}
		if err != sql.ErrNoRows {
			return false, fmt.Errorf("check existing food: %w", err)
		}
	}
	if _, err := insertFood(tx, f, nil); err != nil {
		return false, err
	}
	return true, nil
}

func foodSourceType(v string) string {
	if t := normalizeName(v); t != "" {
		return t
	}
	return "manual"
}

func scanFood(row rowScanner) (model.Food, error) {
	var (
		f         model.Food
		servings  sql.NullFloat64
		calories  sql.NullFloat64
		nutrients string
		createdAt string
	)
	if err := row.Scan(&f.ID, &f.Name, &f.Brand, &servings, &f.ServingSize, &calories, &nutrients, &f.SourceType, &f.SourceRef, &createdAt); err != nil {
		return model.Food{}, err
	}
	if servings.Valid {
		v := servings.Float64
		f.Servings = &v
	}
	if calories.Valid {
		v := calories.Float64
		f.Calories = &v
	}
	parsed, err := ParseNutrientsJSON(nutrients)
	if err != nil {
		return model.Food{}, fmt.Errorf("decode nutrients of food %d: %w", f.ID, err)
	}
	f.Nutrients = parsed
	f.CreatedAt = parseTimestamp(createdAt)
	return f, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

// parseTimestamp accepts RFC3339 and SQLite's CURRENT_TIMESTAMP layout.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05Z"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
