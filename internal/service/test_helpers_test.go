package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/saadjs/nutrigoal/internal/db"
	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nutrigoal.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return sqldb
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func saveAdult(t *testing.T, sqldb *sql.DB, userID string) string {
	t.Helper()
	id, err := service.SaveProfile(sqldb, service.ProfileInput{
		UserID:        userID,
		Age:           intPtr(30),
		Gender:        model.GenderMale,
		WeightKg:      80,
		HeightCm:      180,
		ActivityLevel: model.ActivitySedentary,
	})
	if err != nil {
		t.Fatalf("save profile: %v", err)
	}
	return id
}

func createFood(t *testing.T, sqldb *sql.DB, f model.Food) int64 {
	t.Helper()
	id, err := service.CreateFood(sqldb, f)
	if err != nil {
		t.Fatalf("create food %q: %v", f.Name, err)
	}
	return id
}
