package nutrigoal

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/saadjs/nutrigoal/internal/service"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("%s failed: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func TestRootHelp(t *testing.T) {
	out := mustRun(t, "--help")
	if !strings.Contains(out, "nutrigoal") {
		t.Fatalf("expected help output, got %q", out)
	}
}

func TestInitCommandIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutrigoal.db")
	for i := 0; i < 2; i++ {
		out := mustRun(t, "--db", path, "init")
		if !strings.Contains(out, "schema v3") {
			t.Fatalf("init run %d: unexpected output %q", i+1, out)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out := mustRun(t, "version")
	if !strings.HasPrefix(out, "nutrigoal dev") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestConfigRejectsUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutrigoal.db")
	if _, err := run(t, "--db", path, "config", "set", "favourite_colour", "blue"); err == nil {
		t.Fatalf("expected unknown key error")
	}
}

func writeReferenceCSVs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"macro_ranges.csv": "Macronutrient,<4,4–18,≥19\nCarbohydrate,45–65,45–65,45–65\nProtein,5–20,10–30,10–35\nFat,30–40,25–35,20–35\n",
		"macro_rda.csv":    "Life Stage,Age Band,Total Fiber (g/d)\nMales,19–30,38\nMales,31–50,38\n",
		"micro_rda.csv":    "Life Stage,Age Band,Vitamin C (mg/d),Iron (mg/d)\nMales,19–30,90,8\nMales,31–50,90,8\n",
	}
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestDayWorkflow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nutrigoal.db")
	tables := writeReferenceCSVs(t)

	mustRun(t, "--db", path, "config", "set", service.ConfigReferenceTables, tables)
	if out := mustRun(t, "--db", path, "config", "get", service.ConfigReferenceTables); strings.TrimSpace(out) != tables {
		t.Fatalf("unexpected config value %q", out)
	}

	mustRun(t, "--db", path, "--user", "alice", "profile", "set",
		"--age", "30", "--gender", "male", "--weight", "80", "--height", "180", "--activity", "sedentary")
	out := mustRun(t, "--db", path, "--user", "alice", "profile", "show")
	if !strings.Contains(out, "Calorie goal: 2136 kcal") || !strings.Contains(out, "Min goal rate: -1.2") {
		t.Fatalf("unexpected profile output:\n%s", out)
	}

	out = mustRun(t, "--db", path, "--user", "alice", "reference", "check")
	if !strings.Contains(out, "life stage Males") || !strings.Contains(out, "Males 19–30") {
		t.Fatalf("unexpected reference check output:\n%s", out)
	}

	out = mustRun(t, "--db", path, "food", "add", "--name", "Oats", "--calories", "150",
		"--serving-size", "1 cup", "--nutrient", "fiber=4", "--nutrient", "protein=5")
	if !strings.Contains(out, "Added food 1") {
		t.Fatalf("unexpected food add output %q", out)
	}

	mustRun(t, "--db", path, "--user", "alice", "diary", "add", "1", "--servings", "2", "--meal", "breakfast", "--date", "2026-04-01")
	out = mustRun(t, "--db", path, "--user", "alice", "diary", "list", "--date", "2026-04-01")
	if !strings.Contains(out, "2 cups") || !strings.Contains(out, "\t300\n") {
		t.Fatalf("unexpected diary list:\n%s", out)
	}

	out = mustRun(t, "--db", path, "--user", "alice", "goals")
	if !strings.Contains(out, "Calorie goal: 2136 kcal (maintain)") || !strings.Contains(out, "fiber\t38\tg") {
		t.Fatalf("unexpected goals output:\n%s", out)
	}

	out = mustRun(t, "--db", path, "--user", "alice", "today", "--date", "2026-04-01", "--seed", "1", "--json")
	var report service.DayReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode today json: %v\n%s", err, out)
	}
	if report.Entries != 1 || report.Totals["calories"] != 300 || report.CalorieGoal != 2136 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.Goals["vitamin_c"] != 90 || report.Suggestions.Empty {
		t.Fatalf("expected reference goals and suggestions, got %+v", report)
	}
}
