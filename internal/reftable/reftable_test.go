package reftable_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/nutrition"
	"github.com/saadjs/nutrigoal/internal/reftable"
)

var (
	macroRanges = [][]string{
		{"Macronutrient", "<4", "4–18", "≥19"},
		{"Carbohydrate", "45–65", "45–65", "45–65"},
		{"Protein", "5–20", "10–30", "10–35"},
		{"Fat", "30–40", "25–35", "20–35"},
	}
	macroRDA = [][]string{
		{"Life Stage", "Age", "Total Water (L/d)", "Total Fiber (g/d)", "Linoleic Acid (g/d)"},
		{"Males", "", "", "", ""},
		{"", "19–30 y", "3.7", "38", "17"},
		{"", "31–50 y", "3.7", "38", "17"},
		{"Females", "19–30 y", "2.7", "25", "12"},
	}
	microRDA = [][]string{
		{"Life Stage Group", "Age Band", "Vitamin C (mg/d)", "Iron (mg/d)"},
		{"Males", "19–30", "90", "8"},
		{"Females", "19–30", "75", "18"},
		{"Females", "", "75", "18"},
	}
)

func writeCSV(t *testing.T, dir, name string, grid [][]string) {
	t.Helper()
	lines := make([]string, 0, len(grid))
	for _, row := range grid {
		lines = append(lines, strings.Join(row, ","))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".csv"), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
}

func writeWorkbook(t *testing.T, path string, sheets map[string][][]string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, grid := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range grid {
			cells := make([]interface{}, len(row))
			for j, v := range row {
				cells[j] = v
			}
			addr, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, addr, &cells))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func assertTables(t *testing.T, tables model.ReferenceTables) {
	t.Helper()
	require.Len(t, tables.MacroRanges, 3)
	assert.Equal(t, "Protein", tables.MacroRanges[1].Macronutrient)
	assert.Equal(t, "10–35", tables.MacroRanges[1].Ranges["≥19"])

	require.Len(t, tables.MacroRDA, 3)
	assert.Equal(t, "Males", tables.MacroRDA[0].LifeStage, "life stage carries forward from the group heading")
	assert.Equal(t, "19–30 y", tables.MacroRDA[0].AgeBand)
	assert.Equal(t, "38", tables.MacroRDA[1].Values["Total Fiber (g/d)"])
	assert.Equal(t, "Females", tables.MacroRDA[2].LifeStage)

	require.Len(t, tables.MicroRDA, 2, "row without an age band is skipped")
	assert.Equal(t, "18", tables.MicroRDA[1].Values["Iron (mg/d)"])
	assert.NotContains(t, tables.MicroRDA[0].Values, "Age Band")
}

func TestLoadDir(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeCSV(t, dir, reftable.TableMacroRanges, macroRanges)
	writeCSV(t, dir, reftable.TableMacroRDA, macroRDA)
	writeCSV(t, dir, reftable.TableMicroRDA, microRDA)

	tables, err := reftable.Load(dir, zap.NewNop())
	require.NoError(t, err)
	assertTables(t, tables)
}

func TestLoadWorkbook(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "dri.xlsx")
	writeWorkbook(t, path, map[string][][]string{
		reftable.TableMacroRanges: macroRanges,
		reftable.TableMacroRDA:    macroRDA,
		reftable.TableMicroRDA:    microRDA,
	})

	tables, err := reftable.Load(path, nil)
	require.NoError(t, err)
	assertTables(t, tables)
}

func TestLoadedTablesFeedGoalMap(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeCSV(t, dir, reftable.TableMacroRanges, macroRanges)
	writeCSV(t, dir, reftable.TableMacroRDA, macroRDA)
	writeCSV(t, dir, reftable.TableMicroRDA, microRDA)
	tables, err := reftable.LoadDir(dir, nil)
	require.NoError(t, err)

	age := 35
	goals := nutrition.ComputeGoalMap(model.Profile{Age: &age, Gender: model.GenderMale}, 2000, tables)
	assert.Equal(t, 112.5, goals[nutrition.Protein])
	assert.Equal(t, 38.0, goals[nutrition.Fiber])
	assert.Equal(t, 90.0, goals[nutrition.VitaminC])
}

func TestLoadDirPartial(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	writeCSV(t, dir, reftable.TableMicroRDA, microRDA)

	tables, err := reftable.LoadDir(dir, nil)
	require.NoError(t, err)
	assert.Empty(t, tables.MacroRanges)
	assert.Empty(t, tables.MacroRDA)
	assert.Len(t, tables.MicroRDA, 2)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	_, err := reftable.Load("", nil)
	assert.Error(t, err)

	_, err = reftable.LoadDir(t.TempDir(), nil)
	assert.ErrorContains(t, err, "no reference tables")

	txt := filepath.Join(t.TempDir(), "tables.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = reftable.Load(txt, nil)
	assert.ErrorContains(t, err, "unsupported")

	empty := filepath.Join(t.TempDir(), "empty.xlsx")
	writeWorkbook(t, empty, map[string][][]string{"other": {{"a"}}})
	_, err = reftable.Load(empty, nil)
	assert.Error(t, err)
}

func TestReadCSVRaggedRows(t *testing.T) {
	t.Parallel()
	grid, err := reftable.ReadCSV(strings.NewReader("a,b,c\n1,2\n"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2"}}, grid)
}
