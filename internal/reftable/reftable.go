// Package reftable loads the three wide nutrient reference tables from an
// .xlsx workbook or a directory of CSV files.
package reftable

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/logging"
	"github.com/saadjs/nutrigoal/internal/model"
)

// Table names double as sheet names and CSV file stems.
const (
	TableMacroRanges = "macro_ranges"
	TableMacroRDA    = "macro_rda"
	TableMicroRDA    = "micro_rda"
)

var tableNames = []string{TableMacroRanges, TableMacroRDA, TableMicroRDA}

// Load dispatches on path: a directory is read as CSV files, a .xlsx file as a workbook.
func Load(path string, logger *zap.Logger) (model.ReferenceTables, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return model.ReferenceTables{}, fmt.Errorf("reference tables path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return model.ReferenceTables{}, fmt.Errorf("stat reference tables: %w", err)
	}
	if info.IsDir() {
		return LoadDir(path, logger)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadWorkbook(path, logger)
	default:
		return model.ReferenceTables{}, fmt.Errorf("unsupported reference tables file %q (use a directory of CSV files or an .xlsx workbook)", path)
	}
}

// build turns raw grids into typed tables. A nil grid leaves that table empty.
func build(grids map[string][][]string, logger *zap.Logger) model.ReferenceTables {
	logger = logging.OrNop(logger)
	var out model.ReferenceTables
	out.MacroRanges = parseMacroRanges(grids[TableMacroRanges], logger)
	out.MacroRDA = parseWide(grids[TableMacroRDA], TableMacroRDA, logger)
	out.MicroRDA = parseWide(grids[TableMicroRDA], TableMicroRDA, logger)
	logger.Debug("reference tables loaded",
		zap.Int("macro_ranges", len(out.MacroRanges)),
		zap.Int("macro_rda", len(out.MacroRDA)),
		zap.Int("micro_rda", len(out.MicroRDA)),
	)
	return out
}

func parseMacroRanges(grid [][]string, logger *zap.Logger) []model.MacroRangeRow {
	if len(grid) < 2 {
		return nil
	}
	header := cleanRow(grid[0])
	var rows []model.MacroRangeRow
	for i, raw := range grid[1:] {
		rec := cleanRow(raw)
		name := cell(rec, 0)
		if name == "" {
			logger.Debug("skip macro range row without a name", zap.Int("row", i+2))
			continue
		}
		ranges := make(map[string]string, len(header)-1)
		for c := 1; c < len(header); c++ {
			if header[c] == "" {
				continue
			}
			if v := cell(rec, c); v != "" {
				ranges[header[c]] = v
			}
		}
		rows = append(rows, model.MacroRangeRow{Macronutrient: name, Ranges: ranges})
	}
	return rows
}

// parseWide reads a life-stage × age table. Life-stage cells may be left
// blank under a group heading; the last seen life stage carries forward.
func parseWide(grid [][]string, table string, logger *zap.Logger) []model.ReferenceRow {
	if len(grid) < 2 {
		return nil
	}
	header := cleanRow(grid[0])
	stageCol, bandCol := keyColumns(header)

	var (
		rows      []model.ReferenceRow
		lastStage string
	)
	for i, raw := range grid[1:] {
		rec := cleanRow(raw)
		stage := cell(rec, stageCol)
		band := cell(rec, bandCol)
		if stage != "" && band == "" && valuesEmpty(rec, header, stageCol, bandCol) {
			lastStage = stage
			continue
		}
		if stage == "" {
			stage = lastStage
		} else {
			lastStage = stage
		}
		if stage == "" || band == "" {
			logger.Warn("skip reference row without life stage or age band", zap.String("table", table), zap.Int("row", i+2))
			continue
		}
		values := make(map[string]string, len(header))
		for c, name := range header {
			if c == stageCol || c == bandCol || name == "" {
				continue
			}
			if v := cell(rec, c); v != "" {
				values[name] = v
			}
		}
		rows = append(rows, model.ReferenceRow{LifeStage: stage, AgeBand: band, Values: values})
	}
	return rows
}

func keyColumns(header []string) (stage, band int) {
	stage, band = 0, 1
	for i, h := range header {
		switch normalizeHeader(h) {
		case "life stage", "life stage group", "lifestage", "group":
			stage = i
		case "age", "age band", "age group", "ages":
			band = i
		}
	}
	return stage, band
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer("_", " ", "-", " ").Replace(h)
	return strings.Join(strings.Fields(h), " ")
}

func valuesEmpty(rec, header []string, skip ...int) bool {
	for c := range header {
		if c == skip[0] || c == skip[1] {
			continue
		}
		if cell(rec, c) != "" {
			return false
		}
	}
	return true
}

func cleanRow(rec []string) []string {
	out := make([]string, len(rec))
	for i, v := range rec {
		out[i] = strings.TrimSpace(strings.TrimPrefix(v, "\ufeff"))
	}
	return out
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}
