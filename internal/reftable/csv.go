package reftable

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/logging"
	"github.com/saadjs/nutrigoal/internal/model"
)

// LoadDir reads macro_ranges.csv, macro_rda.csv and micro_rda.csv from dir.
// A missing file leaves that table empty; at least one must be present.
func LoadDir(dir string, logger *zap.Logger) (model.ReferenceTables, error) {
	logger = logging.OrNop(logger)
	grids := make(map[string][][]string, len(tableNames))
	for _, name := range tableNames {
		path := filepath.Join(dir, name+".csv")
		grid, err := readCSVFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			logger.Warn("reference table file missing", zap.String("path", path))
			continue
		}
		if err != nil {
			return model.ReferenceTables{}, err
		}
		grids[name] = grid
	}
	if len(grids) == 0 {
		return model.ReferenceTables{}, fmt.Errorf("no reference tables found in %s", dir)
	}
	return build(grids, logger), nil
}

func readCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	grid, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return grid, nil
}

// ReadCSV parses a comma-separated grid, allowing ragged rows.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	grid, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return grid, nil
}
