package reftable

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/logging"
	"github.com/saadjs/nutrigoal/internal/model"
)

// LoadWorkbook reads the macro_ranges, macro_rda and micro_rda sheets of an
// .xlsx workbook. Missing sheets leave that table empty.
func LoadWorkbook(path string, logger *zap.Logger) (model.ReferenceTables, error) {
	logger = logging.OrNop(logger)
	f, err := excelize.OpenFile(path)
	if err != nil {
		return model.ReferenceTables{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	present := make(map[string]bool)
	for _, s := range f.GetSheetList() {
		present[s] = true
	}

	grids := make(map[string][][]string, len(tableNames))
	for _, name := range tableNames {
		if !present[name] {
			logger.Warn("reference sheet missing", zap.String("workbook", path), zap.String("sheet", name))
			continue
		}
		rows, err := f.GetRows(name)
		if err != nil {
			return model.ReferenceTables{}, fmt.Errorf("read sheet %s: %w", name, err)
		}
		grids[name] = rows
	}
	if len(grids) == 0 {
		return model.ReferenceTables{}, fmt.Errorf("workbook %s has none of the sheets %v", path, tableNames)
	}
	return build(grids, logger), nil
}
