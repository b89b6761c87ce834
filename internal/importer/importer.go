// Package importer bulk-loads the Open Food Facts product export into Food records.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/logging"
	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/provider/openfoodfacts"
)

// DefaultMinCompleteness drops rows whose quality score falls below it when
// the export carries one.
const DefaultMinCompleteness = 0.5

var completenessColumns = []string{"data_quality_info_score", "data_quality_score", "completeness"}

type Options struct {
	// Limit caps the number of imported foods; zero means no cap.
	Limit           int
	MinCompleteness float64
	KeepDuplicates  bool
}

type Stats struct {
	Rows        int `json:"rows"`
	Imported    int `json:"imported"`
	Malformed   int `json:"malformed"`
	Duplicates  int `json:"duplicates"`
	LowQuality  int `json:"low_quality"`
	NoNutrients int `json:"no_nutrients"`
}

// ReadOFF reads a tab-separated export and calls fn for each accepted food.
// Malformed lines are skipped. Reading stops at Options.Limit or when fn fails.
func ReadOFF(r io.Reader, opts Options, logger *zap.Logger, fn func(model.Food) error) (Stats, error) {
	logger = logging.OrNop(logger)
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	var stats Stats
	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return stats, fmt.Errorf("open food facts export is empty")
		}
		return stats, fmt.Errorf("read export header: %w", err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	if indexOf(columns, "product_name") < 0 {
		return stats, fmt.Errorf("export header has no product_name column")
	}
	completeness := -1
	for _, c := range completenessColumns {
		if i := indexOf(columns, c); i >= 0 {
			completeness = i
			break
		}
	}

	seen := make(map[string]struct{})
	for {
		if opts.Limit > 0 && stats.Imported >= opts.Limit {
			break
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		stats.Rows++
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				stats.Malformed++
				logger.Debug("skip malformed export line", zap.Int("line", perr.Line), zap.Error(err))
				continue
			}
			return stats, fmt.Errorf("read export row: %w", err)
		}

		if completeness >= 0 && opts.MinCompleteness > 0 {
			score, ok := openfoodfacts.ParseNumber(field(rec, completeness))
			if !ok || score < opts.MinCompleteness {
				stats.LowQuality++
				continue
			}
		}

		row := make(openfoodfacts.Record, len(columns))
		for i, name := range columns {
			if v := field(rec, i); v != "" {
				row[name] = v
			}
		}
		food, ok := openfoodfacts.ToFood(row)
		if !ok {
			stats.NoNutrients++
			continue
		}
		if !opts.KeepDuplicates {
			key := strings.ToLower(food.Name) + "\x00" + strings.ToLower(food.Brand)
			if _, dup := seen[key]; dup {
				stats.Duplicates++
				continue
			}
			seen[key] = struct{}{}
		}
		if err := fn(food); err != nil {
			return stats, err
		}
		stats.Imported++
	}
	logger.Info("open food facts export read",
		zap.Int("rows", stats.Rows),
		zap.Int("imported", stats.Imported),
		zap.Int("malformed", stats.Malformed),
		zap.Int("duplicates", stats.Duplicates),
		zap.Int("low_quality", stats.LowQuality),
		zap.Int("no_nutrients", stats.NoNutrients),
	)
	return stats, nil
}

func indexOf(cols []string, name string) int {
	for i, c := range cols {
		if c == name {
			return i
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
