package service

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/saadjs/nutrigoal/internal/model"
	"github.com/saadjs/nutrigoal/internal/reftable"
)

// LoadReferenceTables loads the tables named by the reference_tables config key.
// configured is false when no path is set, in which case the tables are empty.
func LoadReferenceTables(db *sql.DB, logger *zap.Logger) (model.ReferenceTables, bool, error) {
	path, ok, err := GetConfig(db, ConfigReferenceTables)
	if err != nil {
		return model.ReferenceTables{}, false, err
	}
	if !ok || path == "" {
		return model.ReferenceTables{}, false, nil
	}
	tables, err := reftable.Load(path, logger)
	if err != nil {
		return model.ReferenceTables{}, true, err
	}
	return tables, true, nil
}
