package sqlite

import (
	"database/sql"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source TEXT NOT NULL,
    created_at TEXT NOT NULL,
    employees INTEGER NOT NULL
);
`

const createEmployeeResultsTable = `
CREATE TABLE IF NOT EXISTS employee_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    employee TEXT NOT NULL,
    wage_total REAL NOT NULL,
    benefit_total REAL NOT NULL
);
`

const createBandHoursTable = `
CREATE TABLE IF NOT EXISTS band_hours (
    result_id INTEGER NOT NULL REFERENCES employee_results(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    band TEXT NOT NULL,
    hours REAL NOT NULL
);
`

const createRunsSourceIndex = `CREATE INDEX IF NOT EXISTS idx_runs_source ON runs(source);`

func Migrate(db *sql.DB) error {
	for _, stmt := range []string{
		createRunsTable,
		createEmployeeResultsTable,
		createBandHoursTable,
		createRunsSourceIndex,
	} {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
