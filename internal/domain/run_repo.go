package domain

import "time"

// Run это сохранённый расчёт: откуда пришли данные и что получилось.
type Run struct {
	ID        int64
	Source    string
	CreatedAt time.Time
	Employees int
	Results   Results
}

type ResultRepo interface {
	SaveRun(run Run) (int64, error)
	GetRuns(source string, limit int) ([]Run, error)
	GetRun(id int64) (Run, error)
}
