package service

import (
	"time"

	"punch-payroll/internal/domain"
)

type ResultService struct {
	Repo domain.ResultRepo
}

func NewResultService(repo domain.ResultRepo) *ResultService {
	return &ResultService{Repo: repo}
}

// Record сохраняет результаты под source и возвращает id нового расчёта.
func (s *ResultService) Record(source string, results domain.Results) (int64, error) {
	return s.Repo.SaveRun(domain.Run{
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Employees: results.Len(),
		Results:   results,
	})
}

// History возвращает последние расчёты для source, новые первыми. Пустой source: все расчёты.
func (s *ResultService) History(source string, limit int) ([]domain.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.Repo.GetRuns(source, limit)
}

func (s *ResultService) GetRun(id int64) (domain.Run, error) {
	return s.Repo.GetRun(id)
}
