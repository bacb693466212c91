package service

import (
	"context"
	"fmt"
	"time"

	"punch-payroll/internal/domain"
)

// PayrollService раскладывает отработанные часы сотрудников по тарифным диапазонам
// и считает оплату и льготы. Состояния между расчётами не хранит.
type PayrollService struct {
	bands []domain.PayBand
	// Если задан Async, сотрудники считаются параллельно в пуле.
	Async *AsyncService
}

func NewPayrollService(bands []domain.PayBand, async *AsyncService) (*PayrollService, error) {
	if err := domain.ValidateBands(bands); err != nil {
		return nil, err
	}
	own := make([]domain.PayBand, len(bands))
	copy(own, bands)
	return &PayrollService{bands: own, Async: async}, nil
}

func (s *PayrollService) Bands() []domain.PayBand {
	out := make([]domain.PayBand, len(s.bands))
	copy(out, s.bands)
	return out
}

// Allocate считает результаты для всех сотрудников doc. Первая ошибка (в порядке входа)
// прерывает весь расчёт, результаты при этом не возвращаются.
func (s *PayrollService) Allocate(ctx context.Context, doc domain.Document) (domain.Results, error) {
	rates := domain.NewRateTable(doc.JobMeta)

	computed, err := s.allocateAll(ctx, rates, doc.EmployeeData)
	if err != nil {
		return domain.Results{}, err
	}

	results := domain.NewResults()
	for _, r := range computed {
		results.Set(r)
	}
	return results, nil
}

func (s *PayrollService) allocateAll(ctx context.Context, rates domain.RateTable, employees []domain.Employee) ([]domain.EmployeeResult, error) {
	out := make([]domain.EmployeeResult, len(employees))

	if s.Async == nil || len(employees) < 2 {
		for i, emp := range employees {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			r, err := s.allocateEmployee(rates, emp)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil
	}

	fns := make([]func() (any, error), len(employees))
	for i := range employees {
		emp := employees[i]
		fns[i] = func() (any, error) {
			return s.allocateEmployee(rates, emp)
		}
	}
	res, err := s.Async.SubmitAll(ctx, fns)
	if err != nil {
		return nil, err
	}
	for i, r := range res {
		if r.Err != nil {
			return nil, r.Err
		}
		out[i] = r.Value.(domain.EmployeeResult)
	}
	return out, nil
}

func (s *PayrollService) allocateEmployee(rates domain.RateTable, emp domain.Employee) (domain.EmployeeResult, error) {
	hours := make([]float64, len(s.bands))
	var cumulative, wage, benefit float64

	for i, p := range emp.Punches {
		rate, ok := rates.Lookup(p.Job)
		if !ok {
			return domain.EmployeeResult{}, &domain.PunchError{
				Employee: emp.ID, Index: i, Job: p.Job,
				Kind: domain.ErrLookup,
				Err:  fmt.Errorf("job %q is not in jobMeta", p.Job),
			}
		}
		remaining, err := HoursBetween(p.Start, p.End)
		if err != nil {
			return domain.EmployeeResult{}, &domain.PunchError{
				Employee: emp.ID, Index: i, Job: p.Job,
				Kind: domain.ErrParse, Err: err,
			}
		}
		if remaining < 0 {
			return domain.EmployeeResult{}, &domain.PunchError{
				Employee: emp.ID, Index: i, Job: p.Job,
				Kind: domain.ErrParse, Err: domain.ErrNegativeDuration,
			}
		}

		for b, band := range s.bands {
			if remaining <= 0 {
				break
			}
			use := remaining
			if !band.Unbounded {
				use = min(remaining, max(band.Cutoff-cumulative, 0))
			}
			if use <= 0 {
				continue
			}
			hours[b] += use
			wage += use * rate.Rate * band.Multiplier
			benefit += use * rate.BenefitsRate
			remaining -= use
			cumulative += use
		}
	}

	res := domain.EmployeeResult{
		Employee:     emp.ID,
		Bands:        make([]domain.BandHours, len(s.bands)),
		WageTotal:    wage,
		BenefitTotal: benefit,
	}
	for b, band := range s.bands {
		res.Bands[b] = domain.BandHours{Label: band.Label, Hours: hours[b]}
	}
	return res, nil
}

// HoursBetween возвращает end-start в часах. Обе метки в формате domain.TimestampLayout.
func HoursBetween(start, end string) (float64, error) {
	from, err := time.Parse(domain.TimestampLayout, start)
	if err != nil {
		return 0, fmt.Errorf("start %q: %w", start, err)
	}
	to, err := time.Parse(domain.TimestampLayout, end)
	if err != nil {
		return 0, fmt.Errorf("end %q: %w", end, err)
	}
	return to.Sub(from).Seconds() / 3600, nil
}
