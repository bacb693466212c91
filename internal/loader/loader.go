package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"punch-payroll/internal/domain"
)

type rawDocument struct {
	JobMeta      *[]rawJob      `json:"jobMeta"`
	EmployeeData *[]rawEmployee `json:"employeeData"`
}

type rawJob struct {
	Job          *string  `json:"job"`
	Rate         *float64 `json:"rate"`
	BenefitsRate *float64 `json:"benefitsRate"`
}

type rawEmployee struct {
	Employee  *string     `json:"employee"`
	TimePunch *[]rawPunch `json:"timePunch"`
}

type rawPunch struct {
	Job   *string `json:"job"`
	Start *string `json:"start"`
	End   *string `json:"end"`
}

// LoadFile читает и разбирает JSONC-документ с диска.
func LoadFile(path string) (domain.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse убирает комментарии, декодирует документ и проверяет обязательные поля.
func Parse(r io.Reader) (domain.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return domain.Document{}, fmt.Errorf("read input: %w", err)
	}
	clean, err := StripComments(src)
	if err != nil {
		return domain.Document{}, err
	}

	var raw rawDocument
	if err := json.Unmarshal(clean, &raw); err != nil {
		return domain.Document{}, decodeError(clean, err)
	}
	return raw.toDomain()
}

func decodeError(src []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%w: line %d: %v", domain.ErrMalformedInput, lineOf(src, int(syntaxErr.Offset)), err)
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Errorf("%w: field %s: expected %s, got %s", domain.ErrMalformedInput, typeErr.Field, typeErr.Type, typeErr.Value)
	}
	return fmt.Errorf("%w: %v", domain.ErrMalformedInput, err)
}

func missing(path string) error {
	return fmt.Errorf("%w: missing required field %s", domain.ErrParse, path)
}

func (raw rawDocument) toDomain() (domain.Document, error) {
	if raw.JobMeta == nil {
		return domain.Document{}, missing("jobMeta")
	}
	if raw.EmployeeData == nil {
		return domain.Document{}, missing("employeeData")
	}

	doc := domain.Document{
		JobMeta:      make([]domain.JobRate, 0, len(*raw.JobMeta)),
		EmployeeData: make([]domain.Employee, 0, len(*raw.EmployeeData)),
	}

	for i, j := range *raw.JobMeta {
		path := fmt.Sprintf("jobMeta[%d]", i)
		switch {
		case j.Job == nil:
			return domain.Document{}, missing(path + ".job")
		case j.Rate == nil:
			return domain.Document{}, missing(path + ".rate")
		case j.BenefitsRate == nil:
			return domain.Document{}, missing(path + ".benefitsRate")
		}
		doc.JobMeta = append(doc.JobMeta, domain.JobRate{
			Job:          *j.Job,
			Rate:         *j.Rate,
			BenefitsRate: *j.BenefitsRate,
		})
	}

	for i, e := range *raw.EmployeeData {
		path := fmt.Sprintf("employeeData[%d]", i)
		if e.Employee == nil {
			return domain.Document{}, missing(path + ".employee")
		}
		if e.TimePunch == nil {
			return domain.Document{}, missing(path + ".timePunch")
		}
		emp := domain.Employee{ID: *e.Employee, Punches: make([]domain.Punch, 0, len(*e.TimePunch))}
		for k, p := range *e.TimePunch {
			ppath := fmt.Sprintf("%s.timePunch[%d]", path, k)
			switch {
			case p.Job == nil:
				return domain.Document{}, missing(ppath + ".job")
			case p.Start == nil:
				return domain.Document{}, missing(ppath + ".start")
			case p.End == nil:
				return domain.Document{}, missing(ppath + ".end")
			}
			emp.Punches = append(emp.Punches, domain.Punch{Job: *p.Job, Start: *p.Start, End: *p.End})
		}
		doc.EmployeeData = append(doc.EmployeeData, emp)
	}
	return doc, nil
}
