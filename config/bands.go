package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"punch-payroll/internal/domain"
)

type bandFile struct {
	Bands []bandEntry `yaml:"bands"`
}

type bandEntry struct {
	Label      string   `yaml:"label"`
	Cutoff     *float64 `yaml:"cutoff"`
	Multiplier *float64 `yaml:"multiplier"`
}

// LoadBands читает тарифную сетку из YAML-файла; при пустом path возвращает встроенную.
//
//	bands:
//	  - {label: regular, cutoff: 40, multiplier: 1}
//	  - {label: overtime, cutoff: 48, multiplier: 1.5}
//	  - {label: doubletime, multiplier: 2}   # без cutoff: без ограничения
func LoadBands(path string) ([]domain.PayBand, error) {
	if path == "" {
		return domain.DefaultPayBands(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bands %s: %w", path, err)
	}
	return ParseBands(data)
}

func ParseBands(data []byte) ([]domain.PayBand, error) {
	var f bandFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, ErrInvalidBands{Err: err}
	}
	bands := make([]domain.PayBand, 0, len(f.Bands))
	for i, e := range f.Bands {
		if e.Multiplier == nil {
			return nil, ErrInvalidBands{Err: fmt.Errorf("band #%d (%q) has no multiplier", i, e.Label)}
		}
		b := domain.PayBand{Label: e.Label, Multiplier: *e.Multiplier}
		if e.Cutoff == nil {
			b.Unbounded = true
		} else {
			b.Cutoff = *e.Cutoff
		}
		bands = append(bands, b)
	}
	if err := domain.ValidateBands(bands); err != nil {
		return nil, ErrInvalidBands{Err: err}
	}
	return bands, nil
}

type ErrInvalidBands struct {
	Err error
}

func (e ErrInvalidBands) Error() string {
	return "invalid band table: " + e.Err.Error()
}

func (e ErrInvalidBands) Unwrap() error {
	return e.Err
}
