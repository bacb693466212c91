package domain

import (
	"fmt"
	"math"
	"strconv"
)

const (
	BandRegular    = "regular"
	BandOvertime   = "overtime"
	BandDoubletime = "doubletime"
)

// PayBand это одна ступень тарифной сетки. Cutoff задаёт верхнюю границу накопленных часов
// и не учитывается при Unbounded.
type PayBand struct {
	Label      string
	Cutoff     float64
	Unbounded  bool
	Multiplier float64
}

// DefaultPayBands возвращает новую копию стандартной сетки 40/48 часов.
func DefaultPayBands() []PayBand {
	return []PayBand{
		{Label: BandRegular, Cutoff: 40, Multiplier: 1},
		{Label: BandOvertime, Cutoff: 48, Multiplier: 1.5},
		{Label: BandDoubletime, Unbounded: true, Multiplier: 2},
	}
}

// reservedLabels это постоянные ключи объекта сотрудника в выводе.
var reservedLabels = map[string]struct{}{
	"employee":     {},
	"wageTotal":    {},
	"benefitTotal": {},
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ValidateBands проверяет, что сетка вмещает любое число часов: границы конечны и строго
// возрастают, последний диапазон (и только он) без ограничения.
// Метки не должны совпадать с постоянными ключами вывода.
func ValidateBands(bands []PayBand) error {
	if len(bands) == 0 {
		return fmt.Errorf("band table is empty")
	}
	seen := make(map[string]struct{}, len(bands))
	prev := 0.0
	for i, b := range bands {
		if b.Label == "" {
			return fmt.Errorf("band #%d has no label", i)
		}
		if _, ok := reservedLabels[b.Label]; ok {
			return fmt.Errorf("band label %q is reserved", b.Label)
		}
		if _, dup := seen[b.Label]; dup {
			return fmt.Errorf("band label %q is used twice", b.Label)
		}
		seen[b.Label] = struct{}{}
		if !finite(b.Multiplier) {
			return fmt.Errorf("band %q has non-finite multiplier %v", b.Label, b.Multiplier)
		}
		if b.Multiplier < 0 {
			return fmt.Errorf("band %q has negative multiplier %v", b.Label, b.Multiplier)
		}
		last := i == len(bands)-1
		if b.Unbounded != last {
			if last {
				return fmt.Errorf("last band %q must be unbounded", b.Label)
			}
			return fmt.Errorf("band %q is unbounded but is not the last band", b.Label)
		}
		if b.Unbounded {
			continue
		}
		if !finite(b.Cutoff) {
			return fmt.Errorf("band %q has non-finite cutoff %v", b.Label, b.Cutoff)
		}
		if b.Cutoff <= prev {
			return fmt.Errorf("band %q cutoff %v must be greater than %v", b.Label, b.Cutoff, prev)
		}
		prev = b.Cutoff
	}
	return nil
}

func (b PayBand) String() string {
	mult := strconv.FormatFloat(b.Multiplier, 'f', -1, 64)
	if b.Unbounded {
		return fmt.Sprintf("%s: unbounded, x%s", b.Label, mult)
	}
	return fmt.Sprintf("%s: up to %s h, x%s", b.Label, strconv.FormatFloat(b.Cutoff, 'f', -1, 64), mult)
}
