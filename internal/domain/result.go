package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// FormatFixed форматирует число так, как оно выводится: четыре знака после точки.
func FormatFixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

type BandHours struct {
	Label string
	Hours float64
}

// EmployeeResult содержит итоги одного сотрудника. Bands идут в порядке тарифной сетки.
type EmployeeResult struct {
	Employee     string
	Bands        []BandHours
	WageTotal    float64
	BenefitTotal float64
}

// Hours возвращает часы в диапазоне label или 0, если такого диапазона нет.
func (r EmployeeResult) Hours(label string) float64 {
	for _, b := range r.Bands {
		if b.Label == label {
			return b.Hours
		}
	}
	return 0
}

func (r EmployeeResult) TotalHours() float64 {
	var total float64
	for _, b := range r.Bands {
		total += b.Hours
	}
	return total
}

// MarshalJSON пишет {employee, <диапазоны...>, wageTotal, benefitTotal}, все числа строками
// с четырьмя знаками.
func (r EmployeeResult) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	if err := writeField(&buf, "employee", r.Employee, true); err != nil {
		return nil, err
	}
	for _, b := range r.Bands {
		if err := writeField(&buf, b.Label, FormatFixed(b.Hours), false); err != nil {
			return nil, err
		}
	}
	if err := writeField(&buf, "wageTotal", FormatFixed(r.WageTotal), false); err != nil {
		return nil, err
	}
	if err := writeField(&buf, "benefitTotal", FormatFixed(r.BenefitTotal), false); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Results хранит результаты по id сотрудника и помнит порядок добавления.
type Results struct {
	order []string
	byID  map[string]EmployeeResult
}

func NewResults() Results {
	return Results{byID: make(map[string]EmployeeResult)}
}

// Set сохраняет результат. Повторный id заменяет значение, но остаётся на первой позиции.
func (rs *Results) Set(r EmployeeResult) {
	if rs.byID == nil {
		rs.byID = make(map[string]EmployeeResult)
	}
	if _, ok := rs.byID[r.Employee]; !ok {
		rs.order = append(rs.order, r.Employee)
	}
	rs.byID[r.Employee] = r
}

func (rs Results) Get(employee string) (EmployeeResult, bool) {
	r, ok := rs.byID[employee]
	return r, ok
}

func (rs Results) Len() int {
	return len(rs.order)
}

func (rs Results) Employees() []string {
	out := make([]string, len(rs.order))
	copy(out, rs.order)
	return out
}

// All возвращает результаты в порядке добавления.
func (rs Results) All() []EmployeeResult {
	out := make([]EmployeeResult, 0, len(rs.order))
	for _, id := range rs.order {
		out = append(out, rs.byID[id])
	}
	return out
}

func (rs Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, id := range rs.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalString(id)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := rs.byID[id].MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeField(buf *bytes.Buffer, key, value string, first bool) error {
	if !first {
		buf.WriteByte(',')
	}
	k, err := marshalString(key)
	if err != nil {
		return err
	}
	v, err := marshalString(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// marshalString кодирует s в JSON-строку без HTML-экранирования,
// экранировать ли <, > и & решает внешний encoder.
func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}
