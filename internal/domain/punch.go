package domain

// TimestampLayout единственный допустимый формат меток времени.
const TimestampLayout = "2006-01-02 15:04:05"

type JobRate struct {
	Job          string
	Rate         float64
	BenefitsRate float64
}

// RateTable сопоставляет работе её ставки. Строится один раз на расчёт, дальше только читается.
type RateTable map[string]JobRate

// NewRateTable индексирует работы по имени. При повторе действует последнее определение.
func NewRateTable(jobs []JobRate) RateTable {
	t := make(RateTable, len(jobs))
	for _, j := range jobs {
		t[j.Job] = j
	}
	return t
}

func (t RateTable) Lookup(job string) (JobRate, bool) {
	j, ok := t[job]
	return j, ok
}

// Punch это одна пара приход/уход по одной работе.
type Punch struct {
	Job   string
	Start string
	End   string
}

// Employee хранит отметки в порядке обработки.
type Employee struct {
	ID      string
	Punches []Punch
}

// Document это разобранный вход: ставки работ и отметки всех сотрудников.
type Document struct {
	JobMeta      []JobRate
	EmployeeData []Employee
}
