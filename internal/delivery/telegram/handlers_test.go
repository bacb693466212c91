package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"punch-payroll/internal/domain"
)

func TestFormatSummary(t *testing.T) {
	rs := domain.NewResults()
	rs.Set(domain.EmployeeResult{
		Employee: "E1",
		Bands: []domain.BandHours{
			{Label: domain.BandRegular, Hours: 40},
			{Label: domain.BandOvertime, Hours: 4},
			{Label: domain.BandDoubletime, Hours: 0},
		},
		WageTotal:    460,
		BenefitTotal: 88,
	})
	rs.Set(domain.EmployeeResult{Employee: "E2", Bands: []domain.BandHours{{Label: "flat", Hours: 1}}, WageTotal: 10})

	assert.Equal(t,
		"E1: regular 40.0000 overtime 4.0000 doubletime 0.0000; оплата 460.0000; льготы 88.0000\n"+
			"E2: flat 1.0000; оплата 10.0000; льготы 0.0000",
		FormatSummary(rs))
	assert.Equal(t, "Нет сотрудников.", FormatSummary(domain.NewResults()))
}

func TestFormatBands(t *testing.T) {
	assert.Equal(t,
		"Тарифная сетка:\nregular: up to 40 h, x1\novertime: up to 48 h, x1.5\ndoubletime: unbounded, x2",
		FormatBands(domain.DefaultPayBands()))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "ставк…", Truncate("ставки и часы", 6))
	assert.Equal(t, "a", Truncate("abc", 1))
}

func TestChatSource(t *testing.T) {
	assert.Equal(t, "telegram:-100123", chatSource(-100123))
}
