package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punch-payroll/internal/domain"
)

func sampleResults() domain.Results {
	rs := domain.NewResults()
	rs.Set(domain.EmployeeResult{
		Employee: "B&B",
		Bands: []domain.BandHours{
			{Label: domain.BandRegular, Hours: 40},
			{Label: domain.BandOvertime, Hours: 2.5},
			{Label: domain.BandDoubletime, Hours: 0},
		},
		WageTotal:    493.75,
		BenefitTotal: 42.5,
	})
	rs.Set(domain.EmployeeResult{
		Employee: "Ann",
		Bands: []domain.BandHours{
			{Label: domain.BandRegular, Hours: 1},
			{Label: domain.BandOvertime, Hours: 0},
			{Label: domain.BandDoubletime, Hours: 0},
		},
		WageTotal: 10,
	})
	return rs
}

const sampleJSON = `{
  "B&B": {
    "employee": "B&B",
    "regular": "40.0000",
    "overtime": "2.5000",
    "doubletime": "0.0000",
    "wageTotal": "493.7500",
    "benefitTotal": "42.5000"
  },
  "Ann": {
    "employee": "Ann",
    "regular": "1.0000",
    "overtime": "0.0000",
    "doubletime": "0.0000",
    "wageTotal": "10.0000",
    "benefitTotal": "0.0000"
  }
}`

func TestEncode(t *testing.T) {
	data, err := Encode(sampleResults())
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(data))

	empty, err := Encode(domain.NewResults())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))
}

func TestDefaultOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "week", "results.json"), DefaultOutputPath(filepath.Join("data", "week", "punches.jsonc")))
	assert.Equal(t, "results.json", DefaultOutputPath("punches.jsonc"))
}

func TestEmit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "results.json")

	var echo bytes.Buffer
	require.NoError(t, Emit(sampleResults(), path, &echo))

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, sampleJSON, string(written))
	assert.Equal(t, sampleJSON+"\n", echo.String())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file must not be left behind")
}

func TestEmit_NoEcho(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, Emit(sampleResults(), path, nil))
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestWriteFile_MissingDir(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "results.json"), []byte("{}"))
	assert.Error(t, err)
}
