package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"punch-payroll/internal/domain"
)

func TestLoadBands_Default(t *testing.T) {
	bands, err := LoadBands("")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPayBands(), bands)
}

func TestLoadBands_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bands.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
bands:
  - label: regular
    cutoff: 40
    multiplier: 1
  - label: overtime
    cutoff: 48
    multiplier: 1.5
  - label: doubletime
    multiplier: 2
`), 0o644))

	bands, err := LoadBands(path)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPayBands(), bands)
}

func TestParseBands_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "bands: [\n"},
		{"empty table", "bands: []\n"},
		{"missing multiplier", "bands:\n  - {label: flat}\n"},
		{"bounded last band", "bands:\n  - {label: regular, cutoff: 40, multiplier: 1}\n"},
		{"nan cutoff", "bands: [{label: regular, cutoff: .nan, multiplier: 1}, {label: rest, multiplier: 2}]\n"},
		{"infinite cutoff", "bands: [{label: regular, cutoff: .inf, multiplier: 1}, {label: rest, multiplier: 2}]\n"},
		{"nan multiplier", "bands: [{label: flat, multiplier: .nan}]\n"},
		{"reserved label", "bands: [{label: employee, cutoff: 40, multiplier: 1}, {label: rest, multiplier: 2}]\n"},
		{"decreasing cutoffs", "bands:\n  - {label: a, cutoff: 48, multiplier: 1}\n  - {label: b, cutoff: 40, multiplier: 1.5}\n  - {label: c, multiplier: 2}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBands([]byte(tt.yaml))
			var invalid ErrInvalidBands
			assert.ErrorAs(t, err, &invalid)
		})
	}
}

func TestLoadBands_MissingFile(t *testing.T) {
	_, err := LoadBands(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
