package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFixed(t *testing.T) {
	assert.Equal(t, "0.0000", FormatFixed(0))
	assert.Equal(t, "40.0000", FormatFixed(40))
	assert.Equal(t, "1.7583", FormatFixed(1.7583333))
	assert.Equal(t, "0.3333", FormatFixed(1.0/3))
}

func TestResults_KeepsInsertionOrder(t *testing.T) {
	rs := NewResults()
	rs.Set(EmployeeResult{Employee: "zed", WageTotal: 1})
	rs.Set(EmployeeResult{Employee: "amy", WageTotal: 2})
	rs.Set(EmployeeResult{Employee: "zed", WageTotal: 3})

	assert.Equal(t, 2, rs.Len())
	assert.Equal(t, []string{"zed", "amy"}, rs.Employees())
	zed, ok := rs.Get("zed")
	require.True(t, ok)
	assert.Equal(t, 3.0, zed.WageTotal)

	data, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Equal(t,
		`{"zed":{"employee":"zed","wageTotal":"3.0000","benefitTotal":"0.0000"},`+
			`"amy":{"employee":"amy","wageTotal":"2.0000","benefitTotal":"0.0000"}}`,
		string(data))
}

func TestResults_ZeroValueIsUsable(t *testing.T) {
	var rs Results
	data, err := json.Marshal(rs)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	rs.Set(EmployeeResult{Employee: "E1"})
	assert.Equal(t, 1, rs.Len())
}

func TestEmployeeResult_MarshalJSON(t *testing.T) {
	r := EmployeeResult{
		Employee: `Mike "Jr" <dev>`,
		Bands: []BandHours{
			{Label: BandRegular, Hours: 40},
			{Label: BandOvertime, Hours: 8},
			{Label: BandDoubletime, Hours: 1.5},
		},
		WageTotal:    595,
		BenefitTotal: 99.25,
	}
	data, err := r.MarshalJSON()
	require.NoError(t, err)

	var decoded map[string]string
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]string{
		"employee":     `Mike "Jr" <dev>`,
		"regular":      "40.0000",
		"overtime":     "8.0000",
		"doubletime":   "1.5000",
		"wageTotal":    "595.0000",
		"benefitTotal": "99.2500",
	}, decoded)
	assert.InDelta(t, 49.5, r.TotalHours(), 1e-12)
	assert.Zero(t, r.Hours("missing"))
}

func TestValidateBands(t *testing.T) {
	tests := []struct {
		name  string
		bands []PayBand
		ok    bool
	}{
		{"default", DefaultPayBands(), true},
		{"single unbounded", []PayBand{{Label: "flat", Unbounded: true, Multiplier: 1}}, true},
		{"empty", nil, false},
		{"no label", []PayBand{{Unbounded: true, Multiplier: 1}}, false},
		{"duplicate label", []PayBand{{Label: "a", Cutoff: 1, Multiplier: 1}, {Label: "a", Unbounded: true, Multiplier: 1}}, false},
		{"last bounded", []PayBand{{Label: "a", Cutoff: 40, Multiplier: 1}}, false},
		{"unbounded in the middle", []PayBand{{Label: "a", Unbounded: true, Multiplier: 1}, {Label: "b", Unbounded: true, Multiplier: 2}}, false},
		{"cutoffs not increasing", []PayBand{{Label: "a", Cutoff: 40, Multiplier: 1}, {Label: "b", Cutoff: 40, Multiplier: 1.5}, {Label: "c", Unbounded: true, Multiplier: 2}}, false},
		{"zero cutoff", []PayBand{{Label: "a", Cutoff: 0, Multiplier: 1}, {Label: "b", Unbounded: true, Multiplier: 2}}, false},
		{"negative multiplier", []PayBand{{Label: "a", Unbounded: true, Multiplier: -1}}, false},
		{"nan cutoff", []PayBand{{Label: "a", Cutoff: math.NaN(), Multiplier: 1}, {Label: "b", Unbounded: true, Multiplier: 2}}, false},
		{"infinite cutoff", []PayBand{{Label: "a", Cutoff: math.Inf(1), Multiplier: 1}, {Label: "b", Unbounded: true, Multiplier: 2}}, false},
		{"nan multiplier", []PayBand{{Label: "a", Unbounded: true, Multiplier: math.NaN()}}, false},
		{"infinite multiplier", []PayBand{{Label: "a", Unbounded: true, Multiplier: math.Inf(1)}}, false},
		{"label employee", []PayBand{{Label: "employee", Unbounded: true, Multiplier: 1}}, false},
		{"label wageTotal", []PayBand{{Label: "a", Cutoff: 40, Multiplier: 1}, {Label: "wageTotal", Unbounded: true, Multiplier: 2}}, false},
		{"label benefitTotal", []PayBand{{Label: "benefitTotal", Unbounded: true, Multiplier: 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBands(tt.bands)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestDefaultPayBands_FreshCopy(t *testing.T) {
	a := DefaultPayBands()
	a[0].Cutoff = 1
	assert.Equal(t, 40.0, DefaultPayBands()[0].Cutoff)
}

func TestPayBand_String(t *testing.T) {
	bands := DefaultPayBands()
	assert.Equal(t, "regular: up to 40 h, x1", bands[0].String())
	assert.Equal(t, "overtime: up to 48 h, x1.5", bands[1].String())
	assert.Equal(t, "doubletime: unbounded, x2", bands[2].String())
}

func TestRateTable_LastDefinitionWins(t *testing.T) {
	rates := NewRateTable([]JobRate{{Job: "A", Rate: 1}, {Job: "B", Rate: 2}, {Job: "A", Rate: 3}})
	a, ok := rates.Lookup("A")
	require.True(t, ok)
	assert.Equal(t, 3.0, a.Rate)
	_, ok = rates.Lookup("Z")
	assert.False(t, ok)
}

func TestPunchError(t *testing.T) {
	cause := fmt.Errorf("start %q: bad", "x")
	err := error(&PunchError{Employee: "E1", Index: 2, Job: "A", Kind: ErrParse, Err: cause})

	assert.True(t, errors.Is(err, ErrParse))
	assert.False(t, errors.Is(err, ErrLookup))
	assert.Equal(t, `employee "E1" punch #2 (job "A"): parse failure: start "x": bad`, err.Error())

	lookup := &PunchError{Employee: "E1", Job: "Z", Kind: ErrLookup}
	assert.ErrorIs(t, lookup, ErrLookup)
	assert.Equal(t, `employee "E1" punch #0 (job "Z"): lookup failure`, lookup.Error())
}
