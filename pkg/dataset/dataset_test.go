package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

const testHeader = "id,year,country,region,protest_duration,participants_numeric,protesterviolence," +
	"demand_labor_wage_dispute,demand_land_farm_issue,demand_police_brutality," +
	"demand_political_behavior,demand_price_increases,demand_removal_of_politician," +
	"response_beatings,response_shootings,response_killings\n"

const testRows = "" +
	"1,1990,Kenya,Africa,1,100,0,1,0,0,0,0,0,0,0,0\n" +
	"2,1990,Kenya,Africa,3,500,1,0,0,1,0,0,0,1,0,0\n" +
	"3,1991,Nigeria,Africa,0,2000,0,1,0,0,0,1,0,0,0,0\n" +
	"4,1991,Canada,Canada,2,50,1,0,0,0,1,0,0,0,0,0\n" +
	"5,2021,Kenya,Africa,5,1000,1,0,0,0,0,0,1,0,1,1\n" +
	"6,1992,France,Europe,1,300,0,0,0,0,0,1,0,0,0,1\n"

func testDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Read(strings.NewReader(testHeader + testRows))
	require.NoError(t, err)
	return ds
}

func writeDataset(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mass_mobilization_cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeDataset(t, testHeader+testRows)

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, ds.Len())
	assert.Equal(t, path, ds.Path())

	e := ds.events[1]
	assert.Equal(t, 1990, e.Year)
	assert.Equal(t, "Kenya", e.Country)
	assert.Equal(t, 3.0, e.ProtestDuration)
	assert.Equal(t, 1.0, e.ProtesterViolence)
	assert.True(t, e.HasDemand(models.DemandPoliceBrutality))
	assert.False(t, e.HasDemand(models.DemandLaborWageDispute))
	assert.True(t, e.StateViolence())
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
		assert.Error(t, err)
	})

	t.Run("missing columns listed", func(t *testing.T) {
		header := strings.Replace(testHeader, ",response_killings", "", 1)
		header = strings.Replace(header, "region,", "", 1)
		_, err := Read(strings.NewReader(header))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "region")
		assert.Contains(t, err.Error(), "response_killings")
	})

	t.Run("bad number reports line", func(t *testing.T) {
		rows := testRows + "7,1993,Kenya,Africa,many,10,0,0,0,0,0,0,0,0,0,0\n"
		_, err := Read(strings.NewReader(testHeader + rows))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 8")
		assert.Contains(t, err.Error(), "protest_duration")
	})

	t.Run("fractional year", func(t *testing.T) {
		rows := "7,1993.5,Kenya,Africa,1,10,0,0,0,0,0,0,0,0,0,0\n"
		_, err := Read(strings.NewReader(testHeader + rows))
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		_, err := Read(strings.NewReader(testHeader))
		assert.True(t, errors.Is(err, ErrEmptyDataset))
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := Read(strings.NewReader(""))
		assert.Error(t, err)
	})
}

func TestSelectors(t *testing.T) {
	ds := testDataset(t)

	assert.Equal(t, []int{1990, 1991, 1992, 2021}, ds.Years())
	lo, hi := ds.YearBounds()
	assert.Equal(t, 1990, lo)
	assert.Equal(t, 2021, hi)

	assert.Equal(t, []string{"Africa", "Europe", models.CanadaDashboardLabel}, ds.Regions())
	assert.Equal(t, []string{"Kenya", "Nigeria", "Canada", "France"}, ds.Countries())

	region, err := ds.ResolveRegion(models.CanadaDashboardLabel)
	require.NoError(t, err)
	assert.Equal(t, models.CanadaRegion, region)

	_, err = ds.ResolveRegion("Atlantis")
	assert.True(t, errors.Is(err, ErrUnknownSelection))
}

func TestDefaultYearRange(t *testing.T) {
	ds := testDataset(t)

	tests := []struct {
		name       string
		defaultEnd int
		from, to   int
	}{
		{"default end inside bounds", 2020, 1990, 2020},
		{"default end past max clamps", 2030, 1990, 2021},
		{"default end before min clamps", 1980, 1990, 1990},
		{"unset default end uses max", 0, 1990, 2021},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to := ds.DefaultYearRange(tt.defaultEnd)
			assert.Equal(t, tt.from, from)
			assert.Equal(t, tt.to, to)
		})
	}
}

func TestSelect(t *testing.T) {
	ds := testDataset(t)

	events, err := ds.Select(Filter{Scope: models.ScopeRegional, Name: "Africa", FromYear: 1990, ToYear: 2020})
	require.NoError(t, err)
	assert.Len(t, events, 3)

	events, err = ds.Select(Filter{Scope: models.ScopeCountry, Name: "Kenya", FromYear: 1990, ToYear: 2021})
	require.NoError(t, err)
	assert.Len(t, events, 3)

	events, err = ds.Select(Filter{Scope: models.ScopeCountry, Name: "Kenya", FromYear: 1995, ToYear: 2000})
	require.NoError(t, err)
	assert.Empty(t, events)

	_, err = ds.Select(Filter{Scope: models.ScopeCountry, Name: "Atlantis", FromYear: 1990, ToYear: 2021})
	assert.True(t, errors.Is(err, ErrUnknownSelection))

	_, err = ds.Select(Filter{Scope: "planet", Name: "Africa"})
	assert.Error(t, err)
}

func TestCountryCounts(t *testing.T) {
	ds := testDataset(t)

	assert.Equal(t, []models.CountryCount{{Country: "Kenya", Count: 2}}, ds.CountryCounts(1990))
	assert.Equal(t, []models.CountryCount{
		{Country: "Nigeria", Count: 1},
		{Country: "Canada", Count: 1},
	}, ds.CountryCounts(1991))
	assert.Empty(t, ds.CountryCounts(1800))
}

func TestSummary(t *testing.T) {
	summary := testDataset(t).Summary(2020)

	assert.Equal(t, 6, summary.Events)
	assert.Equal(t, 4, summary.Countries)
	assert.Equal(t, 3, summary.Regions)
	assert.Equal(t, 1990, summary.MinYear)
	assert.Equal(t, 2021, summary.MaxYear)
	assert.Equal(t, 2020, summary.DefaultToYear)
	assert.Equal(t, 3950.0, summary.TotalParticipants)
	assert.InDelta(t, 3950.0/6, summary.MeanParticipants, 1e-9)
	assert.InDelta(t, 2.0, summary.MeanDuration, 1e-9)
}
