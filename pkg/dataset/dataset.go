// Package dataset loads the cleaned Mass Mobilization protest events and
// computes the per-year aggregates shown by the dashboard.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

var (
	// ErrUnknownSelection is returned for a region or country absent from the dataset
	ErrUnknownSelection = errors.New("unknown selection")
	// ErrUnknownTopic is returned for a trend topic the dashboard does not offer
	ErrUnknownTopic = errors.New("unknown topic")
	// ErrEmptyDataset is returned when the file has a header but no events
	ErrEmptyDataset = errors.New("dataset has no events")
)

// Column names read from the dataset
const (
	ColYear              = "year"
	ColRegion            = "region"
	ColCountry           = "country"
	ColProtestDuration   = "protest_duration"
	ColParticipants      = "participants_numeric"
	ColProtesterViolence = "protesterviolence"
	ColResponseBeatings  = "response_beatings"
	ColResponseShootings = "response_shootings"
	ColResponseKillings  = "response_killings"
)

// RequiredColumns lists every column Load needs
func RequiredColumns() []string {
	cols := []string{ColYear, ColRegion, ColCountry, ColProtestDuration, ColParticipants, ColProtesterViolence}
	for _, d := range models.Demands {
		cols = append(cols, string(d))
	}
	return append(cols, ColResponseBeatings, ColResponseShootings, ColResponseKillings)
}

// Dataset is an immutable snapshot of the protest events
type Dataset struct {
	path      string
	events    []models.ProtestEvent
	years     []int
	regions   []string
	countries []string
}

// Load reads the dataset CSV at path
func Load(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	ds, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset %s: %w", path, err)
	}
	ds.path = path
	return ds, nil
}

// Read parses dataset CSV from r. The first record must be the header.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("missing header")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range RequiredColumns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	var events []models.ProtestEvent
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		line, _ := reader.FieldPos(0)

		event, err := parseEvent(record, index)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		events = append(events, event)
	}

	if len(events) == 0 {
		return nil, ErrEmptyDataset
	}
	return New(events), nil
}

// New builds a dataset from events already in memory
func New(events []models.ProtestEvent) *Dataset {
	ds := &Dataset{events: events}

	seenYears := make(map[int]bool)
	seenRegions := make(map[string]bool)
	seenCountries := make(map[string]bool)
	for i := range events {
		e := &events[i]
		if !seenYears[e.Year] {
			seenYears[e.Year] = true
			ds.years = append(ds.years, e.Year)
		}
		if !seenRegions[e.Region] {
			seenRegions[e.Region] = true
			ds.regions = append(ds.regions, e.Region)
		}
		if !seenCountries[e.Country] {
			seenCountries[e.Country] = true
			ds.countries = append(ds.countries, e.Country)
		}
	}
	sort.Ints(ds.years)
	return ds
}

func parseEvent(record []string, index map[string]int) (models.ProtestEvent, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[index[col]])
	}
	number := func(col string) (float64, error) {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, fmt.Errorf("column %s: invalid number %q", col, field(col))
		}
		return v, nil
	}

	var (
		e   models.ProtestEvent
		err error
	)

	year, err := number(ColYear)
	if err != nil {
		return e, err
	}
	if year != math.Trunc(year) {
		return e, fmt.Errorf("column %s: invalid year %q", ColYear, field(ColYear))
	}
	e.Year = int(year)
	e.Region = field(ColRegion)
	e.Country = field(ColCountry)

	if e.ProtestDuration, err = number(ColProtestDuration); err != nil {
		return e, err
	}
	if e.Participants, err = number(ColParticipants); err != nil {
		return e, err
	}

	violence, err := number(ColProtesterViolence)
	if err != nil {
		return e, err
	}
	e.ProtesterViolence = violence

	e.Demands = make(map[models.Demand]bool, len(models.Demands))
	for _, d := range models.Demands {
		flag, err := number(string(d))
		if err != nil {
			return e, err
		}
		e.Demands[d] = flag == 1
	}

	if e.ResponseBeatings, err = number(ColResponseBeatings); err != nil {
		return e, err
	}
	if e.ResponseShootings, err = number(ColResponseShootings); err != nil {
		return e, err
	}
	if e.ResponseKillings, err = number(ColResponseKillings); err != nil {
		return e, err
	}
	return e, nil
}

// Path returns the file the dataset was loaded from, empty for in-memory datasets
func (d *Dataset) Path() string {
	return d.path
}

// Len returns the number of events
func (d *Dataset) Len() int {
	return len(d.events)
}

// Years returns the distinct years in ascending order
func (d *Dataset) Years() []int {
	return append([]int(nil), d.years...)
}

// YearBounds returns the first and last year of the dataset
func (d *Dataset) YearBounds() (int, int) {
	if len(d.years) == 0 {
		return 0, 0
	}
	return d.years[0], d.years[len(d.years)-1]
}

// DefaultYearRange is the initial year filter: the first year up to
// defaultEnd, clamped into the dataset bounds.
func (d *Dataset) DefaultYearRange(defaultEnd int) (int, int) {
	lo, hi := d.YearBounds()
	end := defaultEnd
	if end > hi || end <= 0 {
		end = hi
	}
	if end < lo {
		end = lo
	}
	return lo, end
}

// Regions returns the region selector values in order of appearance.
// "Canada" is listed last under its dashboard alias.
func (d *Dataset) Regions() []string {
	regions := make([]string, 0, len(d.regions))
	hasCanada := false
	for _, r := range d.regions {
		if r == models.CanadaRegion {
			hasCanada = true
			continue
		}
		regions = append(regions, r)
	}
	if hasCanada {
		regions = append(regions, models.CanadaDashboardLabel)
	}
	return regions
}

// Countries returns the distinct countries in order of appearance
func (d *Dataset) Countries() []string {
	return append([]string(nil), d.countries...)
}

// ResolveRegion maps a region selector value to the dataset's region name
func (d *Dataset) ResolveRegion(display string) (string, error) {
	name := models.CanonicalRegion(display)
	for _, r := range d.regions {
		if r == name {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: region %q", ErrUnknownSelection, display)
}

func (d *Dataset) hasCountry(name string) bool {
	for _, c := range d.countries {
		if c == name {
			return true
		}
	}
	return false
}
