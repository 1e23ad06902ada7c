package dataset

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/magdaondimu/Capstone-Project-Phase-5/pkg/models"
)

// Series titles and metric labels as the dashboard charts them
const (
	TitleProtestDays   = "Cumulative Protest Days"
	TitleParticipants  = "Cumulative Number of Participants"
	LabelProtestDays   = "Protest Days"
	LabelParticipants  = "Participants"
	LabelProtestsCount = "Protests Count"
	demandTitlePrefix  = "Protests with Demand: "
)

// Filter selects the events of one region or country within a year range
type Filter struct {
	Scope    models.Scope
	Name     string
	FromYear int
	ToYear   int
}

// Select returns the events matching the filter. The name is resolved
// against the dataset first; unknown names yield ErrUnknownSelection.
func (d *Dataset) Select(f Filter) ([]*models.ProtestEvent, error) {
	var match func(e *models.ProtestEvent) bool
	switch f.Scope {
	case models.ScopeRegional:
		region, err := d.ResolveRegion(f.Name)
		if err != nil {
			return nil, err
		}
		match = func(e *models.ProtestEvent) bool { return e.Region == region }
	case models.ScopeCountry:
		if !d.hasCountry(f.Name) {
			return nil, fmt.Errorf("%w: country %q", ErrUnknownSelection, f.Name)
		}
		match = func(e *models.ProtestEvent) bool { return e.Country == f.Name }
	default:
		return nil, fmt.Errorf("invalid scope: %q", f.Scope)
	}

	var selected []*models.ProtestEvent
	for i := range d.events {
		e := &d.events[i]
		if e.Year >= f.FromYear && e.Year <= f.ToYear && match(e) {
			selected = append(selected, e)
		}
	}
	return selected, nil
}

// sumByYear groups events by year and sums value over each group
func sumByYear(events []*models.ProtestEvent, value func(*models.ProtestEvent) float64) []models.SeriesPoint {
	sums := make(map[int]float64)
	for _, e := range events {
		sums[e.Year] += value(e)
	}
	return sortedPoints(sums)
}

// countByYear counts the events passing keep, per year. Years with no
// matching event are absent.
func countByYear(events []*models.ProtestEvent, keep func(*models.ProtestEvent) bool) []models.SeriesPoint {
	counts := make(map[int]float64)
	for _, e := range events {
		if keep(e) {
			counts[e.Year]++
		}
	}
	return sortedPoints(counts)
}

func sortedPoints(byYear map[int]float64) []models.SeriesPoint {
	points := make([]models.SeriesPoint, 0, len(byYear))
	for year, v := range byYear {
		points = append(points, models.SeriesPoint{Year: year, Value: v})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Year < points[j].Year })
	return points
}

// ProtestDays sums protest_duration per year
func ProtestDays(events []*models.ProtestEvent) []models.SeriesPoint {
	return sumByYear(events, func(e *models.ProtestEvent) float64 { return e.ProtestDuration })
}

// Participants sums participants_numeric per year
func Participants(events []*models.ProtestEvent) []models.SeriesPoint {
	return sumByYear(events, func(e *models.ProtestEvent) float64 { return e.Participants })
}

// DemandCounts counts the events carrying a demand flag per year
func DemandCounts(events []*models.ProtestEvent, demand models.Demand) []models.SeriesPoint {
	return countByYear(events, func(e *models.ProtestEvent) bool { return e.HasDemand(demand) })
}

// ViolenceCounts counts the events of a violence category per year
func ViolenceCounts(events []*models.ProtestEvent, kind models.ViolenceKind) []models.SeriesPoint {
	return countByYear(events, func(e *models.ProtestEvent) bool { return e.MatchesViolence(kind) })
}

// Trend computes one dashboard series. Zero years fall back to the default range.
func (d *Dataset) Trend(q models.TrendQuery, defaultEnd int) (*models.TrendSeries, error) {
	from, to := d.DefaultYearRange(defaultEnd)
	if q.FromYear != 0 {
		from = q.FromYear
	}
	if q.ToYear != 0 {
		to = q.ToYear
	}
	q.FromYear, q.ToYear = from, to
	if q.Chart == "" {
		q.Chart = models.ChartBar
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	events, err := d.Select(Filter{Scope: q.Scope, Name: q.Name, FromYear: from, ToYear: to})
	if err != nil {
		return nil, err
	}

	series := &models.TrendSeries{
		Scope:    q.Scope,
		Name:     q.Name,
		Topic:    q.Topic,
		Chart:    q.Chart,
		FromYear: from,
		ToYear:   to,
	}

	switch q.Topic {
	case models.TopicProtestDays:
		series.Title = TitleProtestDays
		series.Metric = models.MetricProtestDuration
		series.MetricLabel = LabelProtestDays
		series.Points = ProtestDays(events)
		series.FileName = ExportFileName(q.Scope, string(models.TopicProtestDays))
	case models.TopicParticipants:
		series.Title = TitleParticipants
		series.Metric = models.MetricParticipants
		series.MetricLabel = LabelParticipants
		series.Points = Participants(events)
		series.FileName = ExportFileName(q.Scope, string(models.TopicParticipants))
	case models.TopicDemands:
		demand, _ := models.ParseDemand(string(q.Demand))
		series.Title = demandTitlePrefix + demand.Label()
		series.Metric = models.MetricProtestsCount
		series.MetricLabel = LabelProtestsCount
		series.Points = DemandCounts(events, demand)
		series.FileName = ExportFileName(q.Scope, demand.Slug())
	case models.TopicViolence:
		kind, _ := models.ParseViolenceKind(string(q.Violence))
		series.Title = kind.Title()
		series.Metric = models.MetricProtestsCount
		series.MetricLabel = LabelProtestsCount
		series.Points = ViolenceCounts(events, kind)
		series.FileName = ExportFileName(q.Scope, kind.Slug())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, q.Topic)
	}

	return series, nil
}

// AllTrendQueries lists every series of one selection: the two sums, one
// per demand and one per violence category.
func AllTrendQueries(scope models.Scope, name string, from, to int) []models.TrendQuery {
	base := models.TrendQuery{Scope: scope, Name: name, FromYear: from, ToYear: to, Chart: models.ChartBar}

	var queries []models.TrendQuery
	for _, topic := range []models.Topic{models.TopicProtestDays, models.TopicParticipants} {
		q := base
		q.Topic = topic
		queries = append(queries, q)
	}
	for _, demand := range models.Demands {
		q := base
		q.Topic = models.TopicDemands
		q.Demand = demand
		queries = append(queries, q)
	}
	for _, kind := range models.ViolenceKinds {
		q := base
		q.Topic = models.TopicViolence
		q.Violence = kind
		queries = append(queries, q)
	}
	return queries
}

// CountryCounts returns the number of events per country in a year,
// most active country first
func (d *Dataset) CountryCounts(year int) []models.CountryCount {
	counts := make(map[string]int)
	var order []string
	for i := range d.events {
		e := &d.events[i]
		if e.Year != year {
			continue
		}
		if _, ok := counts[e.Country]; !ok {
			order = append(order, e.Country)
		}
		counts[e.Country]++
	}

	result := make([]models.CountryCount, 0, len(order))
	for _, c := range order {
		result = append(result, models.CountryCount{Country: c, Count: counts[c]})
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Count > result[j].Count })
	return result
}

// Summary describes the whole dataset
func (d *Dataset) Summary(defaultEnd int) models.DatasetSummary {
	participants := make([]float64, len(d.events))
	durations := make([]float64, len(d.events))
	total := 0.0
	for i := range d.events {
		participants[i] = d.events[i].Participants
		durations[i] = d.events[i].ProtestDuration
		total += participants[i]
	}

	lo, hi := d.YearBounds()
	_, defaultTo := d.DefaultYearRange(defaultEnd)
	summary := models.DatasetSummary{
		Events:            len(d.events),
		Countries:         len(d.countries),
		Regions:           len(d.regions),
		MinYear:           lo,
		MaxYear:           hi,
		DefaultToYear:     defaultTo,
		TotalParticipants: total,
	}
	if len(d.events) > 0 {
		summary.MeanParticipants = stat.Mean(participants, nil)
		summary.MeanDuration = stat.Mean(durations, nil)
	}
	return summary
}
