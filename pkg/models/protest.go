package models

import (
	"fmt"
	"strings"
)

// Demand identifies one of the six primary protester demand categories.
// The value is the dataset column name and the classifier feature name.
type Demand string

const (
	DemandLaborWageDispute    Demand = "demand_labor_wage_dispute"
	DemandLandFarmIssue       Demand = "demand_land_farm_issue"
	DemandPoliceBrutality     Demand = "demand_police_brutality"
	DemandPoliticalBehavior   Demand = "demand_political_behavior"
	DemandPriceIncreases      Demand = "demand_price_increases"
	DemandRemovalOfPolitician Demand = "demand_removal_of_politician"
)

// Demands lists the demand categories in their declared order.
// The classifier consumes them in this order after the four leading features.
var Demands = []Demand{
	DemandLaborWageDispute,
	DemandLandFarmIssue,
	DemandPoliceBrutality,
	DemandPoliticalBehavior,
	DemandPriceIncreases,
	DemandRemovalOfPolitician,
}

var demandLabels = map[Demand]string{
	DemandLaborWageDispute:    "Labor/Wage Dispute",
	DemandLandFarmIssue:       "Land/Farm Issue",
	DemandPoliceBrutality:     "Police Brutality",
	DemandPoliticalBehavior:   "Political Behavior",
	DemandPriceIncreases:      "Price Increases",
	DemandRemovalOfPolitician: "Removal of Politician",
}

var demandDescriptions = map[Demand]string{
	DemandLaborWageDispute:    "Demands related to labor rights and wage increases.",
	DemandLandFarmIssue:       "Demands concerning land rights and agricultural issues.",
	DemandPoliceBrutality:     "Protests against police misconduct and brutality.",
	DemandPoliticalBehavior:   "Demands related to political actions, behaviors, or policies.",
	DemandPriceIncreases:      "Protests against the rise in prices of goods and services.",
	DemandRemovalOfPolitician: "Demands for the removal of a specific political figure.",
}

// Label returns the human-readable demand name
func (d Demand) Label() string {
	return demandLabels[d]
}

// Description returns the sidebar description of the demand
func (d Demand) Description() string {
	return demandDescriptions[d]
}

// Slug returns the lower-case underscore form of the label, used in export file names
func (d Demand) Slug() string {
	return slugify(d.Label())
}

// ParseDemand accepts a column name ("demand_police_brutality"), a label
// ("Police Brutality") or a slug ("police_brutality").
func ParseDemand(s string) (Demand, error) {
	value := strings.TrimSpace(s)
	for _, d := range Demands {
		if value == string(d) || strings.EqualFold(value, d.Label()) || value == d.Slug() {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown demand: %q", s)
}

// ViolenceKind selects one of the four violence categories of the dashboard
type ViolenceKind string

const (
	ViolenceNone      ViolenceKind = "non_violent"
	ViolenceProtester ViolenceKind = "protester_violence"
	ViolenceState     ViolenceKind = "state_violence"
	ViolenceBoth      ViolenceKind = "both_violence"
)

// ViolenceKinds lists the violence categories in display order
var ViolenceKinds = []ViolenceKind{ViolenceNone, ViolenceProtester, ViolenceState, ViolenceBoth}

var violenceLabels = map[ViolenceKind]string{
	ViolenceNone:      "Non Violent",
	ViolenceProtester: "Protester Violence",
	ViolenceState:     "State Violence",
	ViolenceBoth:      "Both Violence",
}

var violenceTitles = map[ViolenceKind]string{
	ViolenceNone:      "Protests with Non-Violent Protesters",
	ViolenceProtester: "Protests with Protester Violence",
	ViolenceState:     "Protests with State Violence",
	ViolenceBoth:      "Protests with Both State and Protester Violence",
}

// Label returns the selector label of the violence category
func (v ViolenceKind) Label() string {
	return violenceLabels[v]
}

// Title returns the chart title of the violence category
func (v ViolenceKind) Title() string {
	return violenceTitles[v]
}

// Slug returns the chart title lower-cased with spaces replaced by underscores
func (v ViolenceKind) Slug() string {
	return strings.ToLower(strings.ReplaceAll(v.Title(), " ", "_"))
}

// ParseViolenceKind accepts the identifier ("state_violence") or the label ("State Violence")
func ParseViolenceKind(s string) (ViolenceKind, error) {
	value := strings.TrimSpace(s)
	for _, v := range ViolenceKinds {
		if value == string(v) || strings.EqualFold(value, v.Label()) {
			return v, nil
		}
	}
	return "", fmt.Errorf("unknown violence category: %q", s)
}

// Region naming. The encoders and the dataset know North America as "Canada";
// the prediction form and the dashboard display it under an alias.
const (
	CanadaRegion         = "Canada"
	CanadaFormLabel      = "N.America (Canada)"
	CanadaDashboardLabel = "N.America(Canada)"
)

// CanonicalRegion maps a displayed region name to the name used by the
// encoders and the dataset. Unknown names are returned unchanged.
func CanonicalRegion(name string) string {
	switch name {
	case CanadaFormLabel, CanadaDashboardLabel:
		return CanadaRegion
	}
	return name
}

// ProtestEvent is one row of the cleaned Mass Mobilization dataset
type ProtestEvent struct {
	Year              int             `json:"year"`
	Country           string          `json:"country"`
	Region            string          `json:"region"`
	ProtestDuration   float64         `json:"protest_duration"`
	Participants      float64         `json:"participants_numeric"`
	ProtesterViolence float64         `json:"protesterviolence"`
	Demands           map[Demand]bool `json:"demands"`
	ResponseBeatings  float64         `json:"response_beatings"`
	ResponseShootings float64         `json:"response_shootings"`
	ResponseKillings  float64         `json:"response_killings"`
}

// HasDemand reports whether the event carries the demand flag
func (e *ProtestEvent) HasDemand(d Demand) bool {
	return e.Demands[d]
}

// StateViolence reports whether the state responded with beatings, shootings or killings
func (e *ProtestEvent) StateViolence() bool {
	return e.ResponseBeatings+e.ResponseShootings+e.ResponseKillings > 0
}

// ViolentProtesters reports whether protesterviolence is 1
func (e *ProtestEvent) ViolentProtesters() bool {
	return e.ProtesterViolence == 1
}

// MatchesViolence reports whether the event falls into the violence category.
// A protesterviolence value other than 0 or 1 is neither non-violent nor violent.
func (e *ProtestEvent) MatchesViolence(kind ViolenceKind) bool {
	switch kind {
	case ViolenceNone:
		return e.ProtesterViolence == 0
	case ViolenceProtester:
		return e.ViolentProtesters()
	case ViolenceState:
		return e.StateViolence()
	case ViolenceBoth:
		return e.ViolentProtesters() && e.StateViolence()
	}
	return false
}

func slugify(s string) string {
	replacer := strings.NewReplacer("/", "_", " ", "_", "-", "_")
	return strings.ToLower(replacer.Replace(s))
}
