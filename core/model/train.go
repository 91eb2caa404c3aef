package model

import "time"

// FitnessState distinguishes a missing certificate from an expired one. Both
// floor FitnessDaysLeft to 0, only the state tells them apart.
type FitnessState int

const (
	FitnessUnknown FitnessState = iota
	FitnessValid
	FitnessExpired
)

func (s FitnessState) String() string {
	switch s {
	case FitnessValid:
		return "valid"
	case FitnessExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// TrainRecord is the working entity of one planning cycle. It is created by the
// engine for every resolved train id and filled in by each pipeline stage.
// Every field holds its documented default when a source has no data for the
// train.
type TrainRecord struct {
	TrainID string

	// Fitness
	FitnessValidTill   *time.Time
	FitnessState       FitnessState
	FitnessDaysLeft    int
	FitnessPriorityRaw float64

	// Work orders
	OpenWOCount int
	OpenWOHours float64
	// FirstOpenAsset and FirstOpenHours describe the first open order in input
	// order, used for explanations.
	FirstOpenAsset string
	FirstOpenHours float64

	// Branding
	BrandingHours float64

	// Mileage
	CumulativeKm float64
	DeltaKm      float64

	// Cleaning
	CleanAgeHours     float64
	CleanFreshnessRaw float64
	TodayCleanLoad    float64

	// Stabling
	Position        string
	HasPosition     bool
	LineID          string
	SlotIdx         *int
	SlotIdxAssigned int
	ShuntDepth      int

	// Scores
	FitnessScore      float64
	JobScore          float64
	BrandingScore     float64
	MileageScore      float64
	CleanTodayPenalty float64
	CleaningScoreRaw  float64
	CleaningScore     float64
	ShuntPenalty      float64
	PriorityScoreRaw  float64
	PriorityScore     float64
	Eligible          bool

	Reasons []Reason
}

// Impact marks whether a reason helps or hurts the induction case.
type Impact string

const (
	ImpactPositive Impact = "+"
	ImpactNegative Impact = "-"
	ImpactNeutral  Impact = ""
)

// Reason is one explanation line paired with the action it suggests.
type Reason struct {
	Impact         Impact `json:"impact"`
	Text           string `json:"text"`
	Recommendation string `json:"recommendation"`
}

// String renders the reason the way operators read it, impact marker first.
func (r Reason) String() string { return string(r.Impact) + r.Text }
